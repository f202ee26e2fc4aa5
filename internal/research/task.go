// Package research runs the multi-agent research pipeline: parallel
// temperature-varied researchers feeding critics and a report writer,
// executed as queued tasks with progress pushed over WebSocket.
package research

import (
	"time"

	"github.com/deepresearch-labs/deep-research/internal/api"
)

// TaskStatus tracks a research task through its lifecycle.
type TaskStatus string

// Task status constants.
const (
	StatusQueued    TaskStatus = "queued"
	StatusRunning   TaskStatus = "running"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
	StatusCancelled TaskStatus = "cancelled"
)

// Terminal reports whether the status is an end state.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Task is a persisted research run.
type Task struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"session_id"`
	Query       string     `json:"query"`
	Status      TaskStatus `json:"status"`
	Progress    float64    `json:"progress"`
	Report      string     `json:"report,omitempty"`
	Error       string     `json:"error,omitempty"`
	AgentsUsed  []string   `json:"agents_used,omitempty"`
	EventCount  int        `json:"event_count"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SubmitRequest is the payload for starting a research run.
type SubmitRequest struct {
	Query     string `json:"query" validate:"required,min=3,max=4000"`
	SessionID string `json:"session_id,omitempty"`
}

// SubmitResponse acknowledges a queued research task.
type SubmitResponse struct {
	api.BaseResponse
	TaskID    string     `json:"task_id"`
	SessionID string     `json:"session_id"`
	Status    TaskStatus `json:"status"`
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	SessionID string
	Status    TaskStatus
}
