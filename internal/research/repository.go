package research

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deepresearch-labs/deep-research/pkg/pagination"
)

// Repository persists research tasks in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a task repository over the given database.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const taskColumns = `
	id, session_id, query, status, progress, report, error, agents_used,
	event_count, created_at, started_at, completed_at`

// Create inserts a queued task and returns it.
func (r *Repository) Create(ctx context.Context, sessionID, query string) (Task, error) {
	t := Task{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Query:     query,
		Status:    StatusQueued,
		CreatedAt: time.Now().UTC(),
	}

	stmt := `
		INSERT INTO research_tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, stmt,
		t.ID, t.SessionID, t.Query, t.Status, t.Progress, t.Report, t.Error, []byte("[]"),
		t.EventCount, t.CreatedAt, t.StartedAt, t.CompletedAt,
	)
	if err != nil {
		return Task{}, fmt.Errorf("insert research task: %w", err)
	}

	return t, nil
}

// Get fetches a task by id.
func (r *Repository) Get(ctx context.Context, id string) (Task, error) {
	stmt := `SELECT ` + taskColumns + ` FROM research_tasks WHERE id = $1`

	t, err := scanTask(r.db.QueryRowContext(ctx, stmt, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrTaskNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("get research task: %w", err)
	}

	return t, nil
}

// List returns a page of tasks matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter TaskFilter, page pagination.PageRequest) (pagination.PageResult[Task], error) {
	var (
		conditions []string
		args       []any
	)

	if filter.SessionID != "" {
		args = append(args, filter.SessionID)
		conditions = append(conditions, fmt.Sprintf("session_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM research_tasks`+where, args...).Scan(&total); err != nil {
		return pagination.PageResult[Task]{}, fmt.Errorf("count research tasks: %w", err)
	}

	stmt := fmt.Sprintf(
		`SELECT `+taskColumns+` FROM research_tasks%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	args = append(args, page.PageSize, page.Offset())

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return pagination.PageResult[Task]{}, fmt.Errorf("list research tasks: %w", err)
	}
	defer rows.Close()

	var items []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return pagination.PageResult[Task]{}, fmt.Errorf("scan research task: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return pagination.PageResult[Task]{}, fmt.Errorf("iterate research tasks: %w", err)
	}

	return pagination.NewPageResult(items, total, page.Page, page.PageSize), nil
}

// MarkRunning transitions a task to the running state.
func (r *Repository) MarkRunning(ctx context.Context, id string) error {
	stmt := `
		UPDATE research_tasks
		SET status = $1, started_at = $2
		WHERE id = $3 AND status = $4`

	result, err := r.db.ExecContext(ctx, stmt, StatusRunning, time.Now().UTC(), id, StatusQueued)
	if err != nil {
		return fmt.Errorf("mark task running: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// SetProgress records how far a running task has advanced, 0 to 100.
func (r *Repository) SetProgress(ctx context.Context, id string, progress float64) error {
	stmt := `UPDATE research_tasks SET progress = $1 WHERE id = $2 AND status = $3`

	_, err := r.db.ExecContext(ctx, stmt, progress, id, StatusRunning)
	if err != nil {
		return fmt.Errorf("set task progress: %w", err)
	}
	return nil
}

// Complete records a successful run with its report.
func (r *Repository) Complete(ctx context.Context, id, report string, agentsUsed []string, eventCount int) error {
	agents, err := json.Marshal(agentsUsed)
	if err != nil {
		return fmt.Errorf("encode agents list: %w", err)
	}

	stmt := `
		UPDATE research_tasks
		SET status = $1, progress = 100, report = $2, agents_used = $3, event_count = $4, completed_at = $5
		WHERE id = $6`

	_, err = r.db.ExecContext(ctx, stmt, StatusCompleted, report, agents, eventCount, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

// Fail records a failed run with its error message.
func (r *Repository) Fail(ctx context.Context, id, message string) error {
	stmt := `
		UPDATE research_tasks
		SET status = $1, error = $2, completed_at = $3
		WHERE id = $4`

	_, err := r.db.ExecContext(ctx, stmt, StatusFailed, message, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("fail task: %w", err)
	}
	return nil
}

// Cancel transitions a queued task to cancelled. Running or finished
// tasks cannot be cancelled.
func (r *Repository) Cancel(ctx context.Context, id string) error {
	stmt := `
		UPDATE research_tasks
		SET status = $1, completed_at = $2
		WHERE id = $3 AND status = $4`

	result, err := r.db.ExecContext(ctx, stmt, StatusCancelled, time.Now().UTC(), id, StatusQueued)
	if err != nil {
		return fmt.Errorf("cancel task: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return getErr
		}
		return ErrNotCancellable
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var (
		t      Task
		agents []byte
	)

	err := row.Scan(
		&t.ID, &t.SessionID, &t.Query, &t.Status, &t.Progress, &t.Report, &t.Error, &agents,
		&t.EventCount, &t.CreatedAt, &t.StartedAt, &t.CompletedAt,
	)
	if err != nil {
		return Task{}, err
	}

	if len(agents) > 0 {
		if err := json.Unmarshal(agents, &t.AgentsUsed); err != nil {
			return Task{}, fmt.Errorf("decode agents list: %w", err)
		}
	}

	return t, nil
}
