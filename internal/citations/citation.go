// Package citations manages the bibliography records that research runs
// accumulate, persisted in PostgreSQL.
package citations

import (
	"time"
)

// Citation is a stored source reference.
type Citation struct {
	ID          string         `json:"id"`
	Content     string         `json:"content"`
	SourceTitle string         `json:"source_title"`
	SourceURL   string         `json:"source_url,omitempty"`
	CaseNumber  string         `json:"case_number,omitempty"`
	PageNumber  *int           `json:"page_number,omitempty"`
	Confidence  float64        `json:"confidence"`
	Tags        []string       `json:"tags"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CreateRequest is the payload for registering a citation. Confidence
// defaults to 1.0 when omitted.
type CreateRequest struct {
	Content     string         `json:"content" validate:"required,min=1,max=5000"`
	SourceTitle string         `json:"source_title" validate:"required,min=1,max=500"`
	SourceURL   string         `json:"source_url,omitempty" validate:"omitempty,url,max=2000"`
	CaseNumber  string         `json:"case_number,omitempty" validate:"max=100"`
	PageNumber  *int           `json:"page_number,omitempty" validate:"omitempty,min=1"`
	Confidence  *float64       `json:"confidence,omitempty" validate:"omitempty,min=0,max=1"`
	Tags        []string       `json:"tags,omitempty" validate:"max=50"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// UpdateRequest is the payload for modifying a citation. Nil fields are
// left unchanged.
type UpdateRequest struct {
	Content     *string        `json:"content,omitempty" validate:"omitempty,min=1,max=5000"`
	SourceTitle *string        `json:"source_title,omitempty" validate:"omitempty,min=1,max=500"`
	SourceURL   *string        `json:"source_url,omitempty" validate:"omitempty,url,max=2000"`
	CaseNumber  *string        `json:"case_number,omitempty" validate:"omitempty,max=100"`
	PageNumber  *int           `json:"page_number,omitempty" validate:"omitempty,min=1"`
	Confidence  *float64       `json:"confidence,omitempty" validate:"omitempty,min=0,max=1"`
	Tags        []string       `json:"tags,omitempty" validate:"max=50"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Filter narrows citation listings. Tags match when the citation carries
// at least one of the listed tags.
type Filter struct {
	CaseNumber  string
	SourceTitle string
	Tags        []string
}
