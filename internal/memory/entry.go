// Package memory implements the embedding-backed memory store shared by
// the HTTP API and the agent pipeline. A single store serves both
// short-lived session memory and the persistent knowledge base.
package memory

import (
	"time"

	"github.com/deepresearch-labs/deep-research/internal/api"
)

// PersistentSession is the reserved session key holding knowledge-base
// entries that outlive any single research session.
const PersistentSession = "persistent"

// Entry is a stored memory record with its embedding.
type Entry struct {
	ID         string         `json:"id"`
	SessionID  string         `json:"session_id"`
	MemoryType api.MemoryType `json:"memory_type"`
	EntryType  api.EntryType  `json:"entry_type"`
	Content    string         `json:"content"`
	Source     string         `json:"source,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`

	embedding []float64
}

// SearchHit pairs an entry with its relevance score for a query.
type SearchHit struct {
	Entry Entry   `json:"entry"`
	Score float64 `json:"relevance_score"`
}

// Stats summarizes the contents of the store.
type Stats struct {
	TotalEntries      int            `json:"total_entries"`
	SessionEntries    int            `json:"session_entries"`
	PersistentEntries int            `json:"persistent_entries"`
	Sessions          int            `json:"sessions"`
	EntriesByType     map[string]int `json:"entries_by_type"`
	OldestEntry       *time.Time     `json:"oldest_entry,omitempty"`
	NewestEntry       *time.Time     `json:"newest_entry,omitempty"`
}

// StoreRequest is the payload for storing a memory entry.
type StoreRequest struct {
	SessionID  string         `json:"session_id" validate:"required"`
	Content    string         `json:"content" validate:"required,min=1,max=50000"`
	MemoryType api.MemoryType `json:"memory_type,omitempty"`
	EntryType  api.EntryType  `json:"entry_type,omitempty"`
	Source     string         `json:"source,omitempty" validate:"omitempty,max=100"`
	Tags       []string       `json:"tags,omitempty" validate:"max=20"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// SearchRequest describes a semantic memory retrieval, built from query
// parameters on the list endpoint.
type SearchRequest struct {
	Query      string         `json:"query" validate:"required,min=1,max=2000"`
	SessionID  string         `json:"session_id,omitempty"`
	MemoryType api.MemoryType `json:"memory_type,omitempty"`
	EntryType  api.EntryType  `json:"entry_type,omitempty"`
	Source     string         `json:"source,omitempty"`
	Limit      int            `json:"limit,omitempty" validate:"omitempty,min=1"`
	MinScore   float64        `json:"min_relevance_score,omitempty" validate:"omitempty,min=0,max=1"`
}

// ClearRequest is the payload for clearing a session. Confirm must match
// the session id exactly.
type ClearRequest struct {
	Confirm string `json:"confirm" validate:"required"`
}
