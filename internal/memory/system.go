package memory

import (
	"context"
	"log/slog"

	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/internal/config"
)

// System coordinates memory operations between the HTTP handler, the
// CLI, and the agent tools.
type System struct {
	store  *Store
	cfg    *config.MemoryConfig
	logger *slog.Logger
}

// NewSystem creates a memory system around the shared store.
func NewSystem(store *Store, cfg *config.MemoryConfig, logger *slog.Logger) *System {
	return &System{
		store:  store,
		cfg:    cfg,
		logger: logger.With("system", "memory"),
	}
}

// Store returns the underlying store, for wiring into the agent runtime.
func (s *System) Store() *Store {
	return s.store
}

// StoreEntry validates and stores a new memory entry.
func (s *System) StoreEntry(ctx context.Context, req StoreRequest) (Entry, error) {
	if req.MemoryType != "" {
		if err := req.MemoryType.Validate(); err != nil {
			return Entry{}, err
		}
	}
	if req.EntryType != "" {
		if err := req.EntryType.Validate(); err != nil {
			return Entry{}, err
		}
	}

	entry, err := s.store.Add(ctx, Entry{
		SessionID:  req.SessionID,
		MemoryType: req.MemoryType,
		EntryType:  req.EntryType,
		Content:    req.Content,
		Source:     req.Source,
		Tags:       req.Tags,
		Metadata:   req.Metadata,
	})
	if err != nil {
		return Entry{}, err
	}

	s.logger.Debug("stored memory entry",
		"id", entry.ID,
		"session", entry.SessionID,
		"type", entry.EntryType,
	)
	return entry, nil
}

// SearchEntries runs a semantic query against the store.
func (s *System) SearchEntries(ctx context.Context, req SearchRequest) ([]SearchHit, error) {
	if req.MemoryType != "" {
		if err := req.MemoryType.Validate(); err != nil {
			return nil, err
		}
	}
	if req.EntryType != "" {
		if err := req.EntryType.Validate(); err != nil {
			return nil, err
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	return s.store.Query(ctx, QueryParams{
		SessionID:  req.SessionID,
		Query:      req.Query,
		MemoryType: req.MemoryType,
		EntryType:  req.EntryType,
		Source:     req.Source,
		Limit:      limit,
		MinScore:   req.MinScore,
	})
}

// DeleteEntry removes a single entry by id.
func (s *System) DeleteEntry(memoryID string) error {
	return s.store.Remove(memoryID)
}

// ClearSession removes every entry for a session. The confirm value must
// repeat the session id to guard against accidental deletion.
func (s *System) ClearSession(sessionID, confirm string) (int, error) {
	if confirm != sessionID {
		return 0, ErrConfirmationMismatch
	}

	n := s.store.Clear(sessionID)
	s.logger.Info("cleared session memory", "session", sessionID, "removed", n)
	return n, nil
}

// Stats reports store contents, optionally scoped to one session.
func (s *System) Stats(sessionID string) Stats {
	return s.store.Stats(sessionID)
}

// RecordExchange stores a conversation turn for later retrieval. Used by
// the research executor to persist the query and the report summary.
// Long content is truncated to the configured summary length.
func (s *System) RecordExchange(ctx context.Context, sessionID string, entryType api.EntryType, content string) error {
	if s.cfg.SummaryMaxChars > 0 && len(content) > s.cfg.SummaryMaxChars {
		content = content[:s.cfg.SummaryMaxChars]
	}

	_, err := s.store.Add(ctx, Entry{
		SessionID:  sessionID,
		MemoryType: api.MemoryTypeSession,
		EntryType:  entryType,
		Content:    content,
	})
	return err
}
