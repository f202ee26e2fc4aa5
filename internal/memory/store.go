package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/agentmesh/core"

	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/internal/embedding"
)

// Store is an in-process vector memory store. It satisfies the agent
// framework's core.MemoryStore so the same entries that the REST API
// manages are searchable by agent tools during a run.
type Store struct {
	mu            sync.RWMutex
	state         map[string]map[string]any
	entries       map[string][]*Entry
	embedder      embedding.Embedder
	minScore      float64
	maxPerSession int
}

var _ core.MemoryStore = (*Store)(nil)

// NewStore creates a memory store backed by the given embedder.
func NewStore(embedder embedding.Embedder, minScore float64, maxPerSession int) *Store {
	return &Store{
		state:         make(map[string]map[string]any),
		entries:       make(map[string][]*Entry),
		embedder:      embedder,
		minScore:      minScore,
		maxPerSession: maxPerSession,
	}
}

// Get returns a copy of the session state map.
func (s *Store) Get(sessionID string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.state[sessionID]))
	for k, v := range s.state[sessionID] {
		out[k] = v
	}
	return out, nil
}

// Put merges the delta into the session state.
func (s *Store) Put(sessionID string, delta map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state[sessionID] == nil {
		s.state[sessionID] = make(map[string]any, len(delta))
	}
	for k, v := range delta {
		s.state[sessionID][k] = v
	}
	return nil
}

// Store embeds the content and saves it as a session entry. Entry type
// and source may be carried in the metadata map; unrecognized values
// fall back to general entries.
func (s *Store) Store(sessionID string, content string, metadata map[string]any) error {
	entryType := api.EntryTypeGeneral
	if v, ok := metadata["entry_type"].(string); ok {
		if et := api.EntryType(v); et.Validate() == nil {
			entryType = et
		}
	}
	source, _ := metadata["source"].(string)

	_, err := s.Add(context.Background(), Entry{
		SessionID:  sessionID,
		MemoryType: api.MemoryTypeSession,
		EntryType:  entryType,
		Content:    content,
		Source:     source,
		Metadata:   metadata,
	})
	return err
}

// Search embeds the query and returns the best-scoring entries for the
// session in core.SearchResult form.
func (s *Store) Search(sessionID string, query string, limit int) ([]core.SearchResult, error) {
	hits, err := s.Query(context.Background(), QueryParams{
		SessionID: sessionID,
		Query:     query,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	results := make([]core.SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, core.SearchResult{
			ID:       h.Entry.ID,
			Content:  h.Entry.Content,
			Score:    h.Score,
			Metadata: h.Entry.Metadata,
		})
	}
	return results, nil
}

// Delete removes an entry from the session.
func (s *Store) Delete(sessionID string, memoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.entries[sessionID]
	for i, e := range list {
		if e.ID == memoryID {
			s.entries[sessionID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

// Add embeds and stores a fully specified entry, returning it with its
// assigned id and timestamp.
func (s *Store) Add(ctx context.Context, entry Entry) (Entry, error) {
	if entry.Content == "" {
		return Entry{}, ErrEmptyContent
	}

	vectors, err := s.embedder.Embed(ctx, []string{entry.Content})
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	entry.embedding = vectors[0]
	if entry.MemoryType == "" {
		entry.MemoryType = api.MemoryTypeSession
	}
	if entry.EntryType == "" {
		entry.EntryType = api.EntryTypeGeneral
	}

	key := entry.SessionID
	if entry.MemoryType == api.MemoryTypePersistent {
		key = PersistentSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = append(s.entries[key], &entry)
	if s.maxPerSession > 0 && len(s.entries[key]) > s.maxPerSession {
		// Evict the oldest entries first.
		overflow := len(s.entries[key]) - s.maxPerSession
		s.entries[key] = s.entries[key][overflow:]
	}

	return entry, nil
}

// QueryParams narrows a semantic query over the store.
type QueryParams struct {
	SessionID  string
	Query      string
	MemoryType api.MemoryType
	EntryType  api.EntryType
	Source     string
	Limit      int
	MinScore   float64
}

// Query embeds the query text and ranks matching entries by cosine
// similarity. Session queries also consider persistent entries unless a
// memory type filter says otherwise. Entry type and source filters are
// applied after ranking.
func (s *Store) Query(ctx context.Context, p QueryParams) ([]SearchHit, error) {
	if p.Query == "" {
		return nil, ErrEmptyContent
	}
	if p.Limit <= 0 {
		p.Limit = 5
	}
	minScore := p.MinScore
	if minScore <= 0 {
		minScore = s.minScore
	}

	vectors, err := s.embedder.Embed(ctx, []string{p.Query})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	queryVec := vectors[0]

	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []*Entry
	switch p.MemoryType {
	case api.MemoryTypePersistent:
		candidates = s.entries[PersistentSession]
	case api.MemoryTypeSession, api.MemoryTypeTemporary:
		candidates = s.entries[p.SessionID]
	default:
		candidates = append(candidates, s.entries[p.SessionID]...)
		if p.SessionID != PersistentSession {
			candidates = append(candidates, s.entries[PersistentSession]...)
		}
	}

	hits := make([]SearchHit, 0, len(candidates))
	for _, e := range candidates {
		if p.MemoryType != "" && e.MemoryType != p.MemoryType {
			continue
		}
		if p.EntryType != "" && e.EntryType != p.EntryType {
			continue
		}
		if p.Source != "" && e.Source != p.Source {
			continue
		}
		score := embedding.Cosine(queryVec, e.embedding)
		if score < minScore {
			continue
		}
		hits = append(hits, SearchHit{Entry: *e, Score: score})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > p.Limit {
		hits = hits[:p.Limit]
	}

	return hits, nil
}

// Recent returns the newest entries for a session, newest first. Used by
// the recall tool when an agent wants context without a search query.
func (s *Store) Recent(sessionID string, limit int) []Entry {
	if limit <= 0 {
		limit = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.entries[sessionID]
	out := make([]Entry, 0, limit)
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *list[i])
	}
	return out
}

// Remove deletes an entry by id, searching every session.
func (s *Store) Remove(memoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, list := range s.entries {
		for i, e := range list {
			if e.ID == memoryID {
				s.entries[key] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return ErrEntryNotFound
}

// Clear drops all entries and state for a session, returning the number
// of entries removed.
func (s *Store) Clear(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries[sessionID])
	delete(s.entries, sessionID)
	delete(s.state, sessionID)
	return n
}

// Stats summarizes stored entries, optionally scoped to one session.
func (s *Store) Stats(sessionID string) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{EntriesByType: make(map[string]int)}

	collect := func(key string, list []*Entry) {
		for _, e := range list {
			stats.TotalEntries++
			if key == PersistentSession {
				stats.PersistentEntries++
			} else {
				stats.SessionEntries++
			}
			stats.EntriesByType[string(e.EntryType)]++
			if stats.OldestEntry == nil || e.CreatedAt.Before(*stats.OldestEntry) {
				t := e.CreatedAt
				stats.OldestEntry = &t
			}
			if stats.NewestEntry == nil || e.CreatedAt.After(*stats.NewestEntry) {
				t := e.CreatedAt
				stats.NewestEntry = &t
			}
		}
	}

	if sessionID != "" {
		collect(sessionID, s.entries[sessionID])
		if sessionID != PersistentSession {
			stats.Sessions = 1
		}
		return stats
	}

	for key, list := range s.entries {
		if key != PersistentSession && len(list) > 0 {
			stats.Sessions++
		}
		collect(key, list)
	}
	return stats
}
