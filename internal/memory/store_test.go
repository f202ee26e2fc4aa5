package memory

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/internal/config"
)

// fakeEmbedder maps keywords to fixed vectors so similarity is
// deterministic without a live embedding API.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		switch {
		case strings.Contains(text, "quantum"):
			out[i] = []float64{1, 0, 0}
		case strings.Contains(text, "biology"):
			out[i] = []float64{0, 1, 0}
		default:
			out[i] = []float64{0, 0, 1}
		}
	}
	return out, nil
}

func (fakeEmbedder) Dimensions() int { return 3 }

func newTestStore() *Store {
	return NewStore(fakeEmbedder{}, 0.3, 100)
}

func newTestSystem(store *Store) *System {
	cfg := &config.MemoryConfig{}
	if err := cfg.Finalize(); err != nil {
		panic(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSystem(store, cfg, logger)
}

func TestStoreAddAndQuery(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	_, err := store.Add(ctx, Entry{SessionID: "s1", Content: "quantum computing basics"})
	require.NoError(t, err)
	_, err = store.Add(ctx, Entry{SessionID: "s1", Content: "marine biology overview"})
	require.NoError(t, err)

	hits, err := store.Query(ctx, QueryParams{SessionID: "s1", Query: "quantum entanglement", Limit: 10})
	require.NoError(t, err)

	require.Len(t, hits, 1, "orthogonal entries should fall below the relevance floor")
	assert.Equal(t, "quantum computing basics", hits[0].Entry.Content)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
}

func TestStoreAddEmptyContent(t *testing.T) {
	store := newTestStore()

	_, err := store.Add(context.Background(), Entry{SessionID: "s1"})
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestStoreAddDefaults(t *testing.T) {
	store := newTestStore()

	entry, err := store.Add(context.Background(), Entry{SessionID: "s1", Content: "quantum"})
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, api.MemoryTypeSession, entry.MemoryType)
	assert.Equal(t, api.EntryTypeGeneral, entry.EntryType)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestQueryIncludesPersistentEntries(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	_, err := store.Add(ctx, Entry{
		SessionID:  "ignored",
		MemoryType: api.MemoryTypePersistent,
		Content:    "quantum reference material",
	})
	require.NoError(t, err)

	hits, err := store.Query(ctx, QueryParams{SessionID: "s1", Query: "quantum", Limit: 5})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, api.MemoryTypePersistent, hits[0].Entry.MemoryType)

	// A session-scoped query must not see the knowledge base.
	hits, err = store.Query(ctx, QueryParams{
		SessionID:  "s1",
		Query:      "quantum",
		MemoryType: api.MemoryTypeSession,
		Limit:      5,
	})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestCoreMemoryStoreInterface(t *testing.T) {
	store := newTestStore()

	require.NoError(t, store.Put("s1", map[string]any{"topic": "quantum"}))

	state, err := store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "quantum", state["topic"])

	require.NoError(t, store.Store("s1", "quantum finding", map[string]any{"entry_type": "research"}))

	results, err := store.Search("s1", "quantum", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "quantum finding", results[0].Content)

	require.NoError(t, store.Delete("s1", results[0].ID))
	assert.ErrorIs(t, store.Delete("s1", results[0].ID), ErrEntryNotFound)
}

func TestStoreEviction(t *testing.T) {
	store := NewStore(fakeEmbedder{}, 0.0, 2)
	ctx := context.Background()

	for _, content := range []string{"quantum one", "quantum two", "quantum three"} {
		_, err := store.Add(ctx, Entry{SessionID: "s1", Content: content})
		require.NoError(t, err)
	}

	hits, err := store.Query(ctx, QueryParams{SessionID: "s1", Query: "quantum", Limit: 10})
	require.NoError(t, err)
	require.Len(t, hits, 2, "oldest entry should have been evicted")

	for _, h := range hits {
		assert.NotEqual(t, "quantum one", h.Entry.Content)
	}
}

func TestStoreClearAndStats(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	_, err := store.Add(ctx, Entry{SessionID: "s1", Content: "quantum", EntryType: api.EntryTypeResearch})
	require.NoError(t, err)
	_, err = store.Add(ctx, Entry{SessionID: "s1", Content: "quantum again", EntryType: api.EntryTypeCitation})
	require.NoError(t, err)
	_, err = store.Add(ctx, Entry{SessionID: "s2", Content: "biology"})
	require.NoError(t, err)

	stats := store.Stats("")
	assert.Equal(t, 3, stats.TotalEntries)
	assert.Equal(t, 2, stats.Sessions)
	assert.Equal(t, 1, stats.EntriesByType[string(api.EntryTypeResearch)])
	require.NotNil(t, stats.NewestEntry)

	removed := store.Clear("s1")
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, store.Stats("").TotalEntries)
}

func TestSystemClearSessionConfirmation(t *testing.T) {
	store := newTestStore()
	system := newTestSystem(store)

	_, err := store.Add(context.Background(), Entry{SessionID: "s1", Content: "quantum"})
	require.NoError(t, err)

	_, err = system.ClearSession("s1", "wrong")
	assert.ErrorIs(t, err, ErrConfirmationMismatch)

	removed, err := system.ClearSession("s1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestSystemRecordExchangeTruncatesLongContent(t *testing.T) {
	store := newTestStore()
	system := newTestSystem(store)
	ctx := context.Background()

	long := strings.Repeat("q", 2500)
	require.NoError(t, system.RecordExchange(ctx, "s1", api.EntryTypeResearch, long))

	hits, err := store.Query(ctx, QueryParams{SessionID: "s1", Query: "anything", Limit: 1, MinScore: 0.01})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Len(t, hits[0].Entry.Content, 1000)
}

func TestQueryFiltersByEntryTypeAndSource(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	_, err := store.Add(ctx, Entry{
		SessionID: "s1", Content: "quantum findings",
		EntryType: api.EntryTypeResearch, Source: "researcher_balanced",
	})
	require.NoError(t, err)
	_, err = store.Add(ctx, Entry{
		SessionID: "s1", Content: "quantum aside",
		EntryType: api.EntryTypeGeneral, Source: "cli",
	})
	require.NoError(t, err)

	hits, err := store.Query(ctx, QueryParams{
		SessionID: "s1", Query: "quantum", EntryType: api.EntryTypeResearch, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "quantum findings", hits[0].Entry.Content)

	hits, err = store.Query(ctx, QueryParams{
		SessionID: "s1", Query: "quantum", Source: "cli", Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "quantum aside", hits[0].Entry.Content)
}

func TestStoreRecentReturnsNewestFirst(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	for _, content := range []string{"quantum one", "quantum two", "quantum three"} {
		_, err := store.Add(ctx, Entry{SessionID: "s1", Content: content})
		require.NoError(t, err)
	}

	entries := store.Recent("s1", 2)
	require.Len(t, entries, 2)
	assert.Equal(t, "quantum three", entries[0].Content)
	assert.Equal(t, "quantum two", entries[1].Content)

	assert.Empty(t, store.Recent("unknown", 5))
}

func TestSystemStoreEntryValidatesEnums(t *testing.T) {
	system := newTestSystem(newTestStore())

	_, err := system.StoreEntry(context.Background(), StoreRequest{
		SessionID:  "s1",
		Content:    "quantum",
		MemoryType: "archive",
	})
	assert.Error(t, err)
}
