package memory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepresearch-labs/deep-research/pkg/pagination"
)

func newTestHandler(t *testing.T) (*Handler, *Store) {
	t.Helper()

	store := newTestStore()
	system := newTestSystem(store)
	cfg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

	logger := system.logger
	return NewHandler(system, validator.New(), cfg, logger), store
}

func TestHandlerStoreEntry(t *testing.T) {
	handler, _ := newTestHandler(t)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	body := `{
		"session_id": "s1",
		"content": "quantum computing basics",
		"entry_type": "research",
		"source": "cli",
		"tags": ["physics"]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/memory", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp storeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Entry.ID)
	assert.Equal(t, "cli", resp.Entry.Source)
}

func TestHandlerSearchReturnsPaginatedEntries(t *testing.T) {
	handler, store := newTestHandler(t)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	for _, content := range []string{"quantum computing", "quantum entanglement"} {
		_, err := store.Add(context.Background(), Entry{SessionID: "s1", Content: content})
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/memory?query=quantum&session_id=s1&page=1&page_size=20", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp pagination.PageResult[SearchHit]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
	assert.False(t, resp.HasNext)
	require.Len(t, resp.Data, 2)
}

func TestHandlerSearchFiltersByEntryType(t *testing.T) {
	handler, store := newTestHandler(t)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	_, err := store.Add(context.Background(), Entry{
		SessionID: "s1", Content: "quantum findings", EntryType: "research",
	})
	require.NoError(t, err)
	_, err = store.Add(context.Background(), Entry{
		SessionID: "s1", Content: "quantum aside", EntryType: "general",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/memory?query=quantum&session_id=s1&entry_type=research", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp pagination.PageResult[SearchHit]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "quantum findings", resp.Data[0].Entry.Content)
}

func TestHandlerSearchRequiresQuery(t *testing.T) {
	handler, _ := newTestHandler(t)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/memory", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
