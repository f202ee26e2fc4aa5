package research

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

func newTestMux(t *testing.T, store TaskStore, runner Runner, queueSize int) (*http.ServeMux, *Executor) {
	t.Helper()

	executor := newTestExecutor(t, store, runner, queueSize)
	handler := NewHandler(
		executor, store, validator.New(),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		executor.logger,
	)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux, executor
}

func submitBody(query string) *strings.Reader {
	return strings.NewReader(`{"query": "` + query + `"}`)
}

func TestHandlerSubmitCreatesTask(t *testing.T) {
	store := newFakeTaskStore()
	mux, _ := newTestMux(t, store, &stubRunner{}, 4)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/research", submitBody("quantum computing trends"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.TaskID)
	assert.Equal(t, StatusQueued, resp.Status)

	task, err := store.Get(context.Background(), resp.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "quantum computing trends", task.Query)
}

func TestHandlerSubmitRejectsShortQuery(t *testing.T) {
	mux, _ := newTestMux(t, newFakeTaskStore(), &stubRunner{}, 4)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/research", submitBody("hi"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerSubmitQueueFull(t *testing.T) {
	store := newFakeTaskStore()
	// The executor is never started, so the single slot stays occupied.
	mux, _ := newTestMux(t, store, &stubRunner{}, 1)

	first := httptest.NewRequest(http.MethodPost, "/api/v1/research", submitBody("first long query"))
	first.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, first)
	require.Equal(t, http.StatusCreated, rec.Code)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/research", submitBody("second long query"))
	second.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlerGetTask(t *testing.T) {
	store := newFakeTaskStore()
	mux, _ := newTestMux(t, store, &stubRunner{}, 4)

	task, err := store.Create(context.Background(), "s1", "quantum computing")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/research/"+task.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, task.ID, resp.Task.ID)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/research/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerListRejectsUnknownStatus(t *testing.T) {
	mux, _ := newTestMux(t, newFakeTaskStore(), &stubRunner{}, 4)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/research?status=paused", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
