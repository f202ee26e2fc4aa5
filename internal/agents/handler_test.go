package agents

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/pkg/pagination"
)

func newTestMux(system *System) *http.ServeMux {
	cfg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
	mux := http.NewServeMux()
	NewHandler(system, cfg, system.logger).RegisterRoutes(mux)
	return mux
}

func TestHandlerListStatusFilter(t *testing.T) {
	system := newTestSystem()
	system.Register(Agent{Name: "writer"})
	system.Register(Agent{Name: "critic"})
	system.MarkRunning("writer")

	mux := newTestMux(system)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/agents?status=running", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var result pagination.PageResult[Agent]
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Total != 1 || len(result.Data) != 1 {
		t.Fatalf("got %d agents, expected 1", result.Total)
	}
	if result.Data[0].Name != "writer" || result.Data[0].Status != api.AgentStatusRunning {
		t.Errorf("unexpected agent: %+v", result.Data[0])
	}
}

func TestHandlerListRejectsUnknownStatus(t *testing.T) {
	mux := newTestMux(newTestSystem())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/agents?status=sleeping", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, expected 400", rec.Code)
	}
}
