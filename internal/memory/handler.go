package memory

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/pkg/decode"
	"github.com/deepresearch-labs/deep-research/pkg/handlers"
	"github.com/deepresearch-labs/deep-research/pkg/pagination"
)

// Handler exposes memory operations over HTTP.
type Handler struct {
	system     *System
	validate   *validator.Validate
	pagination pagination.Config
	logger     *slog.Logger
}

// NewHandler creates a memory HTTP handler.
func NewHandler(system *System, validate *validator.Validate, paginationCfg pagination.Config, logger *slog.Logger) *Handler {
	return &Handler{
		system:     system,
		validate:   validate,
		pagination: paginationCfg,
		logger:     logger.With("handler", "memory"),
	}
}

// RegisterRoutes attaches memory endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/memory", h.store)
	mux.HandleFunc("GET /api/v1/memory", h.search)
	mux.HandleFunc("GET /api/v1/memory/stats", h.stats)
	mux.HandleFunc("DELETE /api/v1/memory/{id}", h.delete)
	mux.HandleFunc("DELETE /api/v1/memory/session/{session_id}", h.clearSession)
}

type storeResponse struct {
	api.BaseResponse
	Entry Entry `json:"entry"`
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) {
	req, err := decode.Decode[StoreRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		handlers.RespondValidation(w, h.logger, err)
		return
	}

	entry, err := h.system.StoreEntry(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, storeResponse{
		BaseResponse: api.NewBaseResponse("memory entry stored"),
		Entry:        entry,
	})
}

// search lists entries matching the query parameters as one page of
// ranked results.
func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := pagination.PageRequestFromQuery(query, h.pagination)

	req := SearchRequest{
		Query:      query.Get("query"),
		SessionID:  query.Get("session_id"),
		MemoryType: api.MemoryType(query.Get("memory_type")),
		EntryType:  api.EntryType(query.Get("entry_type")),
		Source:     query.Get("source"),
		// Rank enough entries to fill every page up to the requested one.
		Limit: page.Page * page.PageSize,
	}
	if err := h.validate.Struct(req); err != nil {
		handlers.RespondValidation(w, h.logger, err)
		return
	}

	hits, err := h.system.SearchEntries(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, pagination.Paginate(hits, page))
}

type statsResponse struct {
	api.BaseResponse
	Stats Stats `json:"stats"`
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")

	handlers.RespondJSON(w, http.StatusOK, statsResponse{
		BaseResponse: api.NewBaseResponse("memory stats"),
		Stats:        h.system.Stats(sessionID),
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.system.DeleteEntry(id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, api.NewBaseResponse("memory entry deleted"))
}

type clearResponse struct {
	api.BaseResponse
	Removed int `json:"removed"`
}

func (h *Handler) clearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	req, err := decode.Decode[ClearRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		handlers.RespondValidation(w, h.logger, err)
		return
	}

	removed, err := h.system.ClearSession(sessionID, req.Confirm)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, clearResponse{
		BaseResponse: api.NewBaseResponse("session memory cleared"),
		Removed:      removed,
	})
}
