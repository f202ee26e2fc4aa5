package research

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/pkg/decode"
	"github.com/deepresearch-labs/deep-research/pkg/handlers"
	"github.com/deepresearch-labs/deep-research/pkg/pagination"
)

// Handler exposes research task operations over HTTP.
type Handler struct {
	executor   *Executor
	store      TaskStore
	validate   *validator.Validate
	pagination pagination.Config
	logger     *slog.Logger
}

// NewHandler creates a research HTTP handler.
func NewHandler(executor *Executor, store TaskStore, validate *validator.Validate, paginationCfg pagination.Config, logger *slog.Logger) *Handler {
	return &Handler{
		executor:   executor,
		store:      store,
		validate:   validate,
		pagination: paginationCfg,
		logger:     logger.With("handler", "research"),
	}
}

// RegisterRoutes attaches research endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/research", h.submit)
	mux.HandleFunc("GET /api/v1/research", h.list)
	mux.HandleFunc("GET /api/v1/research/{id}", h.get)
	mux.HandleFunc("DELETE /api/v1/research/{id}", h.cancel)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	req, err := decode.Decode[SubmitRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		handlers.RespondValidation(w, h.logger, err)
		return
	}

	task, err := h.executor.Submit(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, SubmitResponse{
		BaseResponse: api.NewBaseResponse("research task queued"),
		TaskID:       task.ID,
		SessionID:    task.SessionID,
		Status:       task.Status,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := TaskFilter{SessionID: query.Get("session_id")}
	if status := query.Get("status"); status != "" {
		filter.Status = TaskStatus(status)
		switch filter.Status {
		case StatusQueued, StatusRunning, StatusCompleted, StatusFailed, StatusCancelled:
		default:
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidStatus)
			return
		}
	}

	page := pagination.PageRequestFromQuery(query, h.pagination)

	result, err := h.store.List(r.Context(), filter, page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

type taskResponse struct {
	api.BaseResponse
	Task Task `json:"task"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	task, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, taskResponse{
		BaseResponse: api.NewBaseResponse("research task"),
		Task:         task,
	})
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.store.Cancel(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, api.NewBaseResponse("research task cancelled"))
}
