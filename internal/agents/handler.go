package agents

import (
	"log/slog"
	"net/http"

	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/pkg/handlers"
	"github.com/deepresearch-labs/deep-research/pkg/pagination"
)

// Handler exposes the agent registry over HTTP.
type Handler struct {
	system     *System
	pagination pagination.Config
	logger     *slog.Logger
}

// NewHandler creates an agents HTTP handler.
func NewHandler(system *System, paginationCfg pagination.Config, logger *slog.Logger) *Handler {
	return &Handler{
		system:     system,
		pagination: paginationCfg,
		logger:     logger.With("handler", "agents"),
	}
}

// RegisterRoutes attaches agent endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/agents", h.list)
	mux.HandleFunc("GET /api/v1/agents/stats", h.stats)
	mux.HandleFunc("GET /api/v1/agents/{name}", h.get)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	status := api.AgentStatus(query.Get("status"))
	if status != "" {
		if err := status.Validate(); err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
	}

	page := pagination.PageRequestFromQuery(query, h.pagination)
	result := pagination.Paginate(h.system.List(status), page)
	handlers.RespondJSON(w, http.StatusOK, result)
}

type agentResponse struct {
	api.BaseResponse
	Agent Agent `json:"agent"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	agent, err := h.system.Get(r.PathValue("name"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, agentResponse{
		BaseResponse: api.NewBaseResponse("agent"),
		Agent:        agent,
	})
}

type statsResponse struct {
	api.BaseResponse
	Stats Stats `json:"stats"`
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, statsResponse{
		BaseResponse: api.NewBaseResponse("agent stats"),
		Stats:        h.system.Stats(),
	})
}
