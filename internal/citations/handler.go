package citations

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/pkg/decode"
	"github.com/deepresearch-labs/deep-research/pkg/handlers"
	"github.com/deepresearch-labs/deep-research/pkg/pagination"
)

// Handler exposes citation CRUD over HTTP.
type Handler struct {
	repo       *Repository
	validate   *validator.Validate
	pagination pagination.Config
	logger     *slog.Logger
}

// NewHandler creates a citation HTTP handler.
func NewHandler(repo *Repository, validate *validator.Validate, paginationCfg pagination.Config, logger *slog.Logger) *Handler {
	return &Handler{
		repo:       repo,
		validate:   validate,
		pagination: paginationCfg,
		logger:     logger.With("handler", "citations"),
	}
}

// RegisterRoutes attaches citation endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/citations", h.create)
	mux.HandleFunc("GET /api/v1/citations", h.list)
	mux.HandleFunc("GET /api/v1/citations/{id}", h.get)
	mux.HandleFunc("PUT /api/v1/citations/{id}", h.update)
	mux.HandleFunc("DELETE /api/v1/citations/{id}", h.delete)
}

type citationResponse struct {
	api.BaseResponse
	Citation Citation `json:"citation"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, err := decode.Decode[CreateRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		handlers.RespondValidation(w, h.logger, err)
		return
	}

	citation, err := h.repo.Create(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, citationResponse{
		BaseResponse: api.NewBaseResponse("citation created"),
		Citation:     citation,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := Filter{
		CaseNumber:  query.Get("case_number"),
		SourceTitle: query.Get("source_title"),
		Tags:        query["tag"],
	}

	page := pagination.PageRequestFromQuery(query, h.pagination)

	result, err := h.repo.List(r.Context(), filter, page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	citation, err := h.repo.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, citationResponse{
		BaseResponse: api.NewBaseResponse("citation"),
		Citation:     citation,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	req, err := decode.Decode[UpdateRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		handlers.RespondValidation(w, h.logger, err)
		return
	}

	citation, err := h.repo.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, citationResponse{
		BaseResponse: api.NewBaseResponse("citation updated"),
		Citation:     citation,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, api.NewBaseResponse("citation deleted"))
}
