package search

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/pkg/decode"
	"github.com/deepresearch-labs/deep-research/pkg/handlers"
)

// Handler exposes search operations over HTTP.
type Handler struct {
	system   *System
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a search HTTP handler.
func NewHandler(system *System, validate *validator.Validate, logger *slog.Logger) *Handler {
	return &Handler{
		system:   system,
		validate: validate,
		logger:   logger.With("handler", "search"),
	}
}

// RegisterRoutes attaches search endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/search", h.search)
	mux.HandleFunc("GET /api/v1/search/providers", h.providers)
	mux.HandleFunc("GET /api/v1/search/document-types", h.documentTypes)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	req, err := decode.Decode[Request](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		handlers.RespondValidation(w, h.logger, err)
		return
	}

	resp, err := h.system.Search(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

type providersResponse struct {
	api.BaseResponse
	Providers []ProviderInfo `json:"providers"`
}

func (h *Handler) providers(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, providersResponse{
		BaseResponse: api.NewBaseResponse("search providers"),
		Providers:    h.system.Providers(r.Context()),
	})
}

type documentTypesResponse struct {
	api.BaseResponse
	DocumentTypes []string `json:"document_types"`
}

func (h *Handler) documentTypes(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, documentTypesResponse{
		BaseResponse:  api.NewBaseResponse("document types"),
		DocumentTypes: h.system.DocumentTypes(),
	})
}
