package main

import (
	"net/http"
	"time"

	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/internal/search"
	"github.com/deepresearch-labs/deep-research/pkg/handlers"
)

func (app *application) health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	services := map[string]api.ServiceState{
		"memory":    api.ServiceStateHealthy,
		"websocket": api.ServiceStateHealthy,
	}

	if err := app.db.PingContext(ctx); err != nil {
		services["database"] = api.ServiceStateUnavailable
	} else {
		services["database"] = api.ServiceStateHealthy
	}

	if app.searchSystem.Healthy(ctx) {
		services["search"] = api.ServiceStateHealthy
	} else {
		services["search"] = api.ServiceStateDegraded
	}

	if app.cfg.OpenAI.APIKey != "" {
		services["openai"] = api.ServiceStateHealthy
	} else {
		services["openai"] = api.ServiceStateUnavailable
	}

	overall := api.ServiceStateHealthy
	status := http.StatusOK
	for _, state := range services {
		if state == api.ServiceStateUnavailable {
			overall = api.ServiceStateUnavailable
			status = http.StatusServiceUnavailable
			break
		}
		if state == api.ServiceStateDegraded {
			overall = api.ServiceStateDegraded
		}
	}

	handlers.RespondJSON(w, status, api.HealthReport{
		Status:    overall,
		Version:   app.cfg.Server.Version,
		Services:  services,
		Timestamp: time.Now().UTC(),
	})
}

type configInfoResponse struct {
	api.BaseResponse
	Version            string                `json:"version"`
	ChatModel          string                `json:"chat_model"`
	EmbeddingModel     string                `json:"embedding_model"`
	TemperatureLevels  map[string]float64    `json:"temperature_levels"`
	DocumentTypes      []string              `json:"document_types"`
	SupportedLanguages []string              `json:"supported_languages"`
	Providers          []search.ProviderInfo `json:"providers"`
	Agents             []string              `json:"agents"`
	Research           map[string]any        `json:"research"`
	Pagination         map[string]int        `json:"pagination"`
}

// configInfo reports the non-sensitive runtime configuration.
func (app *application) configInfo(w http.ResponseWriter, r *http.Request) {
	levels := make(map[string]float64)
	for _, level := range api.TemperatureLevels() {
		levels[string(level)] = level.Value()
	}

	handlers.RespondJSON(w, http.StatusOK, configInfoResponse{
		BaseResponse:       api.NewBaseResponse("service configuration"),
		Version:            app.cfg.Server.Version,
		ChatModel:          app.cfg.OpenAI.ChatModel,
		EmbeddingModel:     app.cfg.OpenAI.EmbeddingModel,
		TemperatureLevels:  levels,
		DocumentTypes:      app.cfg.Search.DocumentTypes,
		SupportedLanguages: app.cfg.Research.SupportedLanguages,
		Providers:          app.searchSystem.Providers(r.Context()),
		Agents:             app.agentsSystem.Names(),
		Research: map[string]any{
			"workers":           app.cfg.Research.Workers,
			"queue_size":        app.cfg.Research.QueueSize,
			"task_timeout":      app.cfg.Research.TaskTimeout,
			"enable_translator": app.cfg.Research.EnableTranslator,
			"target_language":   app.cfg.Research.TargetLanguage,
		},
		Pagination: map[string]int{
			"default_page_size": app.cfg.Pagination.DefaultPageSize,
			"max_page_size":     app.cfg.Pagination.MaxPageSize,
		},
	})
}
