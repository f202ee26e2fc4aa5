// Package search provides unified retrieval over the vector database
// and web search, exposed both as HTTP endpoints and as agent tools.
package search

import (
	"context"
	"time"

	"github.com/deepresearch-labs/deep-research/internal/api"
)

// Result is a single search hit from any provider.
type Result struct {
	ID           string             `json:"id,omitempty"`
	Title        string             `json:"title,omitempty"`
	Content      string             `json:"content"`
	URL          string             `json:"url,omitempty"`
	Source       string             `json:"source"`
	Provider     api.SearchProvider `json:"provider"`
	DocumentType string             `json:"document_type,omitempty"`
	Score        float64            `json:"score"`
	Metadata     map[string]any     `json:"metadata,omitempty"`
}

// Request describes a search across one or all providers.
type Request struct {
	Query        string             `json:"query" validate:"required,min=1,max=2000"`
	Provider     api.SearchProvider `json:"provider,omitempty"`
	DocumentType string             `json:"document_type,omitempty"`
	Limit        int                `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

// Response is the aggregated outcome of a search request.
type Response struct {
	api.BaseResponse
	Query     string             `json:"query"`
	Provider  api.SearchProvider `json:"provider"`
	Results   []Result           `json:"results"`
	Count     int                `json:"count"`
	Elapsed   string             `json:"elapsed"`
	Providers []ProviderStatus   `json:"providers,omitempty"`
}

// ProviderStatus reports per-provider outcome for fan-out searches.
type ProviderStatus struct {
	Provider api.SearchProvider `json:"provider"`
	Count    int                `json:"count"`
	Error    string             `json:"error,omitempty"`
	Elapsed  string             `json:"elapsed"`
}

// ProviderInfo describes an available provider for discovery endpoints.
type ProviderInfo struct {
	Name        api.SearchProvider `json:"name"`
	Description string             `json:"description"`
	Available   bool               `json:"available"`
}

// Provider is a single search backend.
type Provider interface {
	Name() api.SearchProvider
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Available(ctx context.Context) bool
}

func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
