package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/internal/config"
)

// WebProvider queries an external web search API. The request and
// response shapes follow the Tavily search endpoint.
type WebProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewWebProvider builds a web search provider from configuration.
func NewWebProvider(cfg *config.WebSearchConfig) *WebProvider {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &WebProvider{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name identifies this provider as the web backend.
func (p *WebProvider) Name() api.SearchProvider {
	return api.SearchProviderWeb
}

// Available reports whether the provider is configured with credentials.
func (p *WebProvider) Available(_ context.Context) bool {
	return p.apiKey != ""
}

type webSearchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type webSearchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search submits the query to the web search API and normalizes results.
func (p *WebProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: web search api key not configured", ErrProviderUnavailable)
	}

	body, err := json.Marshal(webSearchRequest{
		APIKey:     p.apiKey,
		Query:      query,
		MaxResults: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("encode web search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build web search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: web search returned status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var parsed webSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode web search response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, Result{
			Title:        r.Title,
			Content:      r.Content,
			URL:          r.URL,
			Source:       r.URL,
			Provider:     api.SearchProviderWeb,
			DocumentType: "webpage",
			Score:        r.Score,
		})
	}

	return results, nil
}
