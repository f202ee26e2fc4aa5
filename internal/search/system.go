package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/internal/config"
)

// System routes search requests to the registered providers and
// aggregates fan-out results.
type System struct {
	providers map[api.SearchProvider]Provider
	cfg       *config.SearchConfig
	logger    *slog.Logger
}

// NewSystem creates a search system over the given providers.
func NewSystem(cfg *config.SearchConfig, logger *slog.Logger, providers ...Provider) *System {
	m := make(map[api.SearchProvider]Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}

	return &System{
		providers: m,
		cfg:       cfg,
		logger:    logger.With("system", "search"),
	}
}

// Search executes the request against one provider, or fans out to all
// of them when the provider is unset or "all".
func (s *System) Search(ctx context.Context, req Request) (Response, error) {
	start := time.Now()

	if req.Provider != "" && req.Provider != api.SearchProviderAll {
		if err := req.Provider.Validate(); err != nil {
			return Response{}, ErrUnknownProvider
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	provider := req.Provider
	if provider == "" {
		provider = api.SearchProviderAll
	}

	var (
		results  []Result
		statuses []ProviderStatus
		err      error
	)

	if provider == api.SearchProviderAll {
		results, statuses, err = s.fanOut(ctx, req.Query, limit)
	} else {
		p, ok := s.providers[provider]
		if !ok {
			return Response{}, ErrUnknownProvider
		}
		results, err = p.Search(ctx, req.Query, limit)
	}
	if err != nil {
		return Response{}, err
	}

	results = filterByDocumentType(results, req.DocumentType)
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []Result{}
	}

	s.logger.Debug("search complete",
		"provider", provider,
		"results", len(results),
		"elapsed", time.Since(start),
	)

	return Response{
		BaseResponse: api.NewBaseResponse("search complete"),
		Query:        req.Query,
		Provider:     provider,
		Results:      results,
		Count:        len(results),
		Elapsed:      elapsed(start),
		Providers:    statuses,
	}, nil
}

func (s *System) fanOut(ctx context.Context, query string, limit int) ([]Result, []ProviderStatus, error) {
	type outcome struct {
		provider api.SearchProvider
		results  []Result
		err      error
		elapsed  string
	}

	var wg sync.WaitGroup
	outcomes := make(chan outcome, len(s.providers))

	for name, p := range s.providers {
		wg.Add(1)
		go func(name api.SearchProvider, p Provider) {
			defer wg.Done()
			start := time.Now()
			results, err := p.Search(ctx, query, limit)
			outcomes <- outcome{provider: name, results: results, err: err, elapsed: elapsed(start)}
		}(name, p)
	}

	wg.Wait()
	close(outcomes)

	var (
		merged   []Result
		statuses []ProviderStatus
		failures int
	)

	for o := range outcomes {
		status := ProviderStatus{Provider: o.provider, Count: len(o.results), Elapsed: o.elapsed}
		if o.err != nil {
			status.Error = o.err.Error()
			failures++
			s.logger.Warn("provider search failed", "provider", o.provider, "error", o.err)
		} else {
			merged = append(merged, o.results...)
		}
		statuses = append(statuses, status)
	}

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Provider < statuses[j].Provider })

	if failures == len(s.providers) && len(s.providers) > 0 {
		return nil, statuses, ErrAllProvidersFailed
	}

	return merged, statuses, nil
}

// Providers describes every registered provider and its availability.
func (s *System) Providers(ctx context.Context) []ProviderInfo {
	descriptions := map[api.SearchProvider]string{
		api.SearchProviderMilvus: "Semantic search over the indexed document collection.",
		api.SearchProviderWeb:    "Live web search through the configured search API.",
	}

	infos := make([]ProviderInfo, 0, len(s.providers))
	for name, p := range s.providers {
		infos = append(infos, ProviderInfo{
			Name:        name,
			Description: descriptions[name],
			Available:   p.Available(ctx),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// DocumentTypes lists the document type catalog accepted as a search filter.
func (s *System) DocumentTypes() []string {
	return s.cfg.DocumentTypes
}

// Healthy reports whether at least one provider is reachable.
func (s *System) Healthy(ctx context.Context) bool {
	for _, p := range s.providers {
		if p.Available(ctx) {
			return true
		}
	}
	return false
}

func filterByDocumentType(results []Result, documentType string) []Result {
	if documentType == "" {
		return results
	}

	filtered := results[:0]
	for _, r := range results {
		if r.DocumentType == "" || strings.EqualFold(r.DocumentType, documentType) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
