package search

import (
	"fmt"

	"github.com/hupe1980/agentmesh/core"
	"github.com/hupe1980/agentmesh/tool"

	"github.com/deepresearch-labs/deep-research/internal/api"
)

// Tool returns a function tool giving agents access to the search
// system. Researchers call it to gather source material for a query.
func Tool(system *System) tool.Tool {
	return tool.NewFunctionTool(
		"search_documents",
		"Search the document collection and the web for material relevant to a query.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query.",
				},
				"provider": map[string]any{
					"type":        "string",
					"description": "Which backend to use: milvus, web, or all. Defaults to all.",
					"enum":        []string{"milvus", "web", "all"},
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results, default 10.",
				},
			},
			"required": []string{"query"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			if query == "" {
				return nil, ErrEmptyQuery
			}

			req := Request{Query: query}
			if p, ok := args["provider"].(string); ok && p != "" {
				req.Provider = api.SearchProvider(p)
			}
			if f, ok := args["limit"].(float64); ok && f > 0 {
				req.Limit = int(f)
			}

			resp, err := system.Search(tc.Context(), req)
			if err != nil {
				return nil, fmt.Errorf("search: %w", err)
			}

			out := make([]map[string]any, 0, len(resp.Results))
			for _, r := range resp.Results {
				out = append(out, map[string]any{
					"title":   r.Title,
					"content": r.Content,
					"source":  r.Source,
					"url":     r.URL,
					"score":   r.Score,
				})
			}

			return map[string]any{"results": out, "count": len(out)}, nil
		},
	)
}

// WebTool returns a function tool scoped to the web search provider, for
// fresh material that is not in the document collection.
func WebTool(system *System) tool.Tool {
	return tool.NewFunctionTool(
		"search_web",
		"Search the web for current information relevant to a query.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query.",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results, default 10.",
				},
			},
			"required": []string{"query"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			if query == "" {
				return nil, ErrEmptyQuery
			}

			req := Request{Query: query, Provider: api.SearchProviderWeb}
			if f, ok := args["limit"].(float64); ok && f > 0 {
				req.Limit = int(f)
			}

			resp, err := system.Search(tc.Context(), req)
			if err != nil {
				return nil, fmt.Errorf("web search: %w", err)
			}

			out := make([]map[string]any, 0, len(resp.Results))
			for _, r := range resp.Results {
				out = append(out, map[string]any{
					"title":   r.Title,
					"content": r.Content,
					"url":     r.URL,
					"score":   r.Score,
				})
			}

			return map[string]any{"results": out, "count": len(out)}, nil
		},
	)
}
