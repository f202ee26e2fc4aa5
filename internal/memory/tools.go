package memory

import (
	"fmt"

	"github.com/hupe1980/agentmesh/core"
	"github.com/hupe1980/agentmesh/tool"
)

// StoreTool returns a function tool letting agents persist findings to
// the session memory store.
func StoreTool() tool.Tool {
	return tool.NewFunctionTool(
		"store_memory",
		"Store a finding, note, or fact in session memory for later recall.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"content": map[string]any{
					"type":        "string",
					"description": "The text to remember.",
				},
				"entry_type": map[string]any{
					"type":        "string",
					"description": "Kind of entry: general, research, citation, agent_communication, or system.",
				},
			},
			"required": []string{"content"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			content, _ := args["content"].(string)
			if content == "" {
				return nil, ErrEmptyContent
			}

			md := map[string]any{"source": tc.AgentName()}
			if et, ok := args["entry_type"].(string); ok && et != "" {
				md["entry_type"] = et
			}

			if err := tc.StoreMemory(content, md); err != nil {
				return nil, fmt.Errorf("store memory: %w", err)
			}

			return map[string]any{"stored": true}, nil
		},
	)
}

// RecallTool returns a function tool handing agents the most recent
// session entries, for catching up on context without a search query.
func RecallTool(store *Store) tool.Tool {
	return tool.NewFunctionTool(
		"recall_context",
		"Recall the most recent entries stored in this session's memory.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of entries, default 5.",
				},
			},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			limit := 5
			if f, ok := args["limit"].(float64); ok && f > 0 {
				limit = int(f)
			}

			entries := store.Recent(tc.SessionID(), limit)
			out := make([]map[string]any, 0, len(entries))
			for _, e := range entries {
				out = append(out, map[string]any{
					"content":    e.Content,
					"entry_type": e.EntryType,
					"created_at": e.CreatedAt,
				})
			}

			return map[string]any{"entries": out, "count": len(out)}, nil
		},
	)
}

// SearchTool returns a function tool letting agents recall prior
// findings by semantic similarity.
func SearchTool() tool.Tool {
	return tool.NewFunctionTool(
		"search_memory",
		"Search session memory for previously stored findings relevant to a query.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What to look for.",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results, default 5.",
				},
			},
			"required": []string{"query"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			if query == "" {
				return nil, ErrEmptyContent
			}

			limit := 5
			if f, ok := args["limit"].(float64); ok && f > 0 {
				limit = int(f)
			}

			results, err := tc.SearchMemory(query, limit)
			if err != nil {
				return nil, fmt.Errorf("search memory: %w", err)
			}

			out := make([]map[string]any, 0, len(results))
			for _, r := range results {
				out = append(out, map[string]any{
					"content": r.Content,
					"score":   r.Score,
				})
			}

			return map[string]any{"results": out, "count": len(out)}, nil
		},
	)
}
