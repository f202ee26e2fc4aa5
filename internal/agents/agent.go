// Package agents maintains the registry of agents that make up the
// research pipeline, exposing their descriptors and usage stats.
package agents

import (
	"time"

	"github.com/deepresearch-labs/deep-research/internal/api"
)

// Agent describes one registered pipeline agent.
type Agent struct {
	Name             string               `json:"name"`
	Role             string               `json:"role"`
	Description      string               `json:"description"`
	Model            string               `json:"model,omitempty"`
	TemperatureLevel api.TemperatureLevel `json:"temperature_level,omitempty"`
	Temperature      float64              `json:"temperature,omitempty"`
	Tools            []string             `json:"tools,omitempty"`
	Status           api.AgentStatus      `json:"status"`
	Invocations      int64                `json:"invocations"`
	LastActive       *time.Time           `json:"last_active,omitempty"`
	RegisteredAt     time.Time            `json:"registered_at"`
}

// Stats summarizes the registry.
type Stats struct {
	TotalAgents      int            `json:"total_agents"`
	ByStatus         map[string]int `json:"by_status"`
	ByRole           map[string]int `json:"by_role"`
	TotalInvocations int64          `json:"total_invocations"`
	LastActive       *time.Time     `json:"last_active,omitempty"`
}
