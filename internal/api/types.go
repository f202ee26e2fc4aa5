// Package api defines the shared request and response vocabulary used
// across the HTTP surface: enumerations, the success envelope, and the
// health report.
package api

import (
	"fmt"
	"time"
)

// AgentStatus describes the lifecycle state of a registered agent.
type AgentStatus string

// Agent status constants.
const (
	AgentStatusIdle      AgentStatus = "idle"
	AgentStatusRunning   AgentStatus = "running"
	AgentStatusCompleted AgentStatus = "completed"
	AgentStatusError     AgentStatus = "error"
	AgentStatusPaused    AgentStatus = "paused"
)

// Validate checks if the status is a recognized agent status.
func (s AgentStatus) Validate() error {
	switch s {
	case AgentStatusIdle, AgentStatusRunning, AgentStatusCompleted, AgentStatusError, AgentStatusPaused:
		return nil
	default:
		return fmt.Errorf("invalid agent status: %s", s)
	}
}

// SearchProvider identifies a backing search source.
type SearchProvider string

// Search provider constants.
const (
	SearchProviderMilvus SearchProvider = "milvus"
	SearchProviderWeb    SearchProvider = "web"
	SearchProviderAll    SearchProvider = "all"
)

// Validate checks if the provider is a recognized search provider.
func (p SearchProvider) Validate() error {
	switch p {
	case SearchProviderMilvus, SearchProviderWeb, SearchProviderAll:
		return nil
	default:
		return fmt.Errorf("invalid search provider: %s", p)
	}
}

// MemoryType distinguishes short-lived session memory from the
// persistent knowledge base.
type MemoryType string

// Memory type constants.
const (
	MemoryTypeSession    MemoryType = "session"
	MemoryTypePersistent MemoryType = "persistent"
	MemoryTypeTemporary  MemoryType = "temporary"
)

// Validate checks if the memory type is recognized.
func (m MemoryType) Validate() error {
	switch m {
	case MemoryTypeSession, MemoryTypePersistent, MemoryTypeTemporary:
		return nil
	default:
		return fmt.Errorf("invalid memory type: %s", m)
	}
}

// EntryType categorizes what a memory entry holds.
type EntryType string

// Entry type constants.
const (
	EntryTypeGeneral            EntryType = "general"
	EntryTypeResearch           EntryType = "research"
	EntryTypeCitation           EntryType = "citation"
	EntryTypeAgentCommunication EntryType = "agent_communication"
	EntryTypeSystem             EntryType = "system"
)

// Validate checks if the entry type is recognized.
func (e EntryType) Validate() error {
	switch e {
	case EntryTypeGeneral, EntryTypeResearch, EntryTypeCitation, EntryTypeAgentCommunication, EntryTypeSystem:
		return nil
	default:
		return fmt.Errorf("invalid entry type: %s", e)
	}
}

// TemperatureLevel names a sampling temperature preset for researcher
// agents. Each level maps to a fixed model temperature.
type TemperatureLevel string

// Temperature level constants.
const (
	TemperatureConservative TemperatureLevel = "conservative"
	TemperatureBalanced     TemperatureLevel = "balanced"
	TemperatureCreative     TemperatureLevel = "creative"
)

// Validate checks if the level is a recognized temperature preset.
func (t TemperatureLevel) Validate() error {
	switch t {
	case TemperatureConservative, TemperatureBalanced, TemperatureCreative:
		return nil
	default:
		return fmt.Errorf("invalid temperature level: %s", t)
	}
}

// Value returns the model temperature for the preset. Unknown levels
// fall back to the balanced temperature.
func (t TemperatureLevel) Value() float64 {
	switch t {
	case TemperatureConservative:
		return 0.2
	case TemperatureCreative:
		return 0.9
	default:
		return 0.6
	}
}

// TemperatureLevels lists the presets in ascending temperature order.
func TemperatureLevels() []TemperatureLevel {
	return []TemperatureLevel{TemperatureConservative, TemperatureBalanced, TemperatureCreative}
}

// BaseResponse is the common success envelope wrapping endpoint payloads.
type BaseResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBaseResponse creates a success envelope stamped with the current time.
func NewBaseResponse(message string) BaseResponse {
	return BaseResponse{
		Success:   true,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// ServiceState reports the availability of one backing service.
type ServiceState string

// Service state constants.
const (
	ServiceStateHealthy     ServiceState = "healthy"
	ServiceStateDegraded    ServiceState = "degraded"
	ServiceStateUnavailable ServiceState = "unavailable"
)

// HealthReport is the /health payload describing overall and per-service
// availability.
type HealthReport struct {
	Status    ServiceState            `json:"status"`
	Version   string                  `json:"version"`
	Services  map[string]ServiceState `json:"services"`
	Timestamp time.Time               `json:"timestamp"`
}
