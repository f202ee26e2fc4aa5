package agents

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/deepresearch-labs/deep-research/internal/api"
)

// System is the in-process agent registry. The research orchestrator
// registers its pipeline agents here at startup; handlers read from it.
type System struct {
	mu     sync.RWMutex
	agents map[string]*Agent
	logger *slog.Logger
}

// NewSystem creates an empty registry.
func NewSystem(logger *slog.Logger) *System {
	return &System{
		agents: make(map[string]*Agent),
		logger: logger.With("system", "agents"),
	}
}

// Register adds an agent descriptor to the registry.
func (s *System) Register(agent Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.agents[agent.Name]; exists {
		return ErrAlreadyExists
	}

	if agent.Status == "" {
		agent.Status = api.AgentStatusIdle
	}
	agent.RegisteredAt = time.Now().UTC()

	s.agents[agent.Name] = &agent
	s.logger.Debug("registered agent", "name", agent.Name, "role", agent.Role)
	return nil
}

// List returns all agents sorted by name, optionally narrowed to one
// status.
func (s *System) List(status api.AgentStatus) []Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Agent, 0, len(s.agents))
	for _, a := range s.agents {
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, *a)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns a single agent by name.
func (s *System) Get(name string) (Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.agents[name]
	if !ok {
		return Agent{}, ErrNotFound
	}
	return *a, nil
}

// MarkRunning flags the named agents as running and bumps their
// invocation counters.
func (s *System) MarkRunning(names ...string) {
	s.setStatus(api.AgentStatusRunning, true, names)
}

// MarkIdle returns the named agents to the idle state.
func (s *System) MarkIdle(names ...string) {
	s.setStatus(api.AgentStatusIdle, false, names)
}

// MarkError flags the named agents as failed.
func (s *System) MarkError(names ...string) {
	s.setStatus(api.AgentStatusError, false, names)
}

func (s *System) setStatus(status api.AgentStatus, countInvocation bool, names []string) {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		a, ok := s.agents[name]
		if !ok {
			continue
		}
		a.Status = status
		a.LastActive = &now
		if countInvocation {
			a.Invocations++
		}
	}
}

// Names returns the registered agent names sorted alphabetically.
func (s *System) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.agents))
	for name := range s.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats aggregates registry counters.
func (s *System) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		TotalAgents: len(s.agents),
		ByStatus:    make(map[string]int),
		ByRole:      make(map[string]int),
	}

	for _, a := range s.agents {
		stats.ByStatus[string(a.Status)]++
		stats.ByRole[a.Role]++
		stats.TotalInvocations += a.Invocations
		if a.LastActive != nil && (stats.LastActive == nil || a.LastActive.After(*stats.LastActive)) {
			t := *a.LastActive
			stats.LastActive = &t
		}
	}

	return stats
}
