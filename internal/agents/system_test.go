package agents

import (
	"io"
	"log/slog"
	"testing"

	"github.com/deepresearch-labs/deep-research/internal/api"
)

func newTestSystem() *System {
	return NewSystem(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterAndGet(t *testing.T) {
	system := newTestSystem()

	if err := system.Register(Agent{Name: "researcher_balanced", Role: "researcher"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	agent, err := system.Get("researcher_balanced")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if agent.Status != api.AgentStatusIdle {
		t.Errorf("default status: got %s, expected idle", agent.Status)
	}
	if agent.RegisteredAt.IsZero() {
		t.Error("registered_at should be set")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	system := newTestSystem()

	if err := system.Register(Agent{Name: "writer"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := system.Register(Agent{Name: "writer"}); err != ErrAlreadyExists {
		t.Errorf("duplicate register: got %v, expected ErrAlreadyExists", err)
	}
}

func TestGetMissing(t *testing.T) {
	system := newTestSystem()

	if _, err := system.Get("ghost"); err != ErrNotFound {
		t.Errorf("got %v, expected ErrNotFound", err)
	}
}

func TestListSorted(t *testing.T) {
	system := newTestSystem()

	for _, name := range []string{"writer", "critic", "summarizer"} {
		if err := system.Register(Agent{Name: name}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	list := system.List("")
	if len(list) != 3 {
		t.Fatalf("got %d agents, expected 3", len(list))
	}
	if list[0].Name != "critic" || list[2].Name != "writer" {
		t.Errorf("list not sorted by name: %v", []string{list[0].Name, list[1].Name, list[2].Name})
	}
}

func TestListFiltersByStatus(t *testing.T) {
	system := newTestSystem()

	for _, name := range []string{"writer", "critic"} {
		if err := system.Register(Agent{Name: name}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	system.MarkRunning("writer")

	running := system.List(api.AgentStatusRunning)
	if len(running) != 1 || running[0].Name != "writer" {
		t.Errorf("running filter: got %v", running)
	}

	idle := system.List(api.AgentStatusIdle)
	if len(idle) != 1 || idle[0].Name != "critic" {
		t.Errorf("idle filter: got %v", idle)
	}
}

func TestMarkRunningAndIdle(t *testing.T) {
	system := newTestSystem()

	if err := system.Register(Agent{Name: "writer"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	system.MarkRunning("writer", "missing-agent")

	agent, _ := system.Get("writer")
	if agent.Status != api.AgentStatusRunning {
		t.Errorf("status: got %s, expected running", agent.Status)
	}
	if agent.Invocations != 1 {
		t.Errorf("invocations: got %d, expected 1", agent.Invocations)
	}
	if agent.LastActive == nil {
		t.Error("last_active should be set")
	}

	system.MarkIdle("writer")
	agent, _ = system.Get("writer")
	if agent.Status != api.AgentStatusIdle {
		t.Errorf("status after idle: got %s", agent.Status)
	}
	if agent.Invocations != 1 {
		t.Errorf("idle should not bump invocations: got %d", agent.Invocations)
	}
}

func TestStats(t *testing.T) {
	system := newTestSystem()

	system.Register(Agent{Name: "r1", Role: "researcher"})
	system.Register(Agent{Name: "r2", Role: "researcher"})
	system.Register(Agent{Name: "w1", Role: "writer"})
	system.MarkRunning("r1", "r2")

	stats := system.Stats()
	if stats.TotalAgents != 3 {
		t.Errorf("total: got %d", stats.TotalAgents)
	}
	if stats.ByRole["researcher"] != 2 {
		t.Errorf("researchers: got %d", stats.ByRole["researcher"])
	}
	if stats.ByStatus[string(api.AgentStatusRunning)] != 2 {
		t.Errorf("running: got %d", stats.ByStatus[string(api.AgentStatusRunning)])
	}
	if stats.TotalInvocations != 2 {
		t.Errorf("invocations: got %d", stats.TotalInvocations)
	}
	if stats.LastActive == nil {
		t.Error("last_active should be set")
	}
}
