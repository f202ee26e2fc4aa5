package research

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/agentmesh/core"

	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/internal/config"
	"github.com/deepresearch-labs/deep-research/internal/memory"
	"github.com/deepresearch-labs/deep-research/internal/ws"
	"github.com/deepresearch-labs/deep-research/pkg/pagination"
)

// Runner executes the research pipeline for one query. Implemented by
// the orchestrator.
type Runner interface {
	Run(ctx context.Context, sessionID, query string, onEvent func(core.Event)) (RunResult, error)
	StageProgress(author string) (float64, bool)
}

// TaskStore persists research tasks through their lifecycle. Implemented
// by the repository.
type TaskStore interface {
	Create(ctx context.Context, sessionID, query string) (Task, error)
	Get(ctx context.Context, id string) (Task, error)
	List(ctx context.Context, filter TaskFilter, page pagination.PageRequest) (pagination.PageResult[Task], error)
	MarkRunning(ctx context.Context, id string) error
	SetProgress(ctx context.Context, id string, progress float64) error
	Complete(ctx context.Context, id, report string, agentsUsed []string, eventCount int) error
	Fail(ctx context.Context, id, message string) error
	Cancel(ctx context.Context, id string) error
}

// Executor runs queued research tasks on a fixed worker pool, persisting
// state transitions and pushing progress over the WebSocket hub.
type Executor struct {
	store        TaskStore
	runner       Runner
	memorySystem *memory.System
	hub          *ws.Hub
	cfg          *config.ResearchConfig
	logger       *slog.Logger

	queue  chan Task
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewExecutor creates an executor. Start must be called before tasks are
// accepted.
func NewExecutor(
	store TaskStore,
	runner Runner,
	memorySystem *memory.System,
	hub *ws.Hub,
	cfg *config.ResearchConfig,
	logger *slog.Logger,
) *Executor {
	return &Executor{
		store:        store,
		runner:       runner,
		memorySystem: memorySystem,
		hub:          hub,
		cfg:          cfg,
		logger:       logger.With("system", "research_executor"),
		queue:        make(chan Task, cfg.QueueSize),
	}
}

// Start launches the worker pool.
func (e *Executor) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	for i := 0; i < e.cfg.Workers; i++ {
		e.wg.Add(1)
		go e.worker(ctx, i)
	}

	e.logger.Info("executor started", "workers", e.cfg.Workers, "queue_size", e.cfg.QueueSize)
}

// Stop drains the pool. Queued tasks that have not started stay queued
// in the database and are not picked up again until restart.
func (e *Executor) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	close(e.queue)
	e.wg.Wait()
	e.logger.Info("executor stopped")
}

// Submit persists a new task and enqueues it for execution.
func (e *Executor) Submit(ctx context.Context, req SubmitRequest) (Task, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	task, err := e.store.Create(ctx, sessionID, req.Query)
	if err != nil {
		return Task{}, err
	}

	select {
	case e.queue <- task:
	default:
		_ = e.store.Fail(ctx, task.ID, ErrQueueFull.Error())
		return Task{}, ErrQueueFull
	}

	e.hub.Broadcast(ws.Event{
		Type:      ws.EventTaskQueued,
		TaskID:    task.ID,
		SessionID: task.SessionID,
		Payload:   map[string]any{"query": task.Query},
	})

	return task, nil
}

func (e *Executor) worker(ctx context.Context, id int) {
	defer e.wg.Done()

	e.logger.Debug("worker started", "worker", id)

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-e.queue:
			if !ok {
				return
			}
			e.execute(ctx, task)
		}
	}
}

func (e *Executor) execute(ctx context.Context, task Task) {
	runCtx, cancel := context.WithTimeout(ctx, e.cfg.TaskTimeoutDuration())
	defer cancel()

	current, err := e.store.Get(runCtx, task.ID)
	if err != nil {
		e.logger.Error("load queued task", "task", task.ID, "error", err)
		e.failTask(task, err.Error())
		return
	}
	if current.Status != StatusQueued {
		// Cancelled while waiting in the queue.
		e.logger.Debug("skipping task", "task", task.ID, "status", current.Status)
		return
	}

	if err := e.store.MarkRunning(runCtx, task.ID); err != nil {
		e.logger.Error("mark task running", "task", task.ID, "error", err)
		return
	}

	e.hub.Broadcast(ws.Event{
		Type:      ws.EventTaskStarted,
		TaskID:    task.ID,
		SessionID: task.SessionID,
	})

	if err := e.memorySystem.RecordExchange(runCtx, task.SessionID, api.EntryTypeResearch, task.Query); err != nil {
		e.logger.Warn("record query in memory", "task", task.ID, "error", err)
	}

	var lastProgress float64
	onEvent := func(ev core.Event) {
		if ev.Content == nil || (ev.Partial != nil && *ev.Partial) {
			return
		}

		payload := map[string]any{"preview": preview(eventText(ev), 280)}
		if p, ok := e.runner.StageProgress(ev.Author); ok && p > lastProgress {
			lastProgress = p
			payload["progress"] = p
			if err := e.store.SetProgress(runCtx, task.ID, p); err != nil {
				e.logger.Warn("persist task progress", "task", task.ID, "error", err)
			}
		}

		e.hub.Broadcast(ws.Event{
			Type:      ws.EventTaskProgress,
			TaskID:    task.ID,
			SessionID: task.SessionID,
			Agent:     ev.Author,
			Payload:   payload,
		})
	}

	result, err := e.runner.Run(runCtx, task.SessionID, task.Query, onEvent)
	if err != nil {
		e.logger.Error("research task failed", "task", task.ID, "error", err)
		e.failTask(task, err.Error())
		return
	}

	if err := e.store.Complete(context.Background(), task.ID, result.Report, result.AgentsUsed, result.EventCount); err != nil {
		e.logger.Error("persist task completion", "task", task.ID, "error", err)
		return
	}

	if err := e.memorySystem.RecordExchange(runCtx, task.SessionID, api.EntryTypeResearch, result.Report); err != nil {
		e.logger.Warn("record report in memory", "task", task.ID, "error", err)
	}

	e.logger.Info("research task completed",
		"task", task.ID,
		"session", task.SessionID,
		"events", result.EventCount,
	)

	e.hub.Broadcast(ws.Event{
		Type:      ws.EventTaskCompleted,
		TaskID:    task.ID,
		SessionID: task.SessionID,
		Payload:   map[string]any{"events": result.EventCount, "progress": 100.0},
	})
}

func (e *Executor) failTask(task Task, message string) {
	if err := e.store.Fail(context.Background(), task.ID, message); err != nil {
		e.logger.Error("persist task failure", "task", task.ID, "error", err)
	}
	e.hub.Broadcast(ws.Event{
		Type:      ws.EventTaskFailed,
		TaskID:    task.ID,
		SessionID: task.SessionID,
		Payload:   map[string]any{"error": message},
	})
}

func preview(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}
