package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hupe1980/agentmesh"
	"github.com/hupe1980/agentmesh/agent"
	"github.com/hupe1980/agentmesh/core"
	"github.com/hupe1980/agentmesh/engine"
	meshlogging "github.com/hupe1980/agentmesh/logging"
	openaimodel "github.com/hupe1980/agentmesh/model/openai"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/deepresearch-labs/deep-research/internal/agents"
	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/internal/config"
	"github.com/deepresearch-labs/deep-research/internal/memory"
	"github.com/deepresearch-labs/deep-research/internal/search"
)

// Orchestrator assembles and runs the research agent pipeline: three
// temperature-varied researchers in parallel, followed by the critic,
// summarizer, writer, and reflection stages in sequence.
type Orchestrator struct {
	mesh          *agentmesh.AgentMesh
	registry      *agents.System
	agentNames    []string
	stageProgress map[string]float64
	logger        *slog.Logger
}

// RunResult is the outcome of one pipeline invocation.
type RunResult struct {
	Report     string
	AgentsUsed []string
	EventCount int
}

// NewOrchestrator builds the pipeline and registers every agent with the
// registry.
func NewOrchestrator(
	cfg *config.Config,
	searchSystem *search.System,
	memStore *memory.Store,
	registry *agents.System,
	logger *slog.Logger,
) (*Orchestrator, error) {
	clientOpts := []option.RequestOption{option.WithAPIKey(cfg.OpenAI.APIKey)}
	if cfg.OpenAI.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	client := openai.NewClient(clientOpts...)

	modelFor := func(temperature float64) *openaimodel.Model {
		return openaimodel.NewModelFromClient(&client, func(o *openaimodel.Options) {
			o.Model = cfg.OpenAI.ChatModel
			o.Temperature = temperature
			o.MaxCompletionTokens = int64(cfg.OpenAI.MaxCompletionTokens)
		})
	}

	searchTool := search.Tool(searchSystem)
	webSearchTool := search.WebTool(searchSystem)
	memorySearchTool := memory.SearchTool()
	memoryStoreTool := memory.StoreTool()
	memoryRecallTool := memory.RecallTool(memStore)

	researcherSpecs := []struct {
		name  string
		level api.TemperatureLevel
		style string
	}{
		{AgentResearcherConservative, api.TemperatureConservative, styleConservative},
		{AgentResearcherBalanced, api.TemperatureBalanced, styleBalanced},
		{AgentResearcherCreative, api.TemperatureCreative, styleCreative},
	}

	o := &Orchestrator{
		registry:      registry,
		stageProgress: make(map[string]float64),
		logger:        logger.With("system", "research"),
	}

	researchers := make([]core.Agent, 0, len(researcherSpecs))
	for _, spec := range researcherSpecs {
		spec := spec
		researcher := agent.NewModelAgent(spec.name, modelFor(spec.level.Value()), func(ao *agent.ModelAgentOptions) {
			ao.Instruction = agent.NewInstructionFromText(researcherInstruction(spec.style))
			ao.OutputKey = "findings_" + string(spec.level)
			ao.ToolTimeout = cfg.Research.ToolTimeoutDuration()
			ao.MaxHistoryMessages = cfg.Research.MaxHistory
			ao.AllowTransfer = false
			ao.EnableStreaming = cfg.Research.EnableStreaming
		})
		researcher.RegisterTools(searchTool, webSearchTool, memorySearchTool, memoryStoreTool, memoryRecallTool)
		researchers = append(researchers, researcher)

		if err := registry.Register(agents.Agent{
			Name:             spec.name,
			Role:             "researcher",
			Description:      "Investigates the query and produces sourced findings.",
			Model:            cfg.OpenAI.ChatModel,
			TemperatureLevel: spec.level,
			Temperature:      spec.level.Value(),
			Tools: []string{
				searchTool.Name(), webSearchTool.Name(),
				memorySearchTool.Name(), memoryStoreTool.Name(), memoryRecallTool.Name(),
			},
		}); err != nil {
			return nil, err
		}
		o.agentNames = append(o.agentNames, spec.name)
		o.stageProgress[spec.name] = progressResearch
	}

	pool := agent.NewParallelAgent(AgentResearcherPool, cfg.Research.ParallelTimeoutDuration(), researchers...)

	stageSpecs := []struct {
		name        string
		role        string
		description string
		instruction string
		outputKey   string
		tools       bool
	}{
		{AgentCredibilityCritic, "critic", "Assesses source credibility of the collected findings.", credibilityCriticInstruction, "credibility_review", false},
		{AgentSummarizer, "summarizer", "Consolidates findings into a coherent synthesis.", summarizerInstruction, "synthesis", false},
		{AgentReportWriter, "writer", "Drafts the structured research report.", reportWriterInstruction, "draft_report", false},
		{AgentReflectionCritic, "critic", "Reviews the report and repairs gaps before delivery.", reflectionCriticInstruction, "final_report", false},
		{AgentCitationAgent, "curator", "Extracts a deduplicated bibliography from the report.", citationAgentInstruction, "bibliography", true},
	}

	pipelineChildren := []core.Agent{pool}
	var stageNames []string
	for _, spec := range stageSpecs {
		spec := spec
		stage := agent.NewModelAgent(spec.name, modelFor(api.TemperatureBalanced.Value()), func(ao *agent.ModelAgentOptions) {
			ao.Instruction = agent.NewInstructionFromText(spec.instruction)
			ao.OutputKey = spec.outputKey
			ao.EnableFunctionCalling = spec.tools
			ao.MaxHistoryMessages = cfg.Research.MaxHistory
			ao.AllowTransfer = false
			ao.EnableStreaming = cfg.Research.EnableStreaming
		})
		if spec.tools {
			stage.RegisterTools(memoryStoreTool)
		}
		pipelineChildren = append(pipelineChildren, stage)

		if err := registry.Register(agents.Agent{
			Name:        spec.name,
			Role:        spec.role,
			Description: spec.description,
			Model:       cfg.OpenAI.ChatModel,
			Temperature: api.TemperatureBalanced.Value(),
		}); err != nil {
			return nil, err
		}
		o.agentNames = append(o.agentNames, spec.name)
		stageNames = append(stageNames, spec.name)
	}

	if cfg.Research.EnableTranslator {
		translator := agent.NewModelAgent(AgentTranslator, modelFor(api.TemperatureConservative.Value()), func(ao *agent.ModelAgentOptions) {
			ao.Instruction = agent.NewInstructionFromText(translatorInstruction(cfg.Research.TargetLanguage))
			ao.OutputKey = "translated_report"
			ao.EnableFunctionCalling = false
			ao.AllowTransfer = false
		})
		pipelineChildren = append(pipelineChildren, translator)

		if err := registry.Register(agents.Agent{
			Name:        AgentTranslator,
			Role:        "translator",
			Description: fmt.Sprintf("Translates the final report into %s.", cfg.Research.TargetLanguage),
			Model:       cfg.OpenAI.ChatModel,
			Temperature: api.TemperatureConservative.Value(),
		}); err != nil {
			return nil, err
		}
		o.agentNames = append(o.agentNames, AgentTranslator)
		stageNames = append(stageNames, AgentTranslator)
	}

	// Sequential stages split the remaining span above the research phase.
	for i, name := range stageNames {
		o.stageProgress[name] = progressResearch +
			(100-progressResearch)*float64(i+1)/float64(len(stageNames)+1)
	}

	pipeline := agent.NewSequentialAgent(AgentPipeline, pipelineChildren...)

	o.mesh = agentmesh.New(func(mo *agentmesh.Options) {
		mo.EngineConfig = engine.Config{
			MaxConcurrentInvocations: cfg.Research.Workers,
			EnableStreaming:          cfg.Research.EnableStreaming,
			EventBufferSize:          128,
		}
		mo.MemoryStore = memStore
		mo.Logger = meshlogging.NewSlogAdapter(logger)
	})
	o.mesh.RegisterAgent(pipeline)

	return o, nil
}

// progressResearch is the task progress reached while the parallel
// researchers are still producing findings.
const progressResearch = 30.0

// AgentNames lists the pipeline agents in registration order.
func (o *Orchestrator) AgentNames() []string {
	return o.agentNames
}

// StageProgress maps a pipeline agent to the overall task progress, 0 to
// 100, reached once that agent is producing output.
func (o *Orchestrator) StageProgress(author string) (float64, bool) {
	p, ok := o.stageProgress[author]
	return p, ok
}

// Run invokes the pipeline for one query, forwarding every event to the
// optional callback, and returns the final report.
func (o *Orchestrator) Run(ctx context.Context, sessionID, query string, onEvent func(core.Event)) (RunResult, error) {
	userContent := core.Content{
		Role:  "user",
		Parts: []core.Part{core.TextPart{Text: query}},
	}

	o.registry.MarkRunning(o.agentNames...)
	defer o.registry.MarkIdle(o.agentNames...)

	_, eventsCh, errorsCh, err := o.mesh.Invoke(ctx, sessionID, AgentPipeline, userContent)
	if err != nil {
		o.registry.MarkError(o.agentNames...)
		return RunResult{}, fmt.Errorf("invoke pipeline: %w", err)
	}

	result := RunResult{AgentsUsed: o.agentNames}
	var lastText string

	for eventsCh != nil || errorsCh != nil {
		select {
		case <-ctx.Done():
			return result, ctx.Err()

		case ev, ok := <-eventsCh:
			if !ok {
				eventsCh = nil
				continue
			}
			result.EventCount++

			if onEvent != nil {
				onEvent(ev)
			}

			if report, ok := ev.Actions.StateDelta["final_report"].(string); ok && report != "" {
				result.Report = report
			}
			if text := eventText(ev); text != "" && (ev.Partial == nil || !*ev.Partial) {
				lastText = text
			}

		case runErr, ok := <-errorsCh:
			if !ok {
				errorsCh = nil
				continue
			}
			if runErr != nil {
				o.registry.MarkError(o.agentNames...)
				return result, runErr
			}
		}
	}

	if result.Report == "" {
		result.Report = lastText
	}
	if strings.TrimSpace(result.Report) == "" {
		return result, fmt.Errorf("pipeline produced no report")
	}

	return result, nil
}

func eventText(ev core.Event) string {
	if ev.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range ev.Content.Parts {
		if tp, ok := part.(core.TextPart); ok {
			sb.WriteString(tp.Text)
		}
	}
	return sb.String()
}
