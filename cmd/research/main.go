// Command research runs the research pipeline once from the terminal,
// without the HTTP service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/hupe1980/agentmesh/core"
	"github.com/spf13/cobra"

	"github.com/deepresearch-labs/deep-research/internal/agents"
	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/internal/config"
	"github.com/deepresearch-labs/deep-research/internal/embedding"
	"github.com/deepresearch-labs/deep-research/internal/memory"
	"github.com/deepresearch-labs/deep-research/internal/research"
	"github.com/deepresearch-labs/deep-research/internal/search"
	"github.com/deepresearch-labs/deep-research/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "research",
		Short:         "Run the deep research agent pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to the configuration file")

	root.AddCommand(newRunCmd(&configPath))
	root.AddCommand(newAgentsCmd(&configPath))

	return root
}

func newRunCmd(configPath *string) *cobra.Command {
	var (
		sessionID string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "run [query]",
		Short: "Execute one research run and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), *configPath, sessionID, args[0], verbose)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "session id to continue (defaults to a new session)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print intermediate agent output")

	return cmd
}

func newAgentsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List the agents in the pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnvironment(*configPath)
			if err != nil {
				return err
			}

			for _, a := range env.registry.List("") {
				fmt.Printf("%-28s %-12s %s\n", a.Name, a.Role, a.Description)
			}
			return nil
		},
	}
}

type environment struct {
	cfg          *config.Config
	registry     *agents.System
	memorySystem *memory.System
	orchestrator *research.Orchestrator
}

func buildEnvironment(configPath string) (*environment, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.New(&cfg.Logging)

	embedder := embedding.NewOpenAIEmbedder(&cfg.OpenAI)
	memStore := memory.NewStore(embedder, cfg.Memory.MinRelevanceScore, cfg.Memory.MaxEntriesPerSession)
	memorySystem := memory.NewSystem(memStore, &cfg.Memory, logger)

	var providers []search.Provider
	if milvusProvider, err := search.NewMilvusProvider(context.Background(), &cfg.Search.Milvus, embedder); err == nil {
		providers = append(providers, milvusProvider)
	} else {
		logger.Warn("vector search unavailable", "error", err)
	}
	providers = append(providers, search.NewWebProvider(&cfg.Search.Web))

	searchSystem := search.NewSystem(&cfg.Search, logger, providers...)
	registry := agents.NewSystem(logger)

	orchestrator, err := research.NewOrchestrator(cfg, searchSystem, memStore, registry, logger)
	if err != nil {
		return nil, err
	}

	return &environment{
		cfg:          cfg,
		registry:     registry,
		memorySystem: memorySystem,
		orchestrator: orchestrator,
	}, nil
}

func runQuery(ctx context.Context, configPath, sessionID, query string, verbose bool) error {
	env, err := buildEnvironment(configPath)
	if err != nil {
		return err
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
		fmt.Printf("session: %s\n", sessionID)
	}

	runCtx, cancel := context.WithTimeout(ctx, env.cfg.Research.TaskTimeoutDuration())
	defer cancel()

	if err := env.memorySystem.RecordExchange(runCtx, sessionID, api.EntryTypeResearch, query); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record query in memory: %v\n", err)
	}

	var onEvent func(core.Event)
	if verbose {
		onEvent = func(ev core.Event) {
			if ev.Content == nil || (ev.Partial != nil && *ev.Partial) {
				return
			}
			for _, part := range ev.Content.Parts {
				if tp, ok := part.(core.TextPart); ok && tp.Text != "" {
					fmt.Printf("\n[%s]\n%s\n", ev.Author, tp.Text)
				}
			}
		}
	}

	result, err := env.orchestrator.Run(runCtx, sessionID, query, onEvent)
	if err != nil {
		return fmt.Errorf("research run failed: %w", err)
	}

	fmt.Println()
	fmt.Println(result.Report)

	if err := env.memorySystem.RecordExchange(runCtx, sessionID, api.EntryTypeResearch, result.Report); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record report in memory: %v\n", err)
	}

	return nil
}
