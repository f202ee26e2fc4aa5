// Command server runs the deep research HTTP service.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/deepresearch-labs/deep-research/internal/agents"
	"github.com/deepresearch-labs/deep-research/internal/citations"
	"github.com/deepresearch-labs/deep-research/internal/config"
	"github.com/deepresearch-labs/deep-research/internal/embedding"
	"github.com/deepresearch-labs/deep-research/internal/memory"
	"github.com/deepresearch-labs/deep-research/internal/middleware"
	"github.com/deepresearch-labs/deep-research/internal/research"
	"github.com/deepresearch-labs/deep-research/internal/search"
	"github.com/deepresearch-labs/deep-research/internal/ws"
	"github.com/deepresearch-labs/deep-research/pkg/logging"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.New(&cfg.Logging)

	db, err := openDB(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := runMigrations(&cfg.Database, logger); err != nil {
		return err
	}

	app, err := newApplication(cfg, db, logger)
	if err != nil {
		return err
	}

	app.executor.Start()
	defer app.executor.Stop()

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.routes(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "version", cfg.Server.Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()

	return server.Shutdown(ctx)
}

type application struct {
	cfg    *config.Config
	db     *sql.DB
	logger *slog.Logger

	agentsSystem  *agents.System
	memorySystem  *memory.System
	searchSystem  *search.System
	citationsRepo *citations.Repository
	researchRepo  *research.Repository
	executor      *research.Executor
	hub           *ws.Hub
	validate      *validator.Validate
}

func newApplication(cfg *config.Config, db *sql.DB, logger *slog.Logger) (*application, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	embedder := embedding.NewOpenAIEmbedder(&cfg.OpenAI)

	memStore := memory.NewStore(embedder, cfg.Memory.MinRelevanceScore, cfg.Memory.MaxEntriesPerSession)
	memorySystem := memory.NewSystem(memStore, &cfg.Memory, logger)

	var providers []search.Provider
	milvusProvider, err := search.NewMilvusProvider(context.Background(), &cfg.Search.Milvus, embedder)
	if err != nil {
		logger.Warn("vector search unavailable", "error", err)
	} else {
		providers = append(providers, milvusProvider)
	}
	providers = append(providers, search.NewWebProvider(&cfg.Search.Web))

	searchSystem := search.NewSystem(&cfg.Search, logger, providers...)

	agentsSystem := agents.NewSystem(logger)

	orchestrator, err := research.NewOrchestrator(cfg, searchSystem, memStore, agentsSystem, logger)
	if err != nil {
		return nil, fmt.Errorf("build orchestrator: %w", err)
	}

	hub := ws.NewHub(logger)

	researchRepo := research.NewRepository(db)
	executor := research.NewExecutor(researchRepo, orchestrator, memorySystem, hub, &cfg.Research, logger)

	return &application{
		cfg:           cfg,
		db:            db,
		logger:        logger,
		agentsSystem:  agentsSystem,
		memorySystem:  memorySystem,
		searchSystem:  searchSystem,
		citationsRepo: citations.NewRepository(db),
		researchRepo:  researchRepo,
		executor:      executor,
		hub:           hub,
		validate:      validate,
	}, nil
}

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	agents.NewHandler(app.agentsSystem, app.cfg.Pagination, app.logger).RegisterRoutes(mux)
	memory.NewHandler(app.memorySystem, app.validate, app.cfg.Pagination, app.logger).RegisterRoutes(mux)
	search.NewHandler(app.searchSystem, app.validate, app.logger).RegisterRoutes(mux)
	citations.NewHandler(app.citationsRepo, app.validate, app.cfg.Pagination, app.logger).RegisterRoutes(mux)
	research.NewHandler(app.executor, app.researchRepo, app.validate, app.cfg.Pagination, app.logger).RegisterRoutes(mux)
	ws.NewHandler(app.hub, &app.cfg.CORS, app.logger).RegisterRoutes(mux)

	mux.HandleFunc("GET /health", app.health)
	mux.HandleFunc("GET /api/v1/config", app.configInfo)

	return middleware.Chain(mux,
		middleware.Recover(app.logger),
		middleware.Logger(app.logger),
		middleware.CORS(&app.cfg.CORS),
		middleware.RateLimit(&app.cfg.RateLimit, app.logger),
		middleware.MaxBody(app.cfg.Server.MaxBodyBytes()),
		middleware.TrimSlash,
	)
}

func openDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

func runMigrations(cfg *config.DatabaseConfig, logger *slog.Logger) error {
	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.URL())
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debug("migrations up to date")
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("migrations applied")
	return nil
}
