package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"

	"github.com/luxevoice/frontdesk/internal/config"
	"github.com/luxevoice/frontdesk/internal/database"
	"github.com/luxevoice/frontdesk/internal/escalation"
	"github.com/luxevoice/frontdesk/internal/knowledge"
	"github.com/luxevoice/frontdesk/internal/log"
	"github.com/luxevoice/frontdesk/internal/observability"
	"github.com/luxevoice/frontdesk/internal/vectorindex"
)

// Setup creates and initializes the application. Call Close() to release.
//
// A failure inside the retrieval subsystem (database, Genkit, embedder)
// does not fail Setup: retrieval disables itself for the process lifetime
// and every search degrades to empty results, so the process still takes
// calls and escalates everything. A broken helpdesk configuration, by
// contrast, is fatal: without escalation the receptionist has no last
// resort.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}
	if logger == nil {
		logger = log.NewNop()
	}

	a := &App{Config: cfg, Logger: logger}

	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	a.otelCleanup = provideOtelShutdown(ctx, cfg, logger)

	helpdesk, err := escalation.NewClient(cfg.HelpdeskBaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("creating helpdesk client: %w", err)
	}
	a.Helpdesk = helpdesk
	a.Coordinator = escalation.NewCoordinator(helpdesk, cfg.PollInterval, cfg.MaxWait, logger)

	if err := a.setupRetrieval(ctx); err != nil {
		logger.Error("retrieval setup failed, disabling retrieval", "error", err)
		a.Knowledge = knowledge.NewDisabledService(logger)
	}

	return a, nil
}

// setupRetrieval builds the vector-search stack. Any error here means the
// caller runs with retrieval disabled.
func (a *App) setupRetrieval(ctx context.Context) error {
	cfg := a.Config

	if err := database.Migrate(cfg.PostgresURL()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	pool, err := database.Open(ctx, cfg.PostgresConnectionString())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.DBPool = pool

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return errors.New("initializing genkit with gemini provider")
	}
	a.Genkit = g

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}
	a.Embedder = embedder

	a.Index = vectorindex.New(pool, a.Logger)

	cache := knowledge.NewContextCache(a.Index, embedder, a.Logger)
	enricher := knowledge.NewEnricher(cfg.EnrichHistoryTurns)
	thresholds := knowledge.Thresholds{High: cfg.ConfidenceHigh, Medium: cfg.ConfidenceMedium}

	a.Knowledge = knowledge.NewService(a.Index, embedder, cache, enricher, thresholds, a.Logger)

	a.Logger.Info("retrieval ready",
		"embedder", cfg.EmbedderModel,
		"top_k", cfg.TopK,
		"thresholds", fmt.Sprintf("high=%.2f medium=%.2f", cfg.ConfidenceHigh, cfg.ConfidenceMedium))

	return nil
}

// provideOtelShutdown sets up Datadog tracing before Genkit initialization
// so the TracerProvider is ready when the first span starts.
func provideOtelShutdown(ctx context.Context, cfg *config.Config, logger log.Logger) func() {
	if !cfg.Datadog.Enabled {
		return func() {}
	}

	shutdown, err := observability.SetupDatadog(ctx, observability.Config{
		AgentHost:   cfg.Datadog.AgentHost,
		Environment: cfg.Datadog.Environment,
		ServiceName: cfg.Datadog.ServiceName,
	})
	if err != nil {
		logger.Warn("tracing setup failed, continuing without", "error", err)
		return func() {}
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}
