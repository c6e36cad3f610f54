package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/provek/interview-sim/internal/api"
	sessionapi "github.com/provek/interview-sim/internal/api/session"
	"github.com/provek/interview-sim/internal/config"
	"github.com/provek/interview-sim/internal/engine"
	"github.com/provek/interview-sim/internal/evaluation"
	"github.com/provek/interview-sim/internal/integration/evaluator"
	"github.com/provek/interview-sim/internal/integration/generator"
	"github.com/provek/interview-sim/internal/pkg/ratelimit"
	"github.com/provek/interview-sim/internal/question"
	"github.com/provek/interview-sim/internal/storage"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("storage_driver", cfg.StorageDriver),
	)

	// Setup session storage
	store, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup storage: %w", err)
	}
	logger.Info("Session storage initialized")

	// Load the evaluation lexicon and question pool
	lexicon, err := evaluation.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	heuristic, err := evaluation.NewHeuristic(lexicon)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("build heuristic: %w", err)
	}

	pool, err := question.LoadPool(cfg.QuestionPoolPath)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load question pool: %w", err)
	}
	logger.Info("Question pool loaded", zap.Int("questions", len(pool)))

	// Initialize external service connectors (with mock support)
	var evaluatorConn evaluation.EvaluatorConnector
	var questionGen question.GeneratorConnector
	var followUpGen engine.FollowUpConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		evaluatorConn = evaluator.NewMockConnector(logger)
		gen := generator.NewMockConnector(logger)
		questionGen, followUpGen = gen, gen
	} else {
		logger.Info("Using real connectors for external services",
			zap.Int("rate_limit_per_minute", cfg.RateLimitPerMinute),
		)
		// One rolling window across every outbound service call.
		limiter := ratelimit.New(cfg.RateLimitPerMinute)
		evaluatorConn = evaluator.NewConnector(cfg.EvaluatorConnectorCfg, limiter, logger)
		gen := generator.NewConnector(cfg.GeneratorConnectorCfg, limiter, logger)
		questionGen, followUpGen = gen, gen
	}

	policy := evaluation.NewPolicy(evaluatorConn, heuristic, logger)
	selector := question.NewSelector(pool, questionGen, logger)
	logger.Info("Evaluation policy and question selector initialized")

	// Autosaver persists session snapshots in the background
	autosaver := storage.NewAutosaver(store, cfg.AutosaveCfg.Interval, cfg.AutosaveCfg.Debounce, logger)
	autosaver.Start()

	manager := engine.NewManager(engine.ManagerDeps{
		Store:     store,
		Notifier:  autosaver,
		Evaluator: policy,
		Selector:  selector,
		FollowUp:  followUpGen,
		Logger:    logger,
	})
	logger.Info("Interview manager initialized")

	// Setup API handlers and router
	sessionHandler := sessionapi.NewHandler(manager)
	router := api.SetupRouter(sessionHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:    server,
		manager:   manager,
		autosaver: autosaver,
		store:     store,
		logger:    logger,
	}, nil
}
