package bootstrap

import (
	"fmt"
	"time"

	"github.com/jonesrussell/mail-triage/internal/api"
	"github.com/jonesrussell/mail-triage/internal/classifier"
	"github.com/jonesrussell/mail-triage/internal/config"
	"github.com/jonesrussell/mail-triage/internal/logger"
	"github.com/jonesrussell/mail-triage/internal/logging"
	"github.com/jonesrussell/mail-triage/internal/processor"
	"github.com/jonesrussell/mail-triage/internal/telemetry"
)

const (
	defaultHTTPReadTimeout  = 30 * time.Second
	defaultHTTPWriteTimeout = 60 * time.Second
	defaultShutdownTimeout  = 30 * time.Second
)

// HTTPComponents holds all components needed for the HTTP server.
type HTTPComponents struct {
	Store   *config.Store
	Engine  *classifier.Engine
	History *HistoryComponents
	Handler *api.Handler
	Server  *api.Server
}

// NewHTTPComponents creates all components for the HTTP server.
func NewHTTPComponents(cfg *config.Config, log logger.Logger) (*HTTPComponents, error) {
	// Load and validate the classification snapshot
	store, err := config.NewStore(cfg.Engine.SnapshotPath, log)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	// Setup optional history persistence
	history, err := SetupHistory(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("setup history: %w", err)
	}

	providers := SetupProviders(cfg, log)

	telemetryProvider := telemetry.NewProvider()

	engine := classifier.NewEngine(store.Active(), providers, log, telemetryProvider)

	kv := logging.NewAdapter(log)

	batchProcessor := processor.NewBatchProcessor(engine, cfg.Service.Concurrency, kv)
	log.Info("Batch processor initialized", logger.Int("concurrency", batchProcessor.Concurrency()))

	var limiter *processor.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = processor.NewRateLimiter(cfg.RateLimit.PerSec, cfg.RateLimit.Burst, kv)
		log.Info("Rate limiting enabled",
			logger.Int("per_sec", cfg.RateLimit.PerSec),
			logger.Int("burst", cfg.RateLimit.Burst),
		)
	}

	handler := api.NewHandler(
		engine,
		batchProcessor,
		store,
		providers,
		history.Repo,
		telemetryProvider,
		cfg.Service.MaxBatchSize,
		cfg.Service.Name,
		cfg.Service.Version,
		kv,
	)

	serverConfig := api.ServerConfig{
		Port:         cfg.Service.Port,
		ReadTimeout:  defaultHTTPReadTimeout,
		WriteTimeout: defaultHTTPWriteTimeout,
		Debug:        cfg.Service.Debug,
	}
	server := api.NewServer(serverConfig, handler, limiter, telemetryProvider, kv)

	return &HTTPComponents{
		Store:   store,
		Engine:  engine,
		History: history,
		Handler: handler,
		Server:  server,
	}, nil
}

// HTTPShutdownTimeout returns the timeout for HTTP server graceful shutdown.
func HTTPShutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Service.ShutdownTimeout > 0 {
		return cfg.Service.ShutdownTimeout
	}
	return defaultShutdownTimeout
}
