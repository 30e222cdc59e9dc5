package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonesrussell/mail-triage/internal/bootstrap"
	"github.com/jonesrussell/mail-triage/internal/logger"
)

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		stdlog.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	components, err := bootstrap.NewHTTPComponents(cfg, log)
	if err != nil {
		log.Error("Failed to initialize components", logger.Error(err))
		os.Exit(1)
	}
	if components.History.DB != nil {
		defer func() { _ = components.History.DB.Close() }()
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- components.Server.Start()
	}()

	// SIGHUP reloads the classification snapshot without a restart.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case err := <-serverErrors:
			log.Error("Server error", logger.Error(err))
			os.Exit(1)

		case <-reload:
			reloadSnapshot(components, log)

		case sig := <-shutdown:
			log.Info("Shutdown signal received", logger.String("signal", sig.String()))

			ctx, cancel := context.WithTimeout(context.Background(), bootstrap.HTTPShutdownTimeout(cfg))
			err := components.Server.Shutdown(ctx)
			cancel()
			if err != nil {
				log.Error("Graceful shutdown failed", logger.Error(err))
				os.Exit(1)
			}

			log.Info("Server stopped gracefully")
			return
		}
	}
}

// reloadSnapshot re-reads the snapshot file and swaps it into the engine.
// A snapshot that fails validation leaves the active one untouched.
func reloadSnapshot(components *bootstrap.HTTPComponents, log logger.Logger) {
	diff, err := components.Store.Reload()
	if err != nil {
		log.Error("Snapshot reload failed", logger.Error(err))
		return
	}

	components.Engine.UpdateSnapshot(components.Store.Active())
	log.Info("Snapshot reloaded", logger.String("diff", diff.String()))
}
