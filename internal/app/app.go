// Package app ties the analysis orchestrator to the HTTP server.
package app

import (
	"context"
	"log/slog"

	"github.com/sevigo/text-warden/internal/analysis"
	"github.com/sevigo/text-warden/internal/config"
	"github.com/sevigo/text-warden/internal/server"
)

// App holds the main application components.
type App struct {
	ctx          context.Context
	cfg          *config.Config
	orchestrator *analysis.Orchestrator
	server       *server.Server
	logger       *slog.Logger
}

// NewApp creates the application from its wired components.
func NewApp(ctx context.Context, cfg *config.Config, orch *analysis.Orchestrator, srv *server.Server, logger *slog.Logger) *App {
	return &App{
		ctx:          ctx,
		cfg:          cfg,
		orchestrator: orch,
		server:       srv,
		logger:       logger,
	}
}

// Start launches the lint runner and blocks serving HTTP.
func (a *App) Start() error {
	opts := a.orchestrator.Options()
	a.logger.Info("starting Text Warden",
		"server_port", a.cfg.Server.Port,
		"locale", opts.Locale,
		"region", opts.Region,
		"linting", opts.EnableLinting)

	a.orchestrator.Start(a.ctx)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly.
func (a *App) Stop() error {
	a.logger.Info("shutting down Text Warden services")

	// Stop the HTTP server first to prevent new incoming requests.
	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	// Let the running lint job finish and drop the queued ones.
	a.orchestrator.Stop()

	if serverErr != nil {
		a.logger.Error("Text Warden stopped with errors", "error", serverErr)
		return serverErr
	}

	a.logger.Info("Text Warden stopped successfully")
	return nil
}
