// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"

	"github.com/sevigo/text-warden/internal/analysis"
	"github.com/sevigo/text-warden/internal/app"
	"github.com/sevigo/text-warden/internal/core"
	"github.com/sevigo/text-warden/internal/server"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context, path ConfigPath) (*app.App, func(), error) {
	cfg, err := provideConfig(path)
	if err != nil {
		return nil, nil, err
	}
	loggerConfig := provideLoggerConfig(cfg)
	writer, cleanup := provideLogWriter(loggerConfig)
	slogLogger := provideSlogLogger(loggerConfig, writer)

	options := provideAnalysisOptions(cfg)
	linter, err := provideLinter(cfg, slogLogger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	tag := provideLocale(cfg)
	counter := provideCounter(tag)
	confirmer := provideConfirmer(cfg)
	state := analysis.NewState()
	orchestrator := analysis.NewOrchestrator(options, linter, counter, confirmer, state, slogLogger)

	srv := server.NewServer(ctx, cfg, orchestrator, slogLogger)
	application := app.NewApp(ctx, cfg, orchestrator, srv, slogLogger)

	return application, func() {
		cleanup()
	}, nil
}

// InitializeOrchestrator wires an orchestrator for command line use.
func InitializeOrchestrator(path ConfigPath, confirmer core.Confirmer) (*analysis.Orchestrator, func(), error) {
	cfg, err := provideConfig(path)
	if err != nil {
		return nil, nil, err
	}
	loggerConfig := provideLoggerConfig(cfg)
	writer, cleanup := provideStderrLogWriter(loggerConfig)
	slogLogger := provideSlogLogger(loggerConfig, writer)

	options := provideAnalysisOptions(cfg)
	linter, err := provideLinter(cfg, slogLogger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	tag := provideLocale(cfg)
	counter := provideCounter(tag)
	state := analysis.NewState()
	orchestrator := analysis.NewOrchestrator(options, linter, counter, confirmer, state, slogLogger)

	return orchestrator, func() {
		cleanup()
	}, nil
}
