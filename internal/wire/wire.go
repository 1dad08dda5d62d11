//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/sevigo/text-warden/internal/analysis"
	"github.com/sevigo/text-warden/internal/app"
	"github.com/sevigo/text-warden/internal/core"
)

func InitializeApp(ctx context.Context, path ConfigPath) (*app.App, func(), error) {
	wire.Build(AppSet)
	return &app.App{}, nil, nil
}

func InitializeOrchestrator(path ConfigPath, confirmer core.Confirmer) (*analysis.Orchestrator, func(), error) {
	wire.Build(CLISet)
	return &analysis.Orchestrator{}, nil, nil
}
