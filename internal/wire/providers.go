package wire

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/wire"
	"golang.org/x/text/language"

	"github.com/sevigo/text-warden/internal/analysis"
	"github.com/sevigo/text-warden/internal/app"
	"github.com/sevigo/text-warden/internal/config"
	"github.com/sevigo/text-warden/internal/core"
	"github.com/sevigo/text-warden/internal/counter"
	"github.com/sevigo/text-warden/internal/lint"
	"github.com/sevigo/text-warden/internal/logger"
	"github.com/sevigo/text-warden/internal/server"
)

// ConfigPath is the config file passed on the command line. Empty means the
// default lookup locations.
type ConfigPath string

// EngineSet builds the orchestrator and the engines behind it. The confirmer
// is supplied by the caller.
var EngineSet = wire.NewSet(
	provideConfig,
	provideLoggerConfig,
	provideSlogLogger,
	provideLocale,
	provideCounter,
	provideLinter,
	provideAnalysisOptions,
	analysis.NewState,
	analysis.NewOrchestrator,
)

// AppSet builds the HTTP service.
var AppSet = wire.NewSet(
	EngineSet,
	provideLogWriter,
	provideConfirmer,
	server.NewServer,
	app.NewApp,
)

// CLISet builds an orchestrator for one-shot command line use. Logs go to
// stderr so stdout carries only results.
var CLISet = wire.NewSet(
	EngineSet,
	provideStderrLogWriter,
)

func provideConfig(path ConfigPath) (*config.Config, error) {
	cfg, err := config.LoadConfig(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideLogWriter(cfg logger.Config) (io.Writer, func()) {
	w, closeFn := logger.Writer(cfg)
	return w, func() { _ = closeFn() }
}

func provideStderrLogWriter(cfg logger.Config) (io.Writer, func()) {
	if cfg.Output == "file" {
		return provideLogWriter(cfg)
	}
	return os.Stderr, func() {}
}

func provideSlogLogger(cfg logger.Config, w io.Writer) *slog.Logger {
	return logger.NewLogger(cfg, w)
}

// provideLocale parses the configured text locale. Unparseable locales count
// as undetermined; the counter does not depend on them.
func provideLocale(cfg *config.Config) language.Tag {
	tag, err := language.Parse(lint.NormalizeLocale(cfg.Linting.Locale))
	if err != nil {
		return language.Und
	}
	return tag
}

func provideCounter(locale language.Tag) core.Counter {
	return counter.New(locale)
}

// provideLinter creates the engine in the configured dialect. Locales without
// linting support get an engine that the orchestrator never calls.
func provideLinter(cfg *config.Config, log *slog.Logger) (core.Linter, error) {
	dialect := core.DialectAmerican
	if lint.SupportsLinting(cfg.Linting.Locale) {
		d, err := lint.ResolveDialect(cfg.Linting.Locale, cfg.Linting.Region, cfg.Linting.PreferredLocales)
		if err != nil {
			return nil, err
		}
		dialect = d
	}
	return lint.NewEngine(dialect, log.With("component", "lint_engine"))
}

func provideAnalysisOptions(cfg *config.Config) analysis.Options {
	return analysis.Options{
		WarnOnLargeInput: cfg.Analysis.WarnOnLargeInput,
		EnableLinting:    cfg.Analysis.EnableLinting,
		MaxCharacters:    cfg.Analysis.MaxCharacters,
		MinChunkSize:     cfg.Analysis.MinChunkSize,
		Locale:           cfg.Linting.Locale,
		Region:           cfg.Linting.Region,
		PreferredLocales: cfg.Linting.PreferredLocales,
	}
}

// provideConfirmer answers the large-input prompt for HTTP requests that do
// not answer it themselves.
func provideConfirmer(cfg *config.Config) core.Confirmer {
	return core.ContextConfirmer(cfg.Analysis.AutoConfirmLargeInput)
}
