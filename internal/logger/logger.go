package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// DefaultFile is where logs go when Output is "file" and no path is set.
const DefaultFile = "text-warden.log"

// Config holds the logger configuration.
type Config struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
	File   string `mapstructure:"file"`
}

// Writer resolves the configured output. The returned closer must be called
// when the output is a file; it is a no-op otherwise.
func Writer(cfg Config) (io.Writer, func() error) {
	noop := func() error { return nil }

	switch cfg.Output {
	case "stderr":
		return os.Stderr, noop
	case "file":
		path := cfg.File
		if path == "" {
			path = DefaultFile
		}
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", path, err)
			return os.Stderr, noop
		}
		return file, file.Close
	default:
		return os.Stdout, noop
	}
}

// NewLogger initializes a new slog logger based on the provided configuration.
// A nil output is resolved with Writer, and a log file opened that way stays
// open for the life of the process. Callers that need to close the file pass
// the writer returned by Writer and own its closer.
func NewLogger(cfg Config, output io.Writer) *slog.Logger {
	if output == nil {
		output, _ = Writer(cfg)
	}

	level := new(slog.Level)
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		*level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
