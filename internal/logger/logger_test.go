package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		debug     bool
		checkFunc func(t *testing.T, output string)
	}{
		{
			name:   "Text Logger Info Level",
			config: Config{Level: "info", Format: "text"},
			checkFunc: func(t *testing.T, output string) {
				assert.Contains(t, output, "level=INFO")
				assert.Contains(t, output, `msg="test message"`)
			},
		},
		{
			name:   "JSON Logger Debug Level",
			config: Config{Level: "debug", Format: "json"},
			debug:  true,
			checkFunc: func(t *testing.T, output string) {
				var entry map[string]any
				require.NoError(t, json.Unmarshal([]byte(output), &entry), output)
				assert.Equal(t, "DEBUG", entry["level"])
				assert.Equal(t, "test message", entry["msg"])
			},
		},
		{
			name:   "Debug Suppressed At Warn Level",
			config: Config{Level: "warn"},
			debug:  true,
			checkFunc: func(t *testing.T, output string) {
				assert.Empty(t, output)
			},
		},
		{
			name:   "Unknown Level Falls Back To Info",
			config: Config{Level: "loud"},
			checkFunc: func(t *testing.T, output string) {
				assert.Contains(t, output, "level=INFO")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.config, &buf)

			if tt.debug {
				logger.Debug("test message")
			} else {
				logger.Info("test message")
			}

			tt.checkFunc(t, buf.String())
		})
	}
}

func TestWriter_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warden.log")

	w, closeFn := Writer(Config{Output: "file", File: path})
	NewLogger(Config{Level: "info"}, w).Info("written to file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNewLogger_NilOutputUsesConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warden.log")

	NewLogger(Config{Level: "info", Output: "file", File: path}, nil).Info("resolved by writer")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "resolved by writer")
}

func TestWriter_Streams(t *testing.T) {
	w, closeFn := Writer(Config{Output: "stderr"})
	assert.Same(t, os.Stderr, w)
	assert.NoError(t, closeFn())

	w, _ = Writer(Config{})
	assert.Same(t, os.Stdout, w)
}
