package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/sevigo/text-warden/internal/lint"
	"github.com/sevigo/text-warden/internal/logger"
)

// EnvPrefix prefixes every environment variable read by LoadConfig, e.g.
// TW_SERVER_PORT or TW_ANALYSIS_MAX_CHARACTERS.
const EnvPrefix = "TW"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the application's configuration values.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  logger.Config  `mapstructure:"logging"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Linting  LintingConfig  `mapstructure:"linting"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// AnalysisConfig controls counting, chunking and the large-input prompt.
type AnalysisConfig struct {
	WarnOnLargeInput      bool `mapstructure:"warn_on_large_input"`
	EnableLinting         bool `mapstructure:"enable_linting"`
	MaxCharacters         int  `mapstructure:"max_characters"`
	MinChunkSize          int  `mapstructure:"min_chunk_size"`
	AutoConfirmLargeInput bool `mapstructure:"auto_confirm_large_input"`
}

// LintingConfig selects the language of the text and the regional dialect.
// Region "auto" picks the dialect from PreferredLocales.
type LintingConfig struct {
	Locale           string   `mapstructure:"locale"`
	Region           string   `mapstructure:"region"`
	PreferredLocales []string `mapstructure:"preferred_locales"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file", logger.DefaultFile)

	v.SetDefault("analysis.warn_on_large_input", true)
	v.SetDefault("analysis.enable_linting", true)
	v.SetDefault("analysis.max_characters", 100_000)
	v.SetDefault("analysis.min_chunk_size", 1000)
	v.SetDefault("analysis.auto_confirm_large_input", false)

	v.SetDefault("linting.locale", "en")
	v.SetDefault("linting.region", lint.RegionAuto)
	v.SetDefault("linting.preferred_locales", systemLocales())
}

// LoadConfig reads configuration from an optional YAML file and environment
// variables, applies defaults and validates the result. When path is empty
// text-warden.yaml is looked up in the working directory and in
// $HOME/.config/text-warden; a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("text-warden")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "text-warden"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: server.port %q is not a valid port", ErrInvalidConfig, c.Server.Port)
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("%w: unknown logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	if !slices.Contains([]string{"text", "json"}, strings.ToLower(c.Logging.Format)) {
		return fmt.Errorf("%w: unknown logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}
	if !slices.Contains([]string{"stdout", "stderr", "file"}, c.Logging.Output) {
		return fmt.Errorf("%w: unknown logging.output %q", ErrInvalidConfig, c.Logging.Output)
	}

	if c.Analysis.MaxCharacters <= 0 {
		return fmt.Errorf("%w: analysis.max_characters must be positive", ErrInvalidConfig)
	}
	if c.Analysis.MinChunkSize <= 0 {
		return fmt.Errorf("%w: analysis.min_chunk_size must be positive", ErrInvalidConfig)
	}

	if c.Linting.Locale == "" {
		return fmt.Errorf("%w: linting.locale must be set", ErrInvalidConfig)
	}
	// Regions of locales without linting support are never used.
	if regions, err := lint.Regions(c.Linting.Locale); err == nil && c.Linting.Region != "" {
		if !slices.ContainsFunc(regions, func(r string) bool { return strings.EqualFold(r, c.Linting.Region) }) {
			return fmt.Errorf("%w: linting.region %q, expected one of %s",
				ErrInvalidConfig, c.Linting.Region, strings.Join(regions, ", "))
		}
	}
	return nil
}

// systemLocales returns the user's locales from the usual POSIX variables,
// most preferred first.
func systemLocales() []string {
	if list := os.Getenv("LANGUAGE"); list != "" {
		return strings.FieldsFunc(list, func(r rune) bool { return r == ':' })
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" && v != "C" && v != "POSIX" {
			return []string{v}
		}
	}
	return nil
}
