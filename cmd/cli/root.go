package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sevigo/text-warden/internal/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "warden",
	Short: "warden counts and lints prose from the command line.",
	Long: `A CLI for Text Warden. It computes document statistics and runs the grammar
and spelling linter over a file or standard input, visible region first.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a text-warden.yaml config file")

	if err := viper.BindPFlag("CONFIG", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		slog.Error("Error binding flag", "error", err)
		os.Exit(1)
	}
}

// initConfig reads in ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// configPath returns --config, falling back to TW_CONFIG.
func configPath() string {
	return viper.GetString("CONFIG")
}
