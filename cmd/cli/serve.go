package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sevigo/text-warden/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the HTTP API in the foreground",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, cleanup, err := wire.InitializeApp(ctx, wire.ConfigPath(configPath()))
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(app.Start)
		g.Go(func() error {
			<-gctx.Done()
			stop()
			return app.Stop()
		})
		return g.Wait()
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.AddCommand(serveCmd)
}
