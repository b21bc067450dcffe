package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/carousel/internal/cli"
	httpAdapter "github.com/aretw0/carousel/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Hosts carousels behind a JSON API with SSE diffs, a websocket of frames
and Prometheus metrics. Positions are persisted in the configured store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			cfg.Server.Addr = addr
		}
		debug, _ := cmd.Flags().GetBool("debug")
		logger := cli.CreateLogger(cfg.Log, debug)

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		app, err := cli.NewApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		opts := []httpAdapter.HandlerOption{httpAdapter.WithLogger(logger)}
		if app.Registry != nil {
			opts = append(opts, httpAdapter.WithMetrics(app.Registry))
		}
		handler, err := httpAdapter.NewHandler(app.Manager, opts...)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting Carousel Server", "addr", srv.Addr, "store", cfg.Store, "items", len(app.Items))
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("Start shutdown", "signal", fmt.Sprint(ctx.Signal()))

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			// Closing every session ends the open event streams.
			srv.RegisterOnShutdown(func() { app.Manager.Shutdown(shutdownCtx) })
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", cfg.Server.ShutdownTimeout, "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("Error killing server", "err", err)
				}
			}
			logger.Info("Carousel Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
}
