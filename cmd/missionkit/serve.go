package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/missionkit"
	"github.com/aretw0/missionkit/internal/cli"
	"github.com/aretw0/missionkit/internal/presentation/tui"
	httpAdapter "github.com/aretw0/missionkit/pkg/adapters/http"
	"github.com/aretw0/missionkit/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the editor API over HTTP. Session diffs are pushed over SSE
(/sessions/{id}/events) and WebSocket (/sessions/{id}/ws); Prometheus metrics
are served at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}

		studio, err := cli.NewStudio(cmd.Context(), cfg, logger,
			metrics.Hooks(),
			observability.LoggingHooks(logger),
		)
		if err != nil {
			return err
		}
		defer studio.Close()

		api := httpAdapter.NewHandler(studio.Sessions(), studio.Catalog(),
			httpAdapter.WithRegistry(studio.Registry()),
			httpAdapter.WithLogger(logger.With("component", "http")),
			httpAdapter.WithCORSOrigins(cfg.Server.CORSOrigins...),
			httpAdapter.WithVersion(missionkit.Version),
		)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		mux.Handle("/", api)

		srv := &http.Server{
			Addr:    cfg.Server.Addr(),
			Handler: mux,
		}

		if tui.IsTerminal(os.Stderr) {
			tui.PrintBanner(os.Stderr, missionkit.Version)
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", "addr", srv.Addr, "store", cfg.Store.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutdown started", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", cfg.Server.ShutdownTimeout, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("HTTP server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides server.port)")
}
