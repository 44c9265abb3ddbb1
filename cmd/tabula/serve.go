package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/tabula/internal/cli"
	"github.com/aretw0/tabula/internal/presentation/tui"
	httpAdapter "github.com/aretw0/tabula/pkg/adapters/http"
	"github.com/aretw0/tabula/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP validation server",
	Long:  `Exposes the registered machines as a JSON API over HTTP, with Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, done, err := setup(cmd)
		if err != nil {
			return err
		}
		defer done()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		eng, cleanup, err := openEngine(ctx, cmd, cfg, logger, metrics.Hooks())
		if err != nil {
			return err
		}
		defer cleanup()

		handler, err := httpAdapter.NewHandler(eng,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithRateLimit(cfg.Limits.RatePerSecond, cfg.Limits.Burst),
			httpAdapter.WithInputLimit(cfg.Limits.MaxInputBytes),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           http.TimeoutHandler(handler, cfg.Timeout, "request timed out"),
			ReadHeaderTimeout: 10 * time.Second,
		}

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(cmd.OutOrStdout())
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting tabula server", "addr", srv.Addr, "machines", eng.Machines())
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
			logger.Info("shutting down", "signal", ctx.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("tabula server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	settings.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
