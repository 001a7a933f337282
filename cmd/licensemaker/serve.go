package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MacJediWizard/licensemaker/internal/api"
	"github.com/MacJediWizard/licensemaker/internal/config"
	"github.com/MacJediWizard/licensemaker/internal/maintenance"
	"github.com/MacJediWizard/licensemaker/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the license issuance HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				a.cfg.Server.ListenAddr = listen
			}
			return a.serve()
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides server.listen_addr)")

	return cmd
}

func (a *app) serve() error {
	logger := a.logger

	if config.LoadEnvironment() == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.NewPrometheusMetrics(registry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	svc, store, cleanup, err := a.openService(m)
	if err != nil {
		return err
	}
	defer cleanup()

	deps := api.Dependencies{
		Service:  svc,
		Gatherer: registry,
	}
	if store != nil {
		deps.Ledger = store
	}

	router, err := api.NewRouter(api.Config{
		RateLimitRequests: int64(a.cfg.Server.RateLimitRequests),
		RateLimitPeriod:   a.cfg.Server.RateLimitPeriod,
		MaxBodyBytes:      a.cfg.Server.MaxBodyBytes,
		Version:           Version,
		Commit:            Commit,
		BuildDate:         BuildDate,
	}, deps, logger)
	if err != nil {
		return fmt.Errorf("create router: %w", err)
	}

	srv := &http.Server{
		Addr:              a.cfg.Server.ListenAddr,
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("scheme", string(svc.Issuer().Scheme())).
			Str("algorithm", string(svc.Issuer().Algorithm())).
			Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Start expiry scheduler
	if store != nil {
		expiryScheduler := maintenance.NewExpiryScheduler(store, m, a.cfg.ExpiryWarningDays, logger)
		if _, err := expiryScheduler.RunNow(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Initial expiry scan failed")
		}
		if err := expiryScheduler.Start(); err != nil {
			logger.Error().Err(err).Msg("Failed to start expiry scheduler")
		}
		defer expiryScheduler.Stop()
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info().Msg("Server stopped gracefully")
	return nil
}
