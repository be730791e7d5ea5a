package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	scopedpool "github.com/ChuLiYu/scoped-pool"
	"github.com/ChuLiYu/scoped-pool/internal/config"
	"github.com/ChuLiYu/scoped-pool/metrics"
)

func buildServeMetricsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Run a long-lived pool and expose its Prometheus metrics until signaled",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeMetrics()
		},
	}

	return cmd
}

func runServeMetrics() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	collector := metrics.New(reg)

	p := scopedpool.New(cfg.Pool.Size, scopedpool.WithMetrics(collector))
	defer p.Shutdown()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: cfg.Pool.MetricsAddr, Handler: mux}

	serveErrs := make(chan error, 1)
	go func() {
		slog.Info("serving metrics", "addr", cfg.Pool.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrs <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		slog.Info("shutdown signal received")
	case err := <-serveErrs:
		return fmt.Errorf("serve-metrics: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
