// Command worker consumes enrichment tasks from Redpanda and writes summaries,
// verification flags and company industries back to PostgreSQL.
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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/observability"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/queue/redpanda"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/queue/shared"
	"github.com/AdityaU3672/recruiterbook-api/internal/app"
	"github.com/AdityaU3672/recruiterbook-api/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register Prometheus metrics in the worker process and expose them on a
	// dedicated /metrics endpoint.
	observability.InitMetrics()
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WorkerMetricsPort),
		ReadHeaderTimeout: 5 * time.Second,
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv.Handler = mux
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker metrics server error", slog.Any("error", err))
		}
	}()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	if cfg.EnrichmentQueue != config.QueueRedpanda {
		slog.Warn("ENRICHMENT_QUEUE is not redpanda; the API runs enrichment in process and this worker will idle")
	}
	slog.Info("starting worker", slog.String("env", cfg.AppEnv))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inf, err := app.OpenInfra(ctx, cfg)
	if err != nil {
		slog.Error("infrastructure init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer inf.Close()

	providers, err := app.BuildProviders(ctx, cfg, inf.Limiter)
	if err != nil {
		slog.Error("enrichment providers init failed", slog.Any("error", err))
		os.Exit(1)
	}
	enricher := app.NewEnricher(cfg, inf.Store, inf.Cache(), providers)

	consumer, err := redpanda.NewConsumer(ctx, cfg.KafkaBrokers, cfg.EnrichmentGroupID, cfg.EnrichmentTopic,
		shared.Handler{Next: enricher, Timeout: cfg.EnrichmentTimeout}, cfg.EnrichmentWorkers)
	if err != nil {
		slog.Error("redpanda consumer init failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("consuming enrichment tasks",
		slog.String("topic", cfg.EnrichmentTopic),
		slog.String("group", cfg.EnrichmentGroupID),
		slog.Int("workers", cfg.EnrichmentWorkers))
	if err := consumer.Run(ctx); err != nil {
		slog.Error("consumer stopped", slog.Any("error", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	slog.Info("worker stopped")
}
