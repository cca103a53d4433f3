// Command server starts the RecruiterBook HTTP API.
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

	httpserver "github.com/AdityaU3672/recruiterbook-api/internal/adapter/httpserver"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/observability"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/profanity"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/queue/inproc"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/queue/redpanda"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/queue/shared"
	"github.com/AdityaU3672/recruiterbook-api/internal/app"
	"github.com/AdityaU3672/recruiterbook-api/internal/config"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/internal/usecase"
)

// queueCloser is implemented by both enrichment queue backends.
type queueCloser interface {
	domain.EnrichmentQueue
	Close(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so that /metrics
	// exposes HTTP, upstream and enrichment instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	if cfg.JWTSecret == "change-me" && !cfg.IsDev() && !cfg.IsTest() {
		slog.Error("JWT_SECRET_KEY must be set outside development")
		os.Exit(1)
	}

	ctx := context.Background()
	inf, err := app.OpenInfra(ctx, cfg)
	if err != nil {
		slog.Error("infrastructure init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer inf.Close()
	cache := inf.Cache()

	// Enrichment queue: in-process workers by default, Redpanda when a
	// separate worker deployment consumes the tasks.
	var queue queueCloser
	switch cfg.EnrichmentQueue {
	case config.QueueRedpanda:
		queue, err = redpanda.NewProducer(ctx, cfg.KafkaBrokers, cfg.EnrichmentTopic)
		if err != nil {
			slog.Error("redpanda producer init failed", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("enrichment tasks published to redpanda", slog.String("topic", cfg.EnrichmentTopic))
	default:
		providers, err := app.BuildProviders(ctx, cfg, inf.Limiter)
		if err != nil {
			slog.Error("enrichment providers init failed", slog.Any("error", err))
			os.Exit(1)
		}
		enricher := app.NewEnricher(cfg, inf.Store, cache, providers)
		queue = inproc.New(shared.Handler{Next: enricher, Timeout: cfg.EnrichmentTimeout}, cfg.EnrichmentWorkers, cfg.EnrichmentBuffer)
		slog.Info("enrichment tasks run in process", slog.Int("workers", cfg.EnrichmentWorkers))
	}

	filter := profanity.New()
	admin, err := httpserver.NewAdminCredentials(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		slog.Error("admin credentials invalid", slog.Any("error", err))
		os.Exit(1)
	}
	if admin == nil {
		slog.Warn("admin endpoints disabled: ADMIN_USERNAME/ADMIN_PASSWORD not set")
	}
	if cfg.SignInSecret != "" && cfg.SignInSecret == cfg.JWTSecret {
		slog.Error("SIGNIN_ASSERTION_SECRET must differ from JWT_SECRET_KEY")
		os.Exit(1)
	}
	signIn := httpserver.NewAssertionVerifier(cfg.SignInSecret)
	if signIn == nil {
		slog.Warn("sign-in disabled: SIGNIN_ASSERTION_SECRET not set")
	}

	srv := &httpserver.Server{
		Cfg:        cfg,
		Users:      usecase.NewUserService(inf.Store.Users()),
		Recruiters: usecase.NewRecruiterService(inf.Store, filter, queue, cache, cfg.CacheTTL),
		Reviews:    usecase.NewReviewService(inf.Store, filter, queue, cache),
		Votes:      usecase.NewVoteService(inf.Store),
		// industry backfill runs from cmd/industries; the API never searches synchronously
		Companies: usecase.NewCompanyService(inf.Store, usecase.IndustryClassifier{}, cache),
		Tokens:    httpserver.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiration),
		Admin:     admin,
		SignIn:    signIn,
		Checks:    app.BuildReadinessChecks(inf.Pool, inf.RedisClient()),
	}
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	if err := srvHTTP.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", slog.Any("error", err))
	}
	// drain enrichment after the last request has scheduled its tasks
	if err := queue.Close(shutdownCtx); err != nil {
		slog.Error("enrichment queue close failed", slog.Any("error", err))
	}
}
