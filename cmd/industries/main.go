// Command industries infers the industry of companies that have none, or of
// every company with -force. It talks to the search provider directly and
// exits when the pass is done.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/observability"
	"github.com/AdityaU3672/recruiterbook-api/internal/app"
	"github.com/AdityaU3672/recruiterbook-api/internal/config"
	"github.com/AdityaU3672/recruiterbook-api/internal/usecase"
)

func main() {
	force := flag.Bool("force", false, "reclassify companies that already have an industry")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(observability.SetupLogger(cfg))

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
		slog.Error("providers init failed", slog.Any("error", err))
		os.Exit(1)
	}
	if providers.Search == nil {
		slog.Error("GOOGLE_API_KEY and SEARCH_ENGINE_ID are required for a backfill")
		os.Exit(1)
	}

	svc := usecase.NewCompanyService(inf.Store, providers.IndustryClassifier(), inf.Cache())
	rep, err := svc.BackfillIndustries(ctx, *force)
	slog.Info("industry backfill finished",
		slog.Bool("force", *force),
		slog.Int("scanned", rep.Scanned),
		slog.Int("updated", rep.Updated),
		slog.Int("defaulted", rep.Defaulted),
		slog.Int("failed", rep.Failed))
	if err != nil {
		slog.Error("industry backfill aborted", slog.Any("error", err))
		os.Exit(1)
	}
}
