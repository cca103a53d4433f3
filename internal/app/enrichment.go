package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/ai/openai"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/ai/tokencount"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/search/google"
	"github.com/AdityaU3672/recruiterbook-api/internal/config"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/internal/service/ratelimiter"
	"github.com/AdityaU3672/recruiterbook-api/internal/usecase"
)

// summaryPromptTokenBudget keeps summary prompts well inside small context windows.
const summaryPromptTokenBudget = 3000

// Providers are the outbound clients enrichment depends on. A nil field means
// the provider is not configured and the matching step falls back.
type Providers struct {
	Search    domain.SearchProvider
	Generator domain.TextGenerator
	Keywords  config.Keywords
}

// BuildProviders loads the keyword vocabularies and creates the search and
// text generation clients whose credentials are configured.
func BuildProviders(ctx context.Context, cfg config.Config, limiter *ratelimiter.TokenBucket) (Providers, error) {
	kw, err := config.LoadKeywords(cfg.KeywordsFile)
	if err != nil {
		return Providers{}, fmt.Errorf("op=app.build_providers: %w", err)
	}
	p := Providers{Keywords: kw}

	if cfg.SearchEnabled() {
		g, err := google.New(ctx, google.Options{
			APIKey:         cfg.GoogleAPIKey,
			SearchEngineID: cfg.SearchEngineID,
			Timeout:        cfg.SearchTimeout,
			Limiter:        limiter,
		})
		if err != nil {
			return Providers{}, fmt.Errorf("op=app.build_providers: %w", err)
		}
		p.Search = g
	} else {
		slog.Warn("web search not configured, verification and industry inference will fall back")
	}

	if cfg.AIEnabled() {
		p.Generator = openai.New(cfg, limiter)
	} else {
		slog.Warn("text generation not configured, summaries will fall back")
	}
	return p, nil
}

// IndustryClassifier returns the classifier for p.
func (p Providers) IndustryClassifier() usecase.IndustryClassifier {
	return usecase.IndustryClassifier{
		Search:   p.Search,
		Keywords: usecase.IndustryKeywords(p.Keywords.Industries),
	}
}

// NewEnricher assembles the enrichment handler over store.
func NewEnricher(cfg config.Config, store domain.Store, cache domain.Cache, p Providers) usecase.Enricher {
	return usecase.Enricher{
		Store: store,
		Summarizer: usecase.Summarizer{
			Generator:         p.Generator,
			Tokens:            tokencount.NewCounter(),
			Model:             cfg.SummaryModel,
			MaxTokens:         cfg.SummaryMaxTokens,
			PromptTokenBudget: summaryPromptTokenBudget,
		},
		Verifier:   usecase.Verifier{Search: p.Search, Keywords: p.Keywords.Recruiting},
		Industries: p.IndustryClassifier(),
		Cache:      cache,
	}
}
