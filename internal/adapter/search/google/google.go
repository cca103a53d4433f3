// Package google implements domain.SearchProvider on the Custom Search JSON API.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	obs "github.com/AdityaU3672/recruiterbook-api/internal/observability"
	"github.com/AdityaU3672/recruiterbook-api/internal/service/ratelimiter"
)

// resultsPerQuery is the API maximum for a single page.
const resultsPerQuery = 10

// Limiter throttles outbound calls. *ratelimiter.TokenBucket satisfies it.
type Limiter interface {
	Allow(ctx context.Context, key string, cost int64) (bool, time.Duration, error)
}

// Options configures a Client.
type Options struct {
	APIKey         string
	SearchEngineID string
	Timeout        time.Duration
	// Endpoint overrides the API base URL.
	Endpoint string
	Limiter  Limiter
}

// Client runs searches against one programmable search engine.
type Client struct {
	svc      *customsearch.Service
	cx       string
	upstream *obs.Upstream
	limiter  Limiter
}

var _ domain.SearchProvider = (*Client)(nil)

// New builds a Client. APIKey and SearchEngineID are required.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" || opts.SearchEngineID == "" {
		return nil, fmt.Errorf("op=google.new: %w: api key and search engine id are required", domain.ErrInvalidArgument)
	}
	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}
	svc, err := customsearch.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("op=google.new: %w", err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	up := obs.NewUpstream("search", timeout)
	// a rejected query is our fault, not the provider's
	up.Counts = func(err error) bool {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code >= 400 && gerr.Code < 500 && gerr.Code != http.StatusTooManyRequests {
			return false
		}
		return !errors.Is(err, context.Canceled)
	}
	return &Client{svc: svc, cx: opts.SearchEngineID, upstream: up, limiter: opts.Limiter}, nil
}

// Search returns up to ten results for query. Provider failures wrap domain.ErrUpstream.
func (c *Client) Search(ctx domain.Context, query string) ([]domain.SearchResult, error) {
	tracer := otel.Tracer("search.google")
	ctx, span := tracer.Start(ctx, "google.Search")
	defer span.End()
	span.SetAttributes(attribute.String("search.query", query))

	if c.limiter != nil {
		ok, retryAfter, err := c.limiter.Allow(ctx, ratelimiter.BucketSearch, 1)
		if err == nil && !ok {
			return nil, fmt.Errorf("op=google.search: %w: rate limited, retry after %s", domain.ErrUpstream, retryAfter)
		}
	}

	var res *customsearch.Search
	err := c.upstream.Do(ctx, "query", func(ctx context.Context) error {
		var err error
		res, err = c.svc.Cse.List().Cx(c.cx).Q(query).Num(resultsPerQuery).Context(ctx).Do()
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("op=google.search: %w: %w", domain.ErrUpstream, err)
	}

	out := make([]domain.SearchResult, 0, len(res.Items))
	for _, item := range res.Items {
		if item == nil {
			continue
		}
		out = append(out, domain.SearchResult{Title: item.Title, Snippet: item.Snippet, Link: item.Link})
	}
	span.SetAttributes(attribute.Int("search.results", len(out)))
	return out, nil
}
