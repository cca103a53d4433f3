// Package openai implements domain.TextGenerator on an OpenAI-compatible chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AdityaU3672/recruiterbook-api/internal/config"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	obs "github.com/AdityaU3672/recruiterbook-api/internal/observability"
	"github.com/AdityaU3672/recruiterbook-api/internal/service/ratelimiter"
)

// maxErrorBody bounds how much of a failed response is logged.
const maxErrorBody = 512

// Limiter throttles outbound calls. *ratelimiter.TokenBucket satisfies it.
type Limiter interface {
	Allow(ctx context.Context, key string, cost int64) (bool, time.Duration, error)
}

// Client calls POST {base}/chat/completions with retries.
type Client struct {
	cfg      config.Config
	hc       *http.Client
	upstream *obs.Upstream
	limiter  Limiter
}

var _ domain.TextGenerator = (*Client)(nil)

// statusError is a non-2xx answer from the provider.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string { return fmt.Sprintf("chat status %d", e.code) }

// New constructs a Client. limiter may be nil.
func New(cfg config.Config, limiter Limiter) *Client {
	up := obs.NewUpstream("ai", cfg.AIRequestTimeout)
	up.Counts = func(err error) bool {
		var se *statusError
		if errors.As(err, &se) && se.code >= 400 && se.code < 500 && se.code != http.StatusTooManyRequests {
			return false
		}
		return !errors.Is(err, context.Canceled)
	}
	return &Client{
		cfg:      cfg,
		hc:       &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		upstream: up,
		limiter:  limiter,
	}
}

func (c *Client) backoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	maxElapsedTime, initialInterval, maxInterval, multiplier := c.cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsedTime
	expo.InitialInterval = initialInterval
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	return expo
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Generate returns the first choice's content. Every failure wraps domain.ErrUpstream.
func (c *Client) Generate(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if c.cfg.OpenAIAPIKey == "" {
		return "", fmt.Errorf("op=openai.generate: %w: OPENAI_API_KEY missing", domain.ErrUpstream)
	}
	if c.limiter != nil {
		ok, retryAfter, err := c.limiter.Allow(ctx, ratelimiter.BucketAI, 1)
		if err == nil && !ok {
			return "", fmt.Errorf("op=openai.generate: %w: rate limited, retry after %s", domain.ErrUpstream, retryAfter)
		}
	}

	b, err := json.Marshal(chatRequest{
		Model:       c.cfg.SummaryModel,
		MaxTokens:   maxTokens,
		Temperature: 0.2,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("op=openai.generate: %w", err)
	}
	endpoint := strings.TrimRight(c.cfg.OpenAIBaseURL, "/") + "/chat/completions"
	lg := obs.LoggerFromContext(ctx).With("provider", "openai", "model", c.cfg.SummaryModel)

	var out chatResponse
	call := func(ctx context.Context) error {
		op := func() error {
			// rebuild the request each attempt so the body is fresh
			r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
			if err != nil {
				return backoff.Permanent(err)
			}
			r.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)
			r.Header.Set("Content-Type", "application/json")
			resp, err := c.hc.Do(r)
			if err != nil {
				return err
			}
			defer func() { _ = resp.Body.Close() }()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				se := &statusError{code: resp.StatusCode, body: snippet(body)}
				lg.Warn("ai provider non-2xx",
					slog.Int("status", resp.StatusCode),
					slog.String("x_request_id", resp.Header.Get("X-Request-Id")),
					slog.String("body", se.body))
				// 429 and 5xx are retried, other client errors are not
				if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
					return backoff.Permanent(se)
				}
				return se
			}
			if err := json.Unmarshal(body, &out); err != nil {
				return backoff.Permanent(fmt.Errorf("decode chat response: %w", err))
			}
			return nil
		}
		return backoff.Retry(op, backoff.WithContext(c.backoffConfig(), ctx))
	}
	if err := c.upstream.Do(ctx, "chat", call); err != nil {
		return "", fmt.Errorf("op=openai.generate: %w: %w", domain.ErrUpstream, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("op=openai.generate: %w: empty choices", domain.ErrUpstream)
	}
	lg.Debug("chat completion",
		slog.Int("prompt_tokens", out.Usage.PromptTokens),
		slog.Int("completion_tokens", out.Usage.CompletionTokens))
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func snippet(b []byte) string {
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody]
	}
	return string(b)
}
