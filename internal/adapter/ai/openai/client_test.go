package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/ai/openai"
	"github.com/AdityaU3672/recruiterbook-api/internal/config"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

func testConfig(url string) config.Config {
	return config.Config{
		AppEnv:           "test",
		OpenAIAPIKey:     "sk-test",
		OpenAIBaseURL:    url,
		SummaryModel:     "gpt-4o-mini",
		AIRequestTimeout: 5 * time.Second,
	}
}

const okBody = `{"model":"gpt-4o-mini","choices":[{"message":{"role":"assistant","content":"  Jane is responsive and helpful.  "}}],"usage":{"prompt_tokens":40,"completion_tokens":8}}`

func TestGenerate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var req struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			Messages  []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.Equal(t, 150, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "reviews", req.Messages[1].Content)
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	out, err := openai.New(testConfig(srv.URL), nil).Generate(context.Background(), "sys", "reviews", 150)
	require.NoError(t, err)
	assert.Equal(t, "Jane is responsive and helpful.", out)
}

func TestGenerate_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	out, err := openai.New(testConfig(srv.URL), nil).Generate(context.Background(), "sys", "user", 50)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerate_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	_, err := openai.New(testConfig(srv.URL), nil).Generate(context.Background(), "sys", "user", 50)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerate_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := openai.New(testConfig(srv.URL), nil).Generate(context.Background(), "sys", "user", 50)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestGenerate_MissingKey(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.OpenAIAPIKey = ""
	_, err := openai.New(cfg, nil).Generate(context.Background(), "sys", "user", 50)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string, int64) (bool, time.Duration, error) {
	return false, 2 * time.Second, nil
}

func TestGenerate_RateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	_, err := openai.New(testConfig(srv.URL), denyLimiter{}).Generate(context.Background(), "sys", "user", 50)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Zero(t, calls.Load())
}
