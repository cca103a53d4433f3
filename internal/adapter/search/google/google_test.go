package google_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/search/google"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

func newServer(t *testing.T, status int, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/customsearch/v1", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "engine", r.URL.Query().Get("cx"))
		assert.Equal(t, "Jane Doe Acme", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, endpoint string, lim google.Limiter) *google.Client {
	t.Helper()
	c, err := google.New(context.Background(), google.Options{
		APIKey:         "test-key",
		SearchEngineID: "engine",
		Endpoint:       endpoint + "/",
		Timeout:        2 * time.Second,
		Limiter:        lim,
	})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := google.New(context.Background(), google.Options{APIKey: "k"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSearch_MapsItems(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, http.StatusOK, `{"items":[
		{"title":"Jane Doe - Technical Recruiter - Acme","snippet":"Talent acquisition at Acme","link":"https://www.linkedin.com/in/janedoe"},
		{"title":"Acme careers","snippet":"Join us","link":"https://acme.example/careers"}
	]}`, &calls)

	got, err := newClient(t, srv.URL, nil).Search(context.Background(), "Jane Doe Acme")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.SearchResult{
		Title:   "Jane Doe - Technical Recruiter - Acme",
		Snippet: "Talent acquisition at Acme",
		Link:    "https://www.linkedin.com/in/janedoe",
	}, got[0])
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearch_NoItems(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, http.StatusOK, `{}`, &calls)

	got, err := newClient(t, srv.URL, nil).Search(context.Background(), "Jane Doe Acme")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_ProviderErrorIsUpstream(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, http.StatusForbidden, `{"error":{"code":403,"message":"quota"}}`, &calls)

	_, err := newClient(t, srv.URL, nil).Search(context.Background(), "Jane Doe Acme")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string, int64) (bool, time.Duration, error) {
	return false, time.Second, nil
}

func TestSearch_RateLimitedSkipsProvider(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, http.StatusOK, `{}`, &calls)

	_, err := newClient(t, srv.URL, denyLimiter{}).Search(context.Background(), "Jane Doe Acme")
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Zero(t, calls.Load())
}
