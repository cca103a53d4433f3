//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	httpserver "github.com/AdityaU3672/recruiterbook-api/internal/adapter/httpserver"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/profanity"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/queue/inproc"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/queue/shared"
	"github.com/AdityaU3672/recruiterbook-api/internal/app"
	"github.com/AdityaU3672/recruiterbook-api/internal/config"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/internal/usecase"
)

func startContainer(t *testing.T, req testcontainers.ContainerRequest, port string) string {
	t.Helper()
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("%s container unavailable: %v", req.Image, err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })
	host, err := c.Host(ctx)
	require.NoError(t, err)
	p, err := c.MappedPort(ctx, port)
	require.NoError(t, err)
	return host + ":" + p.Port()
}

func startPostgres(t *testing.T) string {
	addr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16",
		Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_USER": "postgres", "POSTGRES_DB": "app"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(90 * time.Second),
	}, "5432")
	return "postgresql://postgres:postgres@" + addr + "/app?sslmode=disable"
}

func startRedis(t *testing.T) string {
	addr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}, "6379")
	return "redis://" + addr + "/0"
}

type fakeSearch struct {
	mu      sync.Mutex
	queries []string
}

func (f *fakeSearch) Search(_ domain.Context, query string) ([]domain.SearchResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if strings.HasSuffix(query, "industry sector") {
		return []domain.SearchResult{{Title: "Acme Bank", Snippet: "A retail banking and investment group."}}, nil
	}
	return []domain.SearchResult{{
		Title:   "Jane Doe - Talent Acquisition",
		Link:    "https://www.linkedin.com/in/janedoe",
		Snippet: "Senior recruiter at Acme Bank.",
	}}, nil
}

type fakeGenerator struct{}

func (fakeGenerator) Generate(_ domain.Context, _, _ string, _ int) (string, error) {
	return "Candidates describe Jane as quick to reply and well prepared for every interview stage.", nil
}

type apiClient struct {
	t     *testing.T
	base  string
	token string
}

func (c apiClient) call(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type recruiter struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Industry    string `json:"industry"`
	Verified    bool   `json:"verified"`
	Summary     string `json:"summary"`
	Helpfulness int    `json:"helpfulness"`
}

func TestPipeline_PostgresRedisInProcess(t *testing.T) {
	cfg := config.Config{
		AppEnv:            "test",
		DBURL:             startPostgres(t),
		DBMaxConns:        4,
		DBAutoMigrate:     true,
		RedisURL:          startRedis(t),
		CacheTTL:          time.Minute,
		RateLimitPerMin:   1000,
		SearchRatePerMin:  100,
		AIRatePerMin:      100,
		EnrichmentTimeout: 10 * time.Second,
		SummaryModel:      "gpt-4o-mini",
		SummaryMaxTokens:  150,
		CORSAllowOrigins:  "*",
	}
	ctx := context.Background()
	inf, err := app.OpenInfra(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(inf.Close)
	require.NotNil(t, inf.Redis)

	search := &fakeSearch{}
	providers := app.Providers{Search: search, Generator: fakeGenerator{}, Keywords: config.DefaultKeywords()}
	enricher := app.NewEnricher(cfg, inf.Store, inf.Cache(), providers)
	queue := inproc.New(shared.Handler{Next: enricher, Timeout: cfg.EnrichmentTimeout}, 2, 32)
	t.Cleanup(func() { _ = queue.Close(context.Background()) })

	filter := profanity.New()
	cache := inf.Cache()
	srv := &httpserver.Server{
		Cfg:        cfg,
		Users:      usecase.NewUserService(inf.Store.Users()),
		Recruiters: usecase.NewRecruiterService(inf.Store, filter, queue, cache, cfg.CacheTTL),
		Reviews:    usecase.NewReviewService(inf.Store, filter, queue, cache),
		Votes:      usecase.NewVoteService(inf.Store),
		Companies:  usecase.NewCompanyService(inf.Store, providers.IndustryClassifier(), cache),
		Tokens:     httpserver.NewTokenIssuer("integration-secret", time.Hour),
		SignIn:     httpserver.NewAssertionVerifier("integration-gateway"),
		Checks:     app.BuildReadinessChecks(inf.Pool, inf.RedisClient()),
	}
	ts := httptest.NewServer(app.BuildRouter(cfg, srv))
	t.Cleanup(ts.Close)

	anon := apiClient{t: t, base: ts.URL}
	require.Equal(t, http.StatusOK, anon.call(http.MethodGet, "/readyz", nil, nil))

	signIn := func(name, ext string) apiClient {
		var out struct {
			AccessToken string `json:"access_token"`
		}
		assertion, err := httpserver.SignAssertion("integration-gateway", httpserver.ExternalIdentity{ExternalID: ext, FullName: name}, time.Now(), time.Minute)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, anon.call(http.MethodPost, "/v1/users", map[string]string{"assertion": assertion}, &out))
		return apiClient{t: t, base: ts.URL, token: out.AccessToken}
	}
	alice := signIn("Alice Adams", "google-alice")
	bob := signIn("Bob Brown", "google-bob")

	var jane recruiter
	require.Equal(t, http.StatusOK, alice.call(http.MethodPost, "/v1/recruiters", map[string]string{"full_name": "Jane Doe", "company": "Acme Bank"}, &jane))

	// verification and industry inference run in the background
	require.Eventually(t, func() bool {
		var got recruiter
		return anon.call(http.MethodGet, "/v1/recruiters/"+jane.ID, nil, &got) == http.StatusOK &&
			got.Verified && got.Industry == "Finance"
	}, 15*time.Second, 100*time.Millisecond)

	long := "Jane kept me informed through every round, explained the compensation bands up front, " +
		"shared prep material for the system design interview and followed up within a day each time. " +
		"Even the rejection came with concrete feedback that helped me in later interviews elsewhere."
	for i, c := range []apiClient{alice, bob} {
		status := c.call(http.MethodPost, "/v1/reviews", map[string]any{
			"recruiter_id":    jane.ID,
			"professionalism": 5,
			"responsiveness":  5,
			"helpfulness":     4 - i,
			"final_stage":     3,
			"text":            long,
		}, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	require.Eventually(t, func() bool {
		var got recruiter
		return anon.call(http.MethodGet, "/v1/recruiters/"+jane.ID, nil, &got) == http.StatusOK &&
			strings.HasPrefix(got.Summary, "Candidates describe Jane")
	}, 15*time.Second, 100*time.Millisecond)

	var got recruiter
	require.Equal(t, http.StatusOK, anon.call(http.MethodGet, "/v1/recruiters/"+jane.ID, nil, &got))
	assert.Equal(t, 3, got.Helpfulness)

	var companies []struct {
		Name     string `json:"name"`
		Industry string `json:"industry"`
	}
	require.Equal(t, http.StatusOK, anon.call(http.MethodGet, "/v1/companies", nil, &companies))
	require.Len(t, companies, 1)
	assert.Equal(t, "Finance", companies[0].Industry)

	search.mu.Lock()
	assert.Contains(t, search.queries, "Jane Doe Acme Bank")
	assert.Contains(t, search.queries, fmt.Sprintf("%s industry sector", "Acme Bank"))
	search.mu.Unlock()
}
