package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/repo/memory"
	"github.com/AdityaU3672/recruiterbook-api/internal/config"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

func TestBuildProviders_Unconfigured(t *testing.T) {
	p, err := BuildProviders(context.Background(), config.Config{AppEnv: "test"}, nil)
	require.NoError(t, err)
	assert.Nil(t, p.Search)
	assert.Nil(t, p.Generator)
	assert.NotEmpty(t, p.Keywords.Recruiting)

	ic := p.IndustryClassifier()
	assert.Len(t, ic.Keywords, len(domain.Industries))
}

func TestBuildProviders_Configured(t *testing.T) {
	cfg := config.Config{
		AppEnv:         "test",
		GoogleAPIKey:   "key",
		SearchEngineID: "cx",
		OpenAIAPIKey:   "sk-test",
		OpenAIBaseURL:  "http://127.0.0.1:1",
	}
	p, err := BuildProviders(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, p.Search)
	assert.NotNil(t, p.Generator)
}

func TestBuildProviders_KeywordsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("recruiting: [\" Sourcer \"]\n"), 0o600))

	p, err := BuildProviders(context.Background(), config.Config{KeywordsFile: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"sourcer"}, p.Keywords.Recruiting)

	_, err = BuildProviders(context.Background(), config.Config{KeywordsFile: filepath.Join(t.TempDir(), "missing.yaml")}, nil)
	assert.Error(t, err)
}

func TestNewEnricher_FallsBackWithoutProviders(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	company, err := store.Companies().Create(ctx, domain.Company{Name: "Acme"})
	require.NoError(t, err)

	p, err := BuildProviders(ctx, config.Config{}, nil)
	require.NoError(t, err)
	e := NewEnricher(config.Config{SummaryModel: "gpt-4o-mini", SummaryMaxTokens: 150}, store, nil, p)

	// no search provider: the company gets the default category
	err = e.Handle(ctx, domain.EnrichmentTask{Kind: domain.TaskIndustry, CompanyID: company.ID})
	assert.ErrorIs(t, err, domain.ErrUpstream)
	got, err := store.Companies().Get(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IndustryTech, got.Industry)
}
