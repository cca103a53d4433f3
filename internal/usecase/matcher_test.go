package usecase_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/internal/usecase"
)

func cand(id, name, company string) domain.Recruiter {
	return domain.Recruiter{ID: id, FullName: name, CompanyName: company}
}

func TestMatchRecruiters_JonSmith(t *testing.T) {
	candidates := []domain.Recruiter{
		cand("beta", "John Smith", "Beta"),
		cand("acme", "John Smith", "Acme"),
		cand("other", "Maria Garcia", "Acme"),
	}

	got := usecase.MatchRecruiters("Jon Smith", candidates, "")
	require.Len(t, got, 2)
	for _, m := range got {
		assert.GreaterOrEqual(t, m.Score, usecase.MatchScoreFloor)
	}
	assert.Equal(t, "beta", got[0].Recruiter.ID)

	boosted := usecase.MatchRecruiters("Jon Smith", candidates, "acme")
	require.Len(t, boosted, 2)
	assert.Equal(t, "acme", boosted[0].Recruiter.ID)
	assert.Equal(t, "beta", boosted[1].Recruiter.ID)
}

func TestMatchRecruiters_CompanyBoostBeatsScore(t *testing.T) {
	candidates := []domain.Recruiter{
		cand("exact", "Jane Doe", "Initech"),
		cand("close", "Jane Dow", "Acme"),
	}
	got := usecase.MatchRecruiters("jane doe", candidates, "ACME")
	require.Len(t, got, 2)
	assert.Equal(t, "close", got[0].Recruiter.ID)
	assert.Greater(t, got[1].Score, got[0].Score)
}

func TestMatchRecruiters_TokenOrderAndCase(t *testing.T) {
	got := usecase.MatchRecruiters("DOE jane", []domain.Recruiter{cand("1", "Jane Doe", "Acme")}, "")
	require.Len(t, got, 1)
	assert.Equal(t, 100, got[0].Score)
}

func TestMatchRecruiters_EmptyResults(t *testing.T) {
	assert.Empty(t, usecase.MatchRecruiters("Jane", nil, ""))
	assert.Empty(t, usecase.MatchRecruiters("Zzyzx Qwerty", []domain.Recruiter{cand("1", "Jane Doe", "Acme")}, "Acme"))
}

func TestMatchRecruiters_CapsAtTen(t *testing.T) {
	var candidates []domain.Recruiter
	for i := 0; i < 15; i++ {
		candidates = append(candidates, cand(fmt.Sprint(i), "Alex Kim", fmt.Sprintf("Co%d", i)))
	}
	got := usecase.MatchRecruiters("alex kim", candidates, "Co14")
	require.Len(t, got, usecase.MaxMatches)
	assert.Equal(t, "14", got[0].Recruiter.ID)
	assert.Equal(t, "0", got[1].Recruiter.ID)
}
