package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/internal/usecase"
)

func TestComputeAverages_Truncates(t *testing.T) {
	reviews := []domain.Review{
		{Ratings: domain.Ratings{Professionalism: 5, Responsiveness: 4, Helpfulness: 1, FinalStage: 2}},
		{Ratings: domain.Ratings{Professionalism: 4, Responsiveness: 2, Helpfulness: 2, FinalStage: 2}},
		{Ratings: domain.Ratings{Professionalism: 4, Responsiveness: 1, Helpfulness: 2, FinalStage: 3}},
	}
	got := usecase.ComputeAverages(reviews)
	assert.Equal(t, domain.Averages{Professionalism: 4, Responsiveness: 2, Helpfulness: 1, FinalStage: 2}, got)
	assert.Equal(t, domain.Averages{}, usecase.ComputeAverages(nil))
}

func TestComputeAverages_OrderIndependent(t *testing.T) {
	base := []domain.Review{
		{Ratings: domain.Ratings{Professionalism: 1, Responsiveness: 5, Helpfulness: 2, FinalStage: 4}},
		{Ratings: domain.Ratings{Professionalism: 3, Responsiveness: 2, Helpfulness: 5, FinalStage: 1}},
		{Ratings: domain.Ratings{Professionalism: 5, Responsiveness: 4, Helpfulness: 4, FinalStage: 2}},
		{Ratings: domain.Ratings{Professionalism: 2, Responsiveness: 1, Helpfulness: 3, FinalStage: 5}},
	}
	want := usecase.ComputeAverages(base)
	perm := func(idx ...int) []domain.Review {
		out := make([]domain.Review, 0, len(idx))
		for _, i := range idx {
			out = append(out, base[i])
		}
		return out
	}
	for _, order := range [][]int{{3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1}} {
		assert.Equal(t, want, usecase.ComputeAverages(perm(order...)), order)
	}
}

func TestRecompute_ReplayInAnyOrderGivesSameAverages(t *testing.T) {
	inputs := []domain.Ratings{
		{Professionalism: 5, Responsiveness: 4, Helpfulness: 3, FinalStage: 1},
		{Professionalism: 2, Responsiveness: 2, Helpfulness: 5, FinalStage: 4},
		{Professionalism: 4, Responsiveness: 1, Helpfulness: 1, FinalStage: 3},
	}
	var seen []domain.Averages
	for _, order := range [][]int{{0, 1, 2}, {2, 1, 0}, {1, 2, 0}} {
		f := newFixture(t)
		rec := f.recruiter(t, "Sam Lee", "Globex")
		for i, idx := range order {
			f.review(t, string(rune('a'+i)), rec.ID, inputs[idx], "fine")
		}
		got, err := f.store.Recruiters().Get(context.Background(), rec.ID)
		require.NoError(t, err)
		seen = append(seen, got.Averages)
	}
	assert.Equal(t, seen[0], seen[1])
	assert.Equal(t, seen[0], seen[2])
}

func TestRecompute_EmptySetResetsSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rec := f.recruiter(t, "Sam Lee", "Globex")
	require.NoError(t, f.store.Recruiters().UpdateSummary(ctx, rec.ID, "stale"))
	require.NoError(t, f.store.Recruiters().UpdateAverages(ctx, rec.ID, domain.Averages{Responsiveness: 4}))

	err := f.store.WithinTx(ctx, func(ctx domain.Context, tx domain.Store) error {
		avg, err := usecase.Recompute(ctx, tx, rec.ID)
		assert.Equal(t, domain.Averages{}, avg)
		return err
	})
	require.NoError(t, err)

	got, err := f.store.Recruiters().Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Averages{}, got.Averages)
	assert.Equal(t, domain.SummaryNoReviews, got.Summary)
}

func TestRecompute_UnknownRecruiter(t *testing.T) {
	f := newFixture(t)
	err := f.store.WithinTx(context.Background(), func(ctx domain.Context, tx domain.Store) error {
		_, err := usecase.Recompute(ctx, tx, "missing")
		return err
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
