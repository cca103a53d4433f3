package usecase

import (
	"fmt"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// ComputeAverages returns the four rating averages of reviews using truncating
// integer division. An empty set yields all zeros.
func ComputeAverages(reviews []domain.Review) domain.Averages {
	if len(reviews) == 0 {
		return domain.Averages{}
	}
	var sum domain.Ratings
	for _, r := range reviews {
		sum.Responsiveness += r.Ratings.Responsiveness
		sum.Professionalism += r.Ratings.Professionalism
		sum.Helpfulness += r.Ratings.Helpfulness
		sum.FinalStage += r.Ratings.FinalStage
	}
	n := len(reviews)
	return domain.Averages{
		Responsiveness:  sum.Responsiveness / n,
		Professionalism: sum.Professionalism / n,
		Helpfulness:     sum.Helpfulness / n,
		FinalStage:      sum.FinalStage / n,
	}
}

// Recompute reloads every review of the recruiter and writes fresh averages.
// It locks the recruiter row first so concurrent recomputes for the same
// recruiter serialize. When no reviews remain the summary is reset too.
// Call it with the transaction that changed the review set.
func Recompute(ctx domain.Context, tx domain.Store, recruiterID string) (domain.Averages, error) {
	if _, err := tx.Recruiters().GetForUpdate(ctx, recruiterID); err != nil {
		return domain.Averages{}, fmt.Errorf("op=aggregate.recompute: %w", err)
	}
	reviews, err := tx.Reviews().ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return domain.Averages{}, fmt.Errorf("op=aggregate.recompute: %w", err)
	}
	avg := ComputeAverages(reviews)
	if err := tx.Recruiters().UpdateAverages(ctx, recruiterID, avg); err != nil {
		return domain.Averages{}, fmt.Errorf("op=aggregate.recompute: %w", err)
	}
	if len(reviews) == 0 {
		if err := tx.Recruiters().UpdateSummary(ctx, recruiterID, domain.SummaryNoReviews); err != nil {
			return domain.Averages{}, fmt.Errorf("op=aggregate.recompute: %w", err)
		}
	}
	return avg, nil
}
