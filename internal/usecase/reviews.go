package usecase

import (
	"errors"
	"fmt"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// ReviewInput carries the caller-supplied fields of a review.
// Rating bounds are validated by the HTTP boundary.
type ReviewInput struct {
	RecruiterID string
	Ratings     domain.Ratings
	Text        string
}

// ReviewService is the review write pipeline plus review reads.
type ReviewService struct {
	Store     domain.Transactor
	Profanity domain.ProfanityFilter
	Enrich    Dispatcher
	Cache     domain.Cache
}

// NewReviewService constructs a ReviewService with its dependencies.
func NewReviewService(s domain.Transactor, p domain.ProfanityFilter, q domain.EnrichmentQueue, c domain.Cache) ReviewService {
	return ReviewService{Store: s, Profanity: p, Enrich: Dispatcher{Queue: q}, Cache: c}
}

func (s ReviewService) censor(text string) string {
	if s.Profanity == nil {
		return text
	}
	return s.Profanity.Censor(text)
}

// Create validates, censors and stores a review, recomputes the recruiter's
// averages in the same transaction and then schedules a summary refresh.
func (s ReviewService) Create(ctx domain.Context, who domain.Identity, in ReviewInput) (domain.Review, error) {
	if who.IsZero() {
		return domain.Review{}, fmt.Errorf("op=review.create: %w", domain.ErrUnauthorized)
	}
	if in.RecruiterID == "" {
		return domain.Review{}, fmt.Errorf("op=review.create: %w: recruiter id required", domain.ErrInvalidArgument)
	}
	var created domain.Review
	err := s.Store.WithinTx(ctx, func(ctx domain.Context, tx domain.Store) error {
		if _, err := tx.Recruiters().GetForUpdate(ctx, in.RecruiterID); err != nil {
			return err
		}
		_, err := tx.Reviews().FindByUserAndRecruiter(ctx, who.UserID, in.RecruiterID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: review already exists for this recruiter", domain.ErrConflict)
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		created, err = tx.Reviews().Create(ctx, domain.Review{
			UserID:      who.UserID,
			RecruiterID: in.RecruiterID,
			Ratings:     in.Ratings,
			Text:        s.censor(in.Text),
		})
		if err != nil {
			return err
		}
		_, err = Recompute(ctx, tx, in.RecruiterID)
		return err
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("op=review.create: %w", err)
	}
	s.afterWrite(ctx, in.RecruiterID)
	return created, nil
}

// Update replaces the ratings and text of the caller's own review.
func (s ReviewService) Update(ctx domain.Context, who domain.Identity, reviewID int64, in ReviewInput) (domain.Review, error) {
	if who.IsZero() {
		return domain.Review{}, fmt.Errorf("op=review.update: %w", domain.ErrUnauthorized)
	}
	var updated domain.Review
	err := s.Store.WithinTx(ctx, func(ctx domain.Context, tx domain.Store) error {
		existing, err := tx.Reviews().GetForUpdate(ctx, reviewID)
		if err != nil {
			return err
		}
		if existing.UserID != who.UserID {
			return fmt.Errorf("%w: only the author may edit a review", domain.ErrForbidden)
		}
		existing.Ratings = in.Ratings
		existing.Text = s.censor(in.Text)
		if updated, err = tx.Reviews().Update(ctx, existing); err != nil {
			return err
		}
		_, err = Recompute(ctx, tx, existing.RecruiterID)
		return err
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("op=review.update: %w", err)
	}
	s.afterWrite(ctx, updated.RecruiterID)
	return updated, nil
}

// Delete removes the caller's own review with its votes and recomputes the
// former recruiter's averages.
func (s ReviewService) Delete(ctx domain.Context, who domain.Identity, reviewID int64) error {
	if who.IsZero() {
		return fmt.Errorf("op=review.delete: %w", domain.ErrUnauthorized)
	}
	var recruiterID string
	err := s.Store.WithinTx(ctx, func(ctx domain.Context, tx domain.Store) error {
		existing, err := tx.Reviews().GetForUpdate(ctx, reviewID)
		if err != nil {
			return err
		}
		if existing.UserID != who.UserID {
			return fmt.Errorf("%w: only the author may delete a review", domain.ErrForbidden)
		}
		recruiterID = existing.RecruiterID
		if err := tx.Reviews().Delete(ctx, reviewID); err != nil {
			return err
		}
		_, err = Recompute(ctx, tx, recruiterID)
		return err
	})
	if err != nil {
		return fmt.Errorf("op=review.delete: %w", err)
	}
	s.afterWrite(ctx, recruiterID)
	return nil
}

func (s ReviewService) afterWrite(ctx domain.Context, recruiterID string) {
	invalidate(ctx, s.Cache, recruiterCacheKey(recruiterID))
	s.Enrich.Summary(ctx, recruiterID)
}

// ListByRecruiter returns the reviews of a recruiter, oldest first.
func (s ReviewService) ListByRecruiter(ctx domain.Context, recruiterID string) ([]domain.Review, error) {
	if _, err := s.Store.Recruiters().Get(ctx, recruiterID); err != nil {
		return nil, fmt.Errorf("op=review.list_by_recruiter: %w", err)
	}
	out, err := s.Store.Reviews().ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, fmt.Errorf("op=review.list_by_recruiter: %w", err)
	}
	return out, nil
}

// ListByCompany returns the reviews of every recruiter at the named company.
func (s ReviewService) ListByCompany(ctx domain.Context, companyName string) ([]domain.Review, error) {
	c, err := s.Store.Companies().GetByName(ctx, companyName)
	if err != nil {
		return nil, fmt.Errorf("op=review.list_by_company: %w", err)
	}
	out, err := s.Store.Reviews().ListByCompany(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("op=review.list_by_company: %w", err)
	}
	return out, nil
}

// ListAll returns every review.
func (s ReviewService) ListAll(ctx domain.Context) ([]domain.Review, error) {
	out, err := s.Store.Reviews().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("op=review.list: %w", err)
	}
	return out, nil
}
