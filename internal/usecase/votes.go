package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// VoteService runs the per-(review, user) vote ledger.
type VoteService struct {
	Store domain.Transactor
}

// NewVoteService constructs a VoteService.
func NewVoteService(s domain.Transactor) VoteService { return VoteService{Store: s} }

// Apply records the caller's vote on a review and returns the review with fresh counters.
// Voting the same direction again removes the vote; the opposite direction flips it.
// Counters never go below zero.
func (s VoteService) Apply(ctx domain.Context, who domain.Identity, reviewID int64, d domain.VoteDirection) (domain.Review, error) {
	if who.IsZero() {
		return domain.Review{}, fmt.Errorf("op=vote.apply: %w", domain.ErrUnauthorized)
	}
	if !d.Valid() {
		return domain.Review{}, fmt.Errorf("op=vote.apply: %w: direction must be up or down", domain.ErrInvalidArgument)
	}
	var out domain.Review
	err := s.Store.WithinTx(ctx, func(ctx domain.Context, tx domain.Store) error {
		rv, err := tx.Reviews().GetForUpdate(ctx, reviewID)
		if err != nil {
			return err
		}
		counts := map[domain.VoteDirection]int{domain.VoteUp: rv.Upvotes, domain.VoteDown: rv.Downvotes}

		prev, err := tx.Votes().Get(ctx, reviewID, who.UserID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			if err := tx.Votes().Create(ctx, domain.Vote{ReviewID: reviewID, UserID: who.UserID, Direction: d, CreatedAt: time.Now().UTC()}); err != nil {
				return err
			}
			counts[d]++
		case err != nil:
			return err
		case prev.Direction == d:
			if err := tx.Votes().Delete(ctx, reviewID, who.UserID); err != nil {
				return err
			}
			counts[d]--
		default:
			if err := tx.Votes().UpdateDirection(ctx, reviewID, who.UserID, d); err != nil {
				return err
			}
			counts[prev.Direction]--
			counts[d]++
		}

		out, err = tx.Reviews().SetVoteCounts(ctx, reviewID, max(counts[domain.VoteUp], 0), max(counts[domain.VoteDown], 0))
		return err
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("op=vote.apply: %w", err)
	}
	return out, nil
}

// ListForUser returns every vote cast by the caller.
func (s VoteService) ListForUser(ctx domain.Context, who domain.Identity) ([]domain.Vote, error) {
	if who.IsZero() {
		return nil, fmt.Errorf("op=vote.list: %w", domain.ErrUnauthorized)
	}
	votes, err := s.Store.Votes().ListByUser(ctx, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("op=vote.list: %w", err)
	}
	return votes, nil
}
