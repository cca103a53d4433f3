package postgres

import (
	"fmt"
	"time"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// VoteRepo persists votes keyed by (review, user).
type VoteRepo struct{ q Querier }

// NewVoteRepo constructs a VoteRepo on a pool or transaction.
func NewVoteRepo(q Querier) *VoteRepo { return &VoteRepo{q: q} }

// Get loads the caller's vote on a review.
func (r *VoteRepo) Get(ctx domain.Context, reviewID int64, userID string) (domain.Vote, error) {
	ctx, span := startSpan(ctx, "votes.Get")
	defer span.End()
	if err := checkID("vote.get", userID); err != nil {
		return domain.Vote{}, err
	}
	v := domain.Vote{ReviewID: reviewID, UserID: userID}
	var dir int16
	row := r.q.QueryRow(ctx, `SELECT direction, created_at FROM votes WHERE review_id=$1 AND user_id=$2`, reviewID, userID)
	if err := row.Scan(&dir, &v.CreatedAt); err != nil {
		return domain.Vote{}, wrap("vote.get", err)
	}
	v.Direction = domain.VoteDirection(dir)
	return v, nil
}

// Create inserts a vote.
func (r *VoteRepo) Create(ctx domain.Context, v domain.Vote) error {
	ctx, span := startSpan(ctx, "votes.Create")
	defer span.End()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	q := `INSERT INTO votes (review_id, user_id, direction, created_at) VALUES ($1,$2,$3,$4)`
	if _, err := r.q.Exec(ctx, q, v.ReviewID, v.UserID, int16(v.Direction), v.CreatedAt); err != nil {
		return wrap("vote.create", err)
	}
	return nil
}

// UpdateDirection flips an existing vote.
func (r *VoteRepo) UpdateDirection(ctx domain.Context, reviewID int64, userID string, d domain.VoteDirection) error {
	ctx, span := startSpan(ctx, "votes.UpdateDirection")
	defer span.End()
	tag, err := r.q.Exec(ctx, `UPDATE votes SET direction=$3 WHERE review_id=$1 AND user_id=$2`, reviewID, userID, int16(d))
	if err != nil {
		return wrap("vote.update_direction", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=vote.update_direction: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes a vote.
func (r *VoteRepo) Delete(ctx domain.Context, reviewID int64, userID string) error {
	ctx, span := startSpan(ctx, "votes.Delete")
	defer span.End()
	tag, err := r.q.Exec(ctx, `DELETE FROM votes WHERE review_id=$1 AND user_id=$2`, reviewID, userID)
	if err != nil {
		return wrap("vote.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=vote.delete: %w", domain.ErrNotFound)
	}
	return nil
}

// ListByUser returns a user's votes ordered by review.
func (r *VoteRepo) ListByUser(ctx domain.Context, userID string) ([]domain.Vote, error) {
	ctx, span := startSpan(ctx, "votes.ListByUser")
	defer span.End()
	if checkID("vote.list_by_user", userID) != nil {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT review_id, direction, created_at FROM votes WHERE user_id=$1 ORDER BY review_id`, userID)
	if err != nil {
		return nil, wrap("vote.list_by_user", err)
	}
	defer rows.Close()
	var out []domain.Vote
	for rows.Next() {
		v := domain.Vote{UserID: userID}
		var dir int16
		if err := rows.Scan(&v.ReviewID, &dir, &v.CreatedAt); err != nil {
			return nil, wrap("vote.list_by_user", err)
		}
		v.Direction = domain.VoteDirection(dir)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("vote.list_by_user", err)
	}
	return out, nil
}
