package postgres

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// ReviewRepo persists reviews.
type ReviewRepo struct{ q Querier }

// NewReviewRepo constructs a ReviewRepo on a pool or transaction.
func NewReviewRepo(q Querier) *ReviewRepo { return &ReviewRepo{q: q} }

const reviewColumns = `id, user_id, recruiter_id, professionalism, responsiveness, helpfulness, final_stage,
	text, upvotes, downvotes, created_at, updated_at`

func scanReview(row pgx.Row) (domain.Review, error) {
	var rv domain.Review
	err := row.Scan(&rv.ID, &rv.UserID, &rv.RecruiterID,
		&rv.Ratings.Professionalism, &rv.Ratings.Responsiveness, &rv.Ratings.Helpfulness, &rv.Ratings.FinalStage,
		&rv.Text, &rv.Upvotes, &rv.Downvotes, &rv.CreatedAt, &rv.UpdatedAt)
	return rv, err
}

func (r *ReviewRepo) one(ctx domain.Context, op, q string, args ...any) (domain.Review, error) {
	rv, err := scanReview(r.q.QueryRow(ctx, q, args...))
	if err != nil {
		return domain.Review{}, wrap(op, err)
	}
	return rv, nil
}

func (r *ReviewRepo) list(ctx domain.Context, op, q string, args ...any) ([]domain.Review, error) {
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()
	var out []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

// Create inserts a review with zeroed vote counters and server timestamps.
func (r *ReviewRepo) Create(ctx domain.Context, rv domain.Review) (domain.Review, error) {
	ctx, span := startSpan(ctx, "reviews.Create")
	defer span.End()
	now := time.Now().UTC()
	q := `INSERT INTO reviews (user_id, recruiter_id, professionalism, responsiveness, helpfulness, final_stage, text, upvotes, downvotes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,0,0,$8,$8) RETURNING ` + reviewColumns
	return r.one(ctx, "review.create", q, rv.UserID, rv.RecruiterID,
		rv.Ratings.Professionalism, rv.Ratings.Responsiveness, rv.Ratings.Helpfulness, rv.Ratings.FinalStage, rv.Text, now)
}

// Get loads a review by id.
func (r *ReviewRepo) Get(ctx domain.Context, id int64) (domain.Review, error) {
	ctx, span := startSpan(ctx, "reviews.Get")
	defer span.End()
	return r.one(ctx, "review.get", `SELECT `+reviewColumns+` FROM reviews WHERE id=$1`, id)
}

// GetForUpdate loads a review and locks its row for the rest of the transaction.
func (r *ReviewRepo) GetForUpdate(ctx domain.Context, id int64) (domain.Review, error) {
	ctx, span := startSpan(ctx, "reviews.GetForUpdate")
	defer span.End()
	return r.one(ctx, "review.get_for_update", `SELECT `+reviewColumns+` FROM reviews WHERE id=$1 FOR UPDATE`, id)
}

// FindByUserAndRecruiter loads a user's review of a recruiter.
func (r *ReviewRepo) FindByUserAndRecruiter(ctx domain.Context, userID, recruiterID string) (domain.Review, error) {
	ctx, span := startSpan(ctx, "reviews.FindByUserAndRecruiter")
	defer span.End()
	if err := checkID("review.find_by_user", userID); err != nil {
		return domain.Review{}, err
	}
	return r.one(ctx, "review.find_by_user", `SELECT `+reviewColumns+` FROM reviews WHERE user_id=$1 AND recruiter_id=$2`, userID, recruiterID)
}

// ListByRecruiter returns a recruiter's reviews, oldest first.
func (r *ReviewRepo) ListByRecruiter(ctx domain.Context, recruiterID string) ([]domain.Review, error) {
	ctx, span := startSpan(ctx, "reviews.ListByRecruiter")
	defer span.End()
	if checkID("review.list_by_recruiter", recruiterID) != nil {
		return nil, nil
	}
	return r.list(ctx, "review.list_by_recruiter", `SELECT `+reviewColumns+` FROM reviews WHERE recruiter_id=$1 ORDER BY id`, recruiterID)
}

// ListByCompany returns the reviews of all recruiters at a company, oldest first.
func (r *ReviewRepo) ListByCompany(ctx domain.Context, companyID string) ([]domain.Review, error) {
	ctx, span := startSpan(ctx, "reviews.ListByCompany")
	defer span.End()
	if checkID("review.list_by_company", companyID) != nil {
		return nil, nil
	}
	q := `SELECT ` + reviewColumns + ` FROM reviews WHERE recruiter_id IN (SELECT id FROM recruiters WHERE company_id=$1) ORDER BY id`
	return r.list(ctx, "review.list_by_company", q, companyID)
}

// List returns every review, oldest first.
func (r *ReviewRepo) List(ctx domain.Context) ([]domain.Review, error) {
	ctx, span := startSpan(ctx, "reviews.List")
	defer span.End()
	return r.list(ctx, "review.list", `SELECT `+reviewColumns+` FROM reviews ORDER BY id`)
}

// Update writes the ratings and text of a review and bumps updated_at.
func (r *ReviewRepo) Update(ctx domain.Context, rv domain.Review) (domain.Review, error) {
	ctx, span := startSpan(ctx, "reviews.Update")
	defer span.End()
	q := `UPDATE reviews SET professionalism=$2, responsiveness=$3, helpfulness=$4, final_stage=$5, text=$6, updated_at=$7
		WHERE id=$1 RETURNING ` + reviewColumns
	return r.one(ctx, "review.update", q, rv.ID,
		rv.Ratings.Professionalism, rv.Ratings.Responsiveness, rv.Ratings.Helpfulness, rv.Ratings.FinalStage, rv.Text, time.Now().UTC())
}

// Delete removes a review; its votes go with it through the foreign key cascade.
func (r *ReviewRepo) Delete(ctx domain.Context, id int64) error {
	ctx, span := startSpan(ctx, "reviews.Delete")
	defer span.End()
	tag, err := r.q.Exec(ctx, `DELETE FROM reviews WHERE id=$1`, id)
	if err != nil {
		return wrap("review.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=review.delete: %w", domain.ErrNotFound)
	}
	return nil
}

// SetVoteCounts overwrites both vote counters and returns the updated review.
func (r *ReviewRepo) SetVoteCounts(ctx domain.Context, id int64, upvotes, downvotes int) (domain.Review, error) {
	ctx, span := startSpan(ctx, "reviews.SetVoteCounts")
	defer span.End()
	q := `UPDATE reviews SET upvotes=$2, downvotes=$3 WHERE id=$1 RETURNING ` + reviewColumns
	return r.one(ctx, "review.set_vote_counts", q, id, max(upvotes, 0), max(downvotes, 0))
}
