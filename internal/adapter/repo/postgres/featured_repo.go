package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// FeaturedRepo persists the featured recruiter list.
type FeaturedRepo struct{ q Querier }

// NewFeaturedRepo constructs a FeaturedRepo on a pool or transaction.
func NewFeaturedRepo(q Querier) *FeaturedRepo { return &FeaturedRepo{q: q} }

// List returns featured entries in display order.
func (r *FeaturedRepo) List(ctx domain.Context) ([]domain.FeaturedRecruiter, error) {
	ctx, span := startSpan(ctx, "featured.List")
	defer span.End()
	rows, err := r.q.Query(ctx, `SELECT recruiter_id, display_order FROM featured_recruiters ORDER BY display_order, recruiter_id`)
	if err != nil {
		return nil, wrap("featured.list", err)
	}
	defer rows.Close()
	var out []domain.FeaturedRecruiter
	for rows.Next() {
		var f domain.FeaturedRecruiter
		if err := rows.Scan(&f.RecruiterID, &f.DisplayOrder); err != nil {
			return nil, wrap("featured.list", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("featured.list", err)
	}
	return out, nil
}

// Replace swaps the whole list. Run it inside a transaction.
func (r *FeaturedRepo) Replace(ctx domain.Context, items []domain.FeaturedRecruiter) error {
	ctx, span := startSpan(ctx, "featured.Replace")
	defer span.End()
	if _, err := r.q.Exec(ctx, `DELETE FROM featured_recruiters`); err != nil {
		return wrap("featured.replace", err)
	}
	for _, f := range items {
		if err := checkID("featured.replace", f.RecruiterID); err != nil {
			return err
		}
		q := `INSERT INTO featured_recruiters (recruiter_id, display_order) VALUES ($1,$2)`
		if _, err := r.q.Exec(ctx, q, f.RecruiterID, f.DisplayOrder); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return fmt.Errorf("op=featured.replace: %w: recruiter %s", domain.ErrNotFound, f.RecruiterID)
			}
			return wrap("featured.replace", err)
		}
	}
	return nil
}
