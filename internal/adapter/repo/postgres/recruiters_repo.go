package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// RecruiterRepo persists recruiters. Reads join the owning company.
type RecruiterRepo struct{ q Querier }

// NewRecruiterRepo constructs a RecruiterRepo on a pool or transaction.
func NewRecruiterRepo(q Querier) *RecruiterRepo { return &RecruiterRepo{q: q} }

const recruiterSelect = `SELECT r.id, r.full_name, r.company_id, c.name, c.industry,
	r.avg_resp, r.avg_prof, r.avg_help, r.avg_final_stage, r.verified, r.summary, r.created_at
	FROM recruiters r JOIN companies c ON c.id = r.company_id`

func scanRecruiter(row pgx.Row) (domain.Recruiter, error) {
	var rec domain.Recruiter
	var industry int16
	err := row.Scan(&rec.ID, &rec.FullName, &rec.CompanyID, &rec.CompanyName, &industry,
		&rec.Averages.Responsiveness, &rec.Averages.Professionalism, &rec.Averages.Helpfulness, &rec.Averages.FinalStage,
		&rec.Verified, &rec.Summary, &rec.CreatedAt)
	if err != nil {
		return domain.Recruiter{}, err
	}
	rec.Industry = domain.Industry(industry)
	return rec, nil
}

func (r *RecruiterRepo) list(ctx domain.Context, op, q string, args ...any) ([]domain.Recruiter, error) {
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()
	var out []domain.Recruiter
	for rows.Next() {
		rec, err := scanRecruiter(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

// Create inserts a recruiter. (full name, company) is unique.
func (r *RecruiterRepo) Create(ctx domain.Context, rec domain.Recruiter) (domain.Recruiter, error) {
	ctx, span := startSpan(ctx, "recruiters.Create")
	defer span.End()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Summary == "" {
		rec.Summary = domain.SummaryNoReviews
	}
	q := `INSERT INTO recruiters (id, full_name, company_id, verified, summary, created_at) VALUES ($1,$2,$3,$4,$5,$6)`
	if _, err := r.q.Exec(ctx, q, rec.ID, rec.FullName, rec.CompanyID, rec.Verified, rec.Summary, rec.CreatedAt); err != nil {
		return domain.Recruiter{}, wrap("recruiter.create", err)
	}
	return rec, nil
}

// Get loads a recruiter by id.
func (r *RecruiterRepo) Get(ctx domain.Context, id string) (domain.Recruiter, error) {
	ctx, span := startSpan(ctx, "recruiters.Get")
	defer span.End()
	if err := checkID("recruiter.get", id); err != nil {
		return domain.Recruiter{}, err
	}
	rec, err := scanRecruiter(r.q.QueryRow(ctx, recruiterSelect+` WHERE r.id=$1`, id))
	if err != nil {
		return domain.Recruiter{}, wrap("recruiter.get", err)
	}
	return rec, nil
}

// GetForUpdate loads a recruiter and locks its row for the rest of the transaction.
func (r *RecruiterRepo) GetForUpdate(ctx domain.Context, id string) (domain.Recruiter, error) {
	ctx, span := startSpan(ctx, "recruiters.GetForUpdate")
	defer span.End()
	if err := checkID("recruiter.get_for_update", id); err != nil {
		return domain.Recruiter{}, err
	}
	rec, err := scanRecruiter(r.q.QueryRow(ctx, recruiterSelect+` WHERE r.id=$1 FOR UPDATE OF r`, id))
	if err != nil {
		return domain.Recruiter{}, wrap("recruiter.get_for_update", err)
	}
	return rec, nil
}

// FindByNameAndCompany loads the recruiter with the exact name at a company.
func (r *RecruiterRepo) FindByNameAndCompany(ctx domain.Context, fullName, companyID string) (domain.Recruiter, error) {
	ctx, span := startSpan(ctx, "recruiters.FindByNameAndCompany")
	defer span.End()
	if err := checkID("recruiter.find_by_name", companyID); err != nil {
		return domain.Recruiter{}, err
	}
	rec, err := scanRecruiter(r.q.QueryRow(ctx, recruiterSelect+` WHERE r.full_name=$1 AND r.company_id=$2`, fullName, companyID))
	if err != nil {
		return domain.Recruiter{}, wrap("recruiter.find_by_name", err)
	}
	return rec, nil
}

// List returns every recruiter ordered by name.
func (r *RecruiterRepo) List(ctx domain.Context) ([]domain.Recruiter, error) {
	ctx, span := startSpan(ctx, "recruiters.List")
	defer span.End()
	return r.list(ctx, "recruiter.list", recruiterSelect+` ORDER BY r.full_name, r.id`)
}

// ListByCompany returns the recruiters of one company ordered by name.
func (r *RecruiterRepo) ListByCompany(ctx domain.Context, companyID string) ([]domain.Recruiter, error) {
	ctx, span := startSpan(ctx, "recruiters.ListByCompany")
	defer span.End()
	if err := checkID("recruiter.list_by_company", companyID); err != nil {
		return nil, nil
	}
	return r.list(ctx, "recruiter.list_by_company", recruiterSelect+` WHERE r.company_id=$1 ORDER BY r.full_name, r.id`, companyID)
}

func (r *RecruiterRepo) update(ctx domain.Context, op, q string, args ...any) error {
	tag, err := r.q.Exec(ctx, q, args...)
	if err != nil {
		return wrap(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// UpdateAverages writes only the four average columns.
func (r *RecruiterRepo) UpdateAverages(ctx domain.Context, id string, avg domain.Averages) error {
	ctx, span := startSpan(ctx, "recruiters.UpdateAverages")
	defer span.End()
	if err := checkID("recruiter.update_averages", id); err != nil {
		return err
	}
	q := `UPDATE recruiters SET avg_resp=$2, avg_prof=$3, avg_help=$4, avg_final_stage=$5 WHERE id=$1`
	return r.update(ctx, "recruiter.update_averages", q, id, avg.Responsiveness, avg.Professionalism, avg.Helpfulness, avg.FinalStage)
}

// UpdateSummary writes only the summary column.
func (r *RecruiterRepo) UpdateSummary(ctx domain.Context, id string, summary string) error {
	ctx, span := startSpan(ctx, "recruiters.UpdateSummary")
	defer span.End()
	if err := checkID("recruiter.update_summary", id); err != nil {
		return err
	}
	return r.update(ctx, "recruiter.update_summary", `UPDATE recruiters SET summary=$2 WHERE id=$1`, id, summary)
}

// UpdateVerified writes only the verified column.
func (r *RecruiterRepo) UpdateVerified(ctx domain.Context, id string, verified bool) error {
	ctx, span := startSpan(ctx, "recruiters.UpdateVerified")
	defer span.End()
	if err := checkID("recruiter.update_verified", id); err != nil {
		return err
	}
	return r.update(ctx, "recruiter.update_verified", `UPDATE recruiters SET verified=$2 WHERE id=$1`, id, verified)
}
