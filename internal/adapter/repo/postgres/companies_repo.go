package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// CompanyRepo persists companies.
type CompanyRepo struct{ q Querier }

// NewCompanyRepo constructs a CompanyRepo on a pool or transaction.
func NewCompanyRepo(q Querier) *CompanyRepo { return &CompanyRepo{q: q} }

const companyColumns = `id, name, industry, created_at`

func scanCompany(row pgx.Row) (domain.Company, error) {
	var c domain.Company
	var industry int16
	if err := row.Scan(&c.ID, &c.Name, &industry, &c.CreatedAt); err != nil {
		return domain.Company{}, err
	}
	c.Industry = domain.Industry(industry)
	return c, nil
}

// Create inserts a company. Names are unique.
func (r *CompanyRepo) Create(ctx domain.Context, c domain.Company) (domain.Company, error) {
	ctx, span := startSpan(ctx, "companies.Create")
	defer span.End()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	q := `INSERT INTO companies (id, name, industry, created_at) VALUES ($1,$2,$3,$4)`
	if _, err := r.q.Exec(ctx, q, c.ID, c.Name, int16(c.Industry), c.CreatedAt); err != nil {
		return domain.Company{}, wrap("company.create", err)
	}
	return c, nil
}

// Get loads a company by id.
func (r *CompanyRepo) Get(ctx domain.Context, id string) (domain.Company, error) {
	ctx, span := startSpan(ctx, "companies.Get")
	defer span.End()
	if err := checkID("company.get", id); err != nil {
		return domain.Company{}, err
	}
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id=$1`, id))
	if err != nil {
		return domain.Company{}, wrap("company.get", err)
	}
	return c, nil
}

// GetByName loads a company by its exact name.
func (r *CompanyRepo) GetByName(ctx domain.Context, name string) (domain.Company, error) {
	ctx, span := startSpan(ctx, "companies.GetByName")
	defer span.End()
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE name=$1`, name))
	if err != nil {
		return domain.Company{}, wrap("company.get_by_name", err)
	}
	return c, nil
}

// List returns all companies ordered by name.
func (r *CompanyRepo) List(ctx domain.Context) ([]domain.Company, error) {
	ctx, span := startSpan(ctx, "companies.List")
	defer span.End()
	rows, err := r.q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name`)
	if err != nil {
		return nil, wrap("company.list", err)
	}
	defer rows.Close()
	var out []domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, wrap("company.list", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("company.list", err)
	}
	return out, nil
}

// Delete removes a company. Companies still referenced by recruiters fail with ErrConflict.
func (r *CompanyRepo) Delete(ctx domain.Context, id string) error {
	ctx, span := startSpan(ctx, "companies.Delete")
	defer span.End()
	if err := checkID("company.delete", id); err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM companies WHERE id=$1`, id)
	if err != nil {
		return wrap("company.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=company.delete: %w", domain.ErrNotFound)
	}
	return nil
}

// UpdateIndustry writes only the industry column.
func (r *CompanyRepo) UpdateIndustry(ctx domain.Context, id string, industry domain.Industry) error {
	ctx, span := startSpan(ctx, "companies.UpdateIndustry")
	defer span.End()
	if err := checkID("company.update_industry", id); err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `UPDATE companies SET industry=$2 WHERE id=$1`, id, int16(industry))
	if err != nil {
		return wrap("company.update_industry", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=company.update_industry: %w", domain.ErrNotFound)
	}
	return nil
}
