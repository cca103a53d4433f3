package usecase

import (
	"errors"
	"fmt"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/internal/observability"
)

// CompanyDetail is a company together with its recruiters.
type CompanyDetail struct {
	Company    domain.Company
	Recruiters []domain.Recruiter
}

// BackfillReport summarizes a BackfillIndustries run.
type BackfillReport struct {
	Scanned   int
	Updated   int
	Defaulted int
	Failed    int
}

// CompanyService exposes company reads and admin maintenance.
type CompanyService struct {
	Store      domain.Transactor
	Industries IndustryClassifier
	Cache      domain.Cache
}

// NewCompanyService constructs a CompanyService.
func NewCompanyService(s domain.Transactor, ic IndustryClassifier, c domain.Cache) CompanyService {
	return CompanyService{Store: s, Industries: ic, Cache: c}
}

// List returns all companies ordered by name.
func (s CompanyService) List(ctx domain.Context) ([]domain.Company, error) {
	out, err := s.Store.Companies().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("op=company.list: %w", err)
	}
	return out, nil
}

// Get returns the named company with its recruiters.
func (s CompanyService) Get(ctx domain.Context, name string) (CompanyDetail, error) {
	c, err := s.Store.Companies().GetByName(ctx, name)
	if err != nil {
		return CompanyDetail{}, fmt.Errorf("op=company.get: %w", err)
	}
	recs, err := s.Store.Recruiters().ListByCompany(ctx, c.ID)
	if err != nil {
		return CompanyDetail{}, fmt.Errorf("op=company.get: %w", err)
	}
	return CompanyDetail{Company: c, Recruiters: recs}, nil
}

// Delete removes a company that has no recruiters.
func (s CompanyService) Delete(ctx domain.Context, name string) error {
	err := s.Store.WithinTx(ctx, func(ctx domain.Context, tx domain.Store) error {
		c, err := tx.Companies().GetByName(ctx, name)
		if err != nil {
			return err
		}
		recs, err := tx.Recruiters().ListByCompany(ctx, c.ID)
		if err != nil {
			return err
		}
		if len(recs) > 0 {
			return fmt.Errorf("%w: company still has %d recruiters", domain.ErrConflict, len(recs))
		}
		return tx.Companies().Delete(ctx, c.ID)
	})
	if err != nil {
		return fmt.Errorf("op=company.delete: %w", err)
	}
	return nil
}

// BackfillIndustries classifies companies whose industry is unset, or every
// company when force is true. A failed lookup sets IndustryTech only on
// companies that had nothing inferred yet.
func (s CompanyService) BackfillIndustries(ctx domain.Context, force bool) (BackfillReport, error) {
	var rep BackfillReport
	companies, err := s.Store.Companies().List(ctx)
	if err != nil {
		return rep, fmt.Errorf("op=company.backfill: %w", err)
	}
	lg := observability.LoggerFromContext(ctx)
	for _, c := range companies {
		if err := ctx.Err(); err != nil {
			return rep, fmt.Errorf("op=company.backfill: %w", err)
		}
		if !force && c.Industry != domain.IndustryUnset {
			continue
		}
		rep.Scanned++
		ind, err := s.Industries.Classify(ctx, c.Name)
		if err != nil {
			lg.Warn("industry lookup failed", "company", c.Name, "error", err)
			if c.Industry != domain.IndustryUnset {
				rep.Failed++
				continue
			}
			ind = domain.IndustryTech
			rep.Defaulted++
		}
		if err := s.Store.Companies().UpdateIndustry(ctx, c.ID, ind); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return rep, fmt.Errorf("op=company.backfill: %w", err)
		}
		rep.Updated++
		lg.Info("industry updated", "company", c.Name, "industry", ind.String())
	}
	return rep, nil
}
