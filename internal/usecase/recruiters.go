package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/pkg/textx"
)

// RecruiterService manages recruiters, their lookup and the featured list.
type RecruiterService struct {
	Store     domain.Transactor
	Profanity domain.ProfanityFilter
	Enrich    Dispatcher
	Cache     domain.Cache
	CacheTTL  time.Duration
}

// NewRecruiterService constructs a RecruiterService with its dependencies.
func NewRecruiterService(s domain.Transactor, p domain.ProfanityFilter, q domain.EnrichmentQueue, c domain.Cache, ttl time.Duration) RecruiterService {
	return RecruiterService{Store: s, Profanity: p, Enrich: Dispatcher{Queue: q}, Cache: c, CacheTTL: ttl}
}

func (s RecruiterService) checkName(field, v string) (string, error) {
	v = textx.CollapseSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: %s required", domain.ErrInvalidArgument, field)
	}
	if s.Profanity != nil && s.Profanity.Contains(v) {
		return "", fmt.Errorf("%w: %s contains inappropriate language", domain.ErrInvalidArgument, field)
	}
	return v, nil
}

// Create returns the recruiter named fullName at companyName, creating the
// company and the recruiter when they do not exist yet. New companies get an
// industry inference task and new recruiters a verification task; enrichment
// problems never fail the call.
func (s RecruiterService) Create(ctx domain.Context, who domain.Identity, fullName, companyName string) (domain.Recruiter, error) {
	if who.IsZero() {
		return domain.Recruiter{}, fmt.Errorf("op=recruiter.create: %w", domain.ErrUnauthorized)
	}
	fullName, err := s.checkName("full name", fullName)
	if err != nil {
		return domain.Recruiter{}, fmt.Errorf("op=recruiter.create: %w", err)
	}
	companyName, err = s.checkName("company", companyName)
	if err != nil {
		return domain.Recruiter{}, fmt.Errorf("op=recruiter.create: %w", err)
	}

	var (
		rec                      domain.Recruiter
		newCompany, newRecruiter bool
	)
	getOrCreate := func(ctx domain.Context, tx domain.Store) error {
		newCompany, newRecruiter = false, false
		company, err := tx.Companies().GetByName(ctx, companyName)
		if errors.Is(err, domain.ErrNotFound) {
			company, err = tx.Companies().Create(ctx, domain.Company{Name: companyName})
			newCompany = true
		}
		if err != nil {
			return err
		}
		rec, err = tx.Recruiters().FindByNameAndCompany(ctx, fullName, company.ID)
		if errors.Is(err, domain.ErrNotFound) {
			rec, err = tx.Recruiters().Create(ctx, domain.Recruiter{
				FullName:  fullName,
				CompanyID: company.ID,
				Summary:   domain.SummaryNoReviews,
			})
			newRecruiter = true
		}
		if err != nil {
			return err
		}
		rec.CompanyName, rec.Industry = company.Name, company.Industry
		return nil
	}
	err = s.Store.WithinTx(ctx, getOrCreate)
	if errors.Is(err, domain.ErrConflict) {
		// lost a get-or-create race; the second pass finds the winner's rows
		err = s.Store.WithinTx(ctx, getOrCreate)
	}
	if err != nil {
		return domain.Recruiter{}, fmt.Errorf("op=recruiter.create: %w", err)
	}
	if newCompany {
		s.Enrich.Industry(ctx, rec.CompanyID)
	}
	if newRecruiter {
		s.Enrich.Verify(ctx, rec.ID)
	}
	return rec, nil
}

// Get loads one recruiter, served from the read cache when possible.
func (s RecruiterService) Get(ctx domain.Context, id string) (domain.Recruiter, error) {
	rec, err := cached(ctx, s.Cache, recruiterCacheKey(id), s.CacheTTL, func() (domain.Recruiter, error) {
		return s.Store.Recruiters().Get(ctx, id)
	})
	if err != nil {
		return domain.Recruiter{}, fmt.Errorf("op=recruiter.get: %w", err)
	}
	return rec, nil
}

// Search fuzzy-matches name against all recruiters, boosting those at company.
func (s RecruiterService) Search(ctx domain.Context, name, company string) ([]RecruiterMatch, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("op=recruiter.search: %w: name required", domain.ErrInvalidArgument)
	}
	all, err := s.Store.Recruiters().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("op=recruiter.search: %w", err)
	}
	return MatchRecruiters(name, all, company), nil
}

// Featured returns the pinned recruiters in display order.
func (s RecruiterService) Featured(ctx domain.Context) ([]domain.Recruiter, error) {
	items, err := s.Store.Featured().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("op=recruiter.featured: %w", err)
	}
	out := make([]domain.Recruiter, 0, len(items))
	for _, it := range items {
		rec, err := s.Store.Recruiters().Get(ctx, it.RecruiterID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("op=recruiter.featured: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// SetFeatured replaces the featured list; ids are shown in the given order.
func (s RecruiterService) SetFeatured(ctx domain.Context, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	items := make([]domain.FeaturedRecruiter, 0, len(ids))
	for i, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			return fmt.Errorf("op=recruiter.set_featured: %w: duplicate or empty id %q", domain.ErrInvalidArgument, id)
		}
		seen[id] = struct{}{}
		items = append(items, domain.FeaturedRecruiter{RecruiterID: id, DisplayOrder: i + 1})
	}
	err := s.Store.WithinTx(ctx, func(ctx domain.Context, tx domain.Store) error {
		return tx.Featured().Replace(ctx, items)
	})
	if err != nil {
		return fmt.Errorf("op=recruiter.set_featured: %w", err)
	}
	return nil
}
