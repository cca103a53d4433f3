package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/internal/observability"
)

// Dispatcher schedules enrichment after a write has committed.
// It never reports failure to its caller; problems are logged.
type Dispatcher struct {
	Queue domain.EnrichmentQueue
}

// Summary schedules a summary refresh for a recruiter.
func (d Dispatcher) Summary(ctx domain.Context, recruiterID string) {
	d.dispatch(ctx, domain.EnrichmentTask{Kind: domain.TaskSummary, RecruiterID: recruiterID})
}

// Verify schedules a verification lookup for a recruiter.
func (d Dispatcher) Verify(ctx domain.Context, recruiterID string) {
	d.dispatch(ctx, domain.EnrichmentTask{Kind: domain.TaskVerify, RecruiterID: recruiterID})
}

// Industry schedules industry inference for a company.
func (d Dispatcher) Industry(ctx domain.Context, companyID string) {
	d.dispatch(ctx, domain.EnrichmentTask{Kind: domain.TaskIndustry, CompanyID: companyID})
}

func (d Dispatcher) dispatch(ctx domain.Context, task domain.EnrichmentTask) {
	if d.Queue == nil {
		return
	}
	task.RequestID = observability.RequestIDFromContext(ctx)
	task.EnqueuedAt = time.Now().UTC()
	// the task outlives the request that scheduled it
	if err := d.Queue.Enqueue(context.WithoutCancel(ctx), task); err != nil {
		observability.LoggerFromContext(ctx).Warn("enrichment enqueue failed",
			"kind", string(task.Kind), "recruiter_id", task.RecruiterID, "company_id", task.CompanyID, "error", err)
	}
}

// Enricher executes enrichment tasks against its own storage session and
// writes each result back to a single column.
type Enricher struct {
	Store      domain.Store
	Summarizer Summarizer
	Verifier   Verifier
	Industries IndustryClassifier
	Cache      domain.Cache
}

var _ domain.EnrichmentHandler = Enricher{}

// Handle runs one task. Errors are meant for logs and metrics only.
func (e Enricher) Handle(ctx domain.Context, task domain.EnrichmentTask) error {
	switch task.Kind {
	case domain.TaskSummary:
		return e.summarize(ctx, task.RecruiterID)
	case domain.TaskVerify:
		return e.verify(ctx, task.RecruiterID)
	case domain.TaskIndustry:
		return e.classify(ctx, task.CompanyID)
	default:
		return fmt.Errorf("op=enrich.handle: %w: unknown task kind %q", domain.ErrInvalidArgument, task.Kind)
	}
}

func (e Enricher) summarize(ctx domain.Context, recruiterID string) error {
	reviews, err := e.Store.Reviews().ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return fmt.Errorf("op=enrich.summary: %w", err)
	}
	summary := e.Summarizer.Summarize(ctx, reviews)
	if err := e.Store.Recruiters().UpdateSummary(ctx, recruiterID, summary); err != nil {
		return fmt.Errorf("op=enrich.summary: %w", err)
	}
	invalidate(ctx, e.Cache, recruiterCacheKey(recruiterID))
	return nil
}

// verify leaves the flag untouched when the lookup fails.
func (e Enricher) verify(ctx domain.Context, recruiterID string) error {
	rec, err := e.Store.Recruiters().Get(ctx, recruiterID)
	if err != nil {
		return fmt.Errorf("op=enrich.verify: %w", err)
	}
	ok, err := e.Verifier.Verify(ctx, rec.FullName, rec.CompanyName)
	if err != nil {
		return fmt.Errorf("op=enrich.verify: %w", err)
	}
	if err := e.Store.Recruiters().UpdateVerified(ctx, recruiterID, ok); err != nil {
		return fmt.Errorf("op=enrich.verify: %w", err)
	}
	invalidate(ctx, e.Cache, recruiterCacheKey(recruiterID))
	return nil
}

// classify falls back to IndustryTech when the lookup fails and nothing was
// inferred before; an existing value is never overwritten by a failure.
func (e Enricher) classify(ctx domain.Context, companyID string) error {
	company, err := e.Store.Companies().Get(ctx, companyID)
	if err != nil {
		return fmt.Errorf("op=enrich.industry: %w", err)
	}
	ind, classifyErr := e.Industries.Classify(ctx, company.Name)
	if classifyErr != nil {
		if company.Industry != domain.IndustryUnset {
			return fmt.Errorf("op=enrich.industry: %w", classifyErr)
		}
		ind = domain.IndustryTech
	}
	if err := e.Store.Companies().UpdateIndustry(ctx, companyID, ind); err != nil {
		return fmt.Errorf("op=enrich.industry: %w", err)
	}
	if recs, err := e.Store.Recruiters().ListByCompany(ctx, companyID); err == nil {
		keys := make([]string, 0, len(recs))
		for _, r := range recs {
			keys = append(keys, recruiterCacheKey(r.ID))
		}
		invalidate(ctx, e.Cache, keys...)
	}
	if classifyErr != nil {
		return fmt.Errorf("op=enrich.industry: defaulted to %s: %w", ind, classifyErr)
	}
	return nil
}
