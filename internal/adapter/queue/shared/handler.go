// Package shared holds the task plumbing common to every enrichment queue backend.
package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/observability"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	obs "github.com/AdityaU3672/recruiterbook-api/internal/observability"
)

// Validate rejects tasks that no handler could run.
func Validate(task domain.EnrichmentTask) error {
	switch task.Kind {
	case domain.TaskSummary, domain.TaskVerify:
		if task.RecruiterID == "" {
			return fmt.Errorf("%w: %s task without recruiter_id", domain.ErrInvalidArgument, task.Kind)
		}
	case domain.TaskIndustry:
		if task.CompanyID == "" {
			return fmt.Errorf("%w: industry task without company_id", domain.ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("%w: unknown task kind %q", domain.ErrInvalidArgument, task.Kind)
	}
	return nil
}

// Encode serialises a task for a broker.
func Encode(task domain.EnrichmentTask) ([]byte, error) {
	if err := Validate(task); err != nil {
		return nil, fmt.Errorf("op=task.encode: %w", err)
	}
	b, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("op=task.encode: %w", err)
	}
	return b, nil
}

// Decode parses and validates a broker payload.
func Decode(b []byte) (domain.EnrichmentTask, error) {
	var task domain.EnrichmentTask
	if err := json.Unmarshal(b, &task); err != nil {
		return domain.EnrichmentTask{}, fmt.Errorf("op=task.decode: %w: %v", domain.ErrInvalidArgument, err)
	}
	if err := Validate(task); err != nil {
		return domain.EnrichmentTask{}, fmt.Errorf("op=task.decode: %w", err)
	}
	return task, nil
}

// Handler runs tasks through Next with a span, a deadline, task-scoped logs and metrics.
type Handler struct {
	Next    domain.EnrichmentHandler
	Timeout time.Duration
}

var _ domain.EnrichmentHandler = Handler{}

// Handle runs one task. Errors are logged and returned; retrying is the caller's choice.
func (h Handler) Handle(ctx context.Context, task domain.EnrichmentTask) error {
	ctx, span := otel.Tracer("queue.enrichment").Start(ctx, "enrichment."+string(task.Kind))
	defer span.End()
	span.SetAttributes(
		attribute.String("task.kind", string(task.Kind)),
		attribute.String("task.recruiter_id", task.RecruiterID),
		attribute.String("task.company_id", task.CompanyID),
	)

	ctx = obs.ContextWithRequestID(ctx, task.RequestID)
	ctx = obs.ContextWithAttrs(ctx, "task", string(task.Kind), "recruiter_id", task.RecruiterID,
		"company_id", task.CompanyID, "request_id", task.RequestID)
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}
	lg := obs.LoggerFromContext(ctx)

	kind := string(task.Kind)
	start := time.Now()
	observability.StartTask(kind, task.EnqueuedAt)
	err := h.Next.Handle(ctx, task)
	observability.FinishTask(kind, start, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		lg.Warn("enrichment task failed", "duration_ms", time.Since(start).Milliseconds(), "error", err)
		return err
	}
	lg.Info("enrichment task done", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
