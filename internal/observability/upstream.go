package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// UpstreamRequestsTotal counts calls to third-party providers by outcome.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream provider calls by outcome",
		},
		[]string{"upstream", "operation", "outcome"},
	)
	// UpstreamRequestDuration observes the latency of calls that reached the provider.
	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream provider call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"upstream", "operation"},
	)
	circuitState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"breaker"},
	)
)

// UpstreamCollectors returns the collectors owned by this package for registration.
func UpstreamCollectors() []prometheus.Collector {
	return []prometheus.Collector{UpstreamRequestsTotal, UpstreamRequestDuration, circuitState}
}

// Upstream guards calls to one external provider with a circuit breaker, a
// per-call timeout, metrics and logs.
type Upstream struct {
	Name    string
	Breaker *CircuitBreaker
	Timeout time.Duration
	// Counts reports whether err should count against the breaker.
	// Nil counts every error except caller cancellation.
	Counts func(err error) bool
}

// NewUpstream returns an Upstream that opens after 5 consecutive failures for 30s.
func NewUpstream(name string, timeout time.Duration) *Upstream {
	return &Upstream{
		Name:    name,
		Breaker: NewCircuitBreaker(name, 5, 30*time.Second, 1),
		Timeout: timeout,
	}
}

// Do runs fn under the breaker and timeout.
func (u *Upstream) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	lg := LoggerFromContext(ctx).With("upstream", u.Name, "operation", op)
	if u.Breaker != nil {
		if err := u.Breaker.Allow(); err != nil {
			UpstreamRequestsTotal.WithLabelValues(u.Name, op, "rejected").Inc()
			lg.Warn("upstream call rejected", "reason", err.Error())
			return fmt.Errorf("op=%s.%s: %w", u.Name, op, err)
		}
	}
	callCtx := ctx
	if u.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, u.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(callCtx)
	dur := time.Since(start)
	UpstreamRequestDuration.WithLabelValues(u.Name, op).Observe(dur.Seconds())

	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		outcome = "timeout"
	default:
		outcome = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(u.Name, op, outcome).Inc()

	if u.Breaker != nil {
		switch {
		case err == nil:
			u.Breaker.RecordSuccess()
		case u.counts(err):
			u.Breaker.RecordFailure()
		}
	}
	if err != nil {
		lg.Warn("upstream call failed", "outcome", outcome, "duration_ms", dur.Milliseconds(), "error", err)
		return err
	}
	lg.Debug("upstream call ok", "duration_ms", dur.Milliseconds())
	return nil
}

func (u *Upstream) counts(err error) bool {
	if u.Counts != nil {
		return u.Counts(err)
	}
	return !errors.Is(err, context.Canceled)
}
