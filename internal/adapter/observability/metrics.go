package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	obs "github.com/AdityaU3672/recruiterbook-api/internal/observability"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	EnrichmentEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_tasks_enqueued_total",
			Help: "Total number of enrichment tasks accepted by the queue",
		},
		[]string{"kind"},
	)
	EnrichmentDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_tasks_dropped_total",
			Help: "Total number of enrichment tasks dropped before running",
		},
		[]string{"kind", "reason"},
	)
	EnrichmentProcessing = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "enrichment_tasks_processing",
			Help: "Number of enrichment tasks currently running",
		},
		[]string{"kind"},
	)
	EnrichmentCompletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_tasks_completed_total",
			Help: "Total number of enrichment tasks that finished without error",
		},
		[]string{"kind"},
	)
	EnrichmentFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_tasks_failed_total",
			Help: "Total number of enrichment tasks that returned an error",
		},
		[]string{"kind"},
	)
	EnrichmentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrichment_task_duration_seconds",
			Help:    "Enrichment task duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"kind"},
	)
	// EnrichmentQueueLag observes the time a task spent queued before a worker picked it up.
	EnrichmentQueueLag = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrichment_task_queue_lag_seconds",
			Help:    "Time between enqueue and start of an enrichment task",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"kind"},
	)
)

var registerOnce sync.Once

// InitMetrics registers every collector on the default registry. Safe to call more than once.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal, HTTPRequestDuration,
			EnrichmentEnqueuedTotal, EnrichmentDroppedTotal, EnrichmentProcessing,
			EnrichmentCompletedTotal, EnrichmentFailedTotal, EnrichmentDuration, EnrichmentQueueLag,
		)
		prometheus.MustRegister(obs.UpstreamCollectors()...)
	})
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// EnqueueTask counts a task accepted by a queue.
func EnqueueTask(kind string) { EnrichmentEnqueuedTotal.WithLabelValues(kind).Inc() }

// DropTask counts a task discarded before it ran.
func DropTask(kind, reason string) { EnrichmentDroppedTotal.WithLabelValues(kind, reason).Inc() }

// StartTask marks a task as running and records how long it waited.
func StartTask(kind string, enqueuedAt time.Time) {
	EnrichmentProcessing.WithLabelValues(kind).Inc()
	if !enqueuedAt.IsZero() {
		EnrichmentQueueLag.WithLabelValues(kind).Observe(time.Since(enqueuedAt).Seconds())
	}
}

// FinishTask records the outcome of a running task.
func FinishTask(kind string, started time.Time, err error) {
	EnrichmentProcessing.WithLabelValues(kind).Dec()
	EnrichmentDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	if err != nil {
		EnrichmentFailedTotal.WithLabelValues(kind).Inc()
		return
	}
	EnrichmentCompletedTotal.WithLabelValues(kind).Inc()
}
