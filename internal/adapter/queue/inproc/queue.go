// Package inproc runs enrichment tasks on a bounded in-process worker pool.
package inproc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/observability"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/queue/shared"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

var (
	// ErrFull is returned when the buffer has no room; the task is dropped.
	ErrFull = errors.New("enrichment queue full")
	// ErrClosed is returned after Close has been called.
	ErrClosed = errors.New("enrichment queue closed")
)

// Queue is a domain.EnrichmentQueue that never blocks the caller.
type Queue struct {
	handler domain.EnrichmentHandler
	tasks   chan domain.EnrichmentTask
	workers *pool.Pool

	mu     sync.RWMutex
	closed bool
}

var _ domain.EnrichmentQueue = (*Queue)(nil)

// New starts workers goroutines consuming a buffer of the given size.
func New(handler domain.EnrichmentHandler, workers, buffer int) *Queue {
	workers = max(workers, 1)
	q := &Queue{
		handler: handler,
		tasks:   make(chan domain.EnrichmentTask, max(buffer, 0)),
		workers: pool.New().WithMaxGoroutines(workers),
	}
	for range workers {
		q.workers.Go(q.work)
	}
	return q
}

// Enqueue buffers task or drops it when the buffer is full.
func (q *Queue) Enqueue(ctx domain.Context, task domain.EnrichmentTask) error {
	kind := string(task.Kind)
	if err := shared.Validate(task); err != nil {
		observability.DropTask(kind, "invalid")
		return fmt.Errorf("op=inproc.enqueue: %w", err)
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		observability.DropTask(kind, "closed")
		return fmt.Errorf("op=inproc.enqueue: %w", ErrClosed)
	}
	select {
	case q.tasks <- task:
		observability.EnqueueTask(kind)
		return nil
	default:
		observability.DropTask(kind, "queue_full")
		return fmt.Errorf("op=inproc.enqueue: %w (capacity %d)", ErrFull, cap(q.tasks))
	}
}

// Len reports the number of buffered tasks.
func (q *Queue) Len() int { return len(q.tasks) }

// Close stops accepting tasks and waits for buffered ones to finish or ctx to end.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("op=inproc.close: %d tasks abandoned: %w", len(q.tasks), ctx.Err())
	}
}

func (q *Queue) work() {
	for task := range q.tasks {
		q.run(task)
	}
}

func (q *Queue) run(task domain.EnrichmentTask) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("enrichment task panicked", slog.String("task", string(task.Kind)), slog.Any("panic", r))
		}
	}()
	// errors are already logged and counted by the handler
	_ = q.handler.Handle(context.Background(), task)
}
