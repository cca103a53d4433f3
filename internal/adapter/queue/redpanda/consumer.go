package redpanda

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/observability"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/queue/shared"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// consumeClient is the subset of *kgo.Client used by Consumer.
type consumeClient interface {
	PollRecords(ctx context.Context, maxPollRecords int) kgo.Fetches
	MarkCommitRecords(rs ...*kgo.Record)
	CommitMarkedOffsets(ctx context.Context) error
	Close()
}

// Consumer reads enrichment tasks from the topic and runs them with bounded concurrency.
// Offsets are committed after a batch has been handled, so a crash replays at most one batch.
type Consumer struct {
	client  consumeClient
	tracer  *kotel.Tracer
	handler domain.EnrichmentHandler
	workers int
	batch   int
}

// NewConsumer joins groupID on topic.
func NewConsumer(ctx context.Context, brokers []string, groupID, topic string, handler domain.EnrichmentHandler, workers int) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("op=redpanda.new_consumer: no seed brokers provided")
	}
	if groupID == "" {
		return nil, fmt.Errorf("op=redpanda.new_consumer: missing group id")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	tracer := kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()), kotel.ConsumerGroup(groupID))
	kot := kotel.NewKotel(kotel.WithTracer(tracer))
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		kgo.DisableAutoCommit(),
		kgo.SessionTimeout(30*time.Second),
		kgo.FetchMaxWait(5*time.Second),
		kgo.WithHooks(kot.Hooks()...),
	)
	if err != nil {
		return nil, fmt.Errorf("op=redpanda.new_consumer: %w", err)
	}
	if err := EnsureTopic(ctx, client, topic, 4, 1); err != nil {
		slog.Warn("could not ensure enrichment topic", slog.String("topic", topic), slog.Any("error", err))
	}
	slog.Info("redpanda consumer ready", slog.String("group_id", groupID), slog.String("topic", topic), slog.Int("workers", workers))
	return newConsumer(client, tracer, handler, workers), nil
}

func newConsumer(client consumeClient, tracer *kotel.Tracer, handler domain.EnrichmentHandler, workers int) *Consumer {
	workers = max(workers, 1)
	return &Consumer{client: client, tracer: tracer, handler: handler, workers: workers, batch: workers * 4}
}

// Run polls until ctx is cancelled. In-flight tasks of the current batch finish before it returns.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.client.Close()
	for {
		fetches := c.client.PollRecords(ctx, c.batch)
		if ctx.Err() != nil || fetches.IsClientClosed() {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			if !errors.Is(err, context.Canceled) {
				slog.Error("fetch error", slog.String("topic", topic), slog.Int("partition", int(partition)), slog.Any("error", err))
			}
		})
		records := fetches.Records()
		if len(records) == 0 {
			continue
		}
		c.handleBatch(records)
		// commit on a context that outlives shutdown so finished work is not replayed
		commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		err := c.client.CommitMarkedOffsets(commitCtx)
		cancel()
		if err != nil {
			slog.Error("offset commit failed", slog.Any("error", err))
		}
	}
}

func (c *Consumer) handleBatch(records []*kgo.Record) {
	p := pool.New().WithMaxGoroutines(c.workers)
	for _, rec := range records {
		p.Go(func() { c.handle(rec) })
	}
	p.Wait()
	c.client.MarkCommitRecords(records...)
}

// handle runs one record. Undecodable payloads and failed tasks are logged and
// skipped; enrichment is best effort.
func (c *Consumer) handle(rec *kgo.Record) {
	ctx := context.Background()
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.WithProcessSpan(rec)
		defer span.End()
	}
	task, err := shared.Decode(rec.Value)
	if err != nil {
		observability.DropTask(headerValue(rec, "kind"), "invalid")
		slog.Error("dropping undecodable enrichment record",
			slog.String("topic", rec.Topic), slog.Int64("offset", rec.Offset), slog.Any("error", err))
		return
	}
	_ = c.handler.Handle(ctx, task)
}

func headerValue(rec *kgo.Record, key string) string {
	for _, h := range rec.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return "unknown"
}
