// Package redpanda publishes and consumes enrichment tasks on a Redpanda (Kafka) topic
// so the API and the enrichment worker can run as separate processes.
package redpanda

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/observability"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/queue/shared"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// DefaultTopic carries every enrichment task kind.
const DefaultTopic = "recruiter-enrichment"

// produceClient is the subset of *kgo.Client used by Producer.
type produceClient interface {
	TryProduce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
	Flush(ctx context.Context) error
	Close()
}

// Producer is a domain.EnrichmentQueue that publishes tasks asynchronously.
type Producer struct {
	client produceClient
	topic  string
}

var _ domain.EnrichmentQueue = (*Producer)(nil)

// NewProducer connects to brokers and makes sure topic exists.
func NewProducer(ctx context.Context, brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("op=redpanda.new_producer: no seed brokers provided")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	kot := kotel.NewKotel(kotel.WithTracer(kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))))
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequestRetries(10),
		kgo.MaxBufferedRecords(10_000),
		kgo.ProducerLinger(5*time.Millisecond),
		kgo.WithHooks(kot.Hooks()...),
	)
	if err != nil {
		return nil, fmt.Errorf("op=redpanda.new_producer: %w", err)
	}
	if err := EnsureTopic(ctx, client, topic, 4, 1); err != nil {
		slog.Warn("could not ensure enrichment topic", slog.String("topic", topic), slog.Any("error", err))
	}
	slog.Info("redpanda producer ready", slog.Any("brokers", brokers), slog.String("topic", topic))
	return &Producer{client: client, topic: topic}, nil
}

// Enqueue hands the task to the client buffer and returns immediately. Delivery
// failures are logged and counted once the broker answers.
func (p *Producer) Enqueue(ctx domain.Context, task domain.EnrichmentTask) error {
	kind := string(task.Kind)
	b, err := shared.Encode(task)
	if err != nil {
		observability.DropTask(kind, "invalid")
		return err
	}
	rec := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(subjectKey(task)),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "kind", Value: []byte(kind)},
			{Key: "request_id", Value: []byte(task.RequestID)},
		},
	}
	p.client.TryProduce(ctx, rec, func(r *kgo.Record, err error) {
		if err != nil {
			observability.DropTask(kind, "produce_error")
			slog.Warn("enrichment task not delivered",
				slog.String("task", kind),
				slog.String("key", string(r.Key)),
				slog.Any("error", err))
			return
		}
		observability.EnqueueTask(kind)
	})
	return nil
}

// Close flushes buffered records until ctx ends, then closes the client.
func (p *Producer) Close(ctx context.Context) error {
	err := p.client.Flush(ctx)
	p.client.Close()
	if err != nil {
		return fmt.Errorf("op=redpanda.producer_close: %w", err)
	}
	return nil
}

// subjectKey partitions tasks by the entity they touch so updates to one
// recruiter or company are handled in order.
func subjectKey(task domain.EnrichmentTask) string {
	if task.Kind == domain.TaskIndustry {
		return "company:" + task.CompanyID
	}
	return "recruiter:" + task.RecruiterID
}
