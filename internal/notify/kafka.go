package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"cloudid/internal/platform/config"
)

// Kafka publishes lifecycle events to a Kafka topic. Production is
// asynchronous; failures are logged, never propagated into lifecycle
// transitions.
type Kafka struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

var _ Notifier = (*Kafka)(nil)

// NewKafka connects to the cluster and makes sure the topic exists. A
// single-partition topic is enough: per-key ordering is all consumers rely on.
func NewKafka(cfg config.Kafka, logger *slog.Logger) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Seeds...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := ensureTopic(ctx, client, cfg.Topic); err != nil {
		client.Close()
		return nil, err
	}

	return &Kafka{client: client, topic: cfg.Topic, logger: logger}, nil
}

// Emit publishes the event keyed by email so per-identity ordering holds.
// The produce is asynchronous; the returned error only covers encoding.
func (k *Kafka) Emit(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.Email),
		Value: value,
	}
	k.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			k.logger.Error("notification publish failed",
				"type", string(event.Type),
				"email", event.Email,
				"error", err,
			)
		}
	})
	return nil
}

// Close flushes outstanding produces and releases the client.
func (k *Kafka) Close(ctx context.Context) error {
	defer k.client.Close()
	return k.client.Flush(ctx)
}

func ensureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	adm := kadm.NewClient(client)
	responses, err := adm.CreateTopics(ctx, 1, 1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, response := range responses {
		if response.Err != nil && !errors.Is(response.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", topic, response.Err)
		}
	}
	return nil
}
