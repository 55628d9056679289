package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/crisis-locator/internal/config"
	"github.com/couchcryptid/crisis-locator/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces status change events to a Kafka topic.
// It implements pipeline.StatusPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured status topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaStatusTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishStatuses writes one message per change in a single WriteMessages
// call. Messages are keyed by item id so a consumer sees each item's changes
// in order on one partition.
func (p *Publisher) PublishStatuses(ctx context.Context, changes []domain.StatusChange) error {
	if len(changes) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(changes))
	for i := range changes {
		msg, err := serializeToMessage(changes[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write status messages: %w", err)
	}
	p.logger.Debug("published status changes", "count", len(msgs), "topic", p.writer.Topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a StatusChange into a Kafka message.
func serializeToMessage(change domain.StatusChange) (kafkago.Message, error) {
	data, err := json.Marshal(change)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize status change: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(change.ItemID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(change.Category)},
			{Key: "method", Value: []byte(change.Method)},
			{Key: "observed_at", Value: []byte(change.ObservedAt.Format(time.RFC3339))},
		},
	}, nil
}
