// Package kafka publishes entity events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/zerr"
)

const headerKind = "flow-event-kind"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements ports.EventListener by writing events as JSON messages.
// Messages are keyed by deployment id, so events of one deployment share a partition.
type Publisher struct {
	topic  string
	writer messageWriter
}

// NewPublisher creates a publisher writing to topic on the given brokers.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "no kafka brokers configured"), "field", "events.kafka.brokers")
	}
	if topic == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "kafka topic is empty"), "field", "events.kafka.topic")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
	return newPublisher(topic, w), nil
}

func newPublisher(topic string, w messageWriter) *Publisher {
	return &Publisher{topic: topic, writer: w}
}

// Handle writes the event to the topic.
func (p *Publisher) Handle(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to encode event"), "event_id", event.ID.String())
	}

	msg := kafka.Message{
		Key:   []byte(event.DeploymentID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: headerKind, Value: []byte(event.Kind)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		err := zerr.With(zerr.Wrap(err, "failed to publish event"), "topic", p.topic)
		return zerr.With(err, "event_id", event.ID.String())
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return zerr.Wrap(err, "failed to close kafka writer")
	}
	return nil
}
