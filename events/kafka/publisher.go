// Package kafka forwards committed vesting events to a kafka topic for
// downstream consumers (token accounting, reporting).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"vestlock/events"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

// Publisher writes vesting events to a single kafka topic.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// envelope is the wire shape of a forwarded event.
type envelope struct {
	ID      string           `json:"id"`
	Type    events.EventType `json:"type"`
	Payload events.Event     `json:"payload"`
}

// Publish serializes one event and writes it to the topic.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(envelope{
		ID:      uuid.New().String(),
		Type:    event.Type(),
		Payload: event,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Type()),
		Value: data,
	})
}

// Attach subscribes the publisher to every event type on the bus.
// Delivery failures are logged, not propagated; kafka is a best-effort
// mirror of state that has already committed.
func (p *Publisher) Attach(bus *events.Bus) {
	for _, eventType := range events.AllEventTypes() {
		bus.Subscribe(eventType, func(ctx context.Context, event events.Event) {
			if err := p.Publish(ctx, event); err != nil {
				log.WithFields(log.Fields{
					"eventType": event.Type(),
					"error":     err,
				}).Error("Failed to publish event to kafka")
			}
		})
	}
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
