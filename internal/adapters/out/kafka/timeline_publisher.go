// Package kafka streams committed timeline events to a Kafka topic, keyed by
// shipment id so one shipment's events stay in order on one partition.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fastship/internal/core/domain/model/shipment"

	skafka "github.com/segmentio/kafka-go"
)

// Writer is the subset of *kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// TimelineEvent is the message value.
type TimelineEvent struct {
	EventID     string    `json:"event_id"`
	ShipmentID  string    `json:"shipment_id"`
	Sequence    int       `json:"sequence"`
	Status      string    `json:"status"`
	Location    int       `json:"location"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewTimelineEvent(e *shipment.Event) TimelineEvent {
	return TimelineEvent{
		EventID:     e.ID().String(),
		ShipmentID:  e.ShipmentID().String(),
		Sequence:    e.Sequence(),
		Status:      e.Status().String(),
		Location:    e.Location().Value(),
		Description: e.Description(),
		CreatedAt:   e.CreatedAt(),
	}
}

type TimelinePublisher struct {
	writer Writer
}

// NewTimelinePublisher writes to topic on broker.
func NewTimelinePublisher(broker, topic string) *TimelinePublisher {
	return NewTimelinePublisherWithWriter(&skafka.Writer{
		Addr:                   skafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &skafka.Hash{},
		RequiredAcks:           skafka.RequireOne,
		AllowAutoTopicCreation: true,
	})
}

// NewTimelinePublisherWithWriter allows injecting a test writer.
func NewTimelinePublisherWithWriter(w Writer) *TimelinePublisher {
	return &TimelinePublisher{writer: w}
}

// Publish writes events in one batch, in the order given.
func (p *TimelinePublisher) Publish(ctx context.Context, events ...*shipment.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]skafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(NewTimelineEvent(e))
		if err != nil {
			return fmt.Errorf("failed to encode timeline event %s: %w", e.ID(), err)
		}
		msgs = append(msgs, skafka.Message{
			Key:   []byte(e.ShipmentID().String()),
			Value: value,
			Time:  e.CreatedAt(),
			Headers: []skafka.Header{
				{Key: "status", Value: []byte(e.Status().String())},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to write %d timeline events: %w", len(msgs), err)
	}
	return nil
}

func (p *TimelinePublisher) Close() error {
	return p.writer.Close()
}
