package notifications

import (
	"context"

	"rinkside/pkg/kafka"
	"rinkside/pkg/logger"
)

// Publisher emits booking lifecycle events. Publishing is best effort:
// callers treat failures as non-fatal and the booking flow never blocks
// on delivery.
type Publisher interface {
	BookingRequested(ctx context.Context, event BookingRequested)
	BookingPaid(ctx context.Context, event BookingPaid)
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
	logger   *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, source string, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		source:   source,
		logger:   log,
	}
}

func (p *kafkaPublisher) BookingRequested(ctx context.Context, event BookingRequested) {
	p.publish(ctx, EventBookingRequested, event.BookingID, event)
}

func (p *kafkaPublisher) BookingPaid(ctx context.Context, event BookingPaid) {
	p.publish(ctx, EventBookingPaid, event.BookingID, event)
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType, key string, payload interface{}) {
	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(p.source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.logger.Error("Failed to publish notification event",
			"event_type", eventType,
			"booking_id", key,
			"error", err)
	}
}

// NoopPublisher drops all events. It stands in when the broker is not
// configured so callers never have to nil-check.
type NoopPublisher struct{}

func (NoopPublisher) BookingRequested(ctx context.Context, event BookingRequested) {}

func (NoopPublisher) BookingPaid(ctx context.Context, event BookingPaid) {}
