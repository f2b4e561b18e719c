package notifier

import (
	"context"
	"fmt"

	"rinkside/internal/notifications"
	"rinkside/pkg/config"
	"rinkside/pkg/kafka"
	kafka_config "rinkside/pkg/kafka/config"
	kafkamiddleware "rinkside/pkg/kafka/middleware"
)

// Worker consumes booking lifecycle events and fans them out through
// the Notifier. Unknown event types are acknowledged and skipped so a
// producer rollout never wedges the consumer group.
type Worker struct {
	consumer *kafka.Consumer
	notifier Notifier
	cfg      *config.Config
}

func NewWorker(cfg *config.Config, kafkaCfg *kafka_config.Config, notifier Notifier) (*Worker, error) {
	w := &Worker{
		notifier: notifier,
		cfg:      cfg,
	}

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.NotificationsTopic,
		cfg.NotificationsGroupID,
		cfg.NotificationsDLQTopic,
		w.handle,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notifications consumer: %w", err)
	}
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware())
	consumer.Use(kafkamiddleware.MetricsConsumerMiddleware())

	w.consumer = consumer
	return w, nil
}

// Run blocks consuming until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.cfg.Log.Info("Notification worker started",
		"topic", w.cfg.NotificationsTopic,
		"group_id", w.cfg.NotificationsGroupID,
	)
	return w.consumer.Start(ctx)
}

func (w *Worker) Close() error {
	return w.consumer.Close()
}

func (w *Worker) handle(ctx context.Context, msg kafka.Message) error {
	eventType := msg.GetEventType()

	switch eventType {
	case notifications.EventBookingRequested:
		var event notifications.BookingRequested
		if err := msg.DecodeValue(&event); err != nil {
			return fmt.Errorf("failed to decode %s event: %w", eventType, err)
		}
		return w.notifier.NotifyAdmin(ctx, event)

	case notifications.EventBookingPaid:
		var event notifications.BookingPaid
		if err := msg.DecodeValue(&event); err != nil {
			return fmt.Errorf("failed to decode %s event: %w", eventType, err)
		}
		return w.notifier.NotifyClient(ctx, event)

	default:
		w.cfg.Log.Warn("Skipping unknown notification event",
			"event_type", eventType,
			"event_id", msg.GetEventID(),
		)
		return nil
	}
}
