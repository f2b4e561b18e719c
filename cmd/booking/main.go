package main

import (
	bookingshandler "rinkside/internal/bookings/handler"
	bookingsrepo "rinkside/internal/bookings/repository"
	bookingsservice "rinkside/internal/bookings/service"
	"rinkside/internal/bookings/validator"
	inventoryrepo "rinkside/internal/inventory/repository"
	"rinkside/internal/notifications"
	"rinkside/internal/payments/gateway"
	paymentshandler "rinkside/internal/payments/handler"
	paymentsservice "rinkside/internal/payments/service"
	"rinkside/internal/sweeper"
	"rinkside/pkg/app"
	"rinkside/pkg/config"
	"rinkside/pkg/kafka"
	kafka_config "rinkside/pkg/kafka/config"
	kafkamiddleware "rinkside/pkg/kafka/middleware"
)

const ServiceName = "booking"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Booking service")
	cfg.SetMongo()

	publisher, closeProducer := initPublisher(cfg)

	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	slotRepo := inventoryrepo.NewMongoSlotRepository(cfg)
	eventRepo := inventoryrepo.NewMongoEventRepository(cfg)
	resourceRepo := inventoryrepo.NewResourceRepository(slotRepo, eventRepo)

	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		resourceRepo,
		slotRepo,
		validator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	paymentService := paymentsservice.NewPaymentService(
		bookingRepo,
		slotRepo,
		eventRepo,
		gateway.NewClient(cfg, cfg.Log),
		publisher,
		cfg,
	)

	serverApp := app.NewApplication(cfg)
	serverApp.SetHealth(bookingshandler.NewHealthHandler(cfg.Client.Mongo, cfg.Log))
	serverApp.SetAPI(
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		paymentshandler.NewPaymentHandler(paymentService, cfg.Log),
	)
	serverApp.SetWebhook(
		paymentshandler.WebhookPath,
		paymentshandler.NewWebhookHandler(paymentService, cfg.Log),
	)

	holdSweeper := sweeper.NewSweeper(bookingRepo, slotRepo, cfg)
	serverApp.AddBackground(app.BackgroundTask{
		Name: "stale-hold-sweeper",
		Run:  holdSweeper.Run,
	})
	if closeProducer != nil {
		serverApp.AddCloser(closeProducer)
	}

	serverApp.Run()
}

// initPublisher wires the Kafka producer for booking events. An invalid
// broker configuration degrades to the noop publisher so the API keeps
// serving without notifications.
func initPublisher(cfg *config.Config) (notifications.Publisher, func() error) {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Warn("Kafka disabled, notifications will not be published", "error", err)
		return notifications.NoopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.NotificationsTopic, cfg.NotificationsDLQTopic)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, notifications will not be published", "error", err)
		return notifications.NoopPublisher{}, nil
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware())
	producer.Use(kafkamiddleware.MetricsProducerMiddleware())

	return notifications.NewKafkaPublisher(producer, ServiceName, cfg.Log), producer.Close
}
