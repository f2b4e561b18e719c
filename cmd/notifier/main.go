package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"rinkside/internal/notifier"
	"rinkside/pkg/config"
	kafka_config "rinkside/pkg/kafka/config"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	cfg.LogConfiguration()

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	cfg.Log.Info("Starting Notifier service")

	worker, err := notifier.NewWorker(cfg, kafkaCfg, notifier.NewLogNotifier(cfg.Log))
	if err != nil {
		cfg.Log.Fatal("Failed to create notification worker", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Notification worker stopped with error", "error", err)
	}

	if err := worker.Close(); err != nil {
		cfg.Log.Error("Failed to close notification worker", "error", err)
	}

	cfg.Log.Info("Notifier service stopped")
}
