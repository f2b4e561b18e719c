package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "rinkside"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultGatewayAPIURL      = "https://api.payproc.test"
	DefaultCheckoutSuccessURL = "https://rinkside.local/my-bookings?success=true"
	DefaultCheckoutCancelURL  = "https://rinkside.local/my-bookings?canceled=true"
	DefaultCheckoutCurrency   = "cad"

	DefaultHoldTTL       = 48 * time.Hour
	DefaultSweepInterval = 10 * time.Minute

	DefaultNotificationsTopic    = "booking-notifications"
	DefaultNotificationsDLQTopic = "booking-notifications-dlq"
	DefaultNotificationsGroupID  = "notifier"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
