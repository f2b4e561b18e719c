package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvGatewayAPIURL        = "GATEWAY_API_URL"
	EnvGatewaySecretKey     = "GATEWAY_SECRET_KEY"
	EnvGatewayWebhookSecret = "GATEWAY_WEBHOOK_SECRET"
	EnvCheckoutSuccessURL   = "CHECKOUT_SUCCESS_URL"
	EnvCheckoutCancelURL    = "CHECKOUT_CANCEL_URL"
	EnvCheckoutCurrency     = "CHECKOUT_CURRENCY"

	EnvHoldTTL       = "HOLD_TTL"
	EnvSweepInterval = "SWEEP_INTERVAL"

	EnvNotificationsTopic    = "NOTIFICATIONS_TOPIC"
	EnvNotificationsDLQTopic = "NOTIFICATIONS_DLQ_TOPIC"
	EnvNotificationsGroupID  = "NOTIFICATIONS_GROUP_ID"
	EnvAdminEmail            = "ADMIN_EMAIL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
