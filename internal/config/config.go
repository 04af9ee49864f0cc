package config

import (
	"os"
	"strconv"
)

// Config holds all environment-driven settings (spec §6.5).
type Config struct {
	// Database
	DatabaseURL string

	// Auth
	JWTSecret string

	// HTTP server
	ServiceHost string
	ServicePort string
	Environment string

	// Broker topology
	RabbitMQURL               string
	RabbitMQExchange          string
	RabbitMQInputQueue        string
	RabbitMQOutputQueue       string
	RabbitMQInputRoutingKey   string
	RabbitMQOutputRoutingKey  string
	WorkerConcurrency         int

	// Scheduler
	SchedulerScanIntervalSeconds int
	SchedulerBatchSize           int
	CleanupGraceSeconds          int

	// Push provider
	FCMProjectID       string
	FCMCredentialsJSON string
	APNsKeyID          string
	APNsTeamID         string
	APNsPrivateKey     string
	APNsBundleID       string

	// Observability
	MetricsEnabled bool

	// Timezone
	DefaultTimezone string
}

func Load() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		ServiceHost: getEnv("SERVICE_HOST", "0.0.0.0"),
		ServicePort: getEnv("SERVICE_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		RabbitMQURL:              getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange:         getEnv("RABBITMQ_EXCHANGE", "reminders"),
		RabbitMQInputQueue:       getEnv("RABBITMQ_INPUT_QUEUE", "reminders.create"),
		RabbitMQOutputQueue:      getEnv("RABBITMQ_OUTPUT_QUEUE", "reminders.dispatch"),
		RabbitMQInputRoutingKey:  getEnv("RABBITMQ_INPUT_ROUTING_KEY", "reminders.create"),
		RabbitMQOutputRoutingKey: getEnv("RABBITMQ_OUTPUT_ROUTING_KEY", "reminders.dispatch"),
		WorkerConcurrency:        getEnvInt("WORKER_CONCURRENCY", 4),

		SchedulerScanIntervalSeconds: getEnvInt("SCHEDULER_SCAN_INTERVAL_SECONDS", 30),
		SchedulerBatchSize:           getEnvInt("SCHEDULER_BATCH_SIZE", 100),
		CleanupGraceSeconds:          getEnvInt("CLEANUP_GRACE_SECONDS", 0),

		FCMProjectID:       getEnv("FCM_PROJECT_ID", ""),
		FCMCredentialsJSON: getEnv("FCM_CREDENTIALS_JSON", ""),
		APNsKeyID:          getEnv("APNS_KEY_ID", ""),
		APNsTeamID:         getEnv("APNS_TEAM_ID", ""),
		APNsPrivateKey:     getEnv("APNS_PRIVATE_KEY", ""),
		APNsBundleID:       getEnv("APNS_BUNDLE_ID", ""),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),

		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", "UTC"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) PushConfigured() bool {
	return c.FCMProjectID != "" && c.FCMCredentialsJSON != ""
}
