package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	JWTSecret string

	DatabaseHost     string
	DatabasePort     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	DatabaseSSLMode  string

	// Push gateway selection: "expo" (HTTP gateway) or "fcm" (Firebase).
	PushDriver          string
	PushGatewayURL      string
	PushTimeout         time.Duration
	FirebaseCredentials string

	// Pub/Sub trigger for async dispatch on notice creation.
	GoogleProjectID   string
	GooglePubSubTopic string
	GoogleCredentials string

	// Platform batch limits, injected so the engine can be retargeted
	// to a storage backend or push gateway with different caps.
	DirectoryInQueryLimit int // max ids per membership-test query
	ReceiptWriteBatch     int // max receipts per atomic upsert batch
	ReceiptDeleteBatch    int // max receipts per atomic delete batch
	PushBatchSize         int // max notifications per gateway call

	SweepLookback   time.Duration
	SweepInterval   time.Duration // 0 disables the periodic sweep
	DispatchTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	pushTimeout := 30 * time.Second
	if v := os.Getenv("PUSH_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			pushTimeout = parsed
		}
	}

	dispatchTimeout := 2 * time.Minute
	if v := os.Getenv("DISPATCH_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			dispatchTimeout = parsed
		}
	}

	sweepLookback := 6 * time.Hour
	if v := os.Getenv("SWEEP_LOOKBACK"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			sweepLookback = parsed
		}
	}

	var sweepInterval time.Duration
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			sweepInterval = parsed
		}
	}

	return &Config{
		Port:      getEnv("PORT", "8080"),
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		DatabaseHost:     getEnv("DB_HOST", "localhost"),
		DatabasePort:     getEnv("DB_PORT", "5432"),
		DatabaseUser:     getEnv("DB_USER", "postgres"),
		DatabasePassword: getEnv("DB_PASSWORD", "postgres"),
		DatabaseName:     getEnv("DB_NAME", "noticehub"),
		DatabaseSSLMode:  getEnv("DB_SSLMODE", "disable"),

		PushDriver:          getEnv("PUSH_DRIVER", "expo"),
		PushGatewayURL:      getEnv("PUSH_GATEWAY_URL", "https://exp.host/--/api/v2/push/send"),
		PushTimeout:         pushTimeout,
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),

		GoogleProjectID:   getEnv("GOOGLE_PROJECT_ID", ""),
		GooglePubSubTopic: getEnv("GOOGLE_PUBSUB_TOPIC", "notice-created"),
		GoogleCredentials: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		DirectoryInQueryLimit: getEnvInt("DIRECTORY_IN_QUERY_LIMIT", 10),
		ReceiptWriteBatch:     getEnvInt("RECEIPT_WRITE_BATCH", 450),
		ReceiptDeleteBatch:    getEnvInt("RECEIPT_DELETE_BATCH", 300),
		PushBatchSize:         getEnvInt("PUSH_BATCH_SIZE", 90),

		SweepLookback:   sweepLookback,
		SweepInterval:   sweepInterval,
		DispatchTimeout: dispatchTimeout,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
