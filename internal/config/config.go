package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	LogLevel        slog.Level
	ShutdownTimeout time.Duration

	DatabaseURL string

	PricingProvider string
	PricingAPIURL   string
	PricingTimeout  time.Duration

	DistanceAPIURL  string
	DistanceTimeout time.Duration

	RedisEnabled       bool
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	KafkaBroker string
	KafkaTopic  string

	PremiumCompany    string
	ReferenceVendor   string
	VolumetricDivisor float64
}

// Load reads configuration from the environment. Every key has a default so
// the service starts offline with the built-in rate table.
func Load() Config {
	return Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getLogLevelEnv("LOG_LEVEL", slog.LevelInfo),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),

		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),

		PricingProvider: getEnv("PRICING_PROVIDER", "local"),
		PricingAPIURL:   getEnv("PRICING_API_URL", ""),
		PricingTimeout:  getDurationEnv("PRICING_TIMEOUT", 5*time.Second),

		DistanceAPIURL:  getEnv("DISTANCE_API_URL", ""),
		DistanceTimeout: getDurationEnv("DISTANCE_TIMEOUT", 3*time.Second),

		RedisEnabled:       getBoolEnv("REDIS_ENABLED", false),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getIntEnv("REDIS_DB", 0),
		CacheTTL:           getDurationEnv("CACHE_TTL", 30*time.Minute),
		CacheSweepInterval: getDurationEnv("CACHE_SWEEP_INTERVAL", 5*time.Minute),

		KafkaBroker: getEnv("KAFKA_BROKER", ""),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "freight.compare.completed"),

		PremiumCompany:    getEnv("PREMIUM_COMPANY", "Apex Logistics"),
		ReferenceVendor:   getEnv("REFERENCE_VENDOR", "Northline Cargo"),
		VolumetricDivisor: getFloatEnv("VOLUMETRIC_DIVISOR", 5000),
	}
}

func getEnv(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getFloatEnv(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getLogLevelEnv(key string, defaultVal slog.Level) slog.Level {
	switch strings.ToLower(os.Getenv(key)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return defaultVal
	}
}
