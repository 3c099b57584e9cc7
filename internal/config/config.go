package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	StoreDriver  string
	DatabaseURI  string
	DatabaseName string

	JWTSecret string
	TokenTTL  time.Duration

	StripeSecretKey string
	StripeBaseURL   string
	StripeDryRun    bool
	PaymentCurrency string

	RedisAddr     string
	RedisPassword string
	EventsChannel string

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	OTelEndpoint string

	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

// LoadDotEnv loads a .env file when one exists. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "3000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreDriver:  strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreMongo))),
		DatabaseURI:  getEnv("DB_URI", ""),
		DatabaseName: getEnv("DB_NAME", "doctorsPortal"),

		JWTSecret: getEnv("ACCESS_TOKEN", ""),
		TokenTTL:  getEnvAsDuration("TOKEN_TTL", 24*time.Hour),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		StripeBaseURL:   getEnv("STRIPE_BASE_URL", "https://api.stripe.com"),
		StripeDryRun:    getEnvAsBool("STRIPE_DRY_RUN", false),
		PaymentCurrency: strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		EventsChannel: getEnv("EVENTS_CHANNEL", "portal.events"),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Doctors Portal"),

		OTelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo:
		if c.DatabaseURI == "" {
			return errors.New("DB_URI environment variable not set")
		}
	case StoreMemory:
	default:
		return errors.New("STORE_DRIVER must be mongo or memory")
	}
	if c.JWTSecret == "" {
		return errors.New("ACCESS_TOKEN environment variable not set")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
