package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_DRIVER", "DB_NAME", "TOKEN_TTL", "PAYMENT_CURRENCY", "CORS_ALLOWED_ORIGINS", "OTEL_EXPORTER_OTLP_ENDPOINT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, "doctorsPortal", cfg.DatabaseName)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "usd", cfg.PaymentCurrency)
	assert.Nil(t, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.OTelEndpoint)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_DRIVER", " Memory ")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("STRIPE_DRY_RUN", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4317")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.StripeDryRun)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "otel-collector:4317", cfg.OTelEndpoint)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"mongo without uri", Config{StoreDriver: StoreMongo, JWTSecret: "s", TokenTTL: time.Hour}, "DB_URI"},
		{"missing secret", Config{StoreDriver: StoreMemory, TokenTTL: time.Hour}, "ACCESS_TOKEN"},
		{"unknown driver", Config{StoreDriver: "postgres", JWTSecret: "s", TokenTTL: time.Hour}, "STORE_DRIVER"},
		{"zero ttl", Config{StoreDriver: StoreMemory, JWTSecret: "s"}, "TOKEN_TTL"},
		{"memory ok", Config{StoreDriver: StoreMemory, JWTSecret: "s", TokenTTL: time.Hour}, ""},
		{"mongo ok", Config{StoreDriver: StoreMongo, DatabaseURI: "mongodb://localhost", JWTSecret: "s", TokenTTL: time.Hour}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORTAL_DOTENV_PROBE=loaded\n"), 0o600))
	t.Setenv("PORTAL_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("PORTAL_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("PORTAL_DOTENV_PROBE"))
}
