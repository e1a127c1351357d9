package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", StorageMemory)
	t.Setenv("AUTH_DISABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8085", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 5*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, "*/10 * * * *", cfg.ReportWarmSchedule)
	assert.Equal(t, 500000.0, cfg.HighValueThreshold)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.AuthDisabled)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/onboarding?sslmode=disable")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REPORT_CACHE_TTL", "90s")
	t.Setenv("HIGH_VALUE_THRESHOLD", "250000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.StorageBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 90*time.Second, cfg.ReportCacheTTL)
	assert.Equal(t, 250000.0, cfg.HighValueThreshold)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			StorageBackend:     StoragePostgres,
			DatabaseURL:        "postgres://localhost/onboarding",
			JWTSecret:          "s3cret",
			HighValueThreshold: 500000,
			ReportWarmSchedule: "*/10 * * * *",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "memory backend needs no database", mutate: func(c *Config) { c.StorageBackend = StorageMemory; c.DatabaseURL = "" }},
		{name: "postgres without url", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL"},
		{name: "unknown backend", mutate: func(c *Config) { c.StorageBackend = "sqlite" }, wantErr: "unknown STORAGE_BACKEND"},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET"},
		{name: "auth disabled without secret", mutate: func(c *Config) { c.JWTSecret = ""; c.AuthDisabled = true }},
		{name: "non-positive threshold", mutate: func(c *Config) { c.HighValueThreshold = 0 }, wantErr: "HIGH_VALUE_THRESHOLD"},
		{name: "bad schedule", mutate: func(c *Config) { c.ReportWarmSchedule = "every minute" }, wantErr: "REPORT_WARM_SCHEDULE"},
		{name: "warming disabled", mutate: func(c *Config) { c.ReportWarmSchedule = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
