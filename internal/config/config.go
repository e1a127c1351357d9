// Package config loads the service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all configuration for the onboarding service.
type Config struct {
	Port               string        `mapstructure:"PORT"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int           `mapstructure:"REDIS_DB"`
	StorageBackend     string        `mapstructure:"STORAGE_BACKEND"`
	JWTSecret          string        `mapstructure:"JWT_SECRET"`
	AuthDisabled       bool          `mapstructure:"AUTH_DISABLED"`
	ReportCacheTTL     time.Duration `mapstructure:"REPORT_CACHE_TTL"`
	ReportWarmSchedule string        `mapstructure:"REPORT_WARM_SCHEDULE"`
	HighValueThreshold float64       `mapstructure:"HIGH_VALUE_THRESHOLD"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	LogFormat          string        `mapstructure:"LOG_FORMAT"`
	LogOutput          string        `mapstructure:"LOG_OUTPUT"`
	LogFile            string        `mapstructure:"LOG_FILE"`
}

var keys = []string{
	"PORT", "DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"STORAGE_BACKEND", "JWT_SECRET", "AUTH_DISABLED", "REPORT_CACHE_TTL",
	"REPORT_WARM_SCHEDULE", "HIGH_VALUE_THRESHOLD",
	"LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT", "LOG_FILE",
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetDefault("PORT", "8085")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STORAGE_BACKEND", StoragePostgres)
	v.SetDefault("AUTH_DISABLED", false)
	v.SetDefault("REPORT_CACHE_TTL", "5m")
	v.SetDefault("REPORT_WARM_SCHEDULE", "*/10 * * * *") // every ten minutes
	v.SetDefault("HIGH_VALUE_THRESHOLD", 500000)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("LOG_FILE", "logs/onboarding.log")
	v.AutomaticEnv()

	// Bind environment variables explicitly so keys without defaults appear in Unmarshal
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.StorageBackend {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}
	if !c.AuthDisabled && c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required unless AUTH_DISABLED is set"))
	}
	if c.HighValueThreshold <= 0 {
		errs = append(errs, errors.New("HIGH_VALUE_THRESHOLD must be positive"))
	}
	if c.ReportCacheTTL < 0 {
		errs = append(errs, errors.New("REPORT_CACHE_TTL must not be negative"))
	}
	if c.ReportWarmSchedule != "" {
		if _, err := cron.ParseStandard(c.ReportWarmSchedule); err != nil {
			errs = append(errs, fmt.Errorf("invalid REPORT_WARM_SCHEDULE: %w", err))
		}
	}
	return errors.Join(errs...)
}
