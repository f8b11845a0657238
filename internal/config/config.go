// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Signing secret for session tokens issued by the identity provider
	JWTSecret string `env:"JWT_SECRET,required"`

	// Session token lifetime
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// Shared secret gating the admin endpoints
	AdminSecret string `env:"ADMIN_SECRET,required"`

	// Quota enforcement
	FreeQuotaCeiling int `env:"FREE_QUOTA_CEILING" envDefault:"15"`

	// Wall-clock budget for a single scan subprocess
	ScanTimeout time.Duration `env:"SCAN_TIMEOUT" envDefault:"300s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts. WriteTimeout must cover the scan budget.
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"330s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// IP rate limiting on the public auth endpoints
	RateLimitAuthEnabled bool `env:"RATE_LIMIT_AUTH_ENABLED" envDefault:"true"`
	RateLimitAuthRPS     int  `env:"RATE_LIMIT_AUTH_RPS" envDefault:"5"`
	RateLimitAuthBurst   int  `env:"RATE_LIMIT_AUTH_BURST" envDefault:"10"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.FreeQuotaCeiling < 1 {
		return nil, fmt.Errorf("FREE_QUOTA_CEILING must be positive, got %d", cfg.FreeQuotaCeiling)
	}
	if cfg.ScanTimeout <= 0 {
		return nil, fmt.Errorf("SCAN_TIMEOUT must be positive, got %s", cfg.ScanTimeout)
	}
	return cfg, nil
}
