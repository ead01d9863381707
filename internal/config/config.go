// Package config provides environment-driven configuration for chronicle.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chroniclehq/chronicle/internal/models"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseURL   Secret
	Port          string
	ListenHost    string
	CORSOrigins   []string
	LogLevel      string
	RetentionDays int
	EncryptionKey Secret
}

// Load reads configuration from environment variables. RETENTION_DAYS
// has no default: an operator who never decided on a retention window
// must not silently lose history.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:   Secret(envOrDefault("DATABASE_URL", "")),
		Port:          envOrDefault("PORT", "3030"),
		ListenHost:    envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		EncryptionKey: Secret(envOrDefault("ENCRYPTION_KEY", "")),
	}

	retention := os.Getenv("RETENTION_DAYS")
	if retention == "" {
		return nil, &models.ConfigurationError{
			Field:  "RETENTION_DAYS",
			Reason: "is required and has no default",
		}
	}

	days, err := strconv.Atoi(retention)
	if err != nil || days < 1 {
		return nil, &models.ConfigurationError{
			Field:  "RETENTION_DAYS",
			Reason: "must be a positive integer number of days",
		}
	}
	cfg.RetentionDays = days

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:1337")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
