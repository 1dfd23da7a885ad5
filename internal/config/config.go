// Package config provides environment-driven configuration for fundforge.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
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
	DatabaseURL        Secret
	Port               string
	ListenHost         string
	CORSOrigins        []string
	LogLevel           string
	SessionSigningKey  Secret
	AuditRetentionDays int
	AuditQueueSize     int
	EnablePlayground   bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       Secret(envOrDefault("DATABASE_URL", "")),
		Port:              envOrDefault("PORT", "3030"),
		ListenHost:        envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		SessionSigningKey: Secret(envOrDefault("SESSION_SIGNING_KEY", "")),
		EnablePlayground:  envOrDefault("ENABLE_PLAYGROUND", "false") == "true",
	}

	retention, err := strconv.Atoi(envOrDefault("AUDIT_RETENTION_DAYS", "365"))
	if err != nil || retention < 1 {
		return nil, fmt.Errorf("AUDIT_RETENTION_DAYS must be a positive integer")
	}
	cfg.AuditRetentionDays = retention

	queueSize, err := strconv.Atoi(envOrDefault("AUDIT_QUEUE_SIZE", "1000"))
	if err != nil || queueSize < 1 || queueSize > 100000 {
		return nil, fmt.Errorf("AUDIT_QUEUE_SIZE must be an integer between 1 and 100000")
	}
	cfg.AuditQueueSize = queueSize

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3002")
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
