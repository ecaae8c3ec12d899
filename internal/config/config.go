// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used by both binaries.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Cache backends for the category list.
const (
	CacheBackendValkey = "valkey"
	CacheBackendMemory = "memory"
)

// DefaultAPIURL is used by folioctl when FOLIO_API_URL is unset.
const DefaultAPIURL = "http://localhost:8080/api"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Category cache
	CacheTTL     time.Duration
	CacheBackend string // "valkey" or "memory"

	// WriteRateLimit is the number of category mutations a client may make
	// per minute.
	WriteRateLimit int

	// APIURL is the API base URL used by folioctl.
	APIURL string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error for malformed values
// and for unsafe defaults in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "folio"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "folio"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		CacheBackend: envOrDefault("CATEGORY_CACHE_BACKEND", CacheBackendValkey),
		APIURL:       APIURL(),
	}

	ttl, err := time.ParseDuration(envOrDefault("CATEGORY_CACHE_TTL", "5m"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("CATEGORY_CACHE_TTL must be a positive duration, got %q", os.Getenv("CATEGORY_CACHE_TTL"))
	}
	cfg.CacheTTL = ttl

	switch cfg.CacheBackend {
	case CacheBackendValkey, CacheBackendMemory:
	default:
		return nil, fmt.Errorf("CATEGORY_CACHE_BACKEND must be %q or %q, got %q", CacheBackendValkey, CacheBackendMemory, cfg.CacheBackend)
	}

	limit, err := strconv.Atoi(envOrDefault("WRITE_RATE_LIMIT", "30"))
	if err != nil || limit <= 0 {
		return nil, fmt.Errorf("WRITE_RATE_LIMIT must be a positive integer, got %q", os.Getenv("WRITE_RATE_LIMIT"))
	}
	cfg.WriteRateLimit = limit

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// APIURL returns FOLIO_API_URL or DefaultAPIURL. Unlike Load it needs no
// server settings, so clients can call it on their own.
func APIURL() string {
	return envOrDefault("FOLIO_API_URL", DefaultAPIURL)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
