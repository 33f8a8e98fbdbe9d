// Package config centralizes all application configuration into typed structs.
//
// Values are layered: NewDefaultConfig supplies defaults, an optional YAML file
// overrides them, and RIDESHARE_* environment variables override both
// (RIDESHARE_STORE__DRIVER=badger sets store.driver). See Load.
//
// Go Learning Note (time.Duration):
// Timeouts are time.Duration rather than bare integers, so "10s" in YAML and
// 10 * time.Second in code mean the same thing and units cannot be confused.
package config

import (
	"time"
)

// Config is the top-level configuration container.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Matching  MatchingConfig  `koanf:"matching"`
	Store     StoreConfig     `koanf:"store"`
	Auth      AuthConfig      `koanf:"auth"`
	Routing   RoutingConfig   `koanf:"routing"`
	Events    EventsConfig    `koanf:"events"`
	Logging   LoggingConfig   `koanf:"logging"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `koanf:"port" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// MatchingConfig controls how search results are paged.
type MatchingConfig struct {
	DefaultPageSize int `koanf:"default_page_size" validate:"gte=1"`
	MaxPageSize     int `koanf:"max_page_size" validate:"gtefield=DefaultPageSize"`
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Driver        string        `koanf:"driver" validate:"oneof=memory badger postgres couchdb"`
	BadgerPath    string        `koanf:"badger_path" validate:"required_if=Driver badger"`
	PostgresDSN   string        `koanf:"postgres_dsn" validate:"required_if=Driver postgres"`
	CouchDBURL    string        `koanf:"couchdb_url" validate:"required_if=Driver couchdb"`
	CouchDBPrefix string        `koanf:"couchdb_prefix"`
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"`
}

// AuthConfig configures bearer token verification.
type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret" validate:"required,min=16"`
	Issuer    string        `koanf:"issuer" validate:"required"`
	TokenTTL  time.Duration `koanf:"token_ttl" validate:"gt=0"`
}

// RoutingConfig points at the directions API used for distance and duration
// estimates. Disabled means the /routes endpoint answers 503.
type RoutingConfig struct {
	Enabled bool          `koanf:"enabled"`
	BaseURL string        `koanf:"base_url" validate:"omitempty,url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// EventsConfig selects where ride lifecycle events go.
type EventsConfig struct {
	Driver   string `koanf:"driver" validate:"oneof=log amqp"`
	AMQPURL  string `koanf:"amqp_url" validate:"required_if=Driver amqp"`
	Exchange string `koanf:"exchange" validate:"required"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// RateLimitConfig is a single token bucket shared by all API clients.
// RequestsPerSecond <= 0 disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst" validate:"gte=0"`
}

// NewDefaultConfig returns a Config populated with defaults that run the
// server with no external services: in-memory store, log-only events.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Matching: MatchingConfig{
			DefaultPageSize: 3,
			MaxPageSize:     50,
		},
		Store: StoreConfig{
			Driver:        "memory",
			BadgerPath:    "./data/rides",
			CouchDBPrefix: "rideshare_",
			Timeout:       5 * time.Second,
		},
		Auth: AuthConfig{
			JWTSecret: "change-me-in-production-please",
			Issuer:    "rideshare",
			TokenTTL:  24 * time.Hour,
		},
		Routing: RoutingConfig{
			Enabled: false,
			Timeout: 5 * time.Second,
		},
		Events: EventsConfig{
			Driver:   "log",
			Exchange: "rideshare.rides",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
		},
	}
}
