// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Logging      LoggingConfig      `koanf:"logging"`
	Cache        CacheConfig        `koanf:"cache"`
	RateLimit    RateLimitConfig    `koanf:"ratelimit"`
	Generation   GenerationConfig   `koanf:"generation"`
	Translation  TranslationConfig  `koanf:"translation"`
	Orchestrator OrchestratorConfig `koanf:"orchestrator"`
	Store        StoreConfig        `koanf:"store"`
	Events       EventsConfig       `koanf:"events"`
	Auth         AuthConfig         `koanf:"auth"`
	Authz        AuthzConfig        `koanf:"authz"`
	Throttle     ThrottleConfig     `koanf:"throttle"`
	CORS         CORSConfig         `koanf:"cors"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller adds file:line to every event.
	Caller bool `koanf:"caller"`
}

// CacheConfig holds response cache settings
type CacheConfig struct {
	TTL             time.Duration `koanf:"ttl"`
	StaleRetention  time.Duration `koanf:"stale_retention"`
	Capacity        int           `koanf:"capacity"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// RateLimitConfig holds the per-user sliding window quota
type RateLimitConfig struct {
	Limit           int           `koanf:"limit"`
	Window          time.Duration `koanf:"window"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// GenerationConfig holds text generation provider and retry settings
type GenerationConfig struct {
	// Provider is "template" (offline) or "http" (OpenAI-compatible).
	Provider string        `koanf:"provider"`
	BaseURL  string        `koanf:"base_url"`
	APIKey   string        `koanf:"api_key"`
	Model    string        `koanf:"model"`
	Timeout  time.Duration `koanf:"timeout"`

	Temperature float64 `koanf:"temperature"`
	MaxTokens   int     `koanf:"max_tokens"`

	MaxAttempts       int           `koanf:"max_attempts"`
	InitialBackoff    time.Duration `koanf:"initial_backoff"`
	BackoffMultiplier float64       `koanf:"backoff_multiplier"`
	MaxBackoff        time.Duration `koanf:"max_backoff"`
	AttemptTimeout    time.Duration `koanf:"attempt_timeout"`

	// RequestsPerSecond throttles outbound calls process-wide; 0 disables.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	BreakerMaxRequests      uint32        `koanf:"breaker_max_requests"`
	BreakerInterval         time.Duration `koanf:"breaker_interval"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`

	// Language is what the provider writes in; other targets are translated.
	Language string `koanf:"language"`
}

// RetryBudget is the worst case of one generation: every attempt runs to
// AttemptTimeout and every backoff is slept in full.
func (g *GenerationConfig) RetryBudget() time.Duration {
	total := time.Duration(g.MaxAttempts) * g.AttemptTimeout
	backoff := float64(g.InitialBackoff)
	for n := 2; n <= g.MaxAttempts; n++ {
		total += min(time.Duration(backoff), g.MaxBackoff)
		backoff *= g.BackoffMultiplier
	}
	return total
}

// TranslationConfig holds translation service settings
type TranslationConfig struct {
	// Provider is "stub" (identity) or "http".
	Provider string        `koanf:"provider"`
	URL      string        `koanf:"url"`
	APIKey   string        `koanf:"api_key"`
	Timeout  time.Duration `koanf:"timeout"`
}

// OrchestratorConfig holds request pipeline settings
type OrchestratorConfig struct {
	RequestTimeout time.Duration `koanf:"request_timeout"`
	FlightTimeout  time.Duration `koanf:"flight_timeout"`
	ListLimit      int           `koanf:"list_limit"`
}

// StoreConfig holds the badger content store settings
type StoreConfig struct {
	Path           string        `koanf:"path"`
	InMemory       bool          `koanf:"in_memory"`
	Retention      time.Duration `koanf:"retention"`
	GCInterval     time.Duration `koanf:"gc_interval"`
	GCDiscardRatio float64       `koanf:"gc_discard_ratio"`
}

// EventsConfig holds analytics event sink settings
type EventsConfig struct {
	// Backend is "channel" (in-process), "nats" (JetStream) or "none".
	Backend        string        `koanf:"backend"`
	Topic          string        `koanf:"topic"`
	BufferSize     int           `koanf:"buffer_size"`
	PublishTimeout time.Duration `koanf:"publish_timeout"`

	NATSURL string `koanf:"nats_url"`

	// Embedded starts an in-process nats-server; NATSURL is then ignored.
	Embedded          bool   `koanf:"embedded"`
	EmbeddedHost      string `koanf:"embedded_host"`
	EmbeddedPort      int    `koanf:"embedded_port"`
	StoreDir          string `koanf:"store_dir"`
	JetStreamMaxMem   int64  `koanf:"jetstream_max_memory"`
	JetStreamMaxStore int64  `koanf:"jetstream_max_store"`
}

// AuthConfig holds identity resolution settings
type AuthConfig struct {
	// Mode is none, header or jwt.
	Mode      string        `koanf:"mode"`
	JWTSecret string        `koanf:"jwt_secret"`
	Issuer    string        `koanf:"issuer"`
	TokenTTL  time.Duration `koanf:"token_ttl"`

	// DefaultRole applies when header mode receives no role and in none mode.
	DefaultRole string `koanf:"default_role"`
	UserHeader  string `koanf:"user_header"`
	RoleHeader  string `koanf:"role_header"`
}

// AuthzConfig holds casbin policy settings
type AuthzConfig struct {
	PolicyPath     string        `koanf:"policy_path"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

// ThrottleConfig holds the per-IP outer throttle
type ThrottleConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
	MaxAge         int      `koanf:"max_age"`
}

// Address returns host:port for the HTTP listener.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
