// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/contentpilot/config.yaml",
	"/etc/contentpilot/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Cache: CacheConfig{
			TTL:             time.Hour,
			StaleRetention:  24 * time.Hour,
			Capacity:        10000,
			CleanupInterval: 5 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Limit:           100,
			Window:          time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		Generation: GenerationConfig{
			Provider:                "template",
			BaseURL:                 "https://api.openai.com/v1",
			Model:                   "gpt-4o-mini",
			Timeout:                 10 * time.Second,
			Temperature:             0.7,
			MaxTokens:               600,
			MaxAttempts:             3,
			InitialBackoff:          100 * time.Millisecond,
			BackoffMultiplier:       2,
			MaxBackoff:              5 * time.Second,
			AttemptTimeout:          2500 * time.Millisecond,
			RequestsPerSecond:       0, // Unlimited
			Burst:                   1,
			BreakerMaxRequests:      1,
			BreakerInterval:         time.Minute,
			BreakerTimeout:          30 * time.Second,
			BreakerFailureThreshold: 5,
			Language:                "en",
		},
		Translation: TranslationConfig{
			Provider: "stub",
			Timeout:  5 * time.Second,
		},
		Orchestrator: OrchestratorConfig{
			RequestTimeout: 8 * time.Second,
			FlightTimeout:  20 * time.Second,
			ListLimit:      50,
		},
		Store: StoreConfig{
			Path:           "/data/content",
			InMemory:       false,
			Retention:      30 * 24 * time.Hour,
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		Events: EventsConfig{
			Backend:           "channel",
			Topic:             "content_events",
			BufferSize:        1024,
			PublishTimeout:    5 * time.Second,
			NATSURL:           "nats://127.0.0.1:4222",
			Embedded:          false,
			EmbeddedHost:      "127.0.0.1",
			EmbeddedPort:      4222,
			StoreDir:          "/data/nats",
			JetStreamMaxMem:   64 << 20, // 64MB
			JetStreamMaxStore: 1 << 30,  // 1GB
		},
		Auth: AuthConfig{
			Mode:        "jwt",
			Issuer:      "contentpilot",
			TokenTTL:    24 * time.Hour,
			DefaultRole: "creator",
			UserHeader:  "X-User-ID",
			RoleHeader:  "X-User-Role",
		},
		Authz: AuthzConfig{
			ReloadInterval: 30 * time.Second,
		},
		Throttle: ThrottleConfig{
			Enabled:  true,
			Requests: 300,
			Window:   time.Minute,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			MaxAge:         300,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults.
func Load() (*Config, error) {
	return loadFrom(findConfigFile())
}

// loadFrom is Load with an explicit config file path; empty skips the file layer.
func loadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"cors.allowed_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Cache mappings
	"cache_ttl":              "cache.ttl",
	"cache_stale_retention":  "cache.stale_retention",
	"cache_capacity":         "cache.capacity",
	"cache_cleanup_interval": "cache.cleanup_interval",

	// Rate limit mappings
	"rate_limit_requests":         "ratelimit.limit",
	"rate_limit_window":           "ratelimit.window",
	"rate_limit_cleanup_interval": "ratelimit.cleanup_interval",

	// Generation mappings
	"generation_provider":          "generation.provider",
	"generation_base_url":          "generation.base_url",
	"generation_api_key":           "generation.api_key",
	"generation_model":             "generation.model",
	"generation_timeout":           "generation.timeout",
	"generation_temperature":       "generation.temperature",
	"generation_max_tokens":        "generation.max_tokens",
	"generation_max_attempts":      "generation.max_attempts",
	"generation_initial_backoff":   "generation.initial_backoff",
	"generation_backoff_factor":    "generation.backoff_multiplier",
	"generation_max_backoff":       "generation.max_backoff",
	"generation_attempt_timeout":   "generation.attempt_timeout",
	"generation_rps":               "generation.requests_per_second",
	"generation_burst":             "generation.burst",
	"generation_breaker_threshold": "generation.breaker_failure_threshold",
	"generation_breaker_timeout":   "generation.breaker_timeout",
	"generation_language":          "generation.language",

	// Translation mappings
	"translation_provider": "translation.provider",
	"translation_url":      "translation.url",
	"translation_api_key":  "translation.api_key",
	"translation_timeout":  "translation.timeout",

	// Orchestrator mappings
	"request_timeout": "orchestrator.request_timeout",
	"flight_timeout":  "orchestrator.flight_timeout",
	"list_limit":      "orchestrator.list_limit",

	// Store mappings
	"store_path":        "store.path",
	"store_in_memory":   "store.in_memory",
	"store_retention":   "store.retention",
	"store_gc_interval": "store.gc_interval",

	// Events mappings
	"events_backend":         "events.backend",
	"events_topic":           "events.topic",
	"events_buffer_size":     "events.buffer_size",
	"events_publish_timeout": "events.publish_timeout",
	"nats_url":               "events.nats_url",
	"nats_embedded":          "events.embedded",
	"nats_host":              "events.embedded_host",
	"nats_port":              "events.embedded_port",
	"nats_store_dir":         "events.store_dir",
	"nats_max_memory":        "events.jetstream_max_memory",
	"nats_max_store":         "events.jetstream_max_store",

	// Auth mappings
	"auth_mode":         "auth.mode",
	"jwt_secret":        "auth.jwt_secret",
	"jwt_issuer":        "auth.issuer",
	"jwt_token_ttl":     "auth.token_ttl",
	"auth_default_role": "auth.default_role",
	"auth_user_header":  "auth.user_header",
	"auth_role_header":  "auth.role_header",

	// Authz mappings
	"casbin_policy_path":     "authz.policy_path",
	"casbin_reload_interval": "authz.reload_interval",

	// Throttle mappings
	"ip_throttle_enabled":  "throttle.enabled",
	"ip_throttle_requests": "throttle.requests",
	"ip_throttle_window":   "throttle.window",

	// CORS mappings
	"cors_origins": "cors.allowed_origins",
	"cors_max_age": "cors.max_age",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - RATE_LIMIT_REQUESTS -> ratelimit.limit
//   - NATS_EMBEDDED -> events.embedded
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
