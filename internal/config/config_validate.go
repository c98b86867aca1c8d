// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/contentpilot/internal/models"
)

// minJWTSecretLength matches the HS256 key size.
const minJWTSecretLength = 32

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateCache,
		c.validateRateLimit,
		c.validateGeneration,
		c.validateTranslation,
		c.validateOrchestrator,
		c.validateStore,
		c.validateEvents,
		c.validateAuth,
		c.validateThrottle,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// ShouldWarnAboutCORS reports a wildcard origin outside development.
func (c *Config) ShouldWarnAboutCORS() bool {
	if strings.EqualFold(c.Server.Environment, "development") {
		return false
	}
	for _, o := range c.CORS.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch strings.ToLower(c.Server.Environment) {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return errors.New("HTTP read and write timeouts must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL is invalid: %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "pretty", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %v", c.Cache.TTL)
	}
	if c.Cache.StaleRetention < 0 {
		return fmt.Errorf("CACHE_STALE_RETENTION must not be negative, got %v", c.Cache.StaleRetention)
	}
	if c.Cache.Capacity < 1 {
		return fmt.Errorf("CACHE_CAPACITY must be at least 1, got %d", c.Cache.Capacity)
	}
	return nil
}

func (c *Config) validateRateLimit() error {
	if c.RateLimit.Limit < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.RateLimit.Limit)
	}
	if c.RateLimit.Window < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %v", c.RateLimit.Window)
	}
	return nil
}

func (c *Config) validateGeneration() error {
	g := c.Generation
	switch g.Provider {
	case "template":
	case "http":
		if err := validateURL(g.BaseURL, "GENERATION_BASE_URL", "http", "https"); err != nil {
			return err
		}
		if g.Model == "" {
			return errors.New("GENERATION_MODEL is required when GENERATION_PROVIDER=http")
		}
	default:
		return fmt.Errorf("GENERATION_PROVIDER must be template or http, got %q", g.Provider)
	}

	if g.MaxAttempts < 1 || g.MaxAttempts > 10 {
		return fmt.Errorf("GENERATION_MAX_ATTEMPTS must be between 1 and 10, got %d", g.MaxAttempts)
	}
	if g.Temperature < 0 || g.Temperature > 2 {
		return fmt.Errorf("GENERATION_TEMPERATURE must be between 0 and 2, got %v", g.Temperature)
	}
	if g.MaxTokens < 1 {
		return fmt.Errorf("GENERATION_MAX_TOKENS must be positive, got %d", g.MaxTokens)
	}
	if g.BackoffMultiplier < 1 {
		return fmt.Errorf("GENERATION_BACKOFF_FACTOR must be at least 1, got %v", g.BackoffMultiplier)
	}
	if g.InitialBackoff < 0 || g.MaxBackoff < g.InitialBackoff {
		return fmt.Errorf("generation backoff range is invalid: initial %v, max %v", g.InitialBackoff, g.MaxBackoff)
	}
	if g.AttemptTimeout <= 0 {
		return fmt.Errorf("GENERATION_ATTEMPT_TIMEOUT must be positive, got %v", g.AttemptTimeout)
	}
	if g.RequestsPerSecond < 0 {
		return fmt.Errorf("GENERATION_RPS must not be negative, got %v", g.RequestsPerSecond)
	}
	if !models.IsSupportedLanguage(g.Language) {
		return fmt.Errorf("GENERATION_LANGUAGE is not supported: %q", g.Language)
	}
	return nil
}

func (c *Config) validateTranslation() error {
	switch c.Translation.Provider {
	case "stub":
		return nil
	case "http":
		return validateURL(c.Translation.URL, "TRANSLATION_URL", "http", "https")
	default:
		return fmt.Errorf("TRANSLATION_PROVIDER must be stub or http, got %q", c.Translation.Provider)
	}
}

func (c *Config) validateOrchestrator() error {
	o := c.Orchestrator
	if o.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %v", o.RequestTimeout)
	}
	if o.FlightTimeout < o.RequestTimeout {
		return fmt.Errorf("FLIGHT_TIMEOUT (%v) must not be shorter than REQUEST_TIMEOUT (%v)", o.FlightTimeout, o.RequestTimeout)
	}
	// A generation that cannot finish inside the caller's deadline only ever
	// reaches later callers through the cache.
	if budget := c.Generation.RetryBudget(); budget > o.RequestTimeout {
		return fmt.Errorf("GENERATION_ATTEMPT_TIMEOUT (%v) over %d attempts needs %v, more than REQUEST_TIMEOUT (%v)",
			c.Generation.AttemptTimeout, c.Generation.MaxAttempts, budget, o.RequestTimeout)
	}
	if o.ListLimit < 1 {
		return fmt.Errorf("LIST_LIMIT must be at least 1, got %d", o.ListLimit)
	}
	return nil
}

func (c *Config) validateStore() error {
	s := c.Store
	if !s.InMemory && s.Path == "" {
		return errors.New("STORE_PATH is required unless STORE_IN_MEMORY=true")
	}
	if s.Retention <= 0 {
		return fmt.Errorf("STORE_RETENTION must be positive, got %v", s.Retention)
	}
	if s.GCDiscardRatio <= 0 || s.GCDiscardRatio >= 1 {
		return fmt.Errorf("store gc_discard_ratio must be between 0 and 1, got %v", s.GCDiscardRatio)
	}
	return nil
}

func (c *Config) validateEvents() error {
	e := c.Events
	switch e.Backend {
	case "none":
		return nil
	case "channel":
	case "nats":
		if e.Embedded {
			if e.EmbeddedPort < 1 || e.EmbeddedPort > 65535 {
				return fmt.Errorf("NATS_PORT must be between 1 and 65535, got %d", e.EmbeddedPort)
			}
			if e.StoreDir == "" {
				return errors.New("NATS_STORE_DIR is required when NATS_EMBEDDED=true")
			}
		} else if err := validateURL(e.NATSURL, "NATS_URL", "nats", "tls"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("EVENTS_BACKEND must be channel, nats or none, got %q", e.Backend)
	}

	if e.BufferSize < 1 {
		return fmt.Errorf("EVENTS_BUFFER_SIZE must be at least 1, got %d", e.BufferSize)
	}
	// JetStream stream names reject dots, spaces and wildcards.
	if e.Topic == "" || strings.ContainsAny(e.Topic, ". *>") {
		return fmt.Errorf("EVENTS_TOPIC must be a non-empty name without dots, spaces or wildcards, got %q", e.Topic)
	}
	return nil
}

func (c *Config) validateAuth() error {
	a := c.Auth
	switch a.Mode {
	case "jwt":
		if a.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_MODE=jwt")
		}
		if len(a.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
		}
	case "header":
	case "none":
		if c.IsProduction() {
			return errors.New("AUTH_MODE=none is not allowed in production")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be jwt, header or none, got %q", a.Mode)
	}

	if !models.IsValidRole(models.Role(a.DefaultRole)) {
		return fmt.Errorf("AUTH_DEFAULT_ROLE must be viewer, creator or admin, got %q", a.DefaultRole)
	}
	return nil
}

func (c *Config) validateThrottle() error {
	if !c.Throttle.Enabled {
		return nil
	}
	if c.Throttle.Requests < 1 || c.Throttle.Window <= 0 {
		return fmt.Errorf("IP throttle requires positive requests and window, got %d per %v", c.Throttle.Requests, c.Throttle.Window)
	}
	return nil
}
