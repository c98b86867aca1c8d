// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

// Package generation calls an external text-generation capability with bounded
// retries, exponential backoff, a circuit breaker, and an outbound throttle.
//
// Retry policy: up to MaxAttempts attempts; before attempt n (n >= 2) the client
// sleeps min(InitialBackoff * Multiplier^(n-2), MaxBackoff). Only transient
// failures (unavailable, throttled, timeout) are retried. Each attempt has its
// own AttemptTimeout, and the caller's context bounds the whole sequence.
package generation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/contentpilot/internal/logging"
	"github.com/tomtom215/contentpilot/internal/metrics"
	"github.com/tomtom215/contentpilot/internal/models"
)

// Provider is an external text-generation capability.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// BreakerConfig configures the circuit breaker around the provider.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// Config controls the client.
type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	Multiplier     float64
	MaxBackoff     time.Duration
	AttemptTimeout time.Duration

	Temperature float64
	MaxTokens   int

	// RequestsPerSecond throttles provider calls process-wide; 0 disables it.
	RequestsPerSecond float64
	Burst             int

	Breaker BreakerConfig
}

// DefaultConfig returns the production retry policy.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		Multiplier:     2,
		MaxBackoff:     5000 * time.Millisecond,
		AttemptTimeout: 2500 * time.Millisecond,
		Temperature:    0.7,
		MaxTokens:      600,
		Breaker: BreakerConfig{
			Name:             "generation",
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
	}
}

// Result is a successful generation.
type Result struct {
	Text     string
	Attempts int
	Provider string
	Duration time.Duration
}

// Client is safe for concurrent use.
type Client struct {
	provider Provider
	cfg      Config
	breaker  *gobreaker.CircuitBreaker[string]
	limiter  *rate.Limiter
	sleep    func(ctx context.Context, d time.Duration) error
	logger   zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithSleep replaces the backoff sleep, for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

// NewClient creates a Client around provider. Zero config fields fall back to DefaultConfig.
func NewClient(provider Provider, cfg Config, opts ...Option) *Client {
	cfg = withDefaults(cfg)

	c := &Client{
		provider: provider,
		cfg:      cfg,
		sleep:    sleepContext,
		logger:   logging.WithComponent("generation"),
	}
	c.breaker = newBreaker(cfg.Breaker)

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(limit, burst)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = def.Multiplier
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = def.AttemptTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker.Name = def.Breaker.Name
	}
	if cfg.Breaker.FailureThreshold == 0 {
		cfg.Breaker.FailureThreshold = def.Breaker.FailureThreshold
	}
	if cfg.Breaker.MaxRequests == 0 {
		cfg.Breaker.MaxRequests = def.Breaker.MaxRequests
	}
	if cfg.Breaker.Timeout <= 0 {
		cfg.Breaker.Timeout = def.Breaker.Timeout
	}
	return cfg
}

func newBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker[string] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// A rejected prompt says nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil || !IsTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	}
	return gobreaker.NewCircuitBreaker[string](settings)
}

// ProviderName returns the name of the wrapped provider.
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// BreakerState returns the breaker state as a string for health reporting.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// Backoff returns the delay before the given attempt (attempt >= 2).
func (c *Client) Backoff(attempt int) time.Duration {
	return Backoff(c.cfg, attempt)
}

// Backoff returns min(InitialBackoff * Multiplier^(attempt-2), MaxBackoff)
// for attempt >= 2, and 0 for the first attempt.
func Backoff(cfg Config, attempt int) time.Duration {
	if attempt < 2 {
		return 0
	}
	d := float64(cfg.InitialBackoff) * math.Pow(cfg.Multiplier, float64(attempt-2))
	if d >= float64(cfg.MaxBackoff) {
		return cfg.MaxBackoff
	}
	return time.Duration(d)
}

// Generate builds a prompt for req and calls the provider under the retry policy.
func (c *Client) Generate(ctx context.Context, req models.ContentRequest, opts ...PromptOption) (Result, error) {
	prompt := BuildPrompt(req, c.cfg.Temperature, c.cfg.MaxTokens, opts...)
	return c.GeneratePrompt(ctx, prompt)
}

// GeneratePrompt calls the provider with a prepared prompt under the retry policy.
func (c *Client) GeneratePrompt(ctx context.Context, prompt Prompt) (Result, error) {
	start := time.Now()
	name := c.provider.Name()
	log := logging.Ctx(ctx).With().Str("component", "generation").Str("provider", name).Logger()

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := c.Backoff(attempt)
			log.Debug().Int("attempt", attempt).Int64("delay_ms", delay.Milliseconds()).Msg("Backing off before retry")
			if err := c.sleep(ctx, delay); err != nil {
				metrics.RecordGeneration(name, "timeout", time.Since(start), attempt-1)
				return Result{}, fmt.Errorf("generation backoff: %w", err)
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			metrics.RecordGeneration(name, "timeout", time.Since(start), attempt-1)
			return Result{}, fmt.Errorf("generation outbound throttle: %w", err)
		}

		text, err := c.attempt(ctx, prompt)
		if err == nil {
			metrics.RecordGenerationAttempt(name, "success")
			metrics.RecordGeneration(name, "success", time.Since(start), attempt)
			return Result{Text: text, Attempts: attempt, Provider: name, Duration: time.Since(start)}, nil
		}
		lastErr = err

		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.RecordGenerationAttempt(name, "circuit_open")
			metrics.RecordGeneration(name, "circuit_open", time.Since(start), attempt)
			return Result{}, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		case ctx.Err() != nil:
			metrics.RecordGenerationAttempt(name, "timeout")
			metrics.RecordGeneration(name, "timeout", time.Since(start), attempt)
			return Result{}, fmt.Errorf("generation attempt %d: %w", attempt, ctx.Err())
		case !IsTransient(err):
			metrics.RecordGenerationAttempt(name, "rejected")
			metrics.RecordGeneration(name, "rejected", time.Since(start), attempt)
			log.Warn().Err(err).Int("attempt", attempt).Msg("Provider rejected prompt")
			return Result{}, fmt.Errorf("%w: %w", ErrRejected, err)
		}

		metrics.RecordGenerationAttempt(name, "transient_error")
		log.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", c.cfg.MaxAttempts).Msg("Generation attempt failed")
	}

	metrics.RecordGeneration(name, "exhausted", time.Since(start), c.cfg.MaxAttempts)
	return Result{}, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, c.cfg.MaxAttempts, lastErr)
}

// attempt runs one provider call under its own timeout and the breaker.
func (c *Client) attempt(ctx context.Context, prompt Prompt) (string, error) {
	return c.breaker.Execute(func() (string, error) {
		actx, cancel := context.WithTimeout(ctx, c.cfg.AttemptTimeout)
		defer cancel()

		text, err := c.provider.Generate(actx, prompt)
		if err != nil {
			if actx.Err() != nil && ctx.Err() == nil && !IsTransient(err) {
				return "", &ProviderError{Provider: c.provider.Name(), Kind: KindTimeout, Message: "attempt timed out", Err: err}
			}
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", &ProviderError{Provider: c.provider.Name(), Kind: KindUnavailable, Message: "empty output"}
		}
		return strings.TrimSpace(text), nil
	})
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
