// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package main

import (
	"fmt"

	"github.com/tomtom215/contentpilot/internal/config"
	"github.com/tomtom215/contentpilot/internal/generation"
	"github.com/tomtom215/contentpilot/internal/logging"
)

// newProvider builds the text-generation provider selected by GENERATION_PROVIDER.
func newProvider(cfg *config.GenerationConfig) (generation.Provider, error) {
	switch cfg.Provider {
	case "template":
		logging.Warn().Msg("Using the offline template provider; set GENERATION_PROVIDER=http for real generation")
		return generation.NewTemplateProvider(), nil
	case "http":
		logging.Info().
			Str("base_url", cfg.BaseURL).
			Str("model", cfg.Model).
			Msg("Using HTTP generation provider")
		return generation.NewHTTPProvider(generation.HTTPProviderConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}

// newTranslator builds the translator selected by TRANSLATION_PROVIDER.
func newTranslator(cfg *config.TranslationConfig) (generation.Translator, error) {
	switch cfg.Provider {
	case "stub":
		return generation.StubTranslator{}, nil
	case "http":
		logging.Info().Str("url", cfg.URL).Msg("Using HTTP translation service")
		return generation.NewHTTPTranslator(generation.HTTPTranslatorConfig{
			URL:     cfg.URL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown translation provider %q", cfg.Provider)
	}
}

// newGenerationClient wraps the provider in the retry policy, circuit breaker
// and outbound throttle.
func newGenerationClient(cfg *config.GenerationConfig) (*generation.Client, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	client := generation.NewClient(provider, generation.Config{
		MaxAttempts:       cfg.MaxAttempts,
		InitialBackoff:    cfg.InitialBackoff,
		Multiplier:        cfg.BackoffMultiplier,
		MaxBackoff:        cfg.MaxBackoff,
		AttemptTimeout:    cfg.AttemptTimeout,
		Temperature:       cfg.Temperature,
		MaxTokens:         cfg.MaxTokens,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Breaker: generation.BreakerConfig{
			Name:             "generation-" + provider.Name(),
			MaxRequests:      cfg.BreakerMaxRequests,
			Interval:         cfg.BreakerInterval,
			Timeout:          cfg.BreakerTimeout,
			FailureThreshold: cfg.BreakerFailureThreshold,
		},
	})

	logging.Info().
		Str("provider", provider.Name()).
		Int("max_attempts", cfg.MaxAttempts).
		Dur("initial_backoff", cfg.InitialBackoff).
		Dur("max_backoff", cfg.MaxBackoff).
		Dur("attempt_timeout", cfg.AttemptTimeout).
		Float64("requests_per_second", cfg.RequestsPerSecond).
		Msg("Generation client initialized")
	return client, nil
}
