// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/contentpilot/internal/metrics"
	"github.com/tomtom215/contentpilot/internal/middleware"
	"github.com/tomtom215/contentpilot/internal/models"
)

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins []string
	CORSMaxAge         int // seconds

	// Per-IP outer throttle, separate from the per-user generation quota.
	ThrottleEnabled  bool
	ThrottleRequests int
	ThrottleWindow   time.Duration
}

// DefaultChiMiddlewareConfig returns a locked-down default: no CORS origins
// and 300 requests per minute per IP.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSMaxAge:         300,
		ThrottleEnabled:    true,
		ThrottleRequests:   300,
		ThrottleWindow:     time.Minute,
	}
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates a new Chi middleware factory with the given configuration.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: config.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID", "X-User-ID", "X-User-Role"},
		ExposedHeaders: []string{
			middleware.HeaderRequestID, HeaderCache, HeaderDegraded,
			"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining",
		},
		AllowCredentials: false,
		MaxAge:           config.CORSMaxAge,
	})

	return &ChiMiddleware{
		config: config,
		cors:   corsHandler,
	}
}

// CORS returns the go-chi/cors handler.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// Throttle returns the per-IP go-chi/httprate limiter. RealIP must run first
// for the key to be the client rather than the proxy.
func (m *ChiMiddleware) Throttle() func(http.Handler) http.Handler {
	if !m.config.ThrottleEnabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		m.config.ThrottleRequests,
		m.config.ThrottleWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(throttled),
	)
}

// throttled answers a per-IP rejection in the standard envelope. httprate has
// already set Retry-After.
func throttled(w http.ResponseWriter, r *http.Request) {
	// Routing is not finished yet, so the pattern is the mount prefix.
	pattern := "unmatched"
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			pattern = p
		}
	}
	metrics.RecordThrottled(pattern)
	middleware.WriteError(w, r, http.StatusTooManyRequests, models.CodeRateLimitExceeded, "too many requests from this address", nil)
}
