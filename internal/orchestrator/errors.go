// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package orchestrator

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/contentpilot/internal/validation"
)

// Sentinel errors. Check with errors.Is.
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrGenerationUnavailable means generation definitely failed. Handle
	// masks it with a degraded cached result when one exists.
	ErrGenerationUnavailable = errors.New("content generation unavailable")

	// ErrTimeout means the caller's deadline passed. The generation may still
	// complete and populate the cache.
	ErrTimeout = errors.New("request timed out")

	// ErrInternal is a defect in scoring or suggestion, never expected from
	// valid input.
	ErrInternal = errors.New("internal error")

	ErrNotFound = errors.New("content not found")
)

// ValidationError rejects a malformed request before any side effect.
type ValidationError struct {
	Err *validation.RequestValidationError
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// RateLimitError carries the limiter's retry-after for a denied request.
type RateLimitError struct {
	RetryAfter time.Duration
	Limit      int
	ResetAt    time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit of %d exceeded, retry after %s", e.Limit, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimitExceeded
}
