// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package models

import "time"

// Error codes returned in ErrorResponse.Code.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeRateLimitExceeded     = "RATE_LIMIT_EXCEEDED"
	CodeGenerationUnavailable = "GENERATION_UNAVAILABLE"
	CodeTimeout               = "TIMEOUT"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeNotFound              = "NOT_FOUND"
	CodeBadRequest            = "BAD_REQUEST"
	CodeInternal              = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx API response.
//
//	{
//	  "code": "RATE_LIMIT_EXCEEDED",
//	  "message": "rate limit exceeded, retry in 1520s",
//	  "requestId": "6f1c...",
//	  "timestamp": "2026-10-14T12:00:00Z"
//	}
type ErrorResponse struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId"`
	Timestamp time.Time   `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
}

// RateLimitStatus reports a caller's remaining quota.
type RateLimitStatus struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	WindowSec int       `json:"windowSeconds"`
	ResetAt   time.Time `json:"resetAt"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    float64           `json:"uptimeSeconds"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
