// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/contentpilot/internal/logging"
	"github.com/tomtom215/contentpilot/internal/middleware"
	"github.com/tomtom215/contentpilot/internal/models"
	"github.com/tomtom215/contentpilot/internal/orchestrator"
)

// respondError writes the error envelope for an orchestrator error.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *orchestrator.ValidationError
	var rlErr *orchestrator.RateLimitError

	switch {
	case errors.As(err, &verr):
		middleware.WriteError(w, r, http.StatusBadRequest, models.CodeValidation, "request validation failed", verr.Err.Details())

	case errors.As(err, &rlErr):
		retry := retryAfterSeconds(rlErr.RetryAfter)
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rlErr.Limit))
		w.Header().Set("X-RateLimit-Remaining", "0")
		middleware.WriteError(w, r, http.StatusTooManyRequests, models.CodeRateLimitExceeded, "rate limit exceeded", map[string]interface{}{
			"retryAfterSeconds": retry,
			"limit":             rlErr.Limit,
			"resetAt":           rlErr.ResetAt.UTC(),
		})

	case errors.Is(err, orchestrator.ErrNotFound):
		middleware.WriteError(w, r, http.StatusNotFound, models.CodeNotFound, "content not found", nil)

	case errors.Is(err, orchestrator.ErrTimeout):
		middleware.WriteError(w, r, http.StatusGatewayTimeout, models.CodeTimeout, "request timed out", nil)

	case errors.Is(err, orchestrator.ErrGenerationUnavailable):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Generation unavailable")
		middleware.WriteError(w, r, http.StatusServiceUnavailable, models.CodeGenerationUnavailable, "content generation is temporarily unavailable", nil)

	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		middleware.WriteError(w, r, http.StatusInternalServerError, models.CodeInternal, "internal server error", nil)
	}
}

// retryAfterSeconds rounds up so a client never retries early.
func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		s = 1
	}
	return s
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, errBodyTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	middleware.WriteError(w, r, status, models.CodeBadRequest, err.Error(), nil)
}
