// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package authz

import (
	"net/http"

	"github.com/tomtom215/contentpilot/internal/auth"
	"github.com/tomtom215/contentpilot/internal/logging"
	"github.com/tomtom215/contentpilot/internal/metrics"
	"github.com/tomtom215/contentpilot/internal/middleware"
	"github.com/tomtom215/contentpilot/internal/models"
)

// Require is middleware that enforces authorization for a specific object and action.
func Require(e *Enforcer, object, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				middleware.WriteError(w, r, http.StatusUnauthorized, models.CodeUnauthorized, "authentication required", nil)
				return
			}

			allowed, err := e.Enforce(string(id.Role), object, action)
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
				middleware.WriteError(w, r, http.StatusInternalServerError, models.CodeInternal, "internal server error", nil)
				return
			}
			metrics.RecordAuthzDecision(action, allowed)

			if !allowed {
				middleware.WriteError(w, r, http.StatusForbidden, models.CodeForbidden, "insufficient permissions", map[string]string{
					"role":   string(id.Role),
					"action": action,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
