// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package auth

import (
	"errors"
	"net/http"

	"github.com/tomtom215/contentpilot/internal/logging"
	"github.com/tomtom215/contentpilot/internal/middleware"
	"github.com/tomtom215/contentpilot/internal/models"
)

// Middleware resolves the caller identity and attaches it to the request
// context. Requests that fail authentication get a 401.
func Middleware(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.Authenticate(r.Context(), r)
			if err != nil {
				logging.Ctx(r.Context()).Debug().
					Err(err).
					Str("authenticator", a.Name()).
					Str("path", r.URL.Path).
					Msg("Authentication failed")
				if a.Name() == "jwt" {
					w.Header().Set("WWW-Authenticate", `Bearer realm="contentpilot"`)
				}
				middleware.WriteError(w, r, http.StatusUnauthorized, models.CodeUnauthorized, message(err), nil)
				return
			}

			ctx := ContextWithIdentity(r.Context(), id)
			ctx = logging.ContextWithUserID(ctx, id.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func message(err error) string {
	switch {
	case errors.Is(err, ErrNoCredentials):
		return "authentication required"
	case errors.Is(err, ErrExpiredCredentials):
		return "credentials expired"
	default:
		return "invalid credentials"
	}
}
