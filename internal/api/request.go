// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/contentpilot/internal/auth"
	"github.com/tomtom215/contentpilot/internal/models"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 64 << 10

var (
	errEmptyBody    = errors.New("request body is required")
	errBodyTooLarge = fmt.Errorf("request body exceeds %d bytes", MaxBodyBytes)
)

// decodeJSON reads a single JSON object into v. An empty body is an error
// only when required is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, required bool) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		return fmt.Errorf("unsupported content type %q", ct)
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if required {
			return errEmptyBody
		}
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}
	return nil
}

// identity returns the caller resolved by the auth middleware.
func identity(r *http.Request) models.Identity {
	id, _ := auth.IdentityFromContext(r.Context())
	return id
}

// intQuery parses a non-negative integer query parameter.
func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}
