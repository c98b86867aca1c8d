// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

/*
Package middleware provides the HTTP middleware shared by every route, plus
the JSON response helpers used by handlers and by the auth layers.

Key Components:

  - RequestID: honours or creates X-Request-ID and stores it in the context
    for logging.
  - PrometheusMetrics: request counts, latency and in-flight gauge, labelled
    by chi route pattern so path parameters do not explode cardinality.
  - WriteJSON / WriteError: goccy/go-json encoding of bodies and of the
    standard error envelope {code, message, requestId, timestamp, details}.

The router in internal/api stacks them as:

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimw.Recoverer)
*/
package middleware
