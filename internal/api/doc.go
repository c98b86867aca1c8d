// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

/*
Package api exposes the content orchestrator over HTTP with a Chi router.

Routes (all under /api/v1 except /metrics):

	POST   /content/generate        generate or reuse content for a request
	POST   /content/variations      2-5 ranked alternatives
	GET    /content                 caller's stored content, newest first
	GET    /content/{id}            one stored record
	DELETE /content/{id}            remove an owned record
	POST   /content/{id}/improve    regenerate against a suggestion
	POST   /content/{id}/save       keep a record past retention
	POST   /content/{id}/export     render as text, markdown or json
	POST   /content/{id}/copy       record a copy to clipboard (204)
	GET    /ratelimit               caller's remaining quota
	GET    /health/live, /health/ready
	GET    /metrics                 Prometheus exposition

Middleware order: RequestID, RealIP, PrometheusMetrics, Recoverer, CORS, then
the per-IP throttle, authentication and per-route casbin authorization on the
content routes.

Response headers on generate:

	X-Cache: HIT | MISS | SHARED | STALE
	X-Content-Degraded: true   (stale cached content served after a failure)

Errors use the shared envelope from internal/middleware with the codes in
internal/models; see errors.go for the mapping from orchestrator errors.
*/
package api
