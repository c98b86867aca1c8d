// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

/*
Package main is the entry point for the ContentPilot server.

ContentPilot turns a structured content request (platform, audience, tone,
language, topic) into generated text, a predicted engagement score and ranked
improvement suggestions. It enforces a per-user quota, caches results by
request fingerprint and collapses concurrent identical requests into a single
generation call.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("contentpilot")
	├── DataSupervisor ("data-layer")
	│   ├── Response cache janitor
	│   ├── Rate limiter janitor
	│   └── Badger value log GC
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Embedded NATS server (optional)
	│   └── Event emitter
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Content store: BadgerDB with 30-day retention for unsaved records
 4. Event sink: watermill over an in-process channel or NATS JetStream
 5. Generation client: provider, retry policy, circuit breaker, outbound throttle
 6. Orchestrator: cache, rate limiter, generation, scoring and persistence
 7. Authentication and authorization: JWT or gateway headers, Casbin RBAC
 8. HTTP Server: Chi router with middleware stack

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
  - Environment variables
  - Config file (config.yaml, or the path in CONFIG_PATH)
  - Built-in defaults

Frequently used variables:

	HTTP_PORT              listener port (default 8080)
	AUTH_MODE              jwt, header or none (default jwt)
	JWT_SECRET             32+ character HS256 secret
	GENERATION_PROVIDER    template or http (default template)
	GENERATION_BASE_URL    OpenAI-compatible base URL
	GENERATION_API_KEY     provider API key
	TRANSLATION_PROVIDER   stub or http (default stub)
	RATE_LIMIT_REQUESTS    per-user quota per window (default 100)
	RATE_LIMIT_WINDOW      quota window (default 1h)
	CACHE_TTL              response cache lifetime (default 1h)
	STORE_PATH             badger directory (default /data/content)
	EVENTS_BACKEND         channel, nats or none (default channel)
	NATS_EMBEDDED          run nats-server in process

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:
  - Stops accepting new connections
  - Waits for in-flight requests to complete
  - Drains buffered analytics events
  - Closes the event publisher and the content store

# Example Usage

Local development with the offline template provider:

	export AUTH_MODE=none
	export STORE_IN_MEMORY=true
	./contentpilot

Production behind a gateway that sets identity headers:

	export AUTH_MODE=header
	export GENERATION_PROVIDER=http
	export GENERATION_API_KEY=sk-...
	export EVENTS_BACKEND=nats
	export NATS_URL=nats://nats:4222
	./contentpilot
*/
package main
