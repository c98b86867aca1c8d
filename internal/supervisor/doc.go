// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

/*
Package supervisor runs ContentPilot's long-lived components under a suture v4
supervisor tree.

	contentpilot
	├── data-layer
	│   ├── cache janitor
	│   ├── rate-limiter janitor
	│   └── badger-gc
	├── messaging-layer
	│   ├── nats-server (events.embedded only)
	│   └── event-emitter
	└── api-layer
	    └── http-server

Each layer restarts its children independently, with failure counting and
backoff per TreeConfig. Supervisor events are logged through sutureslog over
the zerolog slog adapter.

Usage in main:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(responseCache)
	tree.AddMessagingService(emitter)
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
