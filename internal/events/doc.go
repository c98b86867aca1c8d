// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

/*
Package events carries content analytics events out of the request path.

Orchestrator operations call Sink.Emit, which never blocks: events go into a
bounded buffer drained by the Emitter's Serve loop, and are dropped (and
counted) when the buffer is full. The Emitter publishes each event as a
watermill message, so the backend is any message.Publisher:

  - gochannel: in-process, the default. Useful for tests and single-node runs.
  - nats: watermill-nats against JetStream, either an external server or the
    EmbeddedServer started by cmd/server.

Payloads are JSON encoded with goccy/go-json. Message metadata carries the
event type, content ID and user ID so subscribers can filter without decoding.
*/
package events
