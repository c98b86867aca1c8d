// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package main

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/contentpilot/internal/config"
	"github.com/tomtom215/contentpilot/internal/events"
	"github.com/tomtom215/contentpilot/internal/logging"
	"github.com/tomtom215/contentpilot/internal/supervisor"
)

// EventComponents holds the analytics event pipeline for lifecycle management.
type EventComponents struct {
	server    *events.EmbeddedServer
	publisher message.Publisher
	emitter   *events.Emitter
}

// InitEvents builds the event sink selected by EVENTS_BACKEND. It returns nil
// components when the backend is "none".
func InitEvents(cfg *config.EventsConfig) (*EventComponents, error) {
	if cfg.Backend == "none" {
		logging.Info().Msg("Analytics events disabled (EVENTS_BACKEND=none)")
		return nil, nil
	}

	components := &EventComponents{}

	switch cfg.Backend {
	case "channel":
		components.publisher = events.NewChannelPubSub(int64(cfg.BufferSize))
		logging.Info().Msg("Publishing analytics events in process")

	case "nats":
		natsURL := cfg.NATSURL
		if cfg.Embedded {
			server, err := events.StartEmbeddedServer(events.ServerConfig{
				Host:              cfg.EmbeddedHost,
				Port:              cfg.EmbeddedPort,
				StoreDir:          cfg.StoreDir,
				JetStreamMaxMem:   cfg.JetStreamMaxMem,
				JetStreamMaxStore: cfg.JetStreamMaxStore,
			})
			if err != nil {
				return nil, fmt.Errorf("start embedded NATS: %w", err)
			}
			components.server = server
			natsURL = server.ClientURL()
			logging.Info().Str("url", natsURL).Msg("Embedded NATS server started")
		} else {
			logging.Info().Str("url", natsURL).Msg("Using external NATS server")
		}

		natsCfg := events.DefaultNATSConfig()
		natsCfg.URL = natsURL
		pub, err := events.NewNATSPublisher(natsCfg, events.WatermillLogger())
		if err != nil {
			if components.server != nil {
				components.server.Shutdown()
			}
			return nil, fmt.Errorf("create NATS publisher: %w", err)
		}
		components.publisher = pub

	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}

	components.emitter = events.NewEmitter(components.publisher, events.EmitterConfig{
		Topic:          cfg.Topic,
		BufferSize:     cfg.BufferSize,
		PublishTimeout: cfg.PublishTimeout,
	})
	return components, nil
}

// Sink returns the sink the orchestrator emits into.
func (c *EventComponents) Sink() events.Sink {
	if c == nil || c.emitter == nil {
		return events.NopSink{}
	}
	return c.emitter
}

// AddToSupervisor registers the emitter and, when embedded, the NATS server.
func (c *EventComponents) AddToSupervisor(tree *supervisor.SupervisorTree) {
	if c == nil {
		return
	}
	if c.server != nil {
		tree.AddMessagingService(c.server)
	}
	if c.emitter != nil {
		tree.AddMessagingService(c.emitter)
		logging.Info().Str("topic", c.emitter.Topic()).Msg("Event emitter added to supervisor tree")
	}
}

// Close releases the publisher. The supervisor has already stopped the
// emitter and the embedded server by the time this runs.
func (c *EventComponents) Close() {
	if c == nil || c.publisher == nil {
		return
	}
	if err := c.publisher.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing event publisher")
	}
	if c.emitter != nil {
		if dropped := c.emitter.Dropped(); dropped > 0 {
			logging.Warn().Int64("dropped", dropped).Msg("Analytics events were dropped while the buffer was full")
		}
	}
}
