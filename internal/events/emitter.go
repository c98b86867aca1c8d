// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package events

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/tomtom215/contentpilot/internal/logging"
	"github.com/tomtom215/contentpilot/internal/metrics"
	"github.com/tomtom215/contentpilot/internal/models"
)

// Sink accepts analytics events. Emit must not block the caller.
type Sink interface {
	Emit(ctx context.Context, ev models.ContentEvent)
}

// NopSink discards every event.
type NopSink struct{}

// Emit implements Sink.
func (NopSink) Emit(context.Context, models.ContentEvent) {}

// EmitterConfig controls buffering.
type EmitterConfig struct {
	Topic      string
	BufferSize int

	// PublishTimeout bounds a single publish during the final drain.
	PublishTimeout time.Duration
}

// DefaultEmitterConfig returns the defaults used by cmd/server.
func DefaultEmitterConfig() EmitterConfig {
	return EmitterConfig{
		Topic:          "content_events",
		BufferSize:     1024,
		PublishTimeout: 5 * time.Second,
	}
}

// Emitter buffers events and publishes them from a single worker.
type Emitter struct {
	pub     message.Publisher
	cfg     EmitterConfig
	buf     chan models.ContentEvent
	now     func() time.Time
	mu      sync.Mutex
	dropped int64
}

// NewEmitter creates an emitter publishing to pub. Run Serve to drain it.
func NewEmitter(pub message.Publisher, cfg EmitterConfig) *Emitter {
	def := DefaultEmitterConfig()
	if cfg.Topic == "" {
		cfg.Topic = def.Topic
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = def.PublishTimeout
	}
	return &Emitter{
		pub: pub,
		cfg: cfg,
		buf: make(chan models.ContentEvent, cfg.BufferSize),
		now: time.Now,
	}
}

// Topic returns the topic events are published to.
func (e *Emitter) Topic() string {
	return e.cfg.Topic
}

// Emit enqueues ev, filling in ID and OccurredAt when unset.
func (e *Emitter) Emit(ctx context.Context, ev models.ContentEvent) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = e.now().UTC()
	}

	select {
	case e.buf <- ev:
	default:
		e.mu.Lock()
		e.dropped++
		e.mu.Unlock()
		metrics.RecordEvent(string(ev.Type), "dropped")
		logging.Ctx(ctx).Warn().
			Str("event_type", string(ev.Type)).
			Str("content_id", ev.ContentID).
			Msg("Event buffer full, dropping event")
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (e *Emitter) Dropped() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dropped
}

// Pending returns the number of buffered events.
func (e *Emitter) Pending() int {
	return len(e.buf)
}

// Serve publishes buffered events until ctx is done, then drains what is
// left. It satisfies suture.Service.
func (e *Emitter) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			e.drain()
			return ctx.Err()
		case ev := <-e.buf:
			e.publish(ev)
		}
	}
}

func (e *Emitter) drain() {
	deadline := time.Now().Add(e.cfg.PublishTimeout)
	for time.Now().Before(deadline) {
		select {
		case ev := <-e.buf:
			e.publish(ev)
		default:
			return
		}
	}
	if n := len(e.buf); n > 0 {
		logging.Warn().Int("pending", n).Msg("Event drain timed out, pending events lost")
	}
}

func (e *Emitter) publish(ev models.ContentEvent) {
	msg, err := NewMessage(ev)
	if err != nil {
		metrics.RecordEvent(string(ev.Type), "error")
		logging.Error().Err(err).Str("event_id", ev.ID).Msg("Failed to encode event")
		return
	}
	if err := e.pub.Publish(e.cfg.Topic, msg); err != nil {
		metrics.RecordEvent(string(ev.Type), "error")
		logging.Warn().Err(err).
			Str("event_id", ev.ID).
			Str("event_type", string(ev.Type)).
			Msg("Failed to publish event")
		return
	}
	metrics.RecordEvent(string(ev.Type), "published")
}

// String names the service in supervisor logs.
func (e *Emitter) String() string {
	return "event-emitter"
}
