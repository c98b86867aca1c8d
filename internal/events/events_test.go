// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/contentpilot/internal/metrics"
	"github.com/tomtom215/contentpilot/internal/models"
)

func sampleEvent() models.ContentEvent {
	return models.ContentEvent{
		Type:      models.EventContentGenerated,
		ContentID: "c1",
		UserID:    "alice",
		Platform:  models.PlatformInstagram,
		Score:     72.5,
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	ev := sampleEvent()
	ev.ID = "e1"
	ev.OccurredAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	data, err := Marshal(ev)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got != ev {
		t.Errorf("round trip = %+v, want %+v", got, ev)
	}

	if _, err := Marshal(models.ContentEvent{}); err == nil {
		t.Error("Marshal() without type should fail")
	}
	if _, err := Unmarshal([]byte("{")); err == nil {
		t.Error("Unmarshal() of invalid JSON should fail")
	}
}

func TestNewMessageMetadata(t *testing.T) {
	t.Parallel()

	ev := sampleEvent()
	ev.ID = "e1"
	msg, err := NewMessage(ev)
	if err != nil {
		t.Fatalf("NewMessage() error = %v", err)
	}
	if msg.UUID != "e1" {
		t.Errorf("UUID = %q, want e1", msg.UUID)
	}
	tests := map[string]string{
		MetadataEventType: "content_generated",
		MetadataContentID: "c1",
		MetadataUserID:    "alice",
	}
	for key, want := range tests {
		if got := msg.Metadata.Get(key); got != want {
			t.Errorf("Metadata[%s] = %q, want %q", key, got, want)
		}
	}
}

func TestEmitterPublishesToChannel(t *testing.T) {
	t.Parallel()

	pubsub := NewChannelPubSub(16)
	defer pubsub.Close()

	emitter := NewEmitter(pubsub, EmitterConfig{Topic: "test_events", BufferSize: 8})
	msgs, err := pubsub.Subscribe(context.Background(), emitter.Topic())
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- emitter.Serve(ctx) }()

	emitter.Emit(context.Background(), sampleEvent())

	select {
	case msg := <-msgs:
		msg.Ack()
		ev, err := Unmarshal(msg.Payload)
		if err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if ev.ID == "" || ev.OccurredAt.IsZero() {
			t.Errorf("Emit() did not fill ID/OccurredAt: %+v", ev)
		}
		if ev.ContentID != "c1" || ev.Type != models.EventContentGenerated {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v", err)
	}
}

func TestEmitterDropsWhenFull(t *testing.T) {
	t.Parallel()

	emitter := NewEmitter(&recordingPublisher{}, EmitterConfig{BufferSize: 2})
	for i := 0; i < 5; i++ {
		emitter.Emit(context.Background(), models.ContentEvent{Type: models.EventContentCopied})
	}
	if got := emitter.Pending(); got != 2 {
		t.Errorf("Pending() = %d, want 2", got)
	}
	if got := emitter.Dropped(); got != 3 {
		t.Errorf("Dropped() = %d, want 3", got)
	}
	if got := testutil.ToFloat64(metrics.EventsEmitted.WithLabelValues("content_copied", "dropped")); got < 3 {
		t.Errorf("dropped metric = %v, want >= 3", got)
	}
}

func TestEmitterDrainsOnShutdown(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	emitter := NewEmitter(pub, EmitterConfig{BufferSize: 10})
	for i := 0; i < 4; i++ {
		emitter.Emit(context.Background(), sampleEvent())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = emitter.Serve(ctx)

	if got := pub.count(); got != 4 {
		t.Errorf("published %d events after drain, want 4", got)
	}
}

func TestEmitterCountsPublishErrors(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{err: errors.New("broker down")}
	emitter := NewEmitter(pub, EmitterConfig{BufferSize: 4})
	emitter.Emit(context.Background(), models.ContentEvent{Type: models.EventContentSaved})

	before := testutil.ToFloat64(metrics.EventsEmitted.WithLabelValues("content_saved", "error"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = emitter.Serve(ctx)

	after := testutil.ToFloat64(metrics.EventsEmitted.WithLabelValues("content_saved", "error"))
	if after-before != 1 {
		t.Errorf("error metric delta = %v, want 1", after-before)
	}
}

func TestNopSink(t *testing.T) {
	t.Parallel()
	var s Sink = NopSink{}
	s.Emit(context.Background(), sampleEvent())
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []*message.Message
	err  error
}

func (p *recordingPublisher) Publish(_ string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.msgs)
}
