// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package ratelimit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestAdmitHundredThenDeny(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	l := New(DefaultConfig(), WithClock(clock.Now))

	for i := 1; i <= 100; i++ {
		d := l.Admit("user-1")
		if !d.Allowed {
			t.Fatalf("request %d denied, want admitted", i)
		}
		if d.Remaining != 100-i {
			t.Fatalf("request %d: remaining = %d, want %d", i, d.Remaining, 100-i)
		}
		clock.Advance(time.Second)
	}

	d := l.Admit("user-1")
	if d.Allowed {
		t.Fatal("101st request admitted, want denied")
	}
	if d.RetryAfter <= 0 {
		t.Fatalf("expected positive retry-after, got %v", d.RetryAfter)
	}

	// First admission was at t0; now is t0+100s, so it ages out at t0+1h.
	want := time.Hour - 100*time.Second
	if d.RetryAfter != want {
		t.Errorf("retry-after = %v, want %v", d.RetryAfter, want)
	}
}

func TestDeniedRequestsAreNotCharged(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	l := New(Config{Limit: 2, Window: time.Minute}, WithClock(clock.Now))

	l.Admit("u")
	clock.Advance(10 * time.Second)
	l.Admit("u")

	for i := 0; i < 5; i++ {
		if l.Admit("u").Allowed {
			t.Fatal("expected denial while at quota")
		}
	}

	// Only the first admission ages out; the denials must not have extended anything.
	clock.Advance(50 * time.Second)
	if !l.Admit("u").Allowed {
		t.Fatal("expected admission once oldest request left the window")
	}
	if l.Admit("u").Allowed {
		t.Fatal("expected denial: second original admission still in window")
	}
}

func TestRollingWindowNeverExceedsLimit(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	window := 10 * time.Minute
	limit := 5
	l := New(Config{Limit: limit, Window: window}, WithClock(clock.Now))

	var admitted []time.Time
	for i := 0; i < 200; i++ {
		if l.Admit("u").Allowed {
			admitted = append(admitted, clock.Now())
		}
		clock.Advance(17 * time.Second)
	}

	for i := range admitted {
		count := 0
		for j := i; j < len(admitted) && admitted[j].Sub(admitted[i]) < window; j++ {
			count++
		}
		if count > limit {
			t.Fatalf("%d admissions within one window starting at %v", count, admitted[i])
		}
	}
}

func TestUsersAreIndependent(t *testing.T) {
	t.Parallel()

	l := New(Config{Limit: 1, Window: time.Hour})
	if !l.Admit("a").Allowed {
		t.Fatal("a should be admitted")
	}
	if !l.Admit("b").Allowed {
		t.Fatal("b should be admitted independently of a")
	}
	if l.Admit("a").Allowed {
		t.Fatal("a should be denied")
	}
}

func TestConcurrentAdmitSameUser(t *testing.T) {
	t.Parallel()

	l := New(Config{Limit: 100, Window: time.Hour})

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if l.Admit("shared").Allowed {
					allowed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	if got := allowed.Load(); got != 100 {
		t.Errorf("admitted %d requests, want exactly 100", got)
	}
}

func TestPeekDoesNotCharge(t *testing.T) {
	t.Parallel()

	l := New(Config{Limit: 1, Window: time.Hour})
	for i := 0; i < 3; i++ {
		if d := l.Peek("u"); !d.Allowed || d.Remaining != 1 {
			t.Fatalf("peek %d: %+v", i, d)
		}
	}
	l.Admit("u")
	if d := l.Peek("u"); d.Allowed || d.RetryAfter <= 0 {
		t.Fatalf("expected denied peek with retry-after, got %+v", d)
	}
}

func TestCleanupDropsIdleUsers(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	l := New(Config{Limit: 10, Window: time.Minute}, WithClock(clock.Now))
	l.Admit("idle")
	clock.Advance(30 * time.Second)
	l.Admit("active")
	clock.Advance(40 * time.Second)

	if removed := l.Cleanup(); removed != 1 {
		t.Fatalf("expected 1 removed user, got %d", removed)
	}
	if l.Users() != 1 {
		t.Errorf("expected 1 tracked user, got %d", l.Users())
	}
	if !l.Admit("idle").Allowed {
		t.Error("expected idle user to be admitted on return")
	}
}

func TestServeRunsCleanupUntilCancel(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	l := New(Config{Limit: 10, Window: time.Minute, CleanupInterval: time.Millisecond}, WithClock(clock.Now))
	l.Admit("idle")
	clock.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Serve(ctx) }()

	deadline := time.Now().Add(time.Second)
	for l.Users() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if l.Users() != 0 {
		t.Errorf("expected janitor to drop idle user, %d tracked", l.Users())
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
