// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

// Package ratelimit enforces a per-user quota over a rolling window.
//
// The limiter keeps an exact log of admitted request timestamps per user, so
// no user can ever have more than Limit admissions inside any interval of
// length Window. A denied request is not recorded and reports how long until
// the oldest admission in the window ages out.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Config controls the quota.
type Config struct {
	Limit           int
	Window          time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig is 100 requests per rolling hour.
func DefaultConfig() Config {
	return Config{
		Limit:           100,
		Window:          time.Hour,
		CleanupInterval: 10 * time.Minute,
	}
}

// Decision is the outcome of Admit or Peek.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int

	// RetryAfter is positive when Allowed is false.
	RetryAfter time.Duration

	// ResetAt is when the oldest counted request leaves the window.
	ResetAt time.Time
}

// userWindow is the admission log for one user, oldest first.
type userWindow struct {
	mu   sync.Mutex
	hits []time.Time

	// retired is set when Cleanup drops the window from the map.
	retired bool
}

// Limiter is safe for concurrent use. Check-and-record for one user happens
// under that user's lock, so concurrent requests from the same user cannot
// overshoot the quota.
type Limiter struct {
	cfg Config
	now func() time.Time

	mu    sync.RWMutex
	users map[string]*userWindow
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a Limiter. Zero config fields fall back to DefaultConfig.
func New(cfg Config, opts ...Option) *Limiter {
	def := DefaultConfig()
	if cfg.Limit <= 0 {
		cfg.Limit = def.Limit
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}

	l := &Limiter{
		cfg:   cfg,
		now:   time.Now,
		users: make(map[string]*userWindow),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Config returns the effective configuration.
func (l *Limiter) Config() Config {
	return l.cfg
}

// Admit records a request for userID if it is within quota.
func (l *Limiter) Admit(userID string) Decision {
	w := l.lockedWindow(userID)
	defer w.mu.Unlock()

	now := l.now()
	w.prune(now, l.cfg.Window)
	if len(w.hits) >= l.cfg.Limit {
		return l.denied(w, now)
	}

	w.hits = append(w.hits, now)
	return Decision{
		Allowed:   true,
		Limit:     l.cfg.Limit,
		Remaining: l.cfg.Limit - len(w.hits),
		ResetAt:   w.hits[0].Add(l.cfg.Window),
	}
}

// Peek reports the decision Admit would make without recording anything.
func (l *Limiter) Peek(userID string) Decision {
	l.mu.RLock()
	w, ok := l.users[userID]
	l.mu.RUnlock()

	now := l.now()
	if !ok {
		return Decision{Allowed: true, Limit: l.cfg.Limit, Remaining: l.cfg.Limit, ResetAt: now.Add(l.cfg.Window)}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.prune(now, l.cfg.Window)
	if len(w.hits) >= l.cfg.Limit {
		return l.denied(w, now)
	}
	resetAt := now.Add(l.cfg.Window)
	if len(w.hits) > 0 {
		resetAt = w.hits[0].Add(l.cfg.Window)
	}
	return Decision{
		Allowed:   true,
		Limit:     l.cfg.Limit,
		Remaining: l.cfg.Limit - len(w.hits),
		ResetAt:   resetAt,
	}
}

// Reset forgets all admissions for userID.
func (l *Limiter) Reset(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.users, userID)
}

// Cleanup drops users with no admissions left in the window and returns how
// many were dropped.
func (l *Limiter) Cleanup() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, w := range l.users {
		w.mu.Lock()
		w.prune(now, l.cfg.Window)
		empty := len(w.hits) == 0
		if empty {
			w.retired = true
		}
		w.mu.Unlock()
		if empty {
			delete(l.users, id)
			removed++
		}
	}
	return removed
}

// Users returns the number of tracked users.
func (l *Limiter) Users() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.users)
}

// Serve runs Cleanup periodically until ctx is done. It satisfies suture.Service.
func (l *Limiter) Serve(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Cleanup()
		}
	}
}

// String names the service in supervisor logs.
func (l *Limiter) String() string {
	return "ratelimit-janitor"
}

// lockedWindow returns the live window for userID with its lock held.
func (l *Limiter) lockedWindow(userID string) *userWindow {
	for {
		w := l.window(userID)
		w.mu.Lock()
		if !w.retired {
			return w
		}
		w.mu.Unlock()
	}
}

func (l *Limiter) window(userID string) *userWindow {
	l.mu.RLock()
	w, ok := l.users[userID]
	l.mu.RUnlock()
	if ok {
		return w
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if w, ok = l.users[userID]; ok {
		return w
	}
	w = &userWindow{hits: make([]time.Time, 0, 8)}
	l.users[userID] = w
	return w
}

func (l *Limiter) denied(w *userWindow, now time.Time) Decision {
	resetAt := w.hits[0].Add(l.cfg.Window)
	retryAfter := resetAt.Sub(now)
	if retryAfter <= 0 {
		retryAfter = time.Nanosecond
	}
	return Decision{
		Allowed:    false,
		Limit:      l.cfg.Limit,
		Remaining:  0,
		RetryAfter: retryAfter,
		ResetAt:    resetAt,
	}
}

// prune drops admissions that are no longer inside (now-window, now].
// Callers hold w.mu.
func (w *userWindow) prune(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	i := 0
	for i < len(w.hits) && !w.hits[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return
	}
	n := copy(w.hits, w.hits[i:])
	w.hits = w.hits[:n]
}
