// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/contentpilot/internal/models"
)

// Config controls ResponseCache sizing and expiry.
type Config struct {
	// TTL is the default lifetime of an entry.
	TTL time.Duration

	// StaleRetention is how long an expired entry stays available to GetStale.
	StaleRetention time.Duration

	// Capacity is the maximum number of entries; the least recently used is evicted.
	Capacity int

	// CleanupInterval is how often Serve purges entries past stale retention.
	CleanupInterval time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		TTL:             time.Hour,
		StaleRetention:  24 * time.Hour,
		Capacity:        10000,
		CleanupInterval: 5 * time.Minute,
	}
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	StaleHits   int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// entry is a node in the recency list.
type entry struct {
	key       string
	value     *models.ContentResponse
	expiresAt time.Time
	prev      *entry
	next      *entry
}

// ResponseCache is safe for concurrent use.
type ResponseCache struct {
	mu    sync.Mutex
	cfg   Config
	items map[string]*entry

	// head.next is the most recently used entry, tail.prev the least.
	head *entry
	tail *entry

	stats Stats
	now   func() time.Time
}

// Option customizes a ResponseCache.
type Option func(*ResponseCache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *ResponseCache) { c.now = now }
}

// New creates a ResponseCache. Zero config fields fall back to DefaultConfig.
func New(cfg Config, opts ...Option) *ResponseCache {
	def := DefaultConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.StaleRetention < 0 {
		cfg.StaleRetention = 0
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}

	c := &ResponseCache{
		cfg:   cfg,
		items: make(map[string]*entry),
		head:  &entry{},
		tail:  &entry{},
		now:   time.Now,
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	for _, opt := range opts {
		opt(c)
	}
	c.stats.LastCleanup = c.now()
	return c
}

// TTL returns the default entry lifetime.
func (c *ResponseCache) TTL() time.Duration {
	return c.cfg.TTL
}

// Get returns the response for fingerprint if it has not expired.
func (c *ResponseCache) Get(fingerprint string) (*models.ContentResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[fingerprint]
	if !ok || !c.now().Before(e.expiresAt) {
		c.stats.Misses++
		return nil, false
	}

	c.moveToFront(e)
	c.stats.Hits++
	return e.value, true
}

// GetStale returns the response for fingerprint whether or not it has expired,
// as long as it is still within stale retention.
func (c *ResponseCache) GetStale(fingerprint string) (*models.ContentResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[fingerprint]
	if !ok || c.pastRetention(e, c.now()) {
		return nil, false
	}
	c.stats.StaleHits++
	return e.value, true
}

// Put stores resp under fingerprint with the given ttl, replacing any previous
// entry. A non-positive ttl uses the configured default.
func (c *ResponseCache) Put(fingerprint string, resp *models.ContentResponse, ttl time.Duration) {
	if resp == nil {
		return
	}
	if ttl <= 0 {
		ttl = c.cfg.TTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	if e, ok := c.items[fingerprint]; ok {
		e.value = resp
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: fingerprint, value: resp, expiresAt: expiresAt}
	c.addToFront(e)
	c.items[fingerprint] = e

	for len(c.items) > c.cfg.Capacity {
		c.evictOldest()
	}
}

// Delete removes the entry for fingerprint.
func (c *ResponseCache) Delete(fingerprint string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[fingerprint]
	if !ok {
		return false
	}
	c.removeEntry(e)
	return true
}

// Len returns the number of entries, including expired ones still held as stale.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Cleanup removes entries past stale retention and returns how many were removed.
func (c *ResponseCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for e := c.tail.prev; e != c.head; {
		prev := e.prev
		if c.pastRetention(e, now) {
			c.removeEntry(e)
			removed++
		}
		e = prev
	}
	c.stats.Evictions += int64(removed)
	c.stats.LastCleanup = now
	return removed
}

// Stats returns a snapshot of the cache counters.
func (c *ResponseCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.TotalKeys = int64(len(c.items))
	return s
}

// Serve runs the periodic cleanup until ctx is done. It satisfies suture.Service.
func (c *ResponseCache) Serve(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Cleanup()
		}
	}
}

// String names the service in supervisor logs.
func (c *ResponseCache) String() string {
	return "response-cache-janitor"
}

func (c *ResponseCache) pastRetention(e *entry, now time.Time) bool {
	return now.After(e.expiresAt.Add(c.cfg.StaleRetention))
}

// List maintenance (callers hold mu).

func (c *ResponseCache) addToFront(e *entry) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *ResponseCache) moveToFront(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.addToFront(e)
}

func (c *ResponseCache) removeEntry(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(c.items, e.key)
}

func (c *ResponseCache) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.removeEntry(oldest)
	c.stats.Evictions++
}
