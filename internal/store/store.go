// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

// Package store persists finalized content in BadgerDB.
//
// Records live under "content:<contentId>". Each user who received a record
// has a user index entry "user:<n>:<userId>:<receivedAt>:<contentId>" for
// newest-first listing and an access entry "access:<n>:<contentId>:<userId>",
// where <n> is the byte length of the segment that follows. The length prefix
// keeps one user's prefix scan from matching an ID that merely starts with it.
// Unsaved records carry a badger TTL equal to the retention period (30 days
// by default); MarkSaved rewrites the record and every grantee's keys without one.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/contentpilot/internal/logging"
	"github.com/tomtom215/contentpilot/internal/metrics"
	"github.com/tomtom215/contentpilot/internal/models"
)

// ErrNotFound is returned when a record does not exist, has expired, or
// belongs to another user.
var ErrNotFound = errors.New("content not found")

const (
	contentKeyPrefix = "content:"
	userKeyPrefix    = "user:"
	accessKeyPrefix  = "access:"
)

// Config controls the store.
type Config struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path     string
	InMemory bool

	// Retention is the lifetime of records that are not marked saved.
	Retention time.Duration

	GCInterval     time.Duration
	GCDiscardRatio float64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Path:           "./data/content",
		Retention:      30 * 24 * time.Hour,
		GCInterval:     10 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// BadgerStore is safe for concurrent use.
type BadgerStore struct {
	db  *badger.DB
	cfg Config
	now func() time.Time
}

// Open opens (or creates) the badger database described by cfg.
func Open(cfg Config) (*BadgerStore, error) {
	cfg = withDefaults(cfg)

	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Path, err)
	}
	return &BadgerStore{db: db, cfg: cfg, now: time.Now}, nil
}

// New wraps an already-open database.
func New(db *badger.DB, cfg Config) *BadgerStore {
	return &BadgerStore{db: db, cfg: withDefaults(cfg), now: time.Now}
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Retention <= 0 {
		cfg.Retention = def.Retention
	}
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = def.GCInterval
	}
	if cfg.GCDiscardRatio <= 0 || cfg.GCDiscardRatio >= 1 {
		cfg.GCDiscardRatio = def.GCDiscardRatio
	}
	if cfg.Path == "" && !cfg.InMemory {
		cfg.Path = def.Path
	}
	return cfg
}

func contentKey(id string) []byte {
	return []byte(contentKeyPrefix + id)
}

// lengthPrefixed returns "<len>:<v>:".
func lengthPrefixed(v string) string {
	return strconv.Itoa(len(v)) + ":" + v + ":"
}

func userPrefix(userID string) []byte {
	return []byte(userKeyPrefix + lengthPrefixed(userID))
}

func userKey(userID string, at time.Time, id string) []byte {
	// Zero-padded nanoseconds sort lexically in time order.
	ts := strconv.FormatInt(at.UnixNano(), 10)
	for len(ts) < 20 {
		ts = "0" + ts
	}
	return []byte(userKeyPrefix + lengthPrefixed(userID) + ts + ":" + id)
}

// accessPrefix covers the access entries of every user of contentID.
func accessPrefix(contentID string) []byte {
	return []byte(accessKeyPrefix + lengthPrefixed(contentID))
}

// accessKey marks that userID may read contentID. Its value is the user
// index key, so both can be rewritten together.
func accessKey(contentID, userID string) []byte {
	return append(accessPrefix(contentID), userID...)
}

// Save persists rec and grants its owner access. CreatedAt and ExpiresAt are
// filled in when unset.
func (s *BadgerStore) Save(ctx context.Context, rec *models.StoredContent) (err error) {
	defer func() { metrics.RecordStoreOperation("save", err) }()

	if rec == nil || rec.Response == nil || rec.Response.ContentID == "" {
		return errors.New("store: record has no content id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}
	if rec.Saved {
		rec.ExpiresAt = nil
	} else if rec.ExpiresAt == nil {
		exp := rec.CreatedAt.Add(s.cfg.Retention)
		rec.ExpiresAt = &exp
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	ttl, err := s.ttlFor(rec)
	if err != nil {
		return err
	}
	id := rec.Response.ContentID

	return s.db.Update(func(txn *badger.Txn) error {
		if err := setWithTTL(txn, contentKey(id), data, ttl); err != nil {
			return fmt.Errorf("set content: %w", err)
		}
		return grant(txn, id, rec.UserID, userKey(rec.UserID, rec.CreatedAt, id), ttl)
	})
}

// Grant lets userID read an existing record, as happens when a cached
// response is served to a second user. Granting twice is a no-op.
func (s *BadgerStore) Grant(ctx context.Context, contentID, userID string) (err error) {
	defer func() { metrics.RecordStoreOperation("grant", ignoreNotFound(err)) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(accessKey(contentID, userID)); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		rec, err := readRecord(txn, contentID)
		if err != nil {
			return err
		}
		ttl, err := s.ttlFor(rec)
		if err != nil {
			return ErrNotFound
		}
		return grant(txn, contentID, userID, userKey(userID, s.now(), contentID), ttl)
	})
}

// ttlFor returns the remaining lifetime of rec, or 0 for saved records.
func (s *BadgerStore) ttlFor(rec *models.StoredContent) (time.Duration, error) {
	if rec.Saved || rec.ExpiresAt == nil {
		return 0, nil
	}
	ttl := rec.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return 0, fmt.Errorf("store: record %s already expired", rec.Response.ContentID)
	}
	return ttl, nil
}

func setWithTTL(txn *badger.Txn, key, val []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return txn.Set(key, val)
	}
	return txn.SetEntry(badger.NewEntry(key, val).WithTTL(ttl))
}

func grant(txn *badger.Txn, contentID, userID string, indexKey []byte, ttl time.Duration) error {
	if err := setWithTTL(txn, indexKey, []byte(contentID), ttl); err != nil {
		return fmt.Errorf("set user index: %w", err)
	}
	if err := setWithTTL(txn, accessKey(contentID, userID), indexKey, ttl); err != nil {
		return fmt.Errorf("set access: %w", err)
	}
	return nil
}

func readRecord(txn *badger.Txn, contentID string) (*models.StoredContent, error) {
	item, err := txn.Get(contentKey(contentID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	var rec models.StoredContent
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	}); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return &rec, nil
}

// readAccess returns the user index key recorded for userID's access.
func readAccess(txn *badger.Txn, contentID, userID string) ([]byte, error) {
	item, err := txn.Get(accessKey(contentID, userID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get access: %w", err)
	}
	return item.ValueCopy(nil)
}

// Get returns the record for contentID regardless of who may read it.
func (s *BadgerStore) Get(ctx context.Context, contentID string) (*models.StoredContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rec *models.StoredContent
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = readRecord(txn, contentID)
		return err
	})
	metrics.RecordStoreOperation("get", ignoreNotFound(err))
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetForUser returns the record only if userID was granted access to it.
func (s *BadgerStore) GetForUser(ctx context.Context, contentID, userID string) (*models.StoredContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rec *models.StoredContent
	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := readAccess(txn, contentID, userID); err != nil {
			return err
		}
		var err error
		rec, err = readRecord(txn, contentID)
		return err
	})
	metrics.RecordStoreOperation("get", ignoreNotFound(err))
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListByUser returns up to limit records userID can read, newest first.
func (s *BadgerStore) ListByUser(ctx context.Context, userID string, limit int) ([]*models.StoredContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	out := []*models.StoredContent{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := userPrefix(userID)
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(out) < limit; it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			id := string(val)

			rec, err := readRecord(txn, id)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				logging.Warn().Err(err).Str("content_id", id).Msg("Skipping unreadable content record")
				continue
			}
			out = append(out, rec)
		}
		return nil
	})
	metrics.RecordStoreOperation("list", err)
	if err != nil {
		return nil, fmt.Errorf("list user content: %w", err)
	}
	return out, nil
}

// MarkSaved removes the retention limit from the record and from the access
// and index entries of every user it was shared with, so no grantee loses
// it when the original retention would have run out.
func (s *BadgerStore) MarkSaved(ctx context.Context, contentID, userID string) (rec *models.StoredContent, err error) {
	defer func() { metrics.RecordStoreOperation("mark_saved", ignoreNotFound(err)) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := readAccess(txn, contentID, userID); err != nil {
			return err
		}
		rec, err = readRecord(txn, contentID)
		if err != nil {
			return err
		}

		rec.Saved = true
		rec.ExpiresAt = nil
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal content: %w", err)
		}
		if err := txn.Set(contentKey(contentID), data); err != nil {
			return fmt.Errorf("set content: %w", err)
		}

		grants, err := accessEntries(txn, contentID)
		if err != nil {
			return err
		}
		for _, g := range grants {
			if err := txn.Set(g.indexKey, []byte(contentID)); err != nil {
				return fmt.Errorf("set user index: %w", err)
			}
			if err := txn.Set(g.accessKey, g.indexKey); err != nil {
				return fmt.Errorf("set access: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type accessEntry struct {
	accessKey []byte
	indexKey  []byte
}

// accessEntries collects every live access entry of contentID. Keys are
// copied out so the caller may write them after the iterator closes.
func accessEntries(txn *badger.Txn, contentID string) ([]accessEntry, error) {
	prefix := accessPrefix(contentID)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var out []accessEntry
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		idx, err := item.ValueCopy(nil)
		if err != nil {
			return nil, fmt.Errorf("read access: %w", err)
		}
		out = append(out, accessEntry{accessKey: item.KeyCopy(nil), indexKey: idx})
	}
	return out, nil
}

// Delete removes a record along with every user's index and access entries.
// Only its owner may delete it.
func (s *BadgerStore) Delete(ctx context.Context, contentID, userID string) (err error) {
	defer func() { metrics.RecordStoreOperation("delete", ignoreNotFound(err)) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		rec, err := readRecord(txn, contentID)
		if err != nil {
			return err
		}
		if rec.UserID != userID {
			return ErrNotFound
		}
		grants, err := accessEntries(txn, contentID)
		if err != nil {
			return err
		}
		if err := txn.Delete(contentKey(contentID)); err != nil {
			return fmt.Errorf("delete content: %w", err)
		}
		for _, g := range grants {
			if err := txn.Delete(g.indexKey); err != nil {
				return fmt.Errorf("delete user index: %w", err)
			}
			if err := txn.Delete(g.accessKey); err != nil {
				return fmt.Errorf("delete access: %w", err)
			}
		}
		return nil
	})
}

// Ping reports whether the database is usable.
func (s *BadgerStore) Ping() error {
	if s.db.IsClosed() {
		return errors.New("store: database closed")
	}
	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Serve runs value-log garbage collection until ctx is done. It satisfies suture.Service.
func (s *BadgerStore) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if s.cfg.InMemory {
				continue
			}
			s.runGC()
		}
	}
}

// runGC collects until badger reports nothing left to rewrite.
func (s *BadgerStore) runGC() {
	for {
		err := s.db.RunValueLogGC(s.cfg.GCDiscardRatio)
		if err == nil {
			continue
		}
		if !errors.Is(err, badger.ErrNoRewrite) {
			logging.Warn().Err(err).Msg("Badger value log GC failed")
		}
		return
	}
}

// String names the service in supervisor logs.
func (s *BadgerStore) String() string {
	return "badger-gc"
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
