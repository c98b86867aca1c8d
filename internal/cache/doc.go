// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

// Package cache holds generated content responses keyed by request fingerprint.
//
// ResponseCache is a capacity-bounded LRU with per-entry TTL. An entry that has
// passed its TTL is invisible to Get but remains available to GetStale until the
// stale retention window also elapses, which lets the orchestrator serve a
// degraded result when generation is failing. Put replaces an entry under the
// write lock, so readers see either the previous response or the new one.
//
// Values are *models.ContentResponse pointers and are never copied or mutated
// by the cache.
package cache
