// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

// Package models defines the value types that flow through the content pipeline:
// requests and their fingerprints, generated responses with engagement scores and
// suggestions, stored records, analytics events, and the HTTP error envelope.
//
// Every type here is plain data. Behavior lives in the packages that own each
// concern (cache, ratelimit, generation, scoring, orchestrator).
package models
