// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

// Package metrics registers the Prometheus collectors for ContentPilot and
// exposes small Record helpers so call sites never touch label order.
//
// All collectors are registered on the default registry through promauto and
// are served by promhttp at /metrics.
package metrics
