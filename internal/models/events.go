// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package models

import "time"

// EventType names an analytics event.
type EventType string

// Analytics event types.
const (
	EventContentGenerated EventType = "content_generated"
	EventContentImproved  EventType = "content_improved"
	EventContentExported  EventType = "content_exported"
	EventContentCopied    EventType = "content_copied"
	EventContentSaved     EventType = "content_saved"
)

// ContentEvent is appended to the event sink. The pipeline never reads these back.
type ContentEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	ContentID  string    `json:"contentId"`
	UserID     string    `json:"userId"`
	Platform   Platform  `json:"platform,omitempty"`
	Tone       Tone      `json:"tone,omitempty"`
	Language   Language  `json:"language,omitempty"`
	Score      float64   `json:"score,omitempty"`
	Cached     bool      `json:"cached,omitempty"`
	Degraded   bool      `json:"degraded,omitempty"`
	Format     string    `json:"format,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
