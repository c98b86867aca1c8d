// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package events

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/contentpilot/internal/models"
)

// Metadata keys set on every published message.
const (
	MetadataEventType = "event_type"
	MetadataContentID = "content_id"
	MetadataUserID    = "user_id"
)

var errMissingType = errors.New("event has no type")

// Marshal encodes an event as JSON.
func Marshal(ev models.ContentEvent) ([]byte, error) {
	if ev.Type == "" {
		return nil, errMissingType
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a JSON event payload.
func Unmarshal(data []byte) (models.ContentEvent, error) {
	var ev models.ContentEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal event: %w", err)
	}
	return ev, nil
}

// NewMessage wraps an event in a watermill message. The event ID doubles
// as the message UUID, which JetStream uses for deduplication.
func NewMessage(ev models.ContentEvent) (*message.Message, error) {
	data, err := Marshal(ev)
	if err != nil {
		return nil, err
	}
	msg := message.NewMessage(ev.ID, data)
	msg.Metadata.Set(MetadataEventType, string(ev.Type))
	msg.Metadata.Set(MetadataContentID, ev.ContentID)
	msg.Metadata.Set(MetadataUserID, ev.UserID)
	return msg, nil
}
