// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/goccy/go-json"
)

// FingerprintPrefix namespaces request fingerprints.
const FingerprintPrefix = "content:"

type fingerprintFields struct {
	Platform          string `json:"p"`
	AudienceType      string `json:"a"`
	Tone              string `json:"t"`
	Language          string `json:"l"`
	Topic             string `json:"tp"`
	AdditionalContext string `json:"c"`
}

// Fingerprint returns the deterministic digest of the normalized request.
// All fields are case-folded, so "Exam Prep" and "  exam   prep " collide.
func (r ContentRequest) Fingerprint() string {
	n := r.Normalized()
	fields := fingerprintFields{
		Platform:          string(n.Platform),
		AudienceType:      string(n.AudienceType),
		Tone:              string(n.Tone),
		Language:          string(n.Language),
		Topic:             strings.ToLower(n.Topic),
		AdditionalContext: strings.ToLower(n.AdditionalContext),
	}

	// A struct of strings always marshals.
	data, _ := json.Marshal(fields) //nolint:errcheck // cannot fail for string fields
	sum := sha256.Sum256(data)
	return FingerprintPrefix + hex.EncodeToString(sum[:])
}
