// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package models

import (
	"strings"
	"time"
)

// Platform is a publishing target.
type Platform string

// Supported platforms.
const (
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformWhatsApp  Platform = "whatsapp"
	PlatformEmail     Platform = "email"
)

// AudienceType is the reader segment a piece of content is written for.
type AudienceType string

// Supported audiences.
const (
	AudienceStudents   AudienceType = "students"
	AudienceBusinesses AudienceType = "businesses"
	AudienceCreators   AudienceType = "creators"
)

// Tone is the voice of the generated content.
type Tone string

// Supported tones.
const (
	ToneFOMO          Tone = "fomo"
	ToneInspirational Tone = "inspirational"
	ToneProfessional  Tone = "professional"
	ToneUrgent        Tone = "urgent"
)

// Language is an ISO 639-1 code from SupportedLanguages.
type Language string

// DefaultLanguage is the language providers generate in before translation.
const DefaultLanguage Language = "en"

// SupportedLanguages is the fixed set of accepted language codes.
var SupportedLanguages = []Language{"en", "es", "fr", "de", "pt", "it", "hi", "ar", "zh", "ja"}

// IsSupportedLanguage reports whether code is in SupportedLanguages.
func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if string(l) == code {
			return true
		}
	}
	return false
}

// ContentRequest is the immutable input to the pipeline.
type ContentRequest struct {
	Platform          Platform     `json:"platform" validate:"required,oneof=instagram linkedin whatsapp email"`
	AudienceType      AudienceType `json:"audienceType" validate:"required,oneof=students businesses creators"`
	Tone              Tone         `json:"tone" validate:"required,oneof=fomo inspirational professional urgent"`
	Language          Language     `json:"language" validate:"required,language"`
	Topic             string       `json:"topic" validate:"required,notblank,max=200"`
	AdditionalContext string       `json:"additionalContext,omitempty" validate:"max=1000"`
}

// Normalized returns a copy with enum fields case-folded and all text fields
// trimmed, with inner runs of whitespace collapsed to a single space.
// Topic and AdditionalContext keep their case for prompting.
func (r ContentRequest) Normalized() ContentRequest {
	return ContentRequest{
		Platform:          Platform(foldEnum(string(r.Platform))),
		AudienceType:      AudienceType(foldEnum(string(r.AudienceType))),
		Tone:              Tone(foldEnum(string(r.Tone))),
		Language:          Language(foldEnum(string(r.Language))),
		Topic:             collapseSpace(r.Topic),
		AdditionalContext: collapseSpace(r.AdditionalContext),
	}
}

func foldEnum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Factor is one scored input dimension.
type Factor struct {
	Name        string  `json:"name"`
	Impact      float64 `json:"impact"`
	Description string  `json:"description"`
}

// EngagementScore is the predicted engagement of a piece of content.
// Score is within [0,100], Confidence within [0,1], and Factors is never nil.
type EngagementScore struct {
	Score      float64  `json:"score"`
	Confidence float64  `json:"confidence"`
	Factors    []Factor `json:"factors"`
}

// SuggestionCategory classifies an improvement suggestion.
type SuggestionCategory string

// Suggestion categories, in canonical order.
const (
	CategoryTone         SuggestionCategory = "tone"
	CategoryLength       SuggestionCategory = "length"
	CategoryKeywords     SuggestionCategory = "keywords"
	CategoryStructure    SuggestionCategory = "structure"
	CategoryCallToAction SuggestionCategory = "call_to_action"
)

// SuggestionCategories lists every category in canonical order.
var SuggestionCategories = []SuggestionCategory{
	CategoryTone,
	CategoryLength,
	CategoryKeywords,
	CategoryStructure,
	CategoryCallToAction,
}

// IsValidCategory reports whether c is a known suggestion category.
func IsValidCategory(c SuggestionCategory) bool {
	for _, known := range SuggestionCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ImprovementSuggestion is advisory input to a regeneration step.
type ImprovementSuggestion struct {
	Category       SuggestionCategory `json:"category"`
	Reasoning      string             `json:"reasoning"`
	ExpectedImpact float64            `json:"expectedImpact"`
}

// ContentMetadata describes a generated piece of content.
type ContentMetadata struct {
	Platform       Platform     `json:"platform"`
	AudienceType   AudienceType `json:"audienceType"`
	Tone           Tone         `json:"tone"`
	Language       Language     `json:"language"`
	WordCount      int          `json:"wordCount"`
	CharacterCount int          `json:"characterCount"`
	Hashtags       []string     `json:"hashtags"`
	Fingerprint    string       `json:"fingerprint"`
	Provider       string       `json:"provider,omitempty"`
	ParentID       string       `json:"parentId,omitempty"`

	// Degraded marks a stale cached result served because fresh generation failed.
	Degraded bool `json:"degraded"`
}

// ContentResponse is the result of one generation. It is never mutated after
// construction; cache hits return the same pointer.
type ContentResponse struct {
	ContentID       string                  `json:"contentId"`
	Content         string                  `json:"content"`
	Metadata        ContentMetadata         `json:"metadata"`
	EngagementScore EngagementScore         `json:"engagementScore"`
	Suggestions     []ImprovementSuggestion `json:"suggestions"`
	GeneratedAt     time.Time               `json:"generatedAt"`
}

// AsDegraded returns a shallow copy flagged as degraded. The receiver is left untouched.
func (r *ContentResponse) AsDegraded() *ContentResponse {
	cp := *r
	cp.Metadata.Degraded = true
	return &cp
}

// StoredContent is a persisted ContentResponse plus ownership metadata.
type StoredContent struct {
	UserID    string           `json:"userId"`
	Request   ContentRequest   `json:"request"`
	Response  *ContentResponse `json:"response"`
	Saved     bool             `json:"saved"`
	CreatedAt time.Time        `json:"createdAt"`

	// ExpiresAt is nil for saved records.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// ExportFormat selects the body layout of an export.
type ExportFormat string

// Export formats.
const (
	ExportText     ExportFormat = "text"
	ExportMarkdown ExportFormat = "markdown"
	ExportJSON     ExportFormat = "json"
)

// ExportPayload is returned by the export operation.
type ExportPayload struct {
	ContentID string       `json:"contentId"`
	Format    ExportFormat `json:"format"`
	Body      string       `json:"body"`
}

// VariationsRequest asks for several ranked alternatives of one request.
type VariationsRequest struct {
	ContentRequest
	Count int `json:"count" validate:"min=2,max=5"`
}

// ImproveRequest selects which suggestion drives a regeneration. An empty
// category means the top-ranked suggestion.
type ImproveRequest struct {
	Category SuggestionCategory `json:"category,omitempty" validate:"omitempty,oneof=tone length keywords structure call_to_action"`
}

// ExportRequest selects the export layout. Empty means text.
type ExportRequest struct {
	Format ExportFormat `json:"format,omitempty" validate:"omitempty,oneof=text markdown json"`
}
