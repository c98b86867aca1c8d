// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/contentpilot/internal/models"
)

func validRequest() models.ContentRequest {
	return models.ContentRequest{
		Platform:     models.PlatformInstagram,
		AudienceType: models.AudienceStudents,
		Tone:         models.ToneFOMO,
		Language:     "en",
		Topic:        "exam prep",
	}
}

func TestValidateContentRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(r *models.ContentRequest)
		wantField string
		wantTag   string
	}{
		{name: "valid", mutate: func(r *models.ContentRequest) {}},
		{name: "unknown tone", mutate: func(r *models.ContentRequest) { r.Tone = "shouty" }, wantField: "tone", wantTag: "oneof"},
		{name: "unknown platform", mutate: func(r *models.ContentRequest) { r.Platform = "myspace" }, wantField: "platform", wantTag: "oneof"},
		{name: "unknown audience", mutate: func(r *models.ContentRequest) { r.AudienceType = "aliens" }, wantField: "audienceType", wantTag: "oneof"},
		{name: "unsupported language", mutate: func(r *models.ContentRequest) { r.Language = "xx" }, wantField: "language", wantTag: "language"},
		{name: "missing language", mutate: func(r *models.ContentRequest) { r.Language = "" }, wantField: "language", wantTag: "required"},
		{name: "empty topic", mutate: func(r *models.ContentRequest) { r.Topic = "" }, wantField: "topic", wantTag: "required"},
		{name: "blank topic", mutate: func(r *models.ContentRequest) { r.Topic = "   " }, wantField: "topic", wantTag: "notblank"},
		{name: "long topic", mutate: func(r *models.ContentRequest) { r.Topic = strings.Repeat("a", 201) }, wantField: "topic", wantTag: "max"},
		{name: "long context", mutate: func(r *models.ContentRequest) { r.AdditionalContext = strings.Repeat("b", 1001) }, wantField: "additionalContext", wantTag: "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := validRequest()
			tt.mutate(&req)
			verr := ValidateContentRequest(&req)

			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("expected no error, got %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("expected validation error on %s", tt.wantField)
			}
			if !verr.HasField(tt.wantField) {
				t.Fatalf("expected failure on field %q, got %v", tt.wantField, verr.Details())
			}
			for _, e := range verr.Errors() {
				if e.Field() == tt.wantField && e.Tag() != tt.wantTag {
					t.Errorf("field %s failed tag %q, want %q", e.Field(), e.Tag(), tt.wantTag)
				}
			}
		})
	}
}

func TestRequestValidationErrorMessages(t *testing.T) {
	t.Parallel()

	req := validRequest()
	req.Tone = "shouty"
	req.Topic = ""

	verr := ValidateContentRequest(&req)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	msg := verr.Error()
	if !strings.Contains(msg, "tone must be one of: fomo inspirational professional urgent") {
		t.Errorf("unexpected tone message: %s", msg)
	}
	if !strings.Contains(msg, "topic is required") {
		t.Errorf("unexpected topic message: %s", msg)
	}
	if got := len(verr.Details()); got != 2 {
		t.Errorf("expected 2 details, got %d", got)
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("expected the same validator instance")
	}
}
