// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package orchestrator

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/contentpilot/internal/generation"
	"github.com/tomtom215/contentpilot/internal/models"
	"github.com/tomtom215/contentpilot/internal/scoring"
)

// compose turns a request into a finished response: generate, translate,
// format, score and suggest.
func (o *Orchestrator) compose(ctx context.Context, req models.ContentRequest, parentID string, opts ...generation.PromptOption) (*models.ContentResponse, error) {
	res, err := o.gen.Generate(ctx, req, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}

	text, err := o.localize(ctx, req, res.Text)
	if err != nil {
		return nil, err
	}
	text = FormatForPlatform(req, text)

	return o.assemble(req, text, res.Provider, parentID)
}

// localize translates text when the requested language differs from the
// generation language.
func (o *Orchestrator) localize(ctx context.Context, req models.ContentRequest, text string) (string, error) {
	if req.Language == o.cfg.GenerationLanguage {
		return text, nil
	}
	out, err := o.translator.Translate(ctx, text, o.cfg.GenerationLanguage, req.Language)
	if err != nil {
		return "", fmt.Errorf("%w: translate to %s: %w", ErrGenerationUnavailable, req.Language, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("%w: translation to %s returned no text", ErrGenerationUnavailable, req.Language)
	}
	return out, nil
}

// assemble scores text and builds the immutable response. Scoring panics and
// out-of-range results become ErrInternal.
func (o *Orchestrator) assemble(req models.ContentRequest, text, provider, parentID string) (resp *models.ContentResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("%w: scoring panicked: %v", ErrInternal, r)
		}
	}()

	sc := scoring.ContextFromRequest(req)
	score := o.scorer.Score(text, sc)
	if err := checkScore(score); err != nil {
		return nil, err
	}
	suggestions := o.scorer.Suggest(text, score, sc)
	if suggestions == nil {
		suggestions = []models.ImprovementSuggestion{}
	}
	if err := checkSuggestions(score, suggestions); err != nil {
		return nil, err
	}

	return &models.ContentResponse{
		ContentID: o.newID(),
		Content:   text,
		Metadata: models.ContentMetadata{
			Platform:       req.Platform,
			AudienceType:   req.AudienceType,
			Tone:           req.Tone,
			Language:       req.Language,
			WordCount:      len(strings.Fields(text)),
			CharacterCount: utf8.RuneCountInString(text),
			Hashtags:       generation.ExtractHashtags(text),
			Fingerprint:    req.Fingerprint(),
			Provider:       provider,
			ParentID:       parentID,
		},
		EngagementScore: score,
		Suggestions:     suggestions,
		GeneratedAt:     o.now().UTC(),
	}, nil
}

func checkScore(s models.EngagementScore) error {
	if math.IsNaN(s.Score) || s.Score < 0 || s.Score > 100 {
		return fmt.Errorf("%w: score %v outside [0,100]", ErrInternal, s.Score)
	}
	if math.IsNaN(s.Confidence) || s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v outside [0,1]", ErrInternal, s.Confidence)
	}
	if s.Factors == nil {
		return fmt.Errorf("%w: score has no factors", ErrInternal)
	}
	for _, f := range s.Factors {
		if math.IsNaN(f.Impact) || f.Impact < -10 || f.Impact > 10 {
			return fmt.Errorf("%w: factor %s impact %v outside [-10,10]", ErrInternal, f.Name, f.Impact)
		}
	}
	return nil
}

func checkSuggestions(s models.EngagementScore, list []models.ImprovementSuggestion) error {
	switch {
	case s.Score < scoring.SuggestBelow && len(list) < scoring.MinSuggestions:
		return fmt.Errorf("%w: %d suggestions for score %v, want at least %d", ErrInternal, len(list), s.Score, scoring.MinSuggestions)
	case s.Score > scoring.NoSuggestionsAbove && len(list) > 0:
		return fmt.Errorf("%w: suggestions produced for score %v", ErrInternal, s.Score)
	}
	for _, sg := range list {
		if !models.IsValidCategory(sg.Category) {
			return fmt.Errorf("%w: unknown suggestion category %q", ErrInternal, sg.Category)
		}
		if strings.TrimSpace(sg.Reasoning) == "" {
			return fmt.Errorf("%w: suggestion %s has no reasoning", ErrInternal, sg.Category)
		}
	}
	return nil
}
