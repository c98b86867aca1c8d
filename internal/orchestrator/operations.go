// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/contentpilot/internal/generation"
	"github.com/tomtom215/contentpilot/internal/logging"
	"github.com/tomtom215/contentpilot/internal/metrics"
	"github.com/tomtom215/contentpilot/internal/models"
	"github.com/tomtom215/contentpilot/internal/scoring"
	"github.com/tomtom215/contentpilot/internal/store"
	"github.com/tomtom215/contentpilot/internal/validation"
)

// DefaultVariations is used when a variations request leaves the count unset.
const DefaultVariations = 3

// Variations generates several alternatives for one request, ranked by score
// with the best first. The call is charged to the limiter once and its
// results are persisted but not cached.
func (o *Orchestrator) Variations(ctx context.Context, vr models.VariationsRequest, id models.Identity) ([]*models.ContentResponse, error) {
	vr.ContentRequest = vr.ContentRequest.Normalized()
	if vr.Count == 0 {
		vr.Count = DefaultVariations
	}
	if verr := validation.ValidateStruct(&vr); verr != nil {
		metrics.RecordPipelineOutcome("variations", "invalid")
		return nil, &ValidationError{Err: verr}
	}
	if err := o.admit(id.UserID); err != nil {
		metrics.RecordPipelineOutcome("variations", "rate_limited")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.RequestTimeout)
	defer cancel()

	req := vr.ContentRequest
	out := make([]*models.ContentResponse, vr.Count)
	g, gctx := errgroup.WithContext(ctx)
	for i := range out {
		g.Go(func() error {
			resp, err := o.compose(gctx, req, "", generation.WithVariation(i))
			if err != nil {
				return err
			}
			out[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		err = o.callerError(ctx, err)
		metrics.RecordPipelineOutcome("variations", outcomeFor(err))
		return nil, err
	}

	scoring.RankByScore(out)
	for _, resp := range out {
		o.persist(ctx, req, resp, id)
		o.emit(ctx, models.EventContentGenerated, resp, id)
		metrics.RecordEngagementScore(string(req.Platform), resp.EngagementScore.Score)
	}
	metrics.RecordPipelineOutcome("variations", "fresh")
	return out, nil
}

// improvementAdvice is used when the stored record has no suggestion for the
// requested category.
var improvementAdvice = map[models.SuggestionCategory]string{
	models.CategoryTone:         "Make the tone more distinctive and consistent from the first line.",
	models.CategoryLength:       "Tighten the post so every sentence earns its place.",
	models.CategoryKeywords:     "Work the topic's key terms in more naturally and more often.",
	models.CategoryStructure:    "Restructure with a stronger hook and clearer paragraph breaks.",
	models.CategoryCallToAction: "End with a clear, specific call to action.",
}

// Improve regenerates a stored record guided by one of its suggestions. The
// result is a new record whose ParentID is contentID; its content always
// differs from the original.
func (o *Orchestrator) Improve(ctx context.Context, contentID string, ir models.ImproveRequest, id models.Identity) (*models.ContentResponse, error) {
	if verr := validation.ValidateStruct(&ir); verr != nil {
		metrics.RecordPipelineOutcome("improve", "invalid")
		return nil, &ValidationError{Err: verr}
	}

	parent, err := o.lookup(ctx, contentID, id)
	if err != nil {
		metrics.RecordPipelineOutcome("improve", "not_found")
		return nil, err
	}
	if err := o.admit(id.UserID); err != nil {
		metrics.RecordPipelineOutcome("improve", "rate_limited")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.RequestTimeout)
	defer cancel()

	category, guidance := pickGuidance(parent.Response.Suggestions, ir.Category)
	previous := parent.Response.Content
	req := parent.Request

	resp, err := o.compose(ctx, req, contentID, generation.WithGuidance(previous, guidance))
	if err == nil && sameText(resp.Content, previous) {
		resp, err = o.compose(ctx, req, contentID, generation.WithGuidance(previous, guidance), generation.WithVariation(1))
		if err == nil && sameText(resp.Content, previous) {
			logging.Ctx(ctx).Debug().
				Str("parent_id", contentID).
				Str("category", string(category)).
				Msg("Provider returned unchanged content, appending revision")
			resp, err = o.assemble(req, revise(req, previous, category), resp.Metadata.Provider, contentID)
		}
	}
	if err != nil {
		err = o.callerError(ctx, err)
		metrics.RecordPipelineOutcome("improve", outcomeFor(err))
		return nil, err
	}

	o.persist(ctx, req, resp, id)
	o.emit(ctx, models.EventContentImproved, resp, id)
	metrics.RecordEngagementScore(string(req.Platform), resp.EngagementScore.Score)
	metrics.RecordPipelineOutcome("improve", "fresh")

	logging.Ctx(ctx).Info().
		Str("content_id", resp.ContentID).
		Str("parent_id", contentID).
		Str("category", string(category)).
		Float64("score", resp.EngagementScore.Score).
		Float64("previous_score", parent.Response.EngagementScore.Score).
		Msg("Improved content")
	return resp, nil
}

// pickGuidance returns the suggestion for category, or the top suggestion
// when category is empty.
func pickGuidance(list []models.ImprovementSuggestion, category models.SuggestionCategory) (models.SuggestionCategory, string) {
	for _, s := range list {
		if category == "" || s.Category == category {
			return s.Category, s.Reasoning
		}
	}
	if category == "" {
		category = models.CategoryStructure
	}
	return category, improvementAdvice[category]
}

// revisionLines are appended when the provider keeps returning the original.
var revisionLines = map[models.SuggestionCategory]string{
	models.CategoryTone:         "Here is the part that matters most to you.",
	models.CategoryLength:       "In short: start today.",
	models.CategoryKeywords:     "Key takeaway: {topic}.",
	models.CategoryStructure:    "Bottom line up front: this is worth your time.",
	models.CategoryCallToAction: "Share your thoughts in the comments and save this for later!",
}

// revise appends the category's revision line to previous. When the platform
// cap would cut the line off, it leads the post instead.
func revise(req models.ContentRequest, previous string, category models.SuggestionCategory) string {
	line, ok := revisionLines[category]
	if !ok {
		line = revisionLines[models.CategoryStructure]
	}
	line = strings.ReplaceAll(line, "{topic}", req.Topic)
	out := FormatForPlatform(req, previous+"\n\n"+line)
	if !strings.Contains(out, line) {
		out = FormatForPlatform(req, line+"\n\n"+previous)
	}
	return out
}

func sameText(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

// Save marks a record as saved so it no longer expires.
func (o *Orchestrator) Save(ctx context.Context, contentID string, id models.Identity) (*models.StoredContent, error) {
	rec, err := o.store.MarkSaved(ctx, contentID, id.UserID)
	if err != nil {
		return nil, storeError(err)
	}
	o.emit(ctx, models.EventContentSaved, rec.Response, id)
	return rec, nil
}

// Export renders a record in the requested format.
func (o *Orchestrator) Export(ctx context.Context, contentID string, er models.ExportRequest, id models.Identity) (models.ExportPayload, error) {
	if verr := validation.ValidateStruct(&er); verr != nil {
		return models.ExportPayload{}, &ValidationError{Err: verr}
	}
	if er.Format == "" {
		er.Format = models.ExportText
	}

	rec, err := o.lookup(ctx, contentID, id)
	if err != nil {
		return models.ExportPayload{}, err
	}
	body, err := renderExport(rec.Response, er.Format)
	if err != nil {
		return models.ExportPayload{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	ev := eventFor(models.EventContentExported, rec.Response, id)
	ev.Format = string(er.Format)
	o.events.Emit(ctx, ev)

	return models.ExportPayload{ContentID: contentID, Format: er.Format, Body: body}, nil
}

// Copy records that the caller copied a record's content.
func (o *Orchestrator) Copy(ctx context.Context, contentID string, id models.Identity) error {
	rec, err := o.lookup(ctx, contentID, id)
	if err != nil {
		return err
	}
	o.emit(ctx, models.EventContentCopied, rec.Response, id)
	return nil
}

// Delete removes a record the caller owns. Content shared with the caller
// through the cache reads as not found.
func (o *Orchestrator) Delete(ctx context.Context, contentID string, id models.Identity) error {
	if err := o.store.Delete(ctx, contentID, id.UserID); err != nil {
		return storeError(err)
	}
	return nil
}

// Get returns a record the caller may read.
func (o *Orchestrator) Get(ctx context.Context, contentID string, id models.Identity) (*models.StoredContent, error) {
	return o.lookup(ctx, contentID, id)
}

// List returns the caller's records, newest first.
func (o *Orchestrator) List(ctx context.Context, id models.Identity, limit int) ([]*models.StoredContent, error) {
	if limit <= 0 || limit > o.cfg.ListLimit {
		limit = o.cfg.ListLimit
	}
	recs, err := o.store.ListByUser(ctx, id.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return recs, nil
}

// RateLimitStatus reports the caller's quota without consuming it.
func (o *Orchestrator) RateLimitStatus(id models.Identity) models.RateLimitStatus {
	d := o.limiter.Peek(id.UserID)
	return models.RateLimitStatus{
		Limit:     d.Limit,
		Remaining: d.Remaining,
		WindowSec: int(math.Ceil(o.limiter.Config().Window.Seconds())),
		ResetAt:   d.ResetAt.UTC(),
	}
}

func (o *Orchestrator) lookup(ctx context.Context, contentID string, id models.Identity) (*models.StoredContent, error) {
	rec, err := o.store.GetForUser(ctx, contentID, id.UserID)
	if err != nil {
		return nil, storeError(err)
	}
	if rec.Response == nil {
		return nil, fmt.Errorf("%w: record %s has no response", ErrInternal, contentID)
	}
	return rec, nil
}

func storeError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

// callerError reports ErrTimeout when the caller's own deadline caused err.
func (o *Orchestrator) callerError(ctx context.Context, err error) error {
	if ctx.Err() != nil && !errors.Is(err, ErrInternal) {
		return fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	}
	return err
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrInternal):
		return "internal_error"
	default:
		return "unavailable"
	}
}
