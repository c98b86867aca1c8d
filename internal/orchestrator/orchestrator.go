// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

// Package orchestrator composes validation, rate limiting, caching,
// generation, scoring and persistence into the content pipeline.
//
// Handle is the hot path. Identical requests share a fingerprint; a cache hit
// returns the cached pointer, and concurrent misses share a single generation
// through a singleflight group keyed by fingerprint. The flight runs on a
// context detached from any caller, so a caller whose deadline passes is
// released with ErrTimeout while the flight finishes and fills the cache.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/contentpilot/internal/events"
	"github.com/tomtom215/contentpilot/internal/generation"
	"github.com/tomtom215/contentpilot/internal/logging"
	"github.com/tomtom215/contentpilot/internal/metrics"
	"github.com/tomtom215/contentpilot/internal/models"
	"github.com/tomtom215/contentpilot/internal/ratelimit"
	"github.com/tomtom215/contentpilot/internal/scoring"
	"github.com/tomtom215/contentpilot/internal/validation"
)

// Cache is the response cache. Put must atomically replace any entry.
type Cache interface {
	Get(fingerprint string) (*models.ContentResponse, bool)
	GetStale(fingerprint string) (*models.ContentResponse, bool)
	Put(fingerprint string, resp *models.ContentResponse, ttl time.Duration)
}

// Limiter admits requests per user.
type Limiter interface {
	Admit(userID string) ratelimit.Decision
	Peek(userID string) ratelimit.Decision
	Config() ratelimit.Config
}

// Generator produces raw content for a request.
type Generator interface {
	Generate(ctx context.Context, req models.ContentRequest, opts ...generation.PromptOption) (generation.Result, error)
}

// Scorer scores content and derives suggestions.
type Scorer interface {
	Score(content string, c scoring.Context) models.EngagementScore
	Suggest(content string, score models.EngagementScore, c scoring.Context) []models.ImprovementSuggestion
}

// Store persists finalized content.
type Store interface {
	Save(ctx context.Context, rec *models.StoredContent) error
	Grant(ctx context.Context, contentID, userID string) error
	GetForUser(ctx context.Context, contentID, userID string) (*models.StoredContent, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.StoredContent, error)
	MarkSaved(ctx context.Context, contentID, userID string) (*models.StoredContent, error)
	Delete(ctx context.Context, contentID, userID string) error
}

// Config holds pipeline timing and language settings.
type Config struct {
	// RequestTimeout is the end-to-end deadline of one caller.
	RequestTimeout time.Duration

	// FlightTimeout bounds a shared generation, independent of any caller.
	FlightTimeout time.Duration

	// CacheTTL is passed to Cache.Put; zero means the cache default.
	CacheTTL time.Duration

	// GenerationLanguage is the language the provider writes in.
	GenerationLanguage models.Language

	ListLimit int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		RequestTimeout:     8 * time.Second,
		FlightTimeout:      20 * time.Second,
		GenerationLanguage: models.DefaultLanguage,
		ListLimit:          50,
	}
}

// Deps are the collaborators of an Orchestrator. Cache, Limiter, Generator
// and Store are required.
type Deps struct {
	Cache      Cache
	Limiter    Limiter
	Generator  Generator
	Translator generation.Translator
	Scorer     Scorer
	Store      Store
	Events     events.Sink
	Config     Config
}

// Source says where a Handle result came from.
type Source string

const (
	SourceFresh    Source = "fresh"
	SourceCache    Source = "cache"
	SourceShared   Source = "shared"
	SourceDegraded Source = "degraded"
)

// Result is a successful Handle. Response must not be modified.
type Result struct {
	Response *models.ContentResponse
	Source   Source
}

// Orchestrator is safe for concurrent use.
type Orchestrator struct {
	cache      Cache
	limiter    Limiter
	gen        Generator
	translator generation.Translator
	scorer     Scorer
	store      Store
	events     events.Sink
	cfg        Config

	flights singleflight.Group
	now     func() time.Time
	newID   func() string
}

// New validates deps and builds an Orchestrator.
func New(d Deps) (*Orchestrator, error) {
	switch {
	case d.Cache == nil:
		return nil, errors.New("orchestrator: cache is required")
	case d.Limiter == nil:
		return nil, errors.New("orchestrator: limiter is required")
	case d.Generator == nil:
		return nil, errors.New("orchestrator: generator is required")
	case d.Store == nil:
		return nil, errors.New("orchestrator: store is required")
	}

	cfg := d.Config
	def := DefaultConfig()
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.FlightTimeout <= 0 {
		cfg.FlightTimeout = def.FlightTimeout
	}
	if cfg.GenerationLanguage == "" {
		cfg.GenerationLanguage = def.GenerationLanguage
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = def.ListLimit
	}

	translator := d.Translator
	if translator == nil {
		translator = generation.StubTranslator{}
	}
	scorer := d.Scorer
	if scorer == nil {
		scorer = scoring.NewEngine()
	}
	sink := d.Events
	if sink == nil {
		sink = events.NopSink{}
	}

	return &Orchestrator{
		cache:      d.Cache,
		limiter:    d.Limiter,
		gen:        d.Generator,
		translator: generation.NewMarkerGuard(translator),
		scorer:     scorer,
		store:      d.Store,
		events:     sink,
		cfg:        cfg,
		now:        time.Now,
		newID:      uuid.NewString,
	}, nil
}

// Config returns the effective configuration.
func (o *Orchestrator) Config() Config {
	return o.cfg
}

// Handle validates, admits and serves one content request.
func (o *Orchestrator) Handle(ctx context.Context, req models.ContentRequest, id models.Identity) (Result, error) {
	req = req.Normalized()
	if verr := validation.ValidateContentRequest(&req); verr != nil {
		metrics.RecordPipelineOutcome("generate", "invalid")
		return Result{}, &ValidationError{Err: verr}
	}
	if err := o.admit(id.UserID); err != nil {
		metrics.RecordPipelineOutcome("generate", "rate_limited")
		return Result{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.RequestTimeout)
	defer cancel()

	fp := req.Fingerprint()
	log := logging.Ctx(ctx).With().Str("component", "orchestrator").Str("fingerprint", fp).Logger()

	if resp, ok := o.cache.Get(fp); ok {
		metrics.RecordCacheOperation("hit")
		o.share(ctx, resp, id, false)
		metrics.RecordPipelineOutcome("generate", string(SourceCache))
		log.Debug().Bool("cached", true).Msg("Served content from cache")
		return Result{Response: resp, Source: SourceCache}, nil
	}
	metrics.RecordCacheOperation("miss")

	token := uuid.NewString()
	ch := o.flights.DoChan(fp, func() (any, error) {
		return o.produce(ctx, fp, req, id, token)
	})

	select {
	case <-ctx.Done():
		metrics.RecordPipelineOutcome("generate", "timeout")
		log.Warn().Dur("timeout", o.cfg.RequestTimeout).Msg("Request deadline passed while waiting for generation")
		return Result{}, fmt.Errorf("%w: waiting for generation: %w", ErrTimeout, ctx.Err())

	case r := <-ch:
		if r.Err != nil {
			return o.degrade(ctx, fp, id, r.Err)
		}
		fl, ok := r.Val.(*flight)
		if !ok || fl.resp == nil {
			metrics.RecordPipelineOutcome("generate", "internal_error")
			return Result{}, fmt.Errorf("%w: flight returned no response", ErrInternal)
		}

		source := SourceFresh
		switch {
		case fl.cached:
			source = SourceCache
		case fl.leader != token:
			source = SourceShared
			metrics.RecordSingleflightShared()
		}
		if source != SourceFresh {
			o.share(ctx, fl.resp, id, false)
		}
		metrics.RecordPipelineOutcome("generate", string(source))
		log.Debug().Str("source", string(source)).Msg("Served content")
		return Result{Response: fl.resp, Source: source}, nil
	}
}

// flight is the value shared by every caller of one singleflight key.
type flight struct {
	leader string
	resp   *models.ContentResponse
	cached bool
}

// produce runs once per fingerprint at a time. ctx is the first caller's
// context and is used only for its values.
func (o *Orchestrator) produce(ctx context.Context, fp string, req models.ContentRequest, id models.Identity, token string) (fl *flight, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Ctx(ctx).Error().Interface("panic", r).Str("fingerprint", fp).Msg("Recovered panic in generation flight")
			fl, err = nil, fmt.Errorf("%w: panic: %v", ErrInternal, r)
		}
	}()

	// A flight that finished just before this one started may have filled the cache.
	if resp, ok := o.cache.Get(fp); ok {
		return &flight{leader: token, resp: resp, cached: true}, nil
	}

	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.cfg.FlightTimeout)
	defer cancel()

	resp, err := o.compose(fctx, req, "")
	if err != nil {
		return nil, err
	}

	o.cache.Put(fp, resp, o.cfg.CacheTTL)
	o.persist(fctx, req, resp, id)
	o.emit(fctx, models.EventContentGenerated, resp, id)
	metrics.RecordEngagementScore(string(req.Platform), resp.EngagementScore.Score)

	logging.Ctx(ctx).Info().
		Str("fingerprint", fp).
		Str("content_id", resp.ContentID).
		Float64("score", resp.EngagementScore.Score).
		Msg("Generated content")
	return &flight{leader: token, resp: resp}, nil
}

// degrade serves a stale cached result when generation failed.
func (o *Orchestrator) degrade(ctx context.Context, fp string, id models.Identity, err error) (Result, error) {
	if errors.Is(err, ErrGenerationUnavailable) {
		if stale, ok := o.cache.GetStale(fp); ok {
			metrics.RecordCacheOperation("stale")
			metrics.RecordPipelineOutcome("generate", string(SourceDegraded))
			logging.Ctx(ctx).Warn().Err(err).
				Str("fingerprint", fp).
				Bool("degraded", true).
				Msg("Generation failed, serving stale content")

			resp := stale.AsDegraded()
			o.share(ctx, stale, id, true)
			return Result{Response: resp, Source: SourceDegraded}, nil
		}
	}

	switch {
	case errors.Is(err, ErrInternal):
		metrics.RecordPipelineOutcome("generate", "internal_error")
		logging.Ctx(ctx).Error().Err(err).Str("fingerprint", fp).Msg("Content pipeline defect")
	default:
		metrics.RecordPipelineOutcome("generate", "unavailable")
		logging.Ctx(ctx).Warn().Err(err).Str("fingerprint", fp).Msg("Content generation failed")
	}
	return Result{}, err
}

func (o *Orchestrator) admit(userID string) error {
	d := o.limiter.Admit(userID)
	metrics.RecordRateLimitDecision(d.Allowed)
	if d.Allowed {
		return nil
	}
	return &RateLimitError{RetryAfter: d.RetryAfter, Limit: d.Limit, ResetAt: d.ResetAt}
}

// share records that id received an existing response.
func (o *Orchestrator) share(ctx context.Context, resp *models.ContentResponse, id models.Identity, degraded bool) {
	if err := o.store.Grant(ctx, resp.ContentID, id.UserID); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("content_id", resp.ContentID).Msg("Failed to record content access")
	}
	ev := eventFor(models.EventContentGenerated, resp, id)
	ev.Cached = true
	ev.Degraded = degraded
	o.events.Emit(ctx, ev)
}

func (o *Orchestrator) persist(ctx context.Context, req models.ContentRequest, resp *models.ContentResponse, id models.Identity) {
	rec := &models.StoredContent{
		UserID:    id.UserID,
		Request:   req,
		Response:  resp,
		CreatedAt: resp.GeneratedAt,
	}
	if err := o.store.Save(ctx, rec); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("content_id", resp.ContentID).Msg("Failed to persist content")
	}
}

func (o *Orchestrator) emit(ctx context.Context, t models.EventType, resp *models.ContentResponse, id models.Identity) {
	o.events.Emit(ctx, eventFor(t, resp, id))
}

func eventFor(t models.EventType, resp *models.ContentResponse, id models.Identity) models.ContentEvent {
	return models.ContentEvent{
		Type:      t,
		ContentID: resp.ContentID,
		UserID:    id.UserID,
		Platform:  resp.Metadata.Platform,
		Tone:      resp.Metadata.Tone,
		Language:  resp.Metadata.Language,
		Score:     resp.EngagementScore.Score,
		Degraded:  resp.Metadata.Degraded,
	}
}
