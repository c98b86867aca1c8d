// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/contentpilot/internal/cache"
	"github.com/tomtom215/contentpilot/internal/generation"
	"github.com/tomtom215/contentpilot/internal/models"
	"github.com/tomtom215/contentpilot/internal/ratelimit"
	"github.com/tomtom215/contentpilot/internal/scoring"
	"github.com/tomtom215/contentpilot/internal/store"
)

// countingProvider wraps the template provider and counts calls. It can be
// gated to block until released, or switched to fail every call.
type countingProvider struct {
	calls   atomic.Int64
	failAll atomic.Bool
	gate    chan struct{}
	fixed   string
	next    generation.Provider
}

func newCountingProvider() *countingProvider {
	return &countingProvider{next: generation.NewTemplateProvider()}
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Generate(ctx context.Context, prompt generation.Prompt) (string, error) {
	p.calls.Add(1)
	if p.gate != nil {
		select {
		case <-p.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if p.failAll.Load() {
		return "", &generation.ProviderError{Provider: p.Name(), Kind: generation.KindUnavailable, Message: "provider down"}
	}
	if p.fixed != "" {
		return p.fixed, nil
	}
	return p.next.Generate(ctx, prompt)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingSink struct {
	mu  sync.Mutex
	evs []models.ContentEvent
}

func (s *recordingSink) Emit(_ context.Context, ev models.ContentEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evs = append(s.evs, ev)
}

func (s *recordingSink) ofType(t models.EventType) []models.ContentEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ContentEvent
	for _, ev := range s.evs {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// spyLimiter and spyCache count every interaction.
type spyLimiter struct {
	Limiter
	calls atomic.Int64
}

func (s *spyLimiter) Admit(userID string) ratelimit.Decision {
	s.calls.Add(1)
	return s.Limiter.Admit(userID)
}

type spyCache struct {
	Cache
	calls atomic.Int64
}

func (s *spyCache) Get(fp string) (*models.ContentResponse, bool) {
	s.calls.Add(1)
	return s.Cache.Get(fp)
}

func (s *spyCache) Put(fp string, resp *models.ContentResponse, ttl time.Duration) {
	s.calls.Add(1)
	s.Cache.Put(fp, resp, ttl)
}

type fixture struct {
	orch     *Orchestrator
	provider *countingProvider
	cache    *cache.ResponseCache
	limiter  *ratelimit.Limiter
	store    *store.BadgerStore
	sink     *recordingSink
	clock    *fakeClock
}

func newFixture(t *testing.T, mutate ...func(*Deps)) *fixture {
	t.Helper()

	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	f := &fixture{
		provider: newCountingProvider(),
		cache:    cache.New(cache.DefaultConfig(), cache.WithClock(clock.Now)),
		limiter:  ratelimit.New(ratelimit.DefaultConfig()),
		sink:     &recordingSink{},
		clock:    clock,
	}
	st, err := store.Open(store.Config{InMemory: true})
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	f.store = st

	noSleep := generation.WithSleep(func(ctx context.Context, _ time.Duration) error { return ctx.Err() })
	deps := Deps{
		Cache:     f.cache,
		Limiter:   f.limiter,
		Generator: generation.NewClient(f.provider, generation.DefaultConfig(), noSleep),
		Store:     f.store,
		Events:    f.sink,
	}
	for _, m := range mutate {
		m(&deps)
	}

	orch, err := New(deps)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	f.orch = orch
	return f
}

func examPrep() models.ContentRequest {
	return models.ContentRequest{
		Platform:     models.PlatformInstagram,
		AudienceType: models.AudienceStudents,
		Tone:         models.ToneFOMO,
		Language:     models.DefaultLanguage,
		Topic:        "exam prep",
	}
}

var alice = models.Identity{UserID: "alice", Role: models.RoleCreator}
var bob = models.Identity{UserID: "bob", Role: models.RoleCreator}

func TestNewRequiresDeps(t *testing.T) {
	t.Parallel()

	full := Deps{
		Cache:     cache.New(cache.DefaultConfig()),
		Limiter:   ratelimit.New(ratelimit.DefaultConfig()),
		Generator: generation.NewClient(generation.NewTemplateProvider(), generation.DefaultConfig()),
		Store:     &store.BadgerStore{},
	}
	tests := []struct {
		name   string
		mutate func(*Deps)
	}{
		{"no cache", func(d *Deps) { d.Cache = nil }},
		{"no limiter", func(d *Deps) { d.Limiter = nil }},
		{"no generator", func(d *Deps) { d.Generator = nil }},
		{"no store", func(d *Deps) { d.Store = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := full
			tt.mutate(&d)
			if _, err := New(d); err == nil {
				t.Error("New() should fail")
			}
		})
	}

	o, err := New(full)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg := o.Config(); cfg.RequestTimeout != 8*time.Second || cfg.GenerationLanguage != "en" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestHandleFreshThenCached(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.orch.Handle(ctx, examPrep(), alice)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if first.Source != SourceFresh {
		t.Errorf("first Source = %s, want fresh", first.Source)
	}

	second, err := f.orch.Handle(ctx, examPrep(), alice)
	if err != nil {
		t.Fatalf("second Handle() error = %v", err)
	}
	if second.Source != SourceCache {
		t.Errorf("second Source = %s, want cache", second.Source)
	}
	if second.Response != first.Response {
		t.Error("cache hit should return the same pointer")
	}
	if got := f.provider.calls.Load(); got != 1 {
		t.Errorf("provider calls = %d, want 1", got)
	}

	gen := f.sink.ofType(models.EventContentGenerated)
	if len(gen) != 2 || gen[0].Cached || !gen[1].Cached {
		t.Errorf("generated events = %+v", gen)
	}
}

func TestHandleNormalizesBeforeFingerprint(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.orch.Handle(ctx, examPrep(), alice); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	shouted := examPrep()
	shouted.Tone = " FOMO "
	shouted.Topic = "  Exam   Prep "
	res, err := f.orch.Handle(ctx, shouted, alice)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if res.Source != SourceCache {
		t.Errorf("Source = %s, want cache", res.Source)
	}
}

func TestHandleConcurrentCallersShareOneGeneration(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.provider.gate = make(chan struct{})

	const callers = 50
	var wg sync.WaitGroup
	results := make([]Result, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.orch.Handle(context.Background(), examPrep(), alice)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(f.provider.gate)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d error = %v", i, err)
		}
	}
	if got := f.provider.calls.Load(); got != 1 {
		t.Errorf("provider calls = %d, want 1", got)
	}
	fresh := 0
	for _, r := range results {
		if r.Response != results[0].Response {
			t.Fatal("callers received different responses")
		}
		if r.Source == SourceFresh {
			fresh++
		}
	}
	if fresh != 1 {
		t.Errorf("fresh results = %d, want 1", fresh)
	}
}

func TestHandleInvalidToneHasNoSideEffects(t *testing.T) {
	t.Parallel()

	var lim *spyLimiter
	var c *spyCache
	f := newFixture(t, func(d *Deps) {
		lim = &spyLimiter{Limiter: d.Limiter}
		c = &spyCache{Cache: d.Cache}
		d.Limiter = lim
		d.Cache = c
	})

	req := examPrep()
	req.Tone = "shouty"
	_, err := f.orch.Handle(context.Background(), req, alice)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Handle() error = %v, want ValidationError", err)
	}
	if !verr.Err.HasField("tone") {
		t.Errorf("validation fields = %v, want tone", verr.Err.Details())
	}
	if lim.calls.Load() != 0 || c.calls.Load() != 0 {
		t.Errorf("limiter calls = %d, cache calls = %d, want 0", lim.calls.Load(), c.calls.Load())
	}
	if f.provider.calls.Load() != 0 {
		t.Error("provider should not be called")
	}
}

func TestHandleValidationCases(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		name  string
		edit  func(*models.ContentRequest)
		field string
	}{
		{"empty topic", func(r *models.ContentRequest) { r.Topic = "   " }, "topic"},
		{"unknown platform", func(r *models.ContentRequest) { r.Platform = "myspace" }, "platform"},
		{"unknown audience", func(r *models.ContentRequest) { r.AudienceType = "aliens" }, "audienceType"},
		{"unsupported language", func(r *models.ContentRequest) { r.Language = "xx" }, "language"},
		{"topic too long", func(r *models.ContentRequest) { r.Topic = strings.Repeat("a", 201) }, "topic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := examPrep()
			tt.edit(&req)
			_, err := f.orch.Handle(context.Background(), req, alice)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if !verr.Err.HasField(tt.field) {
				t.Errorf("fields = %v, want %s", verr.Err.Details(), tt.field)
			}
		})
	}
}

func TestHandleRateLimitsAfterQuota(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		if _, err := f.orch.Handle(ctx, examPrep(), alice); err != nil {
			t.Fatalf("request %d error = %v", i+1, err)
		}
	}

	_, err := f.orch.Handle(ctx, examPrep(), alice)
	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("101st request error = %v, want RateLimitError", err)
	}
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Error("RateLimitError should unwrap to ErrRateLimitExceeded")
	}
	if rlErr.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want > 0", rlErr.RetryAfter)
	}

	// Other users are unaffected.
	if _, err := f.orch.Handle(ctx, examPrep(), bob); err != nil {
		t.Errorf("bob error = %v", err)
	}
	if got := f.orch.RateLimitStatus(alice); got.Remaining != 0 || got.Limit != 100 || got.WindowSec != 3600 {
		t.Errorf("RateLimitStatus() = %+v", got)
	}
}

func TestHandleTransientFailuresAreUnavailable(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.provider.failAll.Store(true)

	_, err := f.orch.Handle(context.Background(), examPrep(), alice)
	if !errors.Is(err, ErrGenerationUnavailable) {
		t.Fatalf("Handle() error = %v, want ErrGenerationUnavailable", err)
	}
	if !errors.Is(err, generation.ErrRetriesExhausted) {
		t.Errorf("error should wrap ErrRetriesExhausted: %v", err)
	}
	if got := f.provider.calls.Load(); got != 3 {
		t.Errorf("provider calls = %d, want 3", got)
	}
}

func TestHandleServesDegradedStaleEntry(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.orch.Handle(ctx, examPrep(), alice)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	f.clock.Advance(2 * time.Hour)
	f.provider.failAll.Store(true)

	res, err := f.orch.Handle(ctx, examPrep(), bob)
	if err != nil {
		t.Fatalf("Handle() error = %v, want degraded result", err)
	}
	if res.Source != SourceDegraded || !res.Response.Metadata.Degraded {
		t.Errorf("Source = %s, Degraded = %v", res.Source, res.Response.Metadata.Degraded)
	}
	if res.Response.ContentID != first.Response.ContentID {
		t.Error("degraded result should carry the stale content")
	}
	if first.Response.Metadata.Degraded {
		t.Error("cached response must not be modified")
	}

	gen := f.sink.ofType(models.EventContentGenerated)
	last := gen[len(gen)-1]
	if !last.Cached || !last.Degraded {
		t.Errorf("degraded event = %+v", last)
	}
}

func TestHandleTimeoutLeavesFlightRunning(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(d *Deps) {
		d.Config.RequestTimeout = 50 * time.Millisecond
	})
	f.provider.gate = make(chan struct{})

	_, err := f.orch.Handle(context.Background(), examPrep(), alice)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Handle() error = %v, want ErrTimeout", err)
	}
	if errors.Is(err, ErrGenerationUnavailable) {
		t.Error("timeout must be distinct from unavailable")
	}

	close(f.provider.gate)

	fp := examPrep().Normalized().Fingerprint()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := f.cache.Get(fp); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("flight did not complete after caller timed out")
		}
		time.Sleep(10 * time.Millisecond)
	}

	res, err := f.orch.Handle(context.Background(), examPrep(), alice)
	if err != nil || res.Source != SourceCache {
		t.Errorf("Handle() after flight = %v, %v", res.Source, err)
	}
	if got := f.provider.calls.Load(); got != 1 {
		t.Errorf("provider calls = %d, want 1", got)
	}
}

type panicScorer struct{}

func (panicScorer) Score(string, scoring.Context) models.EngagementScore {
	panic("lexicon corrupted")
}

func (panicScorer) Suggest(string, models.EngagementScore, scoring.Context) []models.ImprovementSuggestion {
	return nil
}

type boundsScorer struct {
	score       models.EngagementScore
	suggestions []models.ImprovementSuggestion
}

func (s boundsScorer) Score(string, scoring.Context) models.EngagementScore { return s.score }

func (s boundsScorer) Suggest(string, models.EngagementScore, scoring.Context) []models.ImprovementSuggestion {
	return s.suggestions
}

func TestHandleScoringDefectsAreInternal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scorer Scorer
	}{
		{"panic", panicScorer{}},
		{"score above 100", boundsScorer{score: models.EngagementScore{Score: 150, Factors: []models.Factor{}}}},
		{"confidence above 1", boundsScorer{score: models.EngagementScore{Score: 90, Confidence: 2, Factors: []models.Factor{}}}},
		{"factor impact out of range", boundsScorer{score: models.EngagementScore{Score: 90, Factors: []models.Factor{{Name: "length", Impact: 11}}}}},
		{"too few suggestions", boundsScorer{score: models.EngagementScore{Score: 40, Factors: []models.Factor{}}}},
		{"suggestions above 85", boundsScorer{
			score:       models.EngagementScore{Score: 90, Factors: []models.Factor{}},
			suggestions: []models.ImprovementSuggestion{{Category: models.CategoryTone, Reasoning: "x"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, func(d *Deps) { d.Scorer = tt.scorer })

			_, err := f.orch.Handle(context.Background(), examPrep(), alice)
			if !errors.Is(err, ErrInternal) {
				t.Fatalf("Handle() error = %v, want ErrInternal", err)
			}
			if _, ok := f.cache.Get(examPrep().Normalized().Fingerprint()); ok {
				t.Error("defective result must not be cached")
			}
		})
	}
}

func TestHandleInstagramAlwaysHasHashtag(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.provider.fixed = "Exam prep season is here and the best spots in study group fill fast."

	res, err := f.orch.Handle(context.Background(), examPrep(), alice)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	md := res.Response.Metadata
	if len(md.Hashtags) == 0 {
		t.Fatalf("Hashtags empty, content = %q", res.Response.Content)
	}
	if md.Hashtags[0] != "#examprep" {
		t.Errorf("first hashtag = %q, want #examprep", md.Hashtags[0])
	}
	if s := res.Response.EngagementScore.Score; s < 0 || s > 100 {
		t.Errorf("score = %v outside [0,100]", s)
	}
	if md.WordCount == 0 || md.CharacterCount == 0 {
		t.Errorf("counts not populated: %+v", md)
	}
}

type prefixTranslator struct {
	calls atomic.Int64
}

func (p *prefixTranslator) Name() string { return "prefix" }

func (p *prefixTranslator) Translate(_ context.Context, text string, _, target models.Language) (string, error) {
	p.calls.Add(1)
	return "[" + string(target) + "] " + text, nil
}

func TestHandleTranslatesOnlyOtherLanguages(t *testing.T) {
	t.Parallel()
	tr := &prefixTranslator{}
	f := newFixture(t, func(d *Deps) { d.Translator = tr })
	ctx := context.Background()

	if _, err := f.orch.Handle(ctx, examPrep(), alice); err != nil {
		t.Fatalf("Handle(en) error = %v", err)
	}
	if tr.calls.Load() != 0 {
		t.Errorf("translator called for en request")
	}

	req := examPrep()
	req.Language = "es"
	res, err := f.orch.Handle(ctx, req, alice)
	if err != nil {
		t.Fatalf("Handle(es) error = %v", err)
	}
	if tr.calls.Load() != 1 {
		t.Errorf("translator calls = %d, want 1", tr.calls.Load())
	}
	if !strings.HasPrefix(res.Response.Content, "[es] ") {
		t.Errorf("content not translated: %q", res.Response.Content)
	}
	if res.Response.Metadata.Language != "es" {
		t.Errorf("Language = %q", res.Response.Metadata.Language)
	}
	if !strings.Contains(res.Response.Content, "#examprep") {
		t.Errorf("hashtag lost in translation: %q", res.Response.Content)
	}
}

func TestVariationsRankedAndChargedOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	out, err := f.orch.Variations(context.Background(), models.VariationsRequest{ContentRequest: examPrep(), Count: 3}, alice)
	if err != nil {
		t.Fatalf("Variations() error = %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	ids := map[string]bool{}
	for i, r := range out {
		ids[r.ContentID] = true
		if i > 0 && r.EngagementScore.Score > out[i-1].EngagementScore.Score {
			t.Errorf("not ranked: %v after %v", r.EngagementScore.Score, out[i-1].EngagementScore.Score)
		}
	}
	if len(ids) != 3 {
		t.Error("variations should have distinct content IDs")
	}
	if got := f.orch.RateLimitStatus(alice).Remaining; got != 99 {
		t.Errorf("Remaining = %d, want 99", got)
	}
	if f.cache.Len() != 0 {
		t.Error("variations must not be cached")
	}

	_, err = f.orch.Variations(context.Background(), models.VariationsRequest{ContentRequest: examPrep(), Count: 7}, alice)
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Err.HasField("count") {
		t.Errorf("Variations(7) error = %v, want count ValidationError", err)
	}
}

func TestImproveProducesChangedChild(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.orch.Handle(ctx, examPrep(), alice)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	parent := res.Response

	child, err := f.orch.Improve(ctx, parent.ContentID, models.ImproveRequest{Category: models.CategoryCallToAction}, alice)
	if err != nil {
		t.Fatalf("Improve() error = %v", err)
	}
	if child.ContentID == parent.ContentID {
		t.Error("improved content should have a new ID")
	}
	if child.Metadata.ParentID != parent.ContentID {
		t.Errorf("ParentID = %q, want %q", child.Metadata.ParentID, parent.ContentID)
	}
	if child.Content == parent.Content {
		t.Error("improved content should differ")
	}
	if len(f.sink.ofType(models.EventContentImproved)) != 1 {
		t.Error("expected one content_improved event")
	}
	if _, err := f.orch.Get(ctx, child.ContentID, alice); err != nil {
		t.Errorf("improved content not persisted: %v", err)
	}

	if _, err := f.orch.Improve(ctx, parent.ContentID, models.ImproveRequest{Category: "vibes"}, alice); err == nil {
		t.Error("unknown category should fail validation")
	}
	if _, err := f.orch.Improve(ctx, "missing", models.ImproveRequest{}, alice); !errors.Is(err, ErrNotFound) {
		t.Errorf("Improve(missing) error = %v, want ErrNotFound", err)
	}
}

func TestImproveRevisesUnchangedContent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.provider.fixed = "Exam prep is now. #examprep"
	ctx := context.Background()

	res, err := f.orch.Handle(ctx, examPrep(), alice)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	parent := res.Response

	child, err := f.orch.Improve(ctx, parent.ContentID, models.ImproveRequest{Category: models.CategoryCallToAction}, alice)
	if err != nil {
		t.Fatalf("Improve() error = %v", err)
	}
	if child.Content == parent.Content {
		t.Fatal("improved content should differ from the original")
	}
	if !strings.Contains(child.Content, revisionLines[models.CategoryCallToAction]) {
		t.Errorf("Content = %q, want the call-to-action revision", child.Content)
	}
	if child.Metadata.ParentID != parent.ContentID {
		t.Errorf("ParentID = %q, want %q", child.Metadata.ParentID, parent.ContentID)
	}
}

func TestReviseLeadsWhenCapCutsTheTail(t *testing.T) {
	t.Parallel()
	req := examPrep()
	req.Platform = models.PlatformLinkedIn
	previous := FormatForPlatform(req, strings.Repeat("word ", 700))

	out := revise(req, previous, models.CategoryTone)
	if sameText(out, previous) {
		t.Fatal("revise() returned the original text")
	}
	if !strings.HasPrefix(out, revisionLines[models.CategoryTone]) {
		t.Errorf("revision should lead a capped post, got %q", out[:60])
	}
}

func TestStoreBackedOperations(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.orch.Handle(ctx, examPrep(), alice)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	id := res.Response.ContentID

	if _, err := f.orch.Get(ctx, id, bob); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(bob) before access error = %v, want ErrNotFound", err)
	}
	// A cache hit grants bob access to the shared record.
	if _, err := f.orch.Handle(ctx, examPrep(), bob); err != nil {
		t.Fatalf("Handle(bob) error = %v", err)
	}
	if _, err := f.orch.Get(ctx, id, bob); err != nil {
		t.Errorf("Get(bob) after cache hit error = %v", err)
	}

	rec, err := f.orch.Save(ctx, id, alice)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !rec.Saved || rec.ExpiresAt != nil {
		t.Errorf("Save() = saved %v, expires %v", rec.Saved, rec.ExpiresAt)
	}

	tests := []struct {
		format models.ExportFormat
		check  func(string) bool
	}{
		{"", func(b string) bool { return b == res.Response.Content }},
		{models.ExportText, func(b string) bool { return b == res.Response.Content }},
		{models.ExportMarkdown, func(b string) bool { return strings.HasPrefix(b, "## Instagram post") }},
		{models.ExportJSON, func(b string) bool {
			var got models.ContentResponse
			return json.Unmarshal([]byte(b), &got) == nil && got.ContentID == id
		}},
	}
	for _, tt := range tests {
		payload, err := f.orch.Export(ctx, id, models.ExportRequest{Format: tt.format}, alice)
		if err != nil {
			t.Fatalf("Export(%q) error = %v", tt.format, err)
		}
		if !tt.check(payload.Body) {
			t.Errorf("Export(%q) body = %q", tt.format, payload.Body)
		}
	}
	if _, err := f.orch.Export(ctx, id, models.ExportRequest{Format: "pdf"}, alice); err == nil {
		t.Error("Export(pdf) should fail validation")
	}

	if err := f.orch.Copy(ctx, id, alice); err != nil {
		t.Errorf("Copy() error = %v", err)
	}
	if err := f.orch.Copy(ctx, "missing", alice); !errors.Is(err, ErrNotFound) {
		t.Errorf("Copy(missing) error = %v", err)
	}

	list, err := f.orch.List(ctx, alice, 0)
	if err != nil || len(list) != 1 {
		t.Errorf("List() = %d records, err %v", len(list), err)
	}

	for _, typ := range []models.EventType{models.EventContentSaved, models.EventContentCopied} {
		if len(f.sink.ofType(typ)) != 1 {
			t.Errorf("%s events = %d, want 1", typ, len(f.sink.ofType(typ)))
		}
	}
	exported := f.sink.ofType(models.EventContentExported)
	if len(exported) != 4 || exported[2].Format != "markdown" {
		t.Errorf("exported events = %+v", exported)
	}

	if err := f.orch.Delete(ctx, id, bob); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() by non-owner error = %v, want ErrNotFound", err)
	}
	if err := f.orch.Delete(ctx, id, alice); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := f.orch.Get(ctx, id, alice); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v", err)
	}
}
