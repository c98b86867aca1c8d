// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/contentpilot/internal/auth"
	"github.com/tomtom215/contentpilot/internal/authz"
	"github.com/tomtom215/contentpilot/internal/cache"
	"github.com/tomtom215/contentpilot/internal/generation"
	"github.com/tomtom215/contentpilot/internal/models"
	"github.com/tomtom215/contentpilot/internal/orchestrator"
	"github.com/tomtom215/contentpilot/internal/ratelimit"
	"github.com/tomtom215/contentpilot/internal/store"
	"github.com/tomtom215/contentpilot/internal/validation"
)

const generateBody = `{"platform":"instagram","audienceType":"students","tone":"fomo","language":"en","topic":"exam prep"}`

func newTestRouter(t *testing.T, content ContentService, mw *ChiMiddlewareConfig, checks map[string]HealthCheck) http.Handler {
	t.Helper()

	enforcer, err := authz.NewEnforcer(authz.Config{})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	if mw == nil {
		mw = &ChiMiddlewareConfig{CORSAllowedOrigins: []string{"*"}}
	}
	authn := auth.NewHeaderAuthenticator("", "", models.RoleCreator)
	return NewRouter(NewHandler(content, checks, "test"), NewChiMiddleware(mw), authn, enforcer).SetupChi()
}

// newRealRouter wires the handlers to a real orchestrator with offline
// generation and an in-memory store.
func newRealRouter(t *testing.T) http.Handler {
	t.Helper()

	st, err := store.Open(store.Config{InMemory: true})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	noSleep := generation.WithSleep(func(ctx context.Context, _ time.Duration) error { return ctx.Err() })
	orch, err := orchestrator.New(orchestrator.Deps{
		Cache:     cache.New(cache.DefaultConfig()),
		Limiter:   ratelimit.New(ratelimit.DefaultConfig()),
		Generator: generation.NewClient(generation.NewTemplateProvider(), generation.DefaultConfig(), noSleep),
		Store:     st,
	})
	if err != nil {
		t.Fatalf("orchestrator.New: %v", err)
	}
	return newTestRouter(t, orch, nil, nil)
}

func do(t *testing.T, h http.Handler, method, path, body, user, role string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		r.Header.Set(auth.DefaultUserHeader, user)
	}
	if role != "" {
		r.Header.Set(auth.DefaultRoleHeader, role)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func TestGenerateThenCacheHit(t *testing.T) {
	t.Parallel()

	h := newRealRouter(t)

	first := do(t, h, http.MethodPost, "/api/v1/content/generate", generateBody, "alice", "")
	if first.Code != http.StatusCreated {
		t.Fatalf("first status = %d: %s", first.Code, first.Body.String())
	}
	if got := first.Header().Get(HeaderCache); got != "MISS" {
		t.Errorf("first X-Cache = %q, want MISS", got)
	}
	resp := decode[models.ContentResponse](t, first)
	if resp.ContentID == "" || len(resp.Metadata.Hashtags) == 0 {
		t.Errorf("response = %+v", resp)
	}
	if resp.EngagementScore.Score < 0 || resp.EngagementScore.Score > 100 {
		t.Errorf("score = %v", resp.EngagementScore.Score)
	}

	second := do(t, h, http.MethodPost, "/api/v1/content/generate", generateBody, "alice", "")
	if second.Code != http.StatusOK || second.Header().Get(HeaderCache) != "HIT" {
		t.Errorf("second status = %d, X-Cache = %q", second.Code, second.Header().Get(HeaderCache))
	}
	if got := decode[models.ContentResponse](t, second); got.ContentID != resp.ContentID {
		t.Errorf("cached contentId = %q, want %q", got.ContentID, resp.ContentID)
	}
}

func TestStoredContentFlow(t *testing.T) {
	t.Parallel()

	h := newRealRouter(t)
	gen := do(t, h, http.MethodPost, "/api/v1/content/generate", generateBody, "alice", "")
	id := decode[models.ContentResponse](t, gen).ContentID
	base := "/api/v1/content/" + id

	if rec := do(t, h, http.MethodGet, base, "", "alice", ""); rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, base, "", "mallory", ""); rec.Code != http.StatusNotFound {
		t.Errorf("other user get status = %d, want 404", rec.Code)
	}

	saved := do(t, h, http.MethodPost, base+"/save", "", "alice", "")
	if rec := decode[models.StoredContent](t, saved); !rec.Saved || rec.ExpiresAt != nil {
		t.Errorf("saved record = %+v", rec)
	}

	exp := do(t, h, http.MethodPost, base+"/export", `{"format":"markdown"}`, "alice", "")
	payload := decode[models.ExportPayload](t, exp)
	if payload.Format != models.ExportMarkdown || !strings.HasPrefix(payload.Body, "## ") {
		t.Errorf("export = %+v", payload)
	}
	if rec := do(t, h, http.MethodPost, base+"/export", "", "alice", ""); decode[models.ExportPayload](t, rec).Format != models.ExportText {
		t.Errorf("default export format not text: %s", rec.Body.String())
	}

	if rec := do(t, h, http.MethodPost, base+"/copy", "", "alice", ""); rec.Code != http.StatusNoContent {
		t.Errorf("copy status = %d", rec.Code)
	}

	improved := do(t, h, http.MethodPost, base+"/improve", `{"category":"tone"}`, "alice", "")
	if improved.Code != http.StatusCreated {
		t.Fatalf("improve status = %d: %s", improved.Code, improved.Body.String())
	}
	if child := decode[models.ContentResponse](t, improved); child.Metadata.ParentID != id {
		t.Errorf("improved parentId = %q, want %q", child.Metadata.ParentID, id)
	}

	list := decode[[]models.StoredContent](t, do(t, h, http.MethodGet, "/api/v1/content?limit=10", "", "alice", ""))
	if len(list) != 2 {
		t.Errorf("list = %d records, want 2", len(list))
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/content?limit=-1", "", "alice", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("negative limit status = %d", rec.Code)
	}

	if rec := do(t, h, http.MethodDelete, base, "", "alice", ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, base, "", "alice", ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", rec.Code)
	}
}

func TestVariations(t *testing.T) {
	t.Parallel()

	h := newRealRouter(t)
	body := strings.TrimSuffix(generateBody, "}") + `,"count":3}`
	rec := do(t, h, http.MethodPost, "/api/v1/content/variations", body, "alice", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	out := decode[[]models.ContentResponse](t, rec)
	if len(out) != 3 {
		t.Fatalf("variations = %d, want 3", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].EngagementScore.Score > out[i-1].EngagementScore.Score {
			t.Errorf("variations not ranked: %v then %v", out[i-1].EngagementScore.Score, out[i].EngagementScore.Score)
		}
	}
}

func TestRateLimitEndpoint(t *testing.T) {
	t.Parallel()

	h := newRealRouter(t)
	do(t, h, http.MethodPost, "/api/v1/content/generate", generateBody, "alice", "")

	status := decode[models.RateLimitStatus](t, do(t, h, http.MethodGet, "/api/v1/ratelimit", "", "alice", "viewer"))
	if status.Limit != 100 || status.Remaining != 99 || status.WindowSec != 3600 {
		t.Errorf("status = %+v", status)
	}
}

func TestAuthAndRoles(t *testing.T) {
	t.Parallel()

	h := newRealRouter(t)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		user   string
		role   string
		want   int
	}{
		{"no identity", http.MethodPost, "/api/v1/content/generate", generateBody, "", "", http.StatusUnauthorized},
		{"unknown role", http.MethodGet, "/api/v1/content", "", "alice", "root", http.StatusUnauthorized},
		{"viewer cannot generate", http.MethodPost, "/api/v1/content/generate", generateBody, "alice", "viewer", http.StatusForbidden},
		{"viewer cannot delete", http.MethodDelete, "/api/v1/content/x", "", "alice", "viewer", http.StatusForbidden},
		{"viewer can list", http.MethodGet, "/api/v1/content", "", "alice", "viewer", http.StatusOK},
		{"admin can generate", http.MethodPost, "/api/v1/content/generate", generateBody, "root", "admin", http.StatusCreated},
		{"health needs no identity", http.MethodGet, "/api/v1/health/live", "", "", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body, tt.user, tt.role)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestRequestBodies(t *testing.T) {
	t.Parallel()

	h := newRealRouter(t)
	big := `{"topic":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	tests := []struct {
		name string
		body string
		ct   string
		want int
	}{
		{"empty", "", "application/json", http.StatusBadRequest},
		{"malformed", "{", "application/json", http.StatusBadRequest},
		{"too large", big, "application/json", http.StatusRequestEntityTooLarge},
		{"wrong content type", generateBody, "text/plain", http.StatusBadRequest},
		{"invalid tone", strings.Replace(generateBody, "fomo", "shouty", 1), "application/json", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/v1/content/generate", bytes.NewBufferString(tt.body))
			r.Header.Set("Content-Type", tt.ct)
			r.Header.Set(auth.DefaultUserHeader, "alice")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	rec := do(t, h, http.MethodPost, "/api/v1/content/generate", strings.Replace(generateBody, "fomo", "shouty", 1), "alice", "")
	body := decode[models.ErrorResponse](t, rec)
	if body.Code != models.CodeValidation || !strings.Contains(fmt.Sprint(body.Details), "tone") {
		t.Errorf("validation body = %+v", body)
	}
}

// fakeContent returns err from every operation, or res from Handle.
type fakeContent struct {
	ContentService
	res orchestrator.Result
	err error
}

func (f *fakeContent) Handle(context.Context, models.ContentRequest, models.Identity) (orchestrator.Result, error) {
	return f.res, f.err
}

func (f *fakeContent) Copy(context.Context, string, models.Identity) error {
	return f.err
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	verr := validation.ValidateContentRequest(&models.ContentRequest{})
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		retryAfter string
	}{
		{"validation", &orchestrator.ValidationError{Err: verr}, http.StatusBadRequest, models.CodeValidation, ""},
		{"rate limited", &orchestrator.RateLimitError{RetryAfter: 1500 * time.Millisecond, Limit: 100}, http.StatusTooManyRequests, models.CodeRateLimitExceeded, "2"},
		{"rate limited sub-second", &orchestrator.RateLimitError{RetryAfter: 10 * time.Millisecond, Limit: 100}, http.StatusTooManyRequests, models.CodeRateLimitExceeded, "1"},
		{"unavailable", fmt.Errorf("wrap: %w", orchestrator.ErrGenerationUnavailable), http.StatusServiceUnavailable, models.CodeGenerationUnavailable, ""},
		{"timeout", orchestrator.ErrTimeout, http.StatusGatewayTimeout, models.CodeTimeout, ""},
		{"not found", orchestrator.ErrNotFound, http.StatusNotFound, models.CodeNotFound, ""},
		{"internal", orchestrator.ErrInternal, http.StatusInternalServerError, models.CodeInternal, ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, models.CodeInternal, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newTestRouter(t, &fakeContent{err: tt.err}, nil, nil)
			rec := do(t, h, http.MethodPost, "/api/v1/content/generate", generateBody, "alice", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decode[models.ErrorResponse](t, rec)
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
			if body.RequestID == "" {
				t.Error("requestId missing")
			}
			if got := rec.Header().Get("Retry-After"); got != tt.retryAfter {
				t.Errorf("Retry-After = %q, want %q", got, tt.retryAfter)
			}
		})
	}
}

func TestDegradedHeaders(t *testing.T) {
	t.Parallel()

	resp := &models.ContentResponse{ContentID: "c1", Metadata: models.ContentMetadata{Degraded: true}}
	h := newTestRouter(t, &fakeContent{res: orchestrator.Result{Response: resp, Source: orchestrator.SourceDegraded}}, nil, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/content/generate", generateBody, "alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(HeaderDegraded) != "true" || rec.Header().Get(HeaderCache) != "STALE" {
		t.Errorf("headers = %v", rec.Header())
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	checks := map[string]HealthCheck{
		"store":  func(context.Context) error { return nil },
		"events": func(context.Context) error { return errors.New("nats down") },
	}
	h := newTestRouter(t, &fakeContent{}, nil, checks)

	if rec := do(t, h, http.MethodGet, "/api/v1/health/live", "", "", ""); rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}

	rec := do(t, h, http.MethodGet, "/api/v1/health/ready", "", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d, want 503", rec.Code)
	}
	body := decode[models.HealthResponse](t, rec)
	if body.Checks["store"] != "ok" || body.Checks["events"] != "nats down" {
		t.Errorf("checks = %v", body.Checks)
	}
}

func TestThrottle(t *testing.T) {
	t.Parallel()

	mw := &ChiMiddlewareConfig{ThrottleEnabled: true, ThrottleRequests: 2, ThrottleWindow: time.Minute}
	h := newTestRouter(t, &fakeContent{}, mw, nil)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = do(t, h, http.MethodPost, "/api/v1/content/x/copy", "", "alice", "")
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", last.Code)
	}
	if decode[models.ErrorResponse](t, last).Code != models.CodeRateLimitExceeded {
		t.Errorf("body = %s", last.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/health/live", "", "", ""); rec.Code != http.StatusOK {
		t.Errorf("health throttled: %d", rec.Code)
	}
}

func TestMetricsAndUnknownRoutes(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &fakeContent{}, nil, nil)
	if rec := do(t, h, http.MethodGet, "/metrics", "", "", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "contentpilot_") {
		t.Errorf("metrics status = %d", rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/nowhere", "", "", "")
	if rec.Code != http.StatusNotFound || decode[models.ErrorResponse](t, rec).Code != models.CodeNotFound {
		t.Errorf("unknown route = %d %s", rec.Code, rec.Body.String())
	}
}
