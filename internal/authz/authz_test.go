// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package authz

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/contentpilot/internal/auth"
	"github.com/tomtom215/contentpilot/internal/models"
)

func TestEmbeddedPolicy(t *testing.T) {
	t.Parallel()

	e, err := NewEnforcer(Config{})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	defer e.Close()

	tests := []struct {
		role   models.Role
		object string
		action string
		want   bool
	}{
		{models.RoleViewer, ObjectContent, ActionRead, true},
		{models.RoleViewer, ObjectRateLimit, ActionRead, true},
		{models.RoleViewer, ObjectContent, ActionGenerate, false},
		{models.RoleViewer, ObjectContent, ActionCopy, false},
		{models.RoleCreator, ObjectContent, ActionRead, true},
		{models.RoleCreator, ObjectContent, ActionGenerate, true},
		{models.RoleCreator, ObjectContent, ActionImprove, true},
		{models.RoleCreator, ObjectContent, ActionExport, true},
		{models.RoleCreator, ObjectContent, ActionDelete, true},
		{models.RoleCreator, "settings", ActionRead, false},
		{models.RoleAdmin, ObjectContent, ActionGenerate, true},
		{models.RoleAdmin, "settings", "write", true},
		{"intruder", ObjectContent, ActionRead, false},
	}
	for _, tt := range tests {
		got, err := e.Enforce(string(tt.role), tt.object, tt.action)
		if err != nil {
			t.Fatalf("Enforce: %v", err)
		}
		if got != tt.want {
			t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.role, tt.object, tt.action, got, tt.want)
		}
	}
}

func TestPolicyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "policy.csv")
	if err := os.WriteFile(path, []byte("p, viewer, content, generate\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	e, err := NewEnforcer(Config{PolicyPath: path})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	defer e.Close()

	if ok, _ := e.Enforce("viewer", ObjectContent, ActionGenerate); !ok {
		t.Error("file policy not applied")
	}
	if ok, _ := e.Enforce("viewer", ObjectContent, ActionRead); ok {
		t.Error("embedded policy leaked into file policy")
	}

	if _, err := NewEnforcer(Config{PolicyPath: filepath.Join(t.TempDir(), "missing.csv")}); err == nil {
		t.Error("missing policy file accepted")
	}
}

func TestRequire(t *testing.T) {
	t.Parallel()

	e, err := NewEnforcer(Config{})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}

	h := Require(e, ObjectContent, ActionGenerate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name     string
		identity *models.Identity
		want     int
	}{
		{"creator allowed", &models.Identity{UserID: "u1", Role: models.RoleCreator}, http.StatusNoContent},
		{"admin allowed", &models.Identity{UserID: "u2", Role: models.RoleAdmin}, http.StatusNoContent},
		{"viewer forbidden", &models.Identity{UserID: "u3", Role: models.RoleViewer}, http.StatusForbidden},
		{"no identity", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.identity != nil {
				r = r.WithContext(auth.ContextWithIdentity(r.Context(), *tt.identity))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
