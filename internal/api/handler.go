// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package api

import (
	"context"
	"time"

	"github.com/tomtom215/contentpilot/internal/models"
	"github.com/tomtom215/contentpilot/internal/orchestrator"
)

// ContentService is the orchestrator surface the handlers use.
type ContentService interface {
	Handle(ctx context.Context, req models.ContentRequest, id models.Identity) (orchestrator.Result, error)
	Variations(ctx context.Context, vr models.VariationsRequest, id models.Identity) ([]*models.ContentResponse, error)
	Improve(ctx context.Context, contentID string, ir models.ImproveRequest, id models.Identity) (*models.ContentResponse, error)
	Get(ctx context.Context, contentID string, id models.Identity) (*models.StoredContent, error)
	List(ctx context.Context, id models.Identity, limit int) ([]*models.StoredContent, error)
	Delete(ctx context.Context, contentID string, id models.Identity) error
	Save(ctx context.Context, contentID string, id models.Identity) (*models.StoredContent, error)
	Export(ctx context.Context, contentID string, er models.ExportRequest, id models.Identity) (models.ExportPayload, error)
	Copy(ctx context.Context, contentID string, id models.Identity) error
	RateLimitStatus(id models.Identity) models.RateLimitStatus
}

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

// Handler holds the HTTP handlers.
type Handler struct {
	content   ContentService
	checks    map[string]HealthCheck
	version   string
	startTime time.Time
}

// NewHandler creates the handlers. checks feed /health/ready.
func NewHandler(content ContentService, checks map[string]HealthCheck, version string) *Handler {
	if checks == nil {
		checks = map[string]HealthCheck{}
	}
	return &Handler{
		content:   content,
		checks:    checks,
		version:   version,
		startTime: time.Now(),
	}
}
