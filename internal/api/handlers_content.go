// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/contentpilot/internal/middleware"
	"github.com/tomtom215/contentpilot/internal/models"
	"github.com/tomtom215/contentpilot/internal/orchestrator"
)

// Header names set on generation responses.
const (
	HeaderCache    = "X-Cache"
	HeaderDegraded = "X-Content-Degraded"
)

var cacheHeader = map[orchestrator.Source]string{
	orchestrator.SourceFresh:    "MISS",
	orchestrator.SourceCache:    "HIT",
	orchestrator.SourceShared:   "SHARED",
	orchestrator.SourceDegraded: "STALE",
}

// Generate handles POST /content/generate.
//
// @Summary Generate content
// @Description Generates platform content with an engagement score and suggestions. Identical concurrent requests share one generation; repeats within the cache TTL are served from cache.
// @Tags Content
// @Accept json
// @Produce json
// @Param request body models.ContentRequest true "Content request"
// @Success 201 {object} models.ContentResponse "Freshly generated"
// @Success 200 {object} models.ContentResponse "Served from cache or a shared generation"
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /content/generate [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.ContentRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		badRequest(w, r, err)
		return
	}

	res, err := h.content.Handle(r.Context(), req, identity(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set(HeaderCache, cacheHeader[res.Source])
	if res.Response.Metadata.Degraded {
		w.Header().Set(HeaderDegraded, "true")
	}
	status := http.StatusOK
	if res.Source == orchestrator.SourceFresh {
		status = http.StatusCreated
	}
	middleware.WriteJSON(w, status, res.Response)
}

// Variations handles POST /content/variations.
//
// @Summary Generate ranked variations
// @Tags Content
// @Accept json
// @Produce json
// @Param request body models.VariationsRequest true "Content request with count (2-5)"
// @Success 201 {array} models.ContentResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /content/variations [post]
func (h *Handler) Variations(w http.ResponseWriter, r *http.Request) {
	var vr models.VariationsRequest
	if err := decodeJSON(w, r, &vr, true); err != nil {
		badRequest(w, r, err)
		return
	}

	out, err := h.content.Variations(r.Context(), vr, identity(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, out)
}

// Improve handles POST /content/{id}/improve. The body is optional.
//
// @Summary Improve stored content
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Content ID"
// @Param request body models.ImproveRequest false "Suggestion category to apply"
// @Success 201 {object} models.ContentResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /content/{id}/improve [post]
func (h *Handler) Improve(w http.ResponseWriter, r *http.Request) {
	var ir models.ImproveRequest
	if err := decodeJSON(w, r, &ir, false); err != nil {
		badRequest(w, r, err)
		return
	}

	resp, err := h.content.Improve(r.Context(), chi.URLParam(r, "id"), ir, identity(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, resp)
}

// GetContent handles GET /content/{id}.
//
// @Summary Get stored content
// @Tags Content
// @Produce json
// @Param id path string true "Content ID"
// @Success 200 {object} models.StoredContent
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /content/{id} [get]
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	rec, err := h.content.Get(r.Context(), chi.URLParam(r, "id"), identity(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, rec)
}

// ListContent handles GET /content?limit=N.
//
// @Summary List the caller's content, newest first
// @Tags Content
// @Produce json
// @Param limit query int false "Maximum records"
// @Success 200 {array} models.StoredContent
// @Security BearerAuth
// @Router /content [get]
func (h *Handler) ListContent(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		badRequest(w, r, err)
		return
	}

	recs, err := h.content.List(r.Context(), identity(r), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, recs)
}

// DeleteContent handles DELETE /content/{id}.
//
// @Summary Delete stored content
// @Tags Content
// @Param id path string true "Content ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /content/{id} [delete]
func (h *Handler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	if err := h.content.Delete(r.Context(), chi.URLParam(r, "id"), identity(r)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Save handles POST /content/{id}/save.
//
// @Summary Save content so it does not expire
// @Tags Content
// @Produce json
// @Param id path string true "Content ID"
// @Success 200 {object} models.StoredContent
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /content/{id}/save [post]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	rec, err := h.content.Save(r.Context(), chi.URLParam(r, "id"), identity(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, rec)
}

// Export handles POST /content/{id}/export. The body is optional and
// defaults to text.
//
// @Summary Export content
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Content ID"
// @Param request body models.ExportRequest false "text, markdown or json"
// @Success 200 {object} models.ExportPayload
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /content/{id}/export [post]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var er models.ExportRequest
	if err := decodeJSON(w, r, &er, false); err != nil {
		badRequest(w, r, err)
		return
	}

	payload, err := h.content.Export(r.Context(), chi.URLParam(r, "id"), er, identity(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, payload)
}

// Copy handles POST /content/{id}/copy.
//
// @Summary Record a copy of the content
// @Tags Content
// @Param id path string true "Content ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /content/{id}/copy [post]
func (h *Handler) Copy(w http.ResponseWriter, r *http.Request) {
	if err := h.content.Copy(r.Context(), chi.URLParam(r, "id"), identity(r)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RateLimit handles GET /ratelimit.
//
// @Summary Get the caller's generation quota
// @Tags Content
// @Produce json
// @Success 200 {object} models.RateLimitStatus
// @Security BearerAuth
// @Router /ratelimit [get]
func (h *Handler) RateLimit(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.content.RateLimitStatus(identity(r)))
}
