// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/contentpilot/internal/auth"
	"github.com/tomtom215/contentpilot/internal/authz"
	"github.com/tomtom215/contentpilot/internal/middleware"
	"github.com/tomtom215/contentpilot/internal/models"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authenticator auth.Authenticator
	enforcer      *authz.Enforcer
}

// NewRouter creates a router. All arguments are required.
func NewRouter(handler *Handler, mw *ChiMiddleware, authenticator auth.Authenticator, enforcer *authz.Enforcer) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		authenticator: authenticator,
		enforcer:      enforcer,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, http.StatusNotFound, models.CodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, http.StatusMethodNotAllowed, models.CodeBadRequest, "method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.Throttle())
		r.Use(auth.Middleware(router.authenticator))

		can := func(object, action string) func(http.Handler) http.Handler {
			return authz.Require(router.enforcer, object, action)
		}

		r.With(can(authz.ObjectRateLimit, authz.ActionRead)).Get("/ratelimit", router.handler.RateLimit)

		r.Route("/content", func(r chi.Router) {
			r.With(can(authz.ObjectContent, authz.ActionGenerate)).Post("/generate", router.handler.Generate)
			r.With(can(authz.ObjectContent, authz.ActionGenerate)).Post("/variations", router.handler.Variations)
			r.With(can(authz.ObjectContent, authz.ActionRead)).Get("/", router.handler.ListContent)

			r.Route("/{id}", func(r chi.Router) {
				r.With(can(authz.ObjectContent, authz.ActionRead)).Get("/", router.handler.GetContent)
				r.With(can(authz.ObjectContent, authz.ActionDelete)).Delete("/", router.handler.DeleteContent)
				r.With(can(authz.ObjectContent, authz.ActionImprove)).Post("/improve", router.handler.Improve)
				r.With(can(authz.ObjectContent, authz.ActionSave)).Post("/save", router.handler.Save)
				r.With(can(authz.ObjectContent, authz.ActionExport)).Post("/export", router.handler.Export)
				r.With(can(authz.ObjectContent, authz.ActionCopy)).Post("/copy", router.handler.Copy)
			})
		})
	})

	return r
}
