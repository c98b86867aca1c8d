// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/contentpilot/internal/api"
	"github.com/tomtom215/contentpilot/internal/auth"
	"github.com/tomtom215/contentpilot/internal/authz"
	"github.com/tomtom215/contentpilot/internal/cache"
	"github.com/tomtom215/contentpilot/internal/config"
	"github.com/tomtom215/contentpilot/internal/logging"
	"github.com/tomtom215/contentpilot/internal/models"
	"github.com/tomtom215/contentpilot/internal/orchestrator"
	"github.com/tomtom215/contentpilot/internal/ratelimit"
	"github.com/tomtom215/contentpilot/internal/scoring"
	"github.com/tomtom215/contentpilot/internal/store"
	"github.com/tomtom215/contentpilot/internal/supervisor"
	"github.com/tomtom215/contentpilot/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("auth_mode", cfg.Auth.Mode).
		Str("generation_provider", cfg.Generation.Provider).
		Str("events_backend", cfg.Events.Backend).
		Msg("Starting ContentPilot with supervisor tree")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows all origins in production; set CORS_ORIGINS to restrict access")
	}

	contentStore, err := store.Open(store.Config{
		Path:           cfg.Store.Path,
		InMemory:       cfg.Store.InMemory,
		Retention:      cfg.Store.Retention,
		GCInterval:     cfg.Store.GCInterval,
		GCDiscardRatio: cfg.Store.GCDiscardRatio,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open content store")
	}
	defer func() {
		if err := contentStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing content store")
		}
	}()
	logging.Info().
		Str("path", cfg.Store.Path).
		Bool("in_memory", cfg.Store.InMemory).
		Dur("retention", cfg.Store.Retention).
		Msg("Content store opened")

	eventComponents, err := InitEvents(&cfg.Events)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize analytics events")
	}
	defer eventComponents.Close()

	generator, err := newGenerationClient(&cfg.Generation)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize generation client")
	}
	translator, err := newTranslator(&cfg.Translation)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize translator")
	}

	responseCache := cache.New(cache.Config{
		TTL:             cfg.Cache.TTL,
		StaleRetention:  cfg.Cache.StaleRetention,
		Capacity:        cfg.Cache.Capacity,
		CleanupInterval: cfg.Cache.CleanupInterval,
	})
	limiter := ratelimit.New(ratelimit.Config{
		Limit:           cfg.RateLimit.Limit,
		Window:          cfg.RateLimit.Window,
		CleanupInterval: cfg.RateLimit.CleanupInterval,
	})

	orch, err := orchestrator.New(orchestrator.Deps{
		Cache:      responseCache,
		Limiter:    limiter,
		Generator:  generator,
		Translator: translator,
		Scorer:     scoring.NewEngine(),
		Store:      contentStore,
		Events:     eventComponents.Sink(),
		Config: orchestrator.Config{
			RequestTimeout:     cfg.Orchestrator.RequestTimeout,
			FlightTimeout:      cfg.Orchestrator.FlightTimeout,
			CacheTTL:           cfg.Cache.TTL,
			GenerationLanguage: models.Language(cfg.Generation.Language),
			ListLimit:          cfg.Orchestrator.ListLimit,
		},
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create orchestrator")
	}
	logging.Info().
		Int("rate_limit", cfg.RateLimit.Limit).
		Dur("rate_window", cfg.RateLimit.Window).
		Dur("cache_ttl", cfg.Cache.TTL).
		Dur("request_timeout", cfg.Orchestrator.RequestTimeout).
		Msg("Orchestrator initialized")

	authenticator, err := auth.NewAuthenticator(&cfg.Auth)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authentication")
	}
	enforcer, err := authz.NewEnforcer(authz.Config{
		PolicyPath:     cfg.Authz.PolicyPath,
		ReloadInterval: cfg.Authz.ReloadInterval,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization")
	}
	defer enforcer.Close()

	handler := api.NewHandler(orch, healthChecks(contentStore, eventComponents), version)
	chiMiddleware := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		CORSMaxAge:         cfg.CORS.MaxAge,
		ThrottleEnabled:    cfg.Throttle.Enabled,
		ThrottleRequests:   cfg.Throttle.Requests,
		ThrottleWindow:     cfg.Throttle.Window,
	})
	router := api.NewRouter(handler, chiMiddleware, authenticator, enforcer)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   supervisor.DefaultTreeConfig().FailureBackoff,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	tree.AddDataService(responseCache)
	tree.AddDataService(limiter)
	tree.AddDataService(contentStore)
	logging.Info().Msg("Cache janitor, rate limiter janitor and store GC added to supervisor tree")

	eventComponents.AddToSupervisor(tree)

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// healthChecks builds the readiness probes reported by /health/ready.
func healthChecks(st *store.BadgerStore, ev *EventComponents) map[string]api.HealthCheck {
	checks := map[string]api.HealthCheck{
		"store": func(context.Context) error { return st.Ping() },
	}
	if ev != nil && ev.server != nil {
		checks["nats"] = func(context.Context) error {
			if !ev.server.IsRunning() {
				return errors.New("embedded NATS server is not running")
			}
			return nil
		}
	}
	return checks
}
