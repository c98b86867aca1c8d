// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "contentpilot"

var (
	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_active_requests",
			Help:      "Number of in-flight API requests",
		},
	)

	APIThrottled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_throttled_total",
			Help:      "Requests rejected by the per-IP HTTP throttle",
		},
		[]string{"endpoint"},
	)

	// Generation metrics
	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_requests_total",
			Help:      "Generation calls by provider and final outcome",
		},
		[]string{"provider", "outcome"},
	)

	GenerationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_attempts_total",
			Help:      "Individual provider attempts by outcome",
		},
		[]string{"provider", "outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Wall time of a generation call including retries",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"provider"},
	)

	GenerationAttemptsPerCall = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_attempts_per_call",
			Help:      "Number of attempts a generation call needed",
			Buckets:   []float64{1, 2, 3, 4, 5},
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Pipeline metrics
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Response cache lookups by result",
		},
		[]string{"result"},
	)

	RateLimitDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratelimit_decisions_total",
			Help:      "Per-user rate limiter decisions",
		},
		[]string{"decision"},
	)

	SingleflightShared = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_shared_total",
			Help:      "Requests that reused an in-flight generation for the same fingerprint",
		},
	)

	PipelineOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_outcomes_total",
			Help:      "Orchestrator results by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	EngagementScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "engagement_score",
			Help:      "Distribution of predicted engagement scores",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"platform"},
	)

	// Side-effect metrics
	EventsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_emitted_total",
			Help:      "Analytics events by type and result (published, dropped, failed)",
		},
		[]string{"type", "result"},
	)

	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Persistent store operations by result",
		},
		[]string{"operation", "result"},
	)

	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authz_decisions_total",
			Help:      "Authorization decisions by action and result",
		},
		[]string{"action", "result"},
	)
)

// RecordAPIRequest records a completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordThrottled counts a per-IP throttle rejection.
func RecordThrottled(endpoint string) {
	APIThrottled.WithLabelValues(endpoint).Inc()
}

// RecordGeneration records the final outcome of a generation call.
func RecordGeneration(provider, outcome string, duration time.Duration, attempts int) {
	GenerationRequests.WithLabelValues(provider, outcome).Inc()
	GenerationDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if attempts > 0 {
		GenerationAttemptsPerCall.Observe(float64(attempts))
	}
}

// RecordGenerationAttempt records one provider attempt.
func RecordGenerationAttempt(provider, outcome string) {
	GenerationAttempts.WithLabelValues(provider, outcome).Inc()
}

// SetCircuitBreakerState records a breaker transition.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCacheOperation records a cache lookup result: hit, miss or stale.
func RecordCacheOperation(result string) {
	CacheOperations.WithLabelValues(result).Inc()
}

// RecordRateLimitDecision records an allowed or denied admission.
func RecordRateLimitDecision(allowed bool) {
	if allowed {
		RateLimitDecisions.WithLabelValues("allowed").Inc()
		return
	}
	RateLimitDecisions.WithLabelValues("denied").Inc()
}

// RecordSingleflightShared counts a caller that joined an in-flight generation.
func RecordSingleflightShared() {
	SingleflightShared.Inc()
}

// RecordPipelineOutcome records how an orchestrator operation ended.
func RecordPipelineOutcome(operation, outcome string) {
	PipelineOutcomes.WithLabelValues(operation, outcome).Inc()
}

// RecordEngagementScore observes a fresh score.
func RecordEngagementScore(platform string, score float64) {
	EngagementScore.WithLabelValues(platform).Observe(score)
}

// RecordEvent records an analytics event emission result.
func RecordEvent(eventType, result string) {
	EventsEmitted.WithLabelValues(eventType, result).Inc()
}

// RecordStoreOperation records a persistent store operation.
func RecordStoreOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	StoreOperations.WithLabelValues(operation, result).Inc()
}

// RecordAuthzDecision records an authorization allow or deny.
func RecordAuthzDecision(action string, allowed bool) {
	if allowed {
		AuthzDecisions.WithLabelValues(action, "allowed").Inc()
		return
	}
	AuthzDecisions.WithLabelValues(action, "denied").Inc()
}
