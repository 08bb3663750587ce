// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - DuckDB query performance
// - Recommendation requests by viewer state and tier
// - Scoring engine failures and factorization latency
// - Response cache efficiency
// - Circuit breaker around the shared cache
// - The preference refresh service
// - The operational HTTP endpoint

var (
	// HTTP Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served by the operational endpoint",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Number of HTTP requests currently in flight",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests by viewer state",
		},
		[]string{"state"}, // "anonymous", "cold", "warm"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_operation_duration_seconds",
			Help:    "Duration of recommendation engine operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"}, // "recommend", "trending", "similar", "explain", "refresh"
	)

	RecommendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_operation_errors_total",
			Help: "Total number of recommendation operations that returned an error",
		},
		[]string{"operation"},
	)

	RecommendTierItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_tier_items_total",
			Help: "Movies contributed to responses per tier",
		},
		[]string{"tier"}, // "collaborative", "content", "popular"
	)

	EngineFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_engine_failures_total",
			Help: "Scoring engine failures contained by the orchestrator",
		},
		[]string{"engine"},
	)

	FactorizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_factorization_duration_seconds",
			Help:    "Wall-clock time of one rating matrix factorization",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "memory", "badger", "redis"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Preference Refresh Metrics
	PreferenceRefreshRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_refresh_runs_total",
			Help: "Total number of preference refresh sweeps",
		},
		[]string{"result"}, // "success", "partial", "error"
	)

	PreferenceRefreshUsers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "preference_refresh_users_total",
			Help: "Total number of users whose preferences were refreshed",
		},
	)

	PreferenceRefreshLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "preference_refresh_last_success_timestamp",
			Help: "Unix timestamp of the last fully successful refresh sweep",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records one served HTTP request. route is the matched
// route pattern, never the raw path.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordOperation records the latency and outcome of an engine operation.
func RecordOperation(operation string, duration time.Duration, err error) {
	RecommendDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		RecommendErrors.WithLabelValues(operation).Inc()
	}
}

// RecordRecommendation counts a request by viewer state and the number of
// movies each tier contributed.
func RecordRecommendation(state string, collaborative, content, popular int) {
	RecommendRequests.WithLabelValues(state).Inc()
	if collaborative > 0 {
		RecommendTierItems.WithLabelValues("collaborative").Add(float64(collaborative))
	}
	if content > 0 {
		RecommendTierItems.WithLabelValues("content").Add(float64(content))
	}
	if popular > 0 {
		RecommendTierItems.WithLabelValues("popular").Add(float64(popular))
	}
}

// RecordEngineFailure counts a contained scoring engine failure.
func RecordEngineFailure(engine string) {
	EngineFailures.WithLabelValues(engine).Inc()
}

// RecordCacheLookup records a hit or miss for the given cache backend.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordCircuitBreakerTransition records a breaker state change. State
// values follow the gauge encoding: 0 closed, 1 half-open, 2 open.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	switch to {
	case "closed":
		CircuitBreakerState.WithLabelValues(name).Set(0)
	case "half-open":
		CircuitBreakerState.WithLabelValues(name).Set(1)
	case "open":
		CircuitBreakerState.WithLabelValues(name).Set(2)
	}
}

// RecordPreferenceRefresh records one refresh sweep.
func RecordPreferenceRefresh(refreshed, failed int, err error) {
	PreferenceRefreshUsers.Add(float64(refreshed))
	switch {
	case err != nil:
		PreferenceRefreshRuns.WithLabelValues("error").Inc()
	case failed > 0:
		PreferenceRefreshRuns.WithLabelValues("partial").Inc()
	default:
		PreferenceRefreshRuns.WithLabelValues("success").Inc()
		PreferenceRefreshLastSuccess.Set(float64(time.Now().Unix()))
	}
}
