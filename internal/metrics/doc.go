// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package metrics provides Prometheus instrumentation for Cinematch.

All collectors are registered on the default registry through promauto, so
importing the package is enough; serve mode exposes them at /metrics.

# Available Metrics

HTTP (operational endpoint):
  - http_requests_total{method, route, status}
  - http_request_duration_seconds{method, route}
  - http_active_requests

Database:
  - duckdb_query_duration_seconds{operation, table}
  - duckdb_query_errors_total{operation, table, error_type}

Recommendation:
  - recommend_requests_total{state}: anonymous, cold or warm
  - recommend_operation_duration_seconds{operation}
  - recommend_operation_errors_total{operation}
  - recommend_tier_items_total{tier}: collaborative, content or popular
  - recommend_engine_failures_total{engine}
  - recommend_factorization_duration_seconds

Cache:
  - cache_hits_total{cache_type}, cache_misses_total{cache_type}
  - cache_entries{cache_type}, cache_evictions_total{cache_type}

Circuit breaker:
  - circuit_breaker_state{name}: 0 closed, 1 half-open, 2 open
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_state_transitions_total{name, from_state, to_state}

Preference refresh:
  - preference_refresh_runs_total{result}: success, partial or error
  - preference_refresh_users_total
  - preference_refresh_last_success_timestamp

# Example PromQL

	# Share of requests served to cold viewers
	sum(rate(recommend_requests_total{state="cold"}[1h])) / sum(rate(recommend_requests_total[1h]))

	# Cache hit rate
	sum(rate(cache_hits_total[5m])) / (sum(rate(cache_hits_total[5m])) + sum(rate(cache_misses_total[5m])))

	# p95 recommendation latency
	histogram_quantile(0.95, rate(recommend_operation_duration_seconds_bucket{operation="recommend"}[5m]))

# Cardinality

Labels carry enumerations only. HTTP metrics use the matched route pattern,
and database error labels are truncated to 50 characters.
*/
package metrics
