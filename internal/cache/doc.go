// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package cache provides the response cache backends used by the
recommendation engine.

Every backend implements recommend.ResponseCache: values are encoded
responses stored with a TTL, and any backend failure is reported as a miss.
A cache can make a response stale for at most its TTL; it can never make a
request fail.

# Backends

  - memory: in-process LRU with per-entry TTL (Memory)
  - badger: embedded BadgerDB with native TTL, optionally on disk so the
    cache survives restarts (Badger)
  - redis: shared Redis server behind a circuit breaker (Redis, Breaker)
  - none: caches nothing (Noop)

New builds the backend named by config.CacheConfig.Backend.

# Circuit Breaker

Breaker wraps any Remote with sony/gobreaker. After the configured number
of consecutive failures the breaker opens and calls return misses without
touching the network until the open timeout elapses. State transitions are
logged and exported as circuit_breaker_* metrics.

# Maintenance

Backends implementing Maintainer need periodic housekeeping: Memory drops
expired entries, Badger runs value log garbage collection. The supervisor
runs Maintain on an interval in serve mode.

# Metrics

Lookups are counted in cache_hits_total and cache_misses_total with the
backend name as the cache_type label.
*/
package cache
