// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Backend names, also used as the cache_type metric label.
const (
	BackendNone   = config.CacheBackendNone
	BackendMemory = config.CacheBackendMemory
	BackendBadger = config.CacheBackendBadger
	BackendRedis  = config.CacheBackendRedis
)

// Backend is a response cache that owns resources.
type Backend interface {
	recommend.ResponseCache
	Close() error
}

// Maintainer is implemented by backends that need periodic housekeeping,
// such as dropping expired entries or reclaiming disk space.
type Maintainer interface {
	Maintain(ctx context.Context) error
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Entries   int64 `json:"entries"`
}

// HitRate returns the hit percentage, 0 when nothing was looked up.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// New builds the backend selected by cfg.Backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg *config.CacheConfig, logger zerolog.Logger) (Backend, error) {
	logger = logger.With().Str("component", "cache").Str("backend", cfg.Backend).Logger()

	switch cfg.Backend {
	case BackendNone, "":
		return Noop{}, nil
	case BackendMemory:
		return NewMemory(cfg.MemoryCapacity), nil
	case BackendBadger:
		b, err := OpenBadger(&cfg.Badger, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case BackendRedis:
		return NewBreaker(NewRedis(&cfg.Redis), &cfg.Breaker, logger), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Noop caches nothing.
type Noop struct{}

// Get always misses.
func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }

// Set discards the value.
func (Noop) Set(context.Context, string, []byte, time.Duration) {}

// Close does nothing.
func (Noop) Close() error { return nil }

var (
	_ Backend    = Noop{}
	_ Backend    = (*Memory)(nil)
	_ Backend    = (*Badger)(nil)
	_ Backend    = (*Breaker)(nil)
	_ Maintainer = (*Memory)(nil)
	_ Maintainer = (*Badger)(nil)
)
