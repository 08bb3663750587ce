// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// Remote is a cache reached over the network. Load returns a nil value and
// a nil error on a miss; any error is a backend failure.
type Remote interface {
	Name() string
	Load(ctx context.Context, key string) ([]byte, error)
	Store(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Breaker guards a Remote with a circuit breaker. Failures and rejections
// degrade to misses so an unavailable cache never fails a request; while
// the breaker is open the remote is not contacted at all.
//
// DETERMINISM NOTE: the breaker uses real time (via sony/gobreaker) for
// its open timeout and count interval.
type Breaker struct {
	remote Remote
	cb     *gobreaker.CircuitBreaker[[]byte]
	name   string
	logger zerolog.Logger
}

// NewBreaker wraps remote. The breaker opens after cfg.MaxFailures
// consecutive failures and probes again after cfg.OpenTimeout.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreaker(remote Remote, cfg *config.BreakerConfig, logger zerolog.Logger) *Breaker {
	name := "cache-" + remote.Name()
	b := &Breaker{
		remote: remote,
		name:   name,
		logger: logger.With().Str("circuit_breaker", name).Logger(),
	}

	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 1
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	b.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("cache circuit breaker state transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
	})
	return b
}

// Get returns the cached value for key, or a miss when the remote fails or
// the breaker rejects the call.
func (b *Breaker) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := b.cb.Execute(func() ([]byte, error) {
		return b.remote.Load(ctx, key)
	})
	if err != nil {
		b.recordFailure(err, "get", key)
		metrics.RecordCacheLookup(b.remote.Name(), false)
		return nil, false
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	hit := value != nil
	metrics.RecordCacheLookup(b.remote.Name(), hit)
	return value, hit
}

// Set stores value under key for ttl. Failures are logged and dropped.
func (b *Breaker) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.remote.Store(ctx, key, value, ttl)
	})
	if err != nil {
		b.recordFailure(err, "set", key)
		return
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
}

// State returns the breaker state: "closed", "half-open" or "open".
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// Close closes the remote.
func (b *Breaker) Close() error {
	return b.remote.Close()
}

func (b *Breaker) recordFailure(err error, op, key string) {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		b.logger.Debug().Err(err).Str("op", op).Msg("cache request rejected")
		return
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	b.logger.Warn().Err(err).Str("op", op).Str("key", key).Msg("remote cache request failed")
}
