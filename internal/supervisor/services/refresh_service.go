// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PreferenceRefresher re-derives user preferences from rating history.
// Satisfied by *recommend.Engine.
type PreferenceRefresher interface {
	RefreshAll(ctx context.Context) (refreshed, failed int, err error)
}

// RefreshServiceConfig holds configuration for the refresh service.
type RefreshServiceConfig struct {
	// OnStartup runs a sweep as soon as the service starts.
	OnStartup bool

	// Interval is the time between sweeps. Default: 6h
	Interval time.Duration

	// SweepTimeout bounds one sweep. Default: 30m
	SweepTimeout time.Duration
}

// RefreshService runs preference refresh sweeps on a schedule under
// supervision. A failed sweep is logged and retried at the next tick; it
// never stops the service.
type RefreshService struct {
	refresher PreferenceRefresher
	config    RefreshServiceConfig
	logger    zerolog.Logger
}

// NewRefreshService creates a refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRefreshService(refresher PreferenceRefresher, cfg RefreshServiceConfig, logger zerolog.Logger) *RefreshService {
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	if cfg.SweepTimeout <= 0 {
		cfg.SweepTimeout = 30 * time.Minute
	}
	return &RefreshService{
		refresher: refresher,
		config:    cfg,
		logger:    logger.With().Str("service", "preference-refresh").Logger(),
	}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("on_startup", s.config.OnStartup).
		Dur("interval", s.config.Interval).
		Msg("preference refresh service starting")

	if s.config.OnStartup {
		s.sweep(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("preference refresh service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep refreshes every user once.
func (s *RefreshService) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	start := time.Now()
	refreshed, failed, err := s.refresher.RefreshAll(sweepCtx)
	if err != nil {
		s.logger.Warn().Err(err).
			Int("refreshed", refreshed).
			Msg("preference refresh sweep failed (will retry on schedule)")
		return
	}

	event := s.logger.Info()
	if failed > 0 {
		event = s.logger.Warn()
	}
	event.
		Int("refreshed", refreshed).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("preference refresh sweep complete")
}

// String returns the service name for logging.
func (s *RefreshService) String() string {
	return "preference-refresh"
}
