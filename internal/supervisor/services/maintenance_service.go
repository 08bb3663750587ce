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

// Maintainer performs one housekeeping pass. Satisfied by the memory and
// Badger cache backends.
type Maintainer interface {
	Maintain(ctx context.Context) error
}

// MaintenanceService calls Maintain on an interval.
type MaintenanceService struct {
	target   Maintainer
	name     string
	interval time.Duration
	logger   zerolog.Logger
}

// NewMaintenanceService creates a service named name. A non-positive
// interval defaults to five minutes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMaintenanceService(name string, target Maintainer, interval time.Duration, logger zerolog.Logger) *MaintenanceService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &MaintenanceService{
		target:   target,
		name:     name,
		interval: interval,
		logger:   logger.With().Str("service", name).Logger(),
	}
}

// Serve implements suture.Service.
func (s *MaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.target.Maintain(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("maintenance pass failed")
			}
		}
	}
}

// String returns the service name for logging.
func (s *MaintenanceService) String() string {
	return s.name
}
