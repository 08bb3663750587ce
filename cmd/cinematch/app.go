// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// app holds the components shared by every command.
type app struct {
	cfg    *config.Config
	db     *database.DB
	cache  cache.Backend // nil when response caching is off
	engine *recommend.Engine
	logger zerolog.Logger
}

// newApp configures logging to logOut, opens the store and the response
// cache, and builds the engine.
func newApp(cfg *config.Config, logOut io.Writer) (*app, error) {
	logCfg := logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    logOut,
	}
	logging.Init(logCfg)
	logger := logging.New(logCfg)

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a := &app{cfg: cfg, db: db, logger: logger}

	var opts []recommend.Option
	if cfg.CacheEnabled() {
		backend, err := cache.New(&cfg.Cache, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize response cache: %w", err)
		}
		a.cache = backend
		opts = append(opts, recommend.WithCache(backend))
		logger.Debug().Str("backend", cfg.Cache.Backend).Dur("ttl", cfg.Recommend.Cache.TTL).Msg("Response cache enabled")
	}

	engine, err := recommend.NewEngine(db, &cfg.Recommend, logger, opts...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create recommendation engine: %w", err)
	}
	a.engine = engine
	return a, nil
}

// Close releases the cache and the database.
func (a *app) Close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Error closing response cache")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Error closing database")
		}
	}
}
