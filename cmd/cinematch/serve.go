// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
)

// cacheMaintenanceInterval is how often expired cache entries are dropped
// and the Badger value log is collected.
const cacheMaintenanceInterval = 5 * time.Minute

func serveCmd(*flag.FlagSet) func(context.Context, *app, io.Writer) error {
	return func(ctx context.Context, a *app, _ io.Writer) error {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		tree, err := buildTree(a)
		if err != nil {
			return err
		}

		a.logger.Info().
			Str("version", version).
			Str("metrics_addr", a.cfg.Server.MetricsAddr).
			Bool("refresh_enabled", a.cfg.Refresh.Enabled).
			Msg("Starting Cinematch with supervisor tree")

		err = tree.Serve(ctx)
		if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
			a.logger.Warn().Int("count", len(report)).Msg("Services did not stop within the shutdown timeout")
		}
		// A canceled context is a requested shutdown.
		if err != nil && ctx.Err() == nil {
			return err
		}
		a.logger.Info().Msg("Cinematch stopped")
		return nil
	}
}

// buildTree wires the long-running services of serve mode.
func buildTree(a *app) (*supervisor.SupervisorTree, error) {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(a.logger), supervisor.TreeConfig{
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return nil, err
	}

	if a.cfg.Refresh.Enabled {
		tree.AddWorker(services.NewRefreshService(a.engine, services.RefreshServiceConfig{
			OnStartup: a.cfg.Refresh.OnStartup,
			Interval:  a.cfg.Refresh.Interval,
		}, a.logger))
	}

	if m, ok := a.cache.(cache.Maintainer); ok {
		tree.AddWorker(services.NewMaintenanceService("cache-maintenance", m, cacheMaintenanceInterval, a.logger))
	}

	if a.cfg.Server.MetricsAddr != "" {
		server := &http.Server{
			Addr: a.cfg.Server.MetricsAddr,
			Handler: api.NewRouter(
				api.RouterConfig{RateLimit: a.cfg.Server.RateLimit},
				map[string]api.Pinger{"database": a.db},
				a.logger,
			),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService(server, a.cfg.Server.ShutdownTimeout, a.logger))
	}

	return tree, nil
}
