// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package supervisor provides process supervision for the serve mode of
Cinematch using suture v4.

# Overview

The tree separates background work from the operational HTTP endpoint:

	RootSupervisor ("cinematch")
	├── WorkerSupervisor ("worker-layer")
	│   ├── RefreshService (if REFRESH_ENABLED)
	│   └── MaintenanceService (memory and badger cache backends)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (metrics and health)

A worker that keeps failing is restarted with backoff; the API layer keeps
serving /metrics and /health throughout.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.TreeConfig{})
	if err != nil {
	    return err
	}
	tree.AddWorker(services.NewRefreshService(engine, refreshCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return tree.Serve(ctx)

# Logging

Supervisor events (service panics, restarts, backoff) are emitted through
sutureslog, which writes to the zerolog-backed slog.Logger passed to
NewSupervisorTree.

# Configuration

TreeConfig maps onto suture.Spec. Zero fields take the values from
DefaultTreeConfig.
*/
package supervisor
