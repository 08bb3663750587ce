// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package services provides suture.Service wrappers for Cinematch components.

Each wrapper translates a component lifecycle into suture's context-aware
Serve pattern and identifies itself through fmt.Stringer.

# Available Services

HTTPServerService wraps an *http.Server. ListenAndServe runs in a goroutine
and context cancellation triggers a bounded graceful Shutdown.

RefreshService calls RefreshAll on a PreferenceRefresher (the recommendation
engine) on a fixed interval, optionally once at startup. A failed sweep is
logged and retried at the next tick.

MaintenanceService calls Maintain on a cache backend on a fixed interval:
expired-entry eviction for the memory backend and value log GC for Badger.

# Return Values

Serve returns ctx.Err() on cancellation so the supervisor does not restart a
service that was asked to stop. Any other error triggers a restart.
*/
package services
