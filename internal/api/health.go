// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// Pinger is a dependency the readiness probe can check.
// Satisfied by *database.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the health endpoints.
type Handler struct {
	checks       map[string]Pinger
	readyTimeout time.Duration
	startTime    time.Time
}

// NewHandler creates a Handler. A non-positive readyTimeout defaults to two
// seconds.
func NewHandler(checks map[string]Pinger, readyTimeout time.Duration) *Handler {
	if readyTimeout <= 0 {
		readyTimeout = 2 * time.Second
	}
	return &Handler{
		checks:       checks,
		readyTimeout: readyTimeout,
		startTime:    time.Now(),
	}
}

// HealthLive reports that the process is up, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	uptime := time.Since(h.startTime).Seconds()
	metrics.AppUptime.Set(uptime)
	respondJSON(w, http.StatusOK, &Response{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": uptime,
		},
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// HealthReady pings every dependency and answers 503 when any fails.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	ready := true
	results := make(map[string]string, len(names))
	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), h.readyTimeout)
		err := h.checks[name].Ping(ctx)
		cancel()

		if err != nil {
			ready = false
			results[name] = err.Error()
			logging.Ctx(r.Context()).Warn().Err(err).Str("check", name).Msg("readiness check failed")
			continue
		}
		results[name] = "ok"
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	respondJSON(w, code, &Response{
		Status: status,
		Data: map[string]interface{}{
			"checks":         results,
			"ready_to_serve": ready,
			"uptime":         time.Since(h.startTime).Seconds(),
		},
		Metadata: Metadata{Timestamp: time.Now()},
	})
}
