// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"time"

	"github.com/tomtom215/cinematch/internal/models"
)

// ViewerState is the orchestration state derived from the viewer's data.
type ViewerState string

const (
	// StateAnonymous is a request without identity.
	StateAnonymous ViewerState = "anonymous"

	// StateCold is an authenticated viewer with no ratings and no watch
	// history.
	StateCold ViewerState = "cold"

	// StateWarm is an authenticated viewer with some history.
	StateWarm ViewerState = "warm"
)

// String implements fmt.Stringer.
func (s ViewerState) String() string {
	return string(s)
}

// Response is the result of a recommendation request.
type Response struct {
	// Movies are ordered best first. Never nil.
	Movies []models.Movie `json:"movies"`

	// Metadata describes how the list was produced.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains information about how a response was built.
type ResponseMetadata struct {
	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id"`

	// Viewer is the viewer's string form.
	Viewer string `json:"viewer"`

	// State is the orchestration state used.
	State ViewerState `json:"state"`

	// Candidates is the eligible candidate count (warm only).
	Candidates int `json:"candidates"`

	// Collaborative and ContentBased are the lengths of the two ranked
	// lists before fusion.
	Collaborative int `json:"collaborative"`
	ContentBased  int `json:"content_based"`

	// Backfilled is the number of popular movies appended.
	Backfilled int `json:"backfilled"`

	// CacheHit indicates the response came from the cache.
	CacheHit bool `json:"cache_hit"`

	// LatencyMS is the request latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}
