// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package middleware provides the chi-compatible HTTP middleware of the
operational endpoint.

  - RequestID: assigns or propagates X-Request-ID and stores it in the
    logging context
  - RequestLogger: one zerolog entry per request, with the logger attached
    to the request context
  - PrometheusMetrics: request count, latency and in-flight gauge labelled by
    chi route pattern

Typical order:

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
