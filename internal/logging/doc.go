// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package logging provides centralized zerolog-based structured logging for
// Cinematch.
//
// A global logger serves package-level call sites (the database layer, the
// CLI); components that are constructed explicitly, such as the
// recommendation engine and the supervisor tree, receive a zerolog.Logger
// built with New.
//
// # Quick Start
//
//	import "github.com/tomtom215/cinematch/internal/logging"
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//	logging.Info().Int("movies", n).Msg("Dataset imported")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Preference refresh failed")
//
// # Configuration
//
// The logging section of the application config (LOG_LEVEL, LOG_FORMAT,
// LOG_CALLER) maps onto Config. JSON is the production format; console is
// meant for a terminal.
//
// # Request IDs
//
// ContextWithRequestID attaches an id that Ctx adds to every entry as
// request_id. The engine reuses the id from the context when present so a
// response's metadata can be matched to its log lines.
//
// # slog Bridge
//
// NewSlogLogger adapts a zerolog.Logger to *slog.Logger for libraries that
// only speak slog, notably sutureslog in the supervisor tree.
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
