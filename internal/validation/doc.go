// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator and converts field errors into
// readable messages. Field names in messages come from the koanf or json
// struct tag, so a configuration error reads "backend must be one of: ..."
// rather than naming the Go field.
//
// # Usage
//
//	if verr := validation.ValidateStruct(&rating); verr != nil {
//	    return fmt.Errorf("invalid rating: %w", verr)
//	}
//
// It is used by config.Config.Validate and by the database write paths for
// ratings and watch entries.
package validation
