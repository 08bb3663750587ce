// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "errors"

var (
	// ErrInvalidLimit is returned for a negative result limit.
	ErrInvalidLimit = errors.New("recommend: limit must not be negative")

	// ErrNoDataProvider is returned by NewEngine without a data provider.
	ErrNoDataProvider = errors.New("recommend: data provider not set")
)
