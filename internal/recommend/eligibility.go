// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"github.com/tomtom215/cinematch/internal/models"
)

// Eligible returns the catalog movies the viewer has neither rated nor
// watched and that carry no disliked genre. Catalog order is preserved.
// A nil or empty disliked set skips the genre step, which is the anonymous
// case.
func Eligible(catalog []models.Movie, rated, watched models.MovieIDSet, disliked models.GenreSet) []models.Movie {
	out := make([]models.Movie, 0, len(catalog))
	for i := range catalog {
		m := &catalog[i]
		if rated.Contains(m.ID) || watched.Contains(m.ID) {
			continue
		}
		if m.HasAnyGenre(disliked) {
			continue
		}
		out = append(out, *m)
	}
	return out
}
