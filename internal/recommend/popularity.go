// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"sort"

	"github.com/tomtom215/cinematch/internal/models"
)

// Popular returns up to limit rated movies ordered by average rating
// descending, then rating count descending, then id ascending. Movies in
// excluded or carrying a disliked genre are skipped. Anonymous callers pass
// a nil disliked set.
func Popular(catalog []models.Movie, limit int, excluded models.MovieIDSet, disliked models.GenreSet) []models.Movie {
	out := make([]models.Movie, 0, len(catalog))
	for i := range catalog {
		m := &catalog[i]
		if m.RatingCount < 1 || excluded.Contains(m.ID) || m.HasAnyGenre(disliked) {
			continue
		}
		out = append(out, *m)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		if a.RatingCount != b.RatingCount {
			return a.RatingCount > b.RatingCount
		}
		return a.ID < b.ID
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
