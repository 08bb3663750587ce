// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"sort"

	"github.com/tomtom215/cinematch/internal/models"
)

// fused is a movie with its accumulated position score.
type fused struct {
	movie models.Movie
	score float64
}

// Combine merges the collaborative and content-based ranked lists. Each
// movie at position i of a list of length N earns (N-i)/N times the list's
// weight; scores add up per movie id. The result is sorted by score
// descending, deduplicated and cut to limit. Equal scores keep first
// appearance order with the collaborative list read first.
func Combine(cf, cbf []models.Movie, limit int, w HybridWeights) []models.Movie {
	index := make(map[int64]int, len(cf)+len(cbf))
	entries := make([]fused, 0, len(cf)+len(cbf))

	accumulate := func(list []models.Movie, weight float64) {
		n := float64(len(list))
		for i := range list {
			score := (n - float64(i)) / n * weight
			if pos, ok := index[list[i].ID]; ok {
				entries[pos].score += score
				continue
			}
			index[list[i].ID] = len(entries)
			entries = append(entries, fused{movie: list[i], score: score})
		}
	}
	accumulate(cf, w.Collaborative)
	accumulate(cbf, w.Content)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]models.Movie, len(entries))
	for i := range entries {
		out[i] = entries[i].movie
	}
	return out
}
