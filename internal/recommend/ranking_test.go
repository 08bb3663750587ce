// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"testing"

	"github.com/tomtom215/cinematch/internal/models"
)

func list(idList ...int64) []models.Movie {
	out := make([]models.Movie, len(idList))
	for i, id := range idList {
		out[i] = models.Movie{ID: id}
	}
	return out
}

func TestCombine(t *testing.T) {
	defaults := DefaultConfig().Weights

	tests := []struct {
		name    string
		cf, cbf []models.Movie
		limit   int
		weights HybridWeights
		want    []int64
	}{
		{
			name:    "consensus movie ranks first",
			cf:      list(10, 11, 12),
			cbf:     list(10, 13, 14),
			limit:   10,
			weights: defaults,
			// 10: 0.6+0.4; 11: 0.4; 13: 0.267; 12: 0.2; 14: 0.133
			want: []int64{10, 11, 13, 12, 14},
		},
		{
			name:    "collaborative outweighs content at equal position",
			cf:      list(1),
			cbf:     list(2),
			limit:   10,
			weights: defaults,
			want:    []int64{1, 2},
		},
		{
			name:    "equal scores keep first appearance with collaborative first",
			cf:      list(1),
			cbf:     list(2),
			limit:   10,
			weights: HybridWeights{Collaborative: 0.5, Content: 0.5},
			want:    []int64{1, 2},
		},
		{
			name:    "limit truncates",
			cf:      list(1, 2),
			cbf:     list(4, 5, 6),
			limit:   2,
			weights: defaults,
			// 1: 0.6; 4: 0.4; 2: 0.3
			want: []int64{1, 4},
		},
		{
			name:    "only content",
			cf:      nil,
			cbf:     list(7, 8),
			limit:   5,
			weights: defaults,
			want:    []int64{7, 8},
		},
		{
			name:    "both empty",
			limit:   5,
			weights: defaults,
			want:    []int64{},
		},
		{
			name:    "duplicates are merged",
			cf:      list(1, 2),
			cbf:     list(2, 1),
			limit:   5,
			weights: defaults,
			// 1: 0.6+0.2 = 0.8; 2: 0.3+0.4 = 0.7
			want: []int64{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Combine(tt.cf, tt.cbf, tt.limit, tt.weights))
			if !equalIDs(got, tt.want) {
				t.Errorf("Combine() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCombine_ConsensusProperty checks that the movie topping both lists
// ranks at or above every movie present in only one list.
func TestCombine_ConsensusProperty(t *testing.T) {
	w := DefaultConfig().Weights
	for n := 1; n <= 6; n++ {
		for m := 1; m <= 6; m++ {
			cf := list(100)
			for i := 1; i < n; i++ {
				cf = append(cf, models.Movie{ID: int64(i)})
			}
			cbf := list(100)
			for j := 1; j < m; j++ {
				cbf = append(cbf, models.Movie{ID: int64(50 + j)})
			}

			got := Combine(cf, cbf, n+m, w)
			if len(got) == 0 || got[0].ID != 100 {
				t.Errorf("n=%d m=%d: Combine() = %v, want 100 first", n, m, ids(got))
			}
		}
	}
}

func TestPopular(t *testing.T) {
	catalog := []models.Movie{
		movie(1, "Few", 8.0, 5, "Drama"),
		movie(2, "Some", 8.0, 50, "Drama"),
		movie(3, "Many", 8.0, 500, "Drama"),
	}

	t.Run("equal average orders by count", func(t *testing.T) {
		got := ids(Popular(catalog, 2, nil, nil))
		if want := []int64{3, 2}; !equalIDs(got, want) {
			t.Errorf("Popular() = %v, want %v", got, want)
		}
	})

	t.Run("average dominates count", func(t *testing.T) {
		c := append([]models.Movie{movie(4, "Gem", 9.1, 2, "Drama")}, catalog...)
		got := ids(Popular(c, 2, nil, nil))
		if want := []int64{4, 3}; !equalIDs(got, want) {
			t.Errorf("Popular() = %v, want %v", got, want)
		}
	})

	t.Run("full tie orders by id", func(t *testing.T) {
		c := []models.Movie{movie(9, "B", 7, 10), movie(8, "A", 7, 10)}
		got := ids(Popular(c, 5, nil, nil))
		if want := []int64{8, 9}; !equalIDs(got, want) {
			t.Errorf("Popular() = %v, want %v", got, want)
		}
	})

	t.Run("unrated movies are skipped", func(t *testing.T) {
		c := []models.Movie{movie(1, "Unrated", 0, 0), movie(2, "Rated", 5, 1)}
		got := ids(Popular(c, 5, nil, nil))
		if want := []int64{2}; !equalIDs(got, want) {
			t.Errorf("Popular() = %v, want %v", got, want)
		}
	})

	t.Run("exclusions and disliked genres", func(t *testing.T) {
		c := []models.Movie{
			movie(1, "A", 9, 10, "Horror"),
			movie(2, "B", 8, 10, "Comedy"),
			movie(3, "C", 7, 10, "Drama"),
			movie(4, "D", 6, 10, "Drama", "HORROR"),
		}
		got := ids(Popular(c, 10, models.NewMovieIDSet(2), models.NewGenreSet("horror")))
		if want := []int64{3}; !equalIDs(got, want) {
			t.Errorf("Popular() = %v, want %v", got, want)
		}
	})

	t.Run("zero limit", func(t *testing.T) {
		if got := Popular(catalog, 0, nil, nil); len(got) != 0 {
			t.Errorf("Popular(0) = %v, want empty", ids(got))
		}
	})
}

func TestEligible(t *testing.T) {
	catalog := []models.Movie{
		movie(1, "Rated", 8, 10, "Drama"),
		movie(2, "Watched", 8, 10, "Comedy"),
		movie(3, "Scary", 8, 10, "Thriller", "Horror"),
		movie(4, "Fine", 8, 10, "Comedy"),
		movie(5, "No genres", 8, 10),
	}
	rated := models.NewMovieIDSet(1)
	watched := models.NewMovieIDSet(2)

	tests := []struct {
		name     string
		disliked models.GenreSet
		want     []int64
	}{
		{name: "authenticated with disliked genre", disliked: models.NewGenreSet("hOrRoR"), want: []int64{4, 5}},
		{name: "anonymous skips genre step", disliked: nil, want: []int64{3, 4, 5}},
		{name: "multiple disliked genres", disliked: models.NewGenreSet("Horror", "Comedy"), want: []int64{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Eligible(catalog, rated, watched, tt.disliked))
			if !equalIDs(got, tt.want) {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}
