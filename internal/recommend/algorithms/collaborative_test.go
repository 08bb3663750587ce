// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/cinematch/internal/models"
)

// tasteRatings builds two taste clusters with small per-user variation so
// the matrix has full rank. Users 1-5 love movies 1-3 and dislike 4-6,
// users 6-10 the opposite. User 1 has not seen movies 3 and 6.
func tasteRatings() []models.Rating {
	var out []models.Rating
	add := func(u, m int64, s float64) {
		out = append(out, models.Rating{UserID: u, MovieID: m, Score: s})
	}
	for u := int64(1); u <= 10; u++ {
		high := 9 - 0.5*float64(u%2)
		low := 1 + 0.5*float64(u%3)
		for m := int64(1); m <= 6; m++ {
			if u == 1 && (m == 3 || m == 6) {
				continue
			}
			loves := (m <= 3) == (u <= 5)
			if loves {
				add(u, m, high)
			} else {
				add(u, m, low)
			}
		}
	}
	return out
}

func catalog(ids ...int64) []models.Movie {
	out := make([]models.Movie, len(ids))
	for i, id := range ids {
		out[i] = models.Movie{ID: id, Title: "movie"}
	}
	return out
}

func newTestCollaborative() *Collaborative {
	return NewCollaborative(DefaultCollaborativeConfig(), zerolog.Nop())
}

func TestCollaborative_Recommend(t *testing.T) {
	// Two factors capture the clusters; the remaining ones are discarded.
	cfg := DefaultCollaborativeConfig()
	cfg.MaxRank = 2
	c := NewCollaborative(cfg, zerolog.Nop())
	ratings := tasteRatings()

	got, err := c.Recommend(context.Background(), 1, ratings, catalog(3, 6), 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != 3 {
		t.Errorf("top pick = %d, want 3 (liked by similar users)", got[0].ID)
	}

	scored, err := c.Predict(context.Background(), 1, ratings, catalog(3, 6))
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if scored[0].Score < 3 || scored[0].Score-scored[1].Score < 2 {
		t.Errorf("Predict() = %+v, want a clear preference for movie 3", scored)
	}
}

func TestCollaborative_ShortCircuits(t *testing.T) {
	c := newTestCollaborative()
	ratings := tasteRatings()

	tests := []struct {
		name    string
		userID  int64
		ratings []models.Rating
	}{
		{"too few ratings system-wide", 1, ratings[:9]},
		{"user has no ratings", 99, ratings},
		{"no ratings at all", 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Recommend(context.Background(), tt.userID, tt.ratings, catalog(3, 6), 5)
			if err != nil || len(got) != 0 {
				t.Errorf("Recommend() = %v, %v; want empty, nil", got, err)
			}
		})
	}
}

func TestCollaborative_SingleMovieHasNoRank(t *testing.T) {
	c := newTestCollaborative()
	var ratings []models.Rating
	for u := int64(1); u <= 12; u++ {
		ratings = append(ratings, models.Rating{UserID: u, MovieID: 1, Score: 7})
	}

	scored, err := c.Predict(context.Background(), 1, ratings, catalog(1))
	if err != nil || scored != nil {
		t.Errorf("Predict() = %v, %v; want nil, nil", scored, err)
	}
}

func TestCollaborative_RestrictsToCandidates(t *testing.T) {
	c := newTestCollaborative()

	scored, err := c.Predict(context.Background(), 1, tasteRatings(), catalog(6, 42))
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if len(scored) != 1 || scored[0].MovieID != 6 {
		t.Errorf("Predict() = %+v, want only movie 6 (42 is not in the matrix)", scored)
	}
}

func TestCollaborative_Deterministic(t *testing.T) {
	c := newTestCollaborative()
	ratings := tasteRatings()
	cands := catalog(1, 2, 3, 4, 5, 6)

	first, err := c.Predict(context.Background(), 1, ratings, cands)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := c.Predict(context.Background(), 1, ratings, cands)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("run %d differs at %d: %+v vs %+v", i, j, first[j], again[j])
			}
		}
	}
}

func TestCollaborative_TieBreakByMovieID(t *testing.T) {
	c := newTestCollaborative()
	var ratings []models.Rating
	// Movies 7 and 8 are never rated by user 1 and have identical columns.
	for u := int64(1); u <= 4; u++ {
		ratings = append(ratings,
			models.Rating{UserID: u, MovieID: 1, Score: 5},
			models.Rating{UserID: u, MovieID: 2, Score: float64(u)},
		)
		if u != 1 {
			ratings = append(ratings,
				models.Rating{UserID: u, MovieID: 8, Score: 6},
				models.Rating{UserID: u, MovieID: 7, Score: 6},
			)
		}
	}

	scored, err := c.Predict(context.Background(), 1, ratings, catalog(8, 7))
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("len = %d, want 2", len(scored))
	}
	if scored[0].MovieID != 7 {
		t.Errorf("equal scores must order by movie id, got %+v", scored)
	}
}

func TestCollaborative_MatrixBudget(t *testing.T) {
	cfg := DefaultCollaborativeConfig()
	cfg.MaxMatrixCells = 4
	c := NewCollaborative(cfg, zerolog.Nop())

	_, err := c.Predict(context.Background(), 1, tasteRatings(), catalog(3))
	if !errors.Is(err, ErrMatrixTooLarge) {
		t.Fatalf("Predict() error = %v, want ErrMatrixTooLarge", err)
	}

	got, err := c.Recommend(context.Background(), 1, tasteRatings(), catalog(3), 5)
	if !errors.Is(err, ErrMatrixTooLarge) || len(got) != 0 {
		t.Errorf("Recommend() = %v, %v; want empty and ErrMatrixTooLarge", got, err)
	}
}

func TestCollaborative_CanceledContext(t *testing.T) {
	c := newTestCollaborative()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A canceled context may race with a fast factorization; either outcome
	// must leave Recommend returning a list without panicking.
	got, err := c.Recommend(ctx, 1, tasteRatings(), catalog(3, 6), 5)
	if got == nil {
		t.Error("Recommend() must return a non-nil slice")
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("Recommend() error = %v, want nil or context.Canceled", err)
	}
}

func TestSortScored(t *testing.T) {
	tests := []struct {
		name   string
		scored []ScoredMovie
		want   []int64
	}{
		{
			name:   "noise below resolution ties by id",
			scored: []ScoredMovie{{MovieID: 6, Score: 3.99e-15}, {MovieID: 3, Score: 8.88e-16}},
			want:   []int64{3, 6},
		},
		{
			name:   "negative noise ties by id",
			scored: []ScoredMovie{{MovieID: 9, Score: -1e-13}, {MovieID: 4, Score: 2e-14}},
			want:   []int64{4, 9},
		},
		{
			name:   "real differences order by score",
			scored: []ScoredMovie{{MovieID: 3, Score: 0.2}, {MovieID: 6, Score: 0.5}, {MovieID: 1, Score: -0.1}},
			want:   []int64{6, 3, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sortScored(tt.scored)
			for i, id := range tt.want {
				if tt.scored[i].MovieID != id {
					t.Fatalf("order = %+v, want ids %v", tt.scored, tt.want)
				}
			}
		})
	}
}

func TestReconstructRow_FullRankReproducesMatrix(t *testing.T) {
	a := mat.NewDense(3, 3, []float64{
		5, 0, 1,
		4, 2, 0,
		0, 3, 9,
	})

	for row := 0; row < 3; row++ {
		got, err := reconstructRow(a, row, 3)
		if err != nil {
			t.Fatalf("reconstructRow() error = %v", err)
		}
		for j := 0; j < 3; j++ {
			if math.Abs(got[j]-a.At(row, j)) > 1e-9 {
				t.Errorf("row %d col %d = %v, want %v", row, j, got[j], a.At(row, j))
			}
		}
	}
}

func TestBuildRatingMatrix_Ordering(t *testing.T) {
	m := buildRatingMatrix([]models.Rating{
		{UserID: 9, MovieID: 30, Score: 4},
		{UserID: 2, MovieID: 10, Score: 8},
	})

	if m.userRow[2] != 0 || m.userRow[9] != 1 {
		t.Errorf("user rows = %v, want ascending ids", m.userRow)
	}
	if m.movieCol[10] != 0 || m.movieCol[30] != 1 {
		t.Errorf("movie cols = %v, want ascending ids", m.movieCol)
	}
	if got := m.dense.At(0, 1); got != 0 {
		t.Errorf("missing rating = %v, want 0", got)
	}
	if got := m.dense.At(1, 1); got != 4 {
		t.Errorf("rating = %v, want 4", got)
	}
}
