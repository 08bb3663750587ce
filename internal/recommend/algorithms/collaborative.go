// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
)

// CollaborativeConfig holds the matrix factorization parameters.
type CollaborativeConfig struct {
	// MinRatings is the system-wide rating count below which no
	// factorization is attempted.
	MinRatings int `koanf:"min_ratings" json:"min_ratings"`

	// MaxRank bounds the number of latent factors.
	MaxRank int `koanf:"max_rank" json:"max_rank"`

	// MaxMatrixCells bounds users x movies of the dense matrix.
	MaxMatrixCells int `koanf:"max_matrix_cells" json:"max_matrix_cells"`

	// Timeout is the wall-clock budget for one factorization.
	Timeout time.Duration `koanf:"timeout" json:"timeout"`
}

// DefaultCollaborativeConfig returns the standard factorization parameters.
func DefaultCollaborativeConfig() CollaborativeConfig {
	return CollaborativeConfig{
		MinRatings:     10,
		MaxRank:        50,
		MaxMatrixCells: 4_000_000,
		Timeout:        5 * time.Second,
	}
}

// scoreResolution is the granularity at which predicted scores are
// compared. Differences below it are reconstruction noise and fall through
// to the movie id tie-break.
const scoreResolution = 1e-9

// Errors reported by Collaborative.Predict and Recommend.
var (
	ErrMatrixTooLarge      = errors.New("collaborative: rating matrix exceeds size budget")
	ErrFactorizationFailed = errors.New("collaborative: factorization failed")
)

// ScoredMovie is a movie id with its predicted score.
type ScoredMovie struct {
	MovieID int64
	Score   float64
}

// Collaborative predicts ratings from a truncated SVD of the system-wide
// user x movie rating matrix. Every call rebuilds the matrix from the
// ratings passed in; nothing is retained between calls.
type Collaborative struct {
	cfg    CollaborativeConfig
	logger zerolog.Logger
}

// NewCollaborative creates the engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCollaborative(cfg CollaborativeConfig, logger zerolog.Logger) *Collaborative {
	return &Collaborative{
		cfg:    cfg,
		logger: logger.With().Str("algorithm", "collaborative").Logger(),
	}
}

// Recommend returns up to limit candidate movies ordered by predicted score
// for userID. Insufficient data yields an empty slice and a nil error;
// factorization failures are returned so the caller can count them.
func (c *Collaborative) Recommend(ctx context.Context, userID int64, ratings []models.Rating, candidates []models.Movie, limit int) ([]models.Movie, error) {
	scored, err := c.Predict(ctx, userID, ratings, candidates)
	if err != nil {
		return []models.Movie{}, err
	}

	byID := make(map[int64]*models.Movie, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]models.Movie, 0, len(scored))
	for _, s := range scored {
		out = append(out, *byID[s.MovieID])
	}
	return out, nil
}

// Predict scores every candidate present in the rating matrix. The result
// is sorted by score descending, then movie id ascending. A nil result with
// nil error means there is not enough data.
func (c *Collaborative) Predict(ctx context.Context, userID int64, ratings []models.Rating, candidates []models.Movie) ([]ScoredMovie, error) {
	if len(ratings) < c.cfg.MinRatings {
		return nil, nil
	}

	m := buildRatingMatrix(ratings)
	row, ok := m.userRow[userID]
	if !ok {
		return nil, nil
	}

	users, movies := len(m.users), len(m.movies)
	if c.cfg.MaxMatrixCells > 0 && users*movies > c.cfg.MaxMatrixCells {
		return nil, fmt.Errorf("%w: %d users x %d movies", ErrMatrixTooLarge, users, movies)
	}

	rank := min(c.cfg.MaxRank, movies-1, users)
	if rank < 1 {
		return nil, nil
	}

	predicted, err := c.factorize(ctx, m, row, rank)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredMovie, 0, len(candidates))
	for i := range candidates {
		col, ok := m.movieCol[candidates[i].ID]
		if !ok {
			continue
		}
		scored = append(scored, ScoredMovie{MovieID: candidates[i].ID, Score: predicted[col]})
	}

	sortScored(scored)
	return scored, nil
}

// sortScored orders by score descending, then movie id ascending. Scores
// are compared at scoreResolution.
func sortScored(scored []ScoredMovie) {
	sort.Slice(scored, func(i, j int) bool {
		a, b := quantize(scored[i].Score), quantize(scored[j].Score)
		if a != b {
			return a > b
		}
		return scored[i].MovieID < scored[j].MovieID
	})
}

// factorize runs the SVD under the configured budget and reconstructs the
// target user's row.
func (c *Collaborative) factorize(ctx context.Context, m *ratingMatrix, row, rank int) ([]float64, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	type result struct {
		row []float64
		err error
	}
	done := make(chan result, 1)

	go func() {
		var res result
		defer func() {
			if r := recover(); r != nil {
				res = result{err: fmt.Errorf("%w: %v", ErrFactorizationFailed, r)}
			}
			done <- res
		}()
		res.row, res.err = reconstructRow(m.dense, row, rank)
	}()

	start := time.Now()
	select {
	case res := <-done:
		metrics.FactorizationDuration.Observe(time.Since(start).Seconds())
		c.logger.Debug().
			Int("users", len(m.users)).
			Int("movies", len(m.movies)).
			Int("rank", rank).
			Dur("duration", time.Since(start)).
			Msg("factorization complete")
		return res.row, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("factorization aborted: %w", ctx.Err())
	}
}

// reconstructRow computes sum_f U[row,f] * sigma_f * V[j,f] for every
// column j, keeping the top rank singular triplets.
func reconstructRow(a *mat.Dense, row, rank int) ([]float64, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrFactorizationFailed
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sigma := svd.Values(nil)

	if rank > len(sigma) {
		rank = len(sigma)
	}

	_, cols := a.Dims()
	out := make([]float64, cols)
	for f := 0; f < rank; f++ {
		weight := u.At(row, f) * sigma[f]
		if weight == 0 {
			continue
		}
		for j := 0; j < cols; j++ {
			out[j] += weight * v.At(j, f)
		}
	}
	return out, nil
}

func quantize(score float64) float64 {
	return math.Round(score / scoreResolution)
}

// ratingMatrix is a dense user x movie matrix with missing ratings as 0.
// Rows follow ascending user id and columns ascending movie id.
type ratingMatrix struct {
	dense    *mat.Dense
	users    []int64
	movies   []int64
	userRow  map[int64]int
	movieCol map[int64]int
}

func buildRatingMatrix(ratings []models.Rating) *ratingMatrix {
	userSet := make(map[int64]struct{})
	movieSet := make(map[int64]struct{})
	for _, r := range ratings {
		userSet[r.UserID] = struct{}{}
		movieSet[r.MovieID] = struct{}{}
	}

	m := &ratingMatrix{
		users:  sortedIDs(userSet),
		movies: sortedIDs(movieSet),
	}
	m.userRow = indexOf(m.users)
	m.movieCol = indexOf(m.movies)
	m.dense = mat.NewDense(len(m.users), len(m.movies), nil)

	for _, r := range ratings {
		m.dense.Set(m.userRow[r.UserID], m.movieCol[r.MovieID], r.Score)
	}
	return m
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func indexOf(ids []int64) map[int64]int {
	idx := make(map[int64]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}
