// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
)

// recentActivity aggregates the ratings of one movie inside the window.
type recentActivity struct {
	movie *models.Movie
	count int
	sum   float64
}

func (a *recentActivity) mean() float64 {
	return a.sum / float64(a.count)
}

// Trending returns movies with enough well-rated activity inside the
// trending window, ordered by recent rating count descending, then recent
// mean descending, then id ascending. Authenticated viewers never see their
// disliked genres.
func (e *Engine) Trending(ctx context.Context, viewer models.Viewer, limit int) (out []models.Movie, err error) {
	start := time.Now()
	defer func() { metrics.RecordOperation("trending", time.Since(start), err) }()

	limit, err = e.resolveLimit(limit)
	if err != nil {
		return nil, err
	}

	disliked, err := e.viewerDisliked(ctx, viewer)
	if err != nil {
		return nil, err
	}

	since := e.now().Add(-e.config.Trending.Window)
	recent, err := e.data.RatingsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("recent ratings: %w", err)
	}
	if len(recent) == 0 {
		return []models.Movie{}, nil
	}

	catalog, err := e.data.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	byID := indexCatalog(catalog)

	activity := make(map[int64]*recentActivity)
	for i := range recent {
		r := &recent[i]
		a, ok := activity[r.MovieID]
		if !ok {
			m, known := byID[r.MovieID]
			if !known {
				continue
			}
			a = &recentActivity{movie: m}
			activity[r.MovieID] = a
		}
		a.count++
		a.sum += r.Score
	}

	ranked := make([]*recentActivity, 0, len(activity))
	for _, a := range activity {
		if a.count < e.config.Trending.MinRatings || a.mean() < e.config.Trending.MinMean {
			continue
		}
		if a.movie.HasAnyGenre(disliked) {
			continue
		}
		ranked = append(ranked, a)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.count != b.count {
			return a.count > b.count
		}
		if am, bm := a.mean(), b.mean(); am != bm {
			return am > bm
		}
		return a.movie.ID < b.movie.ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out = make([]models.Movie, len(ranked))
	for i, a := range ranked {
		out[i] = *a.movie
	}
	return out, nil
}
