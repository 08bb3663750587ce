// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

// Similar returns the movies whose feature text is closest to the given
// movie's, by TF-IDF cosine similarity over the whole catalog. Only
// positive similarities are returned, best first, ties by id ascending.
// An unknown movie or one without feature text yields an empty list.
func (e *Engine) Similar(ctx context.Context, viewer models.Viewer, movieID int64, limit int) (out []models.Movie, err error) {
	start := time.Now()
	defer func() { metrics.RecordOperation("similar", time.Since(start), err) }()

	limit, err = e.resolveLimit(limit)
	if err != nil {
		return nil, err
	}

	target, err := e.data.GetMovie(ctx, movieID)
	if errors.Is(err, models.ErrNotFound) {
		return []models.Movie{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get movie %d: %w", movieID, err)
	}
	targetText := algorithms.FeatureText(target)
	if strings.TrimSpace(targetText) == "" {
		return []models.Movie{}, nil
	}

	disliked, err := e.viewerDisliked(ctx, viewer)
	if err != nil {
		return nil, err
	}

	catalog, err := e.data.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	return e.similarTo(target, targetText, catalog, disliked, limit), nil
}

func (e *Engine) similarTo(target *models.Movie, targetText string, catalog []models.Movie, disliked models.GenreSet, limit int) (out []models.Movie) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Int64("movie_id", target.ID).Msg("similarity scoring panicked")
			metrics.RecordEngineFailure("similar")
			out = []models.Movie{}
		}
	}()

	docs := make([]string, len(catalog))
	targetRow := -1
	for i := range catalog {
		docs[i] = algorithms.FeatureText(&catalog[i])
		if catalog[i].ID == target.ID {
			targetRow = i
		}
	}

	vec := algorithms.NewVectorizer(e.config.Content.MaxVocabularyTerms)
	rows, err := vec.Fit(docs)
	if err != nil {
		e.logger.Debug().Err(err).Int64("movie_id", target.ID).Msg("no vocabulary for similarity")
		return []models.Movie{}
	}

	var targetVec []float64
	if targetRow >= 0 {
		targetVec = rows[targetRow]
	} else if targetVec, err = vec.Transform(targetText); err != nil {
		return []models.Movie{}
	}

	type scored struct {
		idx int
		sim float64
	}
	ranked := make([]scored, 0, len(catalog))
	for i := range catalog {
		if catalog[i].ID == target.ID || catalog[i].HasAnyGenre(disliked) {
			continue
		}
		if sim := algorithms.CosineSimilarity(targetVec, rows[i]); sim > 0 {
			ranked = append(ranked, scored{idx: i, sim: sim})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].sim != ranked[j].sim {
			return ranked[i].sim > ranked[j].sim
		}
		return catalog[ranked[i].idx].ID < catalog[ranked[j].idx].ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out = make([]models.Movie, len(ranked))
	for i, r := range ranked {
		out[i] = catalog[r.idx]
	}
	return out
}
