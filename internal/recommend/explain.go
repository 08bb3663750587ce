// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

// DefaultExplanation is returned when no specific reason applies.
const DefaultExplanation = "Recommended based on your viewing preferences"

// Explain describes why the movie suits the viewer. Reasons cover genres
// shared with the viewer's liked movies or favorites, a director the viewer
// liked, a high average rating and a large number of ratings. An unknown
// movie returns an error wrapping models.ErrNotFound.
func (e *Engine) Explain(ctx context.Context, viewer models.Viewer, movieID int64) (out string, err error) {
	start := time.Now()
	defer func() { metrics.RecordOperation("explain", time.Since(start), err) }()

	movie, err := e.data.GetMovie(ctx, movieID)
	if err != nil {
		return "", fmt.Errorf("get movie %d: %w", movieID, err)
	}

	var reasons []string

	if v, ok := viewer.(models.Authenticated); ok {
		personal, err := e.personalReasons(ctx, v.UserID, movie)
		if err != nil {
			return "", err
		}
		reasons = append(reasons, personal...)
	}

	if movie.RatingCount > 0 && movie.AverageRating >= e.config.Explain.HighRating {
		reasons = append(reasons, fmt.Sprintf("Highly rated (%.1f/10)", movie.AverageRating))
	}
	if movie.RatingCount >= e.config.Explain.PopularCount {
		reasons = append(reasons, fmt.Sprintf("Popular with %d ratings", movie.RatingCount))
	}

	if len(reasons) == 0 {
		return DefaultExplanation, nil
	}
	return strings.Join(reasons, "; "), nil
}

// personalReasons matches the movie against the viewer's liked movies and
// explicit favorites.
func (e *Engine) personalReasons(ctx context.Context, userID int64, movie *models.Movie) ([]string, error) {
	ratings, err := e.data.UserRatings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user ratings: %w", err)
	}
	prefs, err := e.data.GetOrCreatePreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}
	if prefs == nil {
		prefs = models.DefaultPreferences(userID)
	}

	var profile *algorithms.Profile
	if hasLiked(ratings, e.config.Behavior.LikedThreshold) {
		catalog, err := e.data.ListMovies(ctx)
		if err != nil {
			return nil, fmt.Errorf("list movies: %w", err)
		}
		profile = algorithms.BuildProfile(e.likedMovies(catalog, ratings), e.config.Content.MaxVocabularyTerms)
	}

	favorites := prefs.Favorites()
	var matched []string
	for _, g := range movie.Genres {
		_, liked := profileGenres(profile)[strings.ToLower(strings.TrimSpace(g.Name))]
		if liked || favorites.Contains(g.Name) {
			matched = append(matched, g.Name)
		}
	}

	var reasons []string
	if len(matched) > 0 {
		reasons = append(reasons, "Matches genres you enjoy: "+strings.Join(matched, ", "))
	}
	if profile != nil && movie.Director != "" {
		if _, ok := profile.Directors[strings.TrimSpace(movie.Director)]; ok {
			reasons = append(reasons, "Directed by "+movie.Director+", whose films you rated highly")
		}
	}
	return reasons, nil
}

func profileGenres(p *algorithms.Profile) map[string]int {
	if p == nil {
		return nil
	}
	return p.Genres
}

func hasLiked(ratings []models.Rating, threshold float64) bool {
	for i := range ratings {
		if ratings[i].Score >= threshold {
			return true
		}
	}
	return false
}
