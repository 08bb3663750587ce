// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
)

// RefreshPreferences derives the user's favorite and disliked genres from
// their ratings and persists them. A genre is a favorite when it appears in
// more than FavoriteShare of the liked movies, and disliked when it appears
// in more than DislikedShare of the low-rated movies. Each list is only
// replaced when its sample is non-empty. Weights are left untouched.
func (e *Engine) RefreshPreferences(ctx context.Context, userID int64) (out *models.Preferences, err error) {
	start := time.Now()
	defer func() { metrics.RecordOperation("refresh", time.Since(start), err) }()

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
	updated := prefs.Clone()

	if len(ratings) == 0 {
		return updated, nil
	}

	catalog, err := e.data.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	byID := indexCatalog(catalog)

	var liked, low []*models.Movie
	for i := range ratings {
		m, ok := byID[ratings[i].MovieID]
		if !ok {
			continue
		}
		switch score := ratings[i].Score; {
		case score >= e.config.Behavior.LikedThreshold:
			liked = append(liked, m)
		case score <= e.config.Behavior.LowThreshold:
			low = append(low, m)
		}
	}

	if len(liked) > 0 {
		updated.FavoriteGenres = dominantGenres(liked, e.config.Behavior.FavoriteShare)
	}
	if len(low) > 0 {
		updated.DislikedGenres = dominantGenres(low, e.config.Behavior.DislikedShare)
	}
	if len(liked) == 0 && len(low) == 0 {
		return updated, nil
	}

	if err := e.data.SavePreferences(ctx, updated); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}

	e.logger.Debug().
		Int64("user_id", userID).
		Strs("favorite_genres", updated.FavoriteGenres).
		Strs("disliked_genres", updated.DislikedGenres).
		Msg("preferences refreshed")

	return updated, nil
}

// RefreshAll refreshes the preferences of every user with ratings. A
// failure for one user is logged and counted; only a failure to list users
// or a cancelled context is returned.
func (e *Engine) RefreshAll(ctx context.Context) (refreshed, failed int, err error) {
	defer func() { metrics.RecordPreferenceRefresh(refreshed, failed, err) }()

	users, err := e.data.UsersWithRatings(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list users: %w", err)
	}

	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return refreshed, failed, err
		}
		if _, err := e.RefreshPreferences(ctx, userID); err != nil {
			e.logger.Warn().Err(err).Int64("user_id", userID).Msg("preference refresh failed")
			failed++
			continue
		}
		refreshed++
	}
	return refreshed, failed, nil
}

// dominantGenres returns the genres present in more than share of movies,
// ordered by frequency descending then name ascending. Genres are counted
// once per movie, case-insensitively, and reported with their first-seen
// spelling.
func dominantGenres(movies []*models.Movie, share float64) []string {
	counts := make(map[string]int)
	names := make(map[string]string)
	for _, m := range movies {
		seen := make(map[string]struct{}, len(m.Genres))
		for _, g := range m.Genres {
			key := strings.ToLower(strings.TrimSpace(g.Name))
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			counts[key]++
			if _, ok := names[key]; !ok {
				names[key] = g.Name
			}
		}
	}

	total := float64(len(movies))
	keys := make([]string, 0, len(counts))
	for key, c := range counts {
		if float64(c)/total > share {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	out := make([]string, len(keys))
	for i, key := range keys {
		out[i] = names[key]
	}
	return out
}
