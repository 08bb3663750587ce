// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/cinematch/internal/models"
)

// Note: this package depends only on models and algorithms. The storage
// layer satisfies DataProvider without recommend importing it.

// MovieCatalog reads catalog entries with their rating aggregates.
type MovieCatalog interface {
	// ListMovies returns the full catalog ordered by id.
	ListMovies(ctx context.Context) ([]models.Movie, error)

	// GetMovie returns one movie or an error wrapping models.ErrNotFound.
	GetMovie(ctx context.Context, id int64) (*models.Movie, error)
}

// RatingStore reads and writes user ratings.
type RatingStore interface {
	// UserRatings returns the user's ratings ordered by movie id.
	UserRatings(ctx context.Context, userID int64) ([]models.Rating, error)

	// AllRatings returns every rating in the system.
	AllRatings(ctx context.Context) ([]models.Rating, error)

	// RatingsSince returns ratings created at or after since.
	RatingsSince(ctx context.Context, since time.Time) ([]models.Rating, error)

	// UpsertRating stores a rating, replacing any previous score for the
	// same user and movie, and refreshes the movie's aggregate.
	UpsertRating(ctx context.Context, r *models.Rating) error

	// UsersWithRatings returns the ids of users with at least one rating.
	UsersWithRatings(ctx context.Context) ([]int64, error)
}

// WatchHistoryStore reads and writes watch history.
type WatchHistoryStore interface {
	WatchHistory(ctx context.Context, userID int64) ([]models.WatchEntry, error)
	RecordWatch(ctx context.Context, e *models.WatchEntry) error
}

// PreferenceStore reads and writes user preferences.
type PreferenceStore interface {
	// GetOrCreatePreferences returns the stored preferences, creating the
	// default record when none exists.
	GetOrCreatePreferences(ctx context.Context, userID int64) (*models.Preferences, error)

	SavePreferences(ctx context.Context, p *models.Preferences) error
}

// DataProvider combines every collaborator the engine reads from.
// This is typically implemented by the database layer.
type DataProvider interface {
	MovieCatalog
	RatingStore
	WatchHistoryStore
	PreferenceStore
}

// ResponseCache stores encoded responses with a TTL. Implementations treat
// backend failures as misses; the engine never depends on a cache for
// correctness.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}
