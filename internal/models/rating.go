// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import "time"

// Rating score bounds.
const (
	MinRatingScore = 0.0
	MaxRatingScore = 10.0
)

// Rating is a user's score for a movie. At most one rating exists per
// (UserID, MovieID); writes replace the previous score.
type Rating struct {
	UserID    int64     `json:"user_id" validate:"required,gt=0"`
	MovieID   int64     `json:"movie_id" validate:"required,gt=0"`
	Score     float64   `json:"score" validate:"gte=0,lte=10"`
	Review    string    `json:"review,omitempty" validate:"max=5000"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WatchEntry records that a user watched a movie. At most one entry exists
// per (UserID, MovieID).
type WatchEntry struct {
	UserID               int64     `json:"user_id" validate:"required,gt=0"`
	MovieID              int64     `json:"movie_id" validate:"required,gt=0"`
	CompletionPercentage float64   `json:"completion_percentage" validate:"gte=0,lte=100"`
	WatchedAt            time.Time `json:"watched_at"`
}

// CatalogStats summarizes the catalog and its ratings.
type CatalogStats struct {
	TotalMovies    int     `json:"total_movies"`
	TotalRatings   int     `json:"total_ratings"`
	ActiveRaters   int     `json:"active_raters"` // distinct users with at least one rating
	AverageRating  float64 `json:"average_rating"`
	TopRatedID     int64   `json:"top_rated_id,omitempty"`
	TopRatedTitle  string  `json:"top_rated_title,omitempty"`
	TopRatedRating float64 `json:"top_rated_rating,omitempty"`
}
