// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/models"
)

// Stats summarizes the catalog and its ratings. The top-rated movie is the
// highest average among rated movies, ties broken by rating count and then
// by id.
func (db *DB) Stats(ctx context.Context) (stats *models.CatalogStats, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "stats", time.Now(), &err)

	stats = &models.CatalogStats{}
	var avg sql.NullFloat64
	err = db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM movies),
			(SELECT COUNT(*) FROM ratings),
			(SELECT COUNT(DISTINCT user_id) FROM ratings),
			(SELECT AVG(score) FROM ratings)`,
	).Scan(&stats.TotalMovies, &stats.TotalRatings, &stats.ActiveRaters, &avg)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog totals: %w", err)
	}
	if avg.Valid {
		stats.AverageRating = avg.Float64
	}

	err = db.conn.QueryRowContext(ctx, `
		SELECT id, title, average_rating
		FROM movies
		WHERE rating_count > 0
		ORDER BY average_rating DESC, rating_count DESC, id ASC
		LIMIT 1`,
	).Scan(&stats.TopRatedID, &stats.TopRatedTitle, &stats.TopRatedRating)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query top rated movie: %w", err)
	}

	return stats, nil
}
