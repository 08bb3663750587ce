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

	"github.com/tomtom215/cinematch/internal/database/query"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/validation"
)

// UpsertRating stores a user's score for a movie, replacing any previous
// score, and recomputes the movie's average_rating and rating_count from
// all of its ratings in the same transaction. CreatedAt of an existing
// rating is preserved and written back to r. An unknown movie returns an
// error wrapping ErrNotFound.
func (db *DB) UpsertRating(ctx context.Context, r *models.Rating) (err error) {
	if verr := validation.ValidateStruct(r); verr != nil {
		return fmt.Errorf("rating: %w: %w", ErrInvalidInput, verr)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("upsert", "ratings", time.Now(), &err)

	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}

	mu := db.acquireMovieLock(r.MovieID)
	defer mu.Unlock()

	var createdAt time.Time
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := movieExists(ctx, tx, r.MovieID); err != nil {
			return err
		}

		err := tx.QueryRowContext(ctx, `
			INSERT INTO ratings (user_id, movie_id, score, review, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, movie_id) DO UPDATE SET
				score = EXCLUDED.score,
				review = EXCLUDED.review,
				updated_at = EXCLUDED.updated_at
			RETURNING created_at`,
			r.UserID, r.MovieID, r.Score, r.Review, r.CreatedAt, r.UpdatedAt,
		).Scan(&createdAt)
		if err != nil {
			return fmt.Errorf("failed to upsert rating: %w", err)
		}

		return refreshAggregate(ctx, tx, r.MovieID)
	})
	if err != nil {
		return err
	}

	// A re-rating keeps the stored creation time.
	r.CreatedAt = createdAt.UTC()
	return nil
}

// refreshAggregate recomputes a movie's rating aggregate from its ratings.
func refreshAggregate(ctx context.Context, tx *sql.Tx, movieID int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE movies SET
			average_rating = COALESCE((SELECT AVG(score) FROM ratings WHERE movie_id = ?), 0),
			rating_count = (SELECT COUNT(*) FROM ratings WHERE movie_id = ?),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		movieID, movieID, movieID,
	)
	if err != nil {
		return fmt.Errorf("failed to refresh rating aggregate of movie %d: %w", movieID, err)
	}
	return nil
}

func movieExists(ctx context.Context, tx *sql.Tx, movieID int64) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ?`, movieID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("movie %d: %w", movieID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check movie %d: %w", movieID, err)
	}
	return nil
}

// UserRatings returns every rating of one user.
func (db *DB) UserRatings(ctx context.Context, userID int64) ([]models.Rating, error) {
	return db.listRatings(ctx, query.NewWhereBuilder().AddEquals("user_id", userID))
}

// AllRatings returns every rating in the system.
func (db *DB) AllRatings(ctx context.Context) ([]models.Rating, error) {
	return db.listRatings(ctx, query.NewWhereBuilder())
}

// RatingsSince returns the ratings created at or after since.
func (db *DB) RatingsSince(ctx context.Context, since time.Time) ([]models.Rating, error) {
	return db.listRatings(ctx, query.NewWhereBuilder().AddSince("created_at", since))
}

func (db *DB) listRatings(ctx context.Context, wb *query.WhereBuilder) (ratings []models.Rating, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "ratings", time.Now(), &err)

	where, args := wb.BuildWithPrefix()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, movie_id, score, review, created_at, updated_at
		FROM ratings
		`+where+`
		ORDER BY user_id, movie_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer closeWithLog(rows, "rating rows")

	ratings = []models.Rating{}
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Score, &r.Review, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		r.CreatedAt = r.CreatedAt.UTC()
		r.UpdatedAt = r.UpdatedAt.UTC()
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}
	return ratings, nil
}

// UsersWithRatings returns the ids of users with at least one rating, in
// ascending order.
func (db *DB) UsersWithRatings(ctx context.Context) (users []int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "ratings", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `SELECT DISTINCT user_id FROM ratings ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating users: %w", err)
	}
	defer closeWithLog(rows, "user rows")

	users = []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating users: %w", err)
	}
	return users, nil
}
