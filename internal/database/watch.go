// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/validation"
)

// RecordWatch stores that a user watched a movie. A repeat watch keeps one
// row: the watch time moves forward and the completion keeps its maximum.
// An unknown movie returns an error wrapping ErrNotFound.
func (db *DB) RecordWatch(ctx context.Context, e *models.WatchEntry) (err error) {
	if verr := validation.ValidateStruct(e); verr != nil {
		return fmt.Errorf("watch entry: %w: %w", ErrInvalidInput, verr)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("upsert", "watch_history", time.Now(), &err)

	if e.WatchedAt.IsZero() {
		e.WatchedAt = time.Now().UTC()
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := movieExists(ctx, tx, e.MovieID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO watch_history (user_id, movie_id, completion_percentage, watched_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id, movie_id) DO UPDATE SET
				completion_percentage = GREATEST(completion_percentage, EXCLUDED.completion_percentage),
				watched_at = GREATEST(watched_at, EXCLUDED.watched_at)`,
			e.UserID, e.MovieID, e.CompletionPercentage, e.WatchedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to record watch: %w", err)
		}
		return nil
	})
}

// WatchHistory returns a user's watch entries, most recent first.
func (db *DB) WatchHistory(ctx context.Context, userID int64) (entries []models.WatchEntry, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "watch_history", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, movie_id, completion_percentage, watched_at
		FROM watch_history
		WHERE user_id = ?
		ORDER BY watched_at DESC, movie_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watch history: %w", err)
	}
	defer closeWithLog(rows, "watch rows")

	entries = []models.WatchEntry{}
	for rows.Next() {
		var e models.WatchEntry
		if err := rows.Scan(&e.UserID, &e.MovieID, &e.CompletionPercentage, &e.WatchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watch entry: %w", err)
		}
		e.WatchedAt = e.WatchedAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watch history: %w", err)
	}
	return entries, nil
}
