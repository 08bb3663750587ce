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

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/validation"
)

// GetOrCreatePreferences returns the user's preferences, creating the
// default record on first access.
func (db *DB) GetOrCreatePreferences(ctx context.Context, userID int64) (prefs *models.Preferences, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "preferences", time.Now(), &err)

	prefs, err = db.getPreferences(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	prefs = models.DefaultPreferences(userID)
	// DO NOTHING keeps a record created concurrently by another caller.
	if err := db.writePreferences(ctx, prefs, "DO NOTHING"); err != nil {
		return nil, err
	}
	return db.getPreferences(ctx, userID)
}

// SavePreferences replaces the user's preferences.
func (db *DB) SavePreferences(ctx context.Context, prefs *models.Preferences) (err error) {
	if verr := validation.ValidateStruct(prefs); verr != nil {
		return fmt.Errorf("preferences: %w: %w", ErrInvalidInput, verr)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("upsert", "preferences", time.Now(), &err)

	return db.writePreferences(ctx, prefs, `DO UPDATE SET
		favorite_genres = EXCLUDED.favorite_genres,
		disliked_genres = EXCLUDED.disliked_genres,
		genre_weight = EXCLUDED.genre_weight,
		rating_weight = EXCLUDED.rating_weight,
		popularity_weight = EXCLUDED.popularity_weight,
		recency_weight = EXCLUDED.recency_weight,
		updated_at = CURRENT_TIMESTAMP`)
}

func (db *DB) writePreferences(ctx context.Context, prefs *models.Preferences, onConflict string) error {
	favorites, err := json.Marshal(nonNilStrings(prefs.FavoriteGenres))
	if err != nil {
		return fmt.Errorf("failed to marshal favorite genres: %w", err)
	}
	disliked, err := json.Marshal(nonNilStrings(prefs.DislikedGenres))
	if err != nil {
		return fmt.Errorf("failed to marshal disliked genres: %w", err)
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO preferences (
				user_id, favorite_genres, disliked_genres,
				genre_weight, rating_weight, popularity_weight, recency_weight
			) VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id) `+onConflict,
			prefs.UserID, string(favorites), string(disliked),
			prefs.GenreWeight, prefs.RatingWeight, prefs.PopularityWeight, prefs.RecencyWeight,
		)
		if err != nil {
			return fmt.Errorf("failed to write preferences of user %d: %w", prefs.UserID, err)
		}
		return nil
	})
}

func (db *DB) getPreferences(ctx context.Context, userID int64) (*models.Preferences, error) {
	var (
		p                  models.Preferences
		favorites, dislike string
	)
	err := db.conn.QueryRowContext(ctx, `
		SELECT user_id, favorite_genres, disliked_genres,
			genre_weight, rating_weight, popularity_weight, recency_weight
		FROM preferences
		WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &favorites, &dislike,
		&p.GenreWeight, &p.RatingWeight, &p.PopularityWeight, &p.RecencyWeight)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences of user %d: %w", userID, err)
	}

	if err := json.Unmarshal([]byte(favorites), &p.FavoriteGenres); err != nil {
		return nil, fmt.Errorf("failed to unmarshal favorite genres of user %d: %w", userID, err)
	}
	if err := json.Unmarshal([]byte(dislike), &p.DislikedGenres); err != nil {
		return nil, fmt.Errorf("failed to unmarshal disliked genres of user %d: %w", userID, err)
	}
	p.FavoriteGenres = nonNilStrings(p.FavoriteGenres)
	p.DislikedGenres = nonNilStrings(p.DislikedGenres)
	return &p, nil
}
