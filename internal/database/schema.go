// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
schema.go - Database Schema Management

Tables:
  - movies: catalog entries with the denormalized rating aggregate
    (average_rating, rating_count) refreshed on every rating write
  - genres: unique genre names
  - movie_genres: ordered genre membership per movie
  - ratings: one row per (user_id, movie_id); writes replace the score
  - watch_history: one row per (user_id, movie_id)
  - preferences: one row per user; genre lists stored as JSON text

Foreign keys are absent: DuckDB rejects updates to referenced rows, and the
rating aggregate is updated in place. Movie and genre ids are assigned as
MAX(id)+1 under the catalog write lock rather than from a sequence, because
imported catalogs carry their own ids and a sequence would not skip them.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id BIGINT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		release_date DATE,
		runtime INTEGER NOT NULL DEFAULT 0,
		director TEXT NOT NULL DEFAULT '',
		cast_members TEXT NOT NULL DEFAULT '[]',
		poster_url TEXT NOT NULL DEFAULT '',
		trailer_url TEXT NOT NULL DEFAULT '',
		average_rating DOUBLE NOT NULL DEFAULT 0,
		rating_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS genres (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,

	`CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id BIGINT NOT NULL,
		genre_id BIGINT NOT NULL,
		position INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS ratings (
		user_id BIGINT NOT NULL,
		movie_id BIGINT NOT NULL,
		score DOUBLE NOT NULL,
		review TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, movie_id)
	)`,

	`CREATE TABLE IF NOT EXISTS watch_history (
		user_id BIGINT NOT NULL,
		movie_id BIGINT NOT NULL,
		completion_percentage DOUBLE NOT NULL DEFAULT 0,
		watched_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, movie_id)
	)`,

	`CREATE TABLE IF NOT EXISTS preferences (
		user_id BIGINT PRIMARY KEY,
		favorite_genres TEXT NOT NULL DEFAULT '[]',
		disliked_genres TEXT NOT NULL DEFAULT '[]',
		genre_weight DOUBLE NOT NULL,
		rating_weight DOUBLE NOT NULL,
		popularity_weight DOUBLE NOT NULL,
		recency_weight DOUBLE NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// createIndexes creates secondary indexes for the hot read paths.
func (db *DB) createIndexes() error {
	if db.cfg.SkipIndexes {
		return nil
	}

	ctx, cancel := schemaContext()
	defer cancel()

	// ratings and watch_history get no secondary ART indexes: they are
	// upserted, and zone maps already prune the created_at scans.
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_movie_genres_movie ON movie_genres(movie_id)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}
