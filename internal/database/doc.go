// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package database is the DuckDB-backed store for the catalog, ratings,
// watch history and user preferences.
//
// *DB implements recommend.DataProvider, so the engine reads everything it
// needs through it, and it adds the write paths the engine does not own:
// UpsertMovie, UpsertRating, RecordWatch, SavePreferences and Import.
//
// # Files
//
//   - database.go: lifecycle (open, pool, checkpoint, close)
//   - schema.go: table and index creation
//   - movies.go: catalog reads and writes, genre membership
//   - ratings.go: rating upsert with aggregate refresh, rating reads
//   - watch.go, preferences.go: per-user records
//   - stats.go: catalog statistics
//   - dataset.go: JSON dataset import
//
// # Consistency
//
// A rating write and the recompute of its movie's average_rating and
// rating_count commit in one transaction, and writes to the same movie are
// serialized. DuckDB transaction conflicts are retried with backoff.
//
// # Errors
//
// Missing movies surface as errors wrapping ErrNotFound (which is
// models.ErrNotFound). Invalid writes wrap ErrInvalidInput together with
// the validation error.
//
// # Testing
//
// Tests open ":memory:" databases; see setupTestDB.
package database
