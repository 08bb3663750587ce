// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
)

// Dataset is the JSON document accepted by Import. Catalog ingestion from
// external sources produces this shape.
type Dataset struct {
	Movies       []models.Movie       `json:"movies"`
	Ratings      []models.Rating      `json:"ratings"`
	WatchHistory []models.WatchEntry  `json:"watch_history"`
	Preferences  []models.Preferences `json:"preferences"`
}

// ImportResult counts what Import stored.
type ImportResult struct {
	Movies      int           `json:"movies"`
	Ratings     int           `json:"ratings"`
	Watches     int           `json:"watches"`
	Preferences int           `json:"preferences"`
	Duration    time.Duration `json:"duration"`
}

// ReadDataset decodes a Dataset from r.
func ReadDataset(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return &ds, nil
}

// Import stores a dataset: movies first so ratings and watches can
// reference them. Each record goes through the normal write path, so
// ratings refresh movie aggregates. The first failing record stops the
// import; records stored before it remain.
func (db *DB) Import(ctx context.Context, ds *Dataset) (*ImportResult, error) {
	start := time.Now()
	res := &ImportResult{}

	for i := range ds.Movies {
		if err := db.UpsertMovie(ctx, &ds.Movies[i]); err != nil {
			return res, fmt.Errorf("movie %d (%q): %w", i, ds.Movies[i].Title, err)
		}
		res.Movies++
	}
	for i := range ds.Ratings {
		if err := db.UpsertRating(ctx, &ds.Ratings[i]); err != nil {
			return res, fmt.Errorf("rating %d: %w", i, err)
		}
		res.Ratings++
	}
	for i := range ds.WatchHistory {
		if err := db.RecordWatch(ctx, &ds.WatchHistory[i]); err != nil {
			return res, fmt.Errorf("watch entry %d: %w", i, err)
		}
		res.Watches++
	}
	for i := range ds.Preferences {
		if err := db.SavePreferences(ctx, &ds.Preferences[i]); err != nil {
			return res, fmt.Errorf("preferences %d: %w", i, err)
		}
		res.Preferences++
	}

	res.Duration = time.Since(start)
	logging.Info().
		Int("movies", res.Movies).
		Int("ratings", res.Ratings).
		Int("watches", res.Watches).
		Int("preferences", res.Preferences).
		Dur("duration", res.Duration).
		Msg("Dataset imported")

	return res, nil
}
