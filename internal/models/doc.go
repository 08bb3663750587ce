// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package models defines the data structures shared by the store and the
recommendation engine.

  - Movie and Genre: catalog entries with the rating aggregate
  - Rating and WatchEntry: per-user history
  - Preferences: derived genre and feature weights, with Normalized views
  - Viewer: Anonymous or Authenticated, a closed sum type
  - GenreSet and MovieIDSet: lookup sets used for exclusion and filtering
  - CatalogStats: catalog totals

Genre names are compared case-insensitively; GenreSet normalizes on insert.
JSON tags define the dataset import format and the CLI output.
*/
package models
