// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package recommend orchestrates movie recommendations.
//
// # Architecture
//
// A recommendation request flows through:
//
//   - Eligibility: drop rated, watched and disliked-genre movies
//   - Collaborative filtering: truncated SVD of the rating matrix
//   - Content-based filtering: TF-IDF profile plus genre, director and cast affinity
//   - Hybrid fusion: position-weighted merge of both ranked lists
//   - Popularity backfill when the fused list is short
//
// The two scoring engines live in the algorithms subpackage and run
// concurrently with errgroup. Neither shares mutable state with the other.
//
// # Viewer States
//
// The state is recomputed from storage on every call:
//
//   - anonymous: popular movies only
//   - cold (authenticated, no ratings and no watch history): popular movies
//     without the viewer's disliked genres
//   - warm: the full hybrid pipeline
//
// # Failure Containment
//
// Data insufficiency is never an error. A failing engine contributes an
// empty list and is logged and counted. Errors are returned only when the
// catalog or the viewer's own history cannot be read.
//
// # Usage
//
//	engine, err := recommend.NewEngine(store, recommend.DefaultConfig(), logger,
//	    recommend.WithCache(responseCache))
//	if err != nil {
//	    return err
//	}
//
//	resp, err := engine.Recommend(ctx, models.Authenticated{UserID: 7}, 20)
//
// # Thread Safety
//
// Engine is safe for concurrent use. Each call builds its own profile,
// candidate set and rating matrix.
package recommend
