// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package algorithms implements the scoring building blocks used by the
// recommendation engine.
//
// # Components
//
//   - Feature extraction: FeatureText turns a movie into a bag of tokens
//     (genres, director, leading cast, description keywords).
//   - TF-IDF: Vectorizer fits unigram+bigram TF-IDF weights over a corpus.
//   - Profiles: BuildProfile condenses a user's liked movies into a TF-IDF
//     centroid plus genre/director/cast frequency tables.
//   - Collaborative filtering: Collaborative factorizes the system-wide
//     user x movie rating matrix with a truncated SVD (gonum) and predicts
//     the target user's unseen ratings.
//   - Content scoring: ContentScorer blends text similarity, genre overlap,
//     director/cast affinity, popularity and recency using the user's
//     normalized preference weights.
//
// # Determinism
//
// Every function here is deterministic for a fixed input. Ties are broken
// by movie id ascending, vocabulary order is alphabetical, and the SVD is
// computed with LAPACK routines that do not depend on a random seed.
//
// # Thread Safety
//
// Nothing in this package keeps per-user state. Collaborative and
// ContentScorer are safe for concurrent use; a fitted Vectorizer is
// read-only.
package algorithms
