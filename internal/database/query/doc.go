// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package query provides SQL query building utilities for the database package.
//
// WhereBuilder assembles parameterized WHERE clauses so that optional filters
// (a user, a time window, a set of movie ids) never require string
// concatenation of values:
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("user_id", userID)
//	wb.AddSince("created_at", since)
//	where, args := wb.BuildWithPrefix()
//	rows, err := conn.QueryContext(ctx, "SELECT ... FROM ratings "+where, args...)
package query
