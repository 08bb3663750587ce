// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import "strconv"

// Viewer identifies who a request is for. It is either Anonymous or
// Authenticated; callers dispatch with a type switch.
type Viewer interface {
	viewer()
	String() string
}

// Anonymous is a viewer with no identity and no history.
type Anonymous struct{}

func (Anonymous) viewer() {}

// String implements fmt.Stringer.
func (Anonymous) String() string { return "anonymous" }

// Authenticated is a known user.
type Authenticated struct {
	UserID int64
}

func (Authenticated) viewer() {}

// String implements fmt.Stringer.
func (a Authenticated) String() string { return "user:" + strconv.FormatInt(a.UserID, 10) }

// ViewerFor returns Anonymous for non-positive ids and Authenticated otherwise.
func ViewerFor(userID int64) Viewer {
	if userID <= 0 {
		return Anonymous{}
	}
	return Authenticated{UserID: userID}
}
