// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import (
	"math"
	"testing"
)

func TestPreferences_Normalized(t *testing.T) {
	tests := []struct {
		name  string
		prefs Preferences
		want  Weights
	}{
		{
			name:  "defaults sum to one",
			prefs: *DefaultPreferences(1),
			want:  Weights{Genre: 0.3, Rating: 0.4, Popularity: 0.2, Recency: 0.1},
		},
		{
			name:  "scaled weights",
			prefs: Preferences{GenreWeight: 2, RatingWeight: 2, PopularityWeight: 0, RecencyWeight: 0},
			want:  Weights{Genre: 0.5, Rating: 0.5},
		},
		{
			name:  "zero total falls back to defaults",
			prefs: Preferences{},
			want:  Weights{Genre: 0.3, Rating: 0.4, Popularity: 0.2, Recency: 0.1},
		},
		{
			name:  "negative total falls back to defaults",
			prefs: Preferences{GenreWeight: -1},
			want:  Weights{Genre: 0.3, Rating: 0.4, Popularity: 0.2, Recency: 0.1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.prefs.Normalized()
			if !approx(got.Genre, tt.want.Genre) || !approx(got.Rating, tt.want.Rating) ||
				!approx(got.Popularity, tt.want.Popularity) || !approx(got.Recency, tt.want.Recency) {
				t.Errorf("Normalized() = %+v, want %+v", got, tt.want)
			}
			sum := got.Genre + got.Rating + got.Popularity + got.Recency
			if !approx(sum, 1) {
				t.Errorf("weights sum = %v, want 1", sum)
			}
		})
	}
}

func TestPreferences_Clone(t *testing.T) {
	p := DefaultPreferences(7)
	p.FavoriteGenres = []string{"Drama"}

	c := p.Clone()
	c.FavoriteGenres[0] = "Horror"

	if p.FavoriteGenres[0] != "Drama" {
		t.Errorf("Clone shares slice storage with original")
	}
	if c.UserID != 7 {
		t.Errorf("Clone UserID = %d, want 7", c.UserID)
	}
}

func TestGenreSet_CaseInsensitive(t *testing.T) {
	s := NewGenreSet("Sci-Fi", " Horror ", "")

	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
	for _, name := range []string{"sci-fi", "SCI-FI", "horror"} {
		if !s.Contains(name) {
			t.Errorf("Contains(%q) = false, want true", name)
		}
	}
	if s.Contains("Drama") {
		t.Error("Contains(Drama) = true, want false")
	}
}

func TestMovie_HasAnyGenre(t *testing.T) {
	m := Movie{Genres: []Genre{{ID: 1, Name: "Action"}, {ID: 2, Name: "Comedy"}}}

	if !m.HasAnyGenre(NewGenreSet("comedy")) {
		t.Error("expected comedy match")
	}
	if m.HasAnyGenre(NewGenreSet("Horror")) {
		t.Error("unexpected horror match")
	}
	if m.HasAnyGenre(nil) {
		t.Error("empty set must not match")
	}
}

func TestViewerFor(t *testing.T) {
	if _, ok := ViewerFor(0).(Anonymous); !ok {
		t.Error("ViewerFor(0) should be Anonymous")
	}
	v, ok := ViewerFor(42).(Authenticated)
	if !ok || v.UserID != 42 {
		t.Errorf("ViewerFor(42) = %#v", v)
	}
	if got := v.String(); got != "user:42" {
		t.Errorf("String() = %q", got)
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
