// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import (
	"strings"
	"time"
)

// Genre is a catalog genre. Names are unique.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"nocontrol,max=64"`
}

// Movie is a catalog entry together with its rating aggregate.
type Movie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title" validate:"required,nocontrol"`
	Description string `json:"description"`

	// ReleaseDate is zero when unknown.
	ReleaseDate time.Time `json:"release_date,omitempty"`

	// Runtime is in minutes.
	Runtime  int    `json:"runtime" validate:"gte=0"`
	Director string `json:"director,omitempty" validate:"nocontrol"`

	// Cast is in billing order.
	Cast       []string `json:"cast,omitempty"`
	Genres     []Genre  `json:"genres,omitempty" validate:"dive"`
	PosterURL  string   `json:"poster_url,omitempty"`
	TrailerURL string   `json:"trailer_url,omitempty"`

	// AverageRating is the mean of all user ratings, 0-10.
	AverageRating float64 `json:"average_rating" validate:"gte=0,lte=10"`
	RatingCount   int     `json:"rating_count" validate:"gte=0"`
}

// GenreNames returns the movie's genre names in catalog order.
func (m *Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

// HasReleaseDate reports whether the release date is known.
func (m *Movie) HasReleaseDate() bool {
	return !m.ReleaseDate.IsZero()
}

// HasAnyGenre reports whether the movie carries at least one of the named
// genres. Comparison is case-insensitive.
func (m *Movie) HasAnyGenre(names GenreSet) bool {
	if len(names) == 0 {
		return false
	}
	for _, g := range m.Genres {
		if names.Contains(g.Name) {
			return true
		}
	}
	return false
}

// GenreSet is a case-insensitive set of genre names.
type GenreSet map[string]struct{}

// NewGenreSet builds a GenreSet from names. Empty names are ignored.
func NewGenreSet(names ...string) GenreSet {
	s := make(GenreSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts a genre name.
func (s GenreSet) Add(name string) {
	key := normalizeGenre(name)
	if key == "" {
		return
	}
	s[key] = struct{}{}
}

// Contains reports whether name is in the set.
func (s GenreSet) Contains(name string) bool {
	_, ok := s[normalizeGenre(name)]
	return ok
}

func normalizeGenre(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MovieIDSet is a set of movie identifiers.
type MovieIDSet map[int64]struct{}

// NewMovieIDSet builds a set from ids.
func NewMovieIDSet(ids ...int64) MovieIDSet {
	s := make(MovieIDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts an id.
func (s MovieIDSet) Add(id int64) { s[id] = struct{}{} }

// Contains reports whether id is in the set.
func (s MovieIDSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}
