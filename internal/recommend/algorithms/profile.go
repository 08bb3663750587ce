// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"strings"

	"github.com/tomtom215/cinematch/internal/models"
)

// LikedThreshold is the minimum rating (0-10 scale) for a movie to count as
// liked when building a profile.
const LikedThreshold = 8.0

// Profile summarizes the movies a user liked. It is built per request and
// never shared across calls.
type Profile struct {
	// Vector is the mean TF-IDF row of the liked movies. Nil when the
	// liked movies produced no vocabulary.
	Vector []float64

	// Vectorizer is fitted on the liked movies' feature texts. Nil
	// together with Vector.
	Vectorizer *Vectorizer

	// Raw occurrence counts across liked movies. Genre keys are
	// lower-cased; director and cast keys are verbatim.
	Genres    map[string]int
	Directors map[string]int
	Cast      map[string]int

	// Movies is the number of liked movies behind the profile.
	Movies int
}

// BuildProfile builds a profile from the movies a user liked. It returns nil
// when liked is empty, meaning no content signal is available.
func BuildProfile(liked []models.Movie, maxFeatures int) *Profile {
	if len(liked) == 0 {
		return nil
	}

	p := &Profile{
		Genres:    make(map[string]int),
		Directors: make(map[string]int),
		Cast:      make(map[string]int),
		Movies:    len(liked),
	}

	corpus := make([]string, 0, len(liked))
	for i := range liked {
		m := &liked[i]
		corpus = append(corpus, FeatureText(m))

		for _, g := range m.Genres {
			if key := strings.ToLower(strings.TrimSpace(g.Name)); key != "" {
				p.Genres[key]++
			}
		}
		if d := strings.TrimSpace(m.Director); d != "" {
			p.Directors[d]++
		}
		for _, actor := range firstCast(m.Cast) {
			p.Cast[actor]++
		}
	}

	vec := NewVectorizer(maxFeatures)
	rows, err := vec.Fit(corpus)
	if err == nil {
		p.Vectorizer = vec
		p.Vector = MeanVector(rows)
	}

	return p
}

// GenreNames returns the lower-cased genre keys of the profile.
func (p *Profile) GenreNames() []string {
	names := make([]string, 0, len(p.Genres))
	for g := range p.Genres {
		names = append(names, g)
	}
	return names
}

// DirectorTotal returns the sum of director frequencies.
func (p *Profile) DirectorTotal() int {
	return sumCounts(p.Directors)
}

// CastTotal returns the sum of cast frequencies.
func (p *Profile) CastTotal() int {
	return sumCounts(p.Cast)
}

func sumCounts(m map[string]int) int {
	total := 0
	for _, c := range m {
		total += c
	}
	return total
}
