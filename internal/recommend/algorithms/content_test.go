// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/models"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestScorer() *ContentScorer {
	return NewContentScorer(DefaultContentConfig(), func() time.Time { return fixedNow }, zerolog.Nop())
}

func genres(names ...string) []models.Genre {
	out := make([]models.Genre, len(names))
	for i, n := range names {
		out[i] = models.Genre{ID: int64(i + 1), Name: n}
	}
	return out
}

func likedActionProfile() *Profile {
	liked := []models.Movie{
		{ID: 1, Genres: genres("Action"), Director: "Kathryn Bigelow", Cast: []string{"Jeremy Renner"}, Description: "explosive desert mission"},
		{ID: 2, Genres: genres("Action"), Director: "Kathryn Bigelow", Cast: []string{"Jeremy Renner", "Anthony Mackie"}, Description: "desert convoy ambush"},
		{ID: 3, Genres: genres("Action"), Director: "John McTiernan", Cast: []string{"Bruce Willis"}, Description: "tower siege"},
		{ID: 4, Genres: genres("Action"), Director: "John McTiernan", Cast: []string{"Bruce Willis"}, Description: "airport siege"},
		{ID: 5, Genres: genres("Drama"), Director: "Sofia Coppola", Cast: []string{"Bill Murray"}, Description: "quiet hotel nights"},
	}
	return BuildProfile(liked, DefaultMaxFeatures)
}

func TestContentScorer_HardVeto(t *testing.T) {
	s := newTestScorer()
	profile := likedActionProfile()

	if got := profile.Genres["action"]; got != 4 {
		t.Fatalf("profile action count = %d, want 4", got)
	}
	if got := profile.Genres["drama"]; got != 1 {
		t.Fatalf("profile drama count = %d, want 1", got)
	}

	prefs := models.DefaultPreferences(1)
	prefs.DislikedGenres = []string{"horror"}

	x := &models.Movie{
		ID:          99,
		Genres:      genres("Horror", "Action"),
		Director:    "Kathryn Bigelow",
		Cast:        []string{"Jeremy Renner"},
		Description: "explosive desert mission",
		RatingCount: 5000,
		ReleaseDate: fixedNow.AddDate(0, 0, -10),
	}

	if got := s.Score(x, profile, prefs); got != 0 {
		t.Errorf("Score() = %v, want exactly 0 for disliked genre", got)
	}
	if !s.Breakdown(x, profile, prefs).Vetoed {
		t.Error("Breakdown() should report veto")
	}
}

func TestContentScorer_NilInputs(t *testing.T) {
	s := newTestScorer()
	m := &models.Movie{ID: 1, Genres: genres("Action")}

	if got := s.Score(m, nil, models.DefaultPreferences(1)); got != 0 {
		t.Errorf("nil profile: Score() = %v, want 0", got)
	}
	if got := s.Score(m, likedActionProfile(), nil); got != 0 {
		t.Errorf("nil prefs: Score() = %v, want 0", got)
	}
	if got := s.Score(nil, likedActionProfile(), models.DefaultPreferences(1)); got != 0 {
		t.Errorf("nil movie: Score() = %v, want 0", got)
	}
}

func TestContentScorer_Components(t *testing.T) {
	s := newTestScorer()
	profile := likedActionProfile()
	prefs := models.DefaultPreferences(1)
	prefs.FavoriteGenres = []string{"ACTION"}
	w := prefs.Normalized()

	m := &models.Movie{
		ID:          10,
		Genres:      genres("Action"),
		Director:    "Kathryn Bigelow",
		Cast:        []string{"Jeremy Renner", "Unknown Actor"},
		RatingCount: 500,
		ReleaseDate: fixedNow.AddDate(0, 0, -100),
	}

	b := s.Breakdown(m, profile, prefs)

	// Jaccard({action}, {action, drama}) = 0.5
	assertClose(t, "genre", b.Genre, 0.5*0.7*w.Genre)
	assertClose(t, "favorite", b.Favorite, 0.1*w.Genre)
	// Bigelow 2 of 5 director occurrences.
	assertClose(t, "director", b.Director, 0.4*0.2*w.Genre)
	// Renner 2 of 6 cast occurrences, one matched member.
	assertClose(t, "cast", b.Cast, (2.0/6.0)*0.1*w.Genre)
	assertClose(t, "popularity", b.Popularity, 0.5*w.Popularity)
	assertClose(t, "recency", b.Recency, 0.9*w.Recency)

	if b.Text <= 0 {
		t.Errorf("text contribution = %v, want > 0", b.Text)
	}
	if b.Text > w.Genre+1e-9 {
		t.Errorf("text contribution = %v exceeds genre weight %v", b.Text, w.Genre)
	}

	assertClose(t, "total", s.Score(m, profile, prefs), b.Total())
}

func TestContentScorer_Thresholds(t *testing.T) {
	s := newTestScorer()
	profile := likedActionProfile()
	prefs := models.DefaultPreferences(1)

	tests := []struct {
		name           string
		movie          models.Movie
		wantPopularity bool
		wantRecency    bool
	}{
		{
			name:  "exactly 100 ratings is not popular",
			movie: models.Movie{RatingCount: 100},
		},
		{
			name:           "101 ratings counts",
			movie:          models.Movie{RatingCount: 101},
			wantPopularity: true,
		},
		{
			name:  "released 1000 days ago is not recent",
			movie: models.Movie{ReleaseDate: fixedNow.AddDate(0, 0, -1000)},
		},
		{
			name:        "future release counts as today",
			movie:       models.Movie{ReleaseDate: fixedNow.AddDate(0, 0, 30)},
			wantRecency: true,
		},
		{
			name:  "unknown release date",
			movie: models.Movie{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := s.Breakdown(&tt.movie, profile, prefs)
			if (b.Popularity > 0) != tt.wantPopularity {
				t.Errorf("popularity = %v, want positive=%v", b.Popularity, tt.wantPopularity)
			}
			if (b.Recency > 0) != tt.wantRecency {
				t.Errorf("recency = %v, want positive=%v", b.Recency, tt.wantRecency)
			}
			if b.Total() < 0 {
				t.Errorf("total = %v, must be non-negative", b.Total())
			}
		})
	}
}

func TestContentScorer_EmptyMovieFieldsDegrade(t *testing.T) {
	s := newTestScorer()
	got := s.Score(&models.Movie{ID: 7}, likedActionProfile(), models.DefaultPreferences(1))
	if got != 0 {
		t.Errorf("Score() = %v, want 0 for a movie with no attributes", got)
	}
}

func TestDaysSince(t *testing.T) {
	if got := DaysSince(fixedNow.AddDate(0, 0, -3), fixedNow); got != 3 {
		t.Errorf("DaysSince = %d, want 3", got)
	}
	if got := DaysSince(fixedNow.AddDate(0, 0, 3), fixedNow); got != 0 {
		t.Errorf("DaysSince future = %d, want 0", got)
	}
}

func assertClose(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}
