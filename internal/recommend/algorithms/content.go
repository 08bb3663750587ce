// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/models"
)

// ContentConfig holds the tuning constants of the content scorer. The
// sub-weights are fractions of the user's normalized genre weight.
type ContentConfig struct {
	TextWeight         float64 `koanf:"text_weight" json:"text_weight"`
	GenreOverlapWeight float64 `koanf:"genre_overlap_weight" json:"genre_overlap_weight"`
	FavoriteGenreBonus float64 `koanf:"favorite_genre_bonus" json:"favorite_genre_bonus"`
	DirectorWeight     float64 `koanf:"director_weight" json:"director_weight"`
	CastWeight         float64 `koanf:"cast_weight" json:"cast_weight"`
	PopularityMinCount int     `koanf:"popularity_min_count" json:"popularity_min_count"`
	PopularitySaturate int     `koanf:"popularity_saturate" json:"popularity_saturate"`
	RecencyWindowDays  int     `koanf:"recency_window_days" json:"recency_window_days"`
	MaxVocabularyTerms int     `koanf:"max_vocabulary_terms" json:"max_vocabulary_terms"`
}

// DefaultContentConfig returns the standard scorer constants.
func DefaultContentConfig() ContentConfig {
	return ContentConfig{
		TextWeight:         1.0,
		GenreOverlapWeight: 0.7,
		FavoriteGenreBonus: 0.1,
		DirectorWeight:     0.2,
		CastWeight:         0.1,
		PopularityMinCount: 100,
		PopularitySaturate: 1000,
		RecencyWindowDays:  1000,
		MaxVocabularyTerms: DefaultMaxFeatures,
	}
}

// ScoreBreakdown holds the weighted contribution of each signal.
type ScoreBreakdown struct {
	Text       float64 `json:"text"`
	Genre      float64 `json:"genre"`
	Favorite   float64 `json:"favorite"`
	Director   float64 `json:"director"`
	Cast       float64 `json:"cast"`
	Popularity float64 `json:"popularity"`
	Recency    float64 `json:"recency"`
	Vetoed     bool    `json:"vetoed,omitempty"`
}

// Total sums the contributions.
func (b ScoreBreakdown) Total() float64 {
	if b.Vetoed {
		return 0
	}
	return b.Text + b.Genre + b.Favorite + b.Director + b.Cast + b.Popularity + b.Recency
}

// ContentScorer scores candidate movies against a user profile. It holds no
// per-user state and is safe for concurrent use.
type ContentScorer struct {
	cfg    ContentConfig
	now    func() time.Time
	logger zerolog.Logger
}

// NewContentScorer creates a scorer. A nil clock uses time.Now.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewContentScorer(cfg ContentConfig, now func() time.Time, logger zerolog.Logger) *ContentScorer {
	if now == nil {
		now = time.Now
	}
	return &ContentScorer{
		cfg:    cfg,
		now:    now,
		logger: logger.With().Str("algorithm", "content").Logger(),
	}
}

// Score returns the content score of m for the profile and preferences.
// A nil profile, nil preferences or any disliked genre on the movie yields
// exactly 0.
func (s *ContentScorer) Score(m *models.Movie, p *Profile, prefs *models.Preferences) float64 {
	return s.Breakdown(m, p, prefs).Total()
}

// Breakdown returns the per-signal contributions behind Score.
func (s *ContentScorer) Breakdown(m *models.Movie, p *Profile, prefs *models.Preferences) ScoreBreakdown {
	if m == nil || p == nil || prefs == nil {
		return ScoreBreakdown{}
	}
	if m.HasAnyGenre(prefs.Disliked()) {
		return ScoreBreakdown{Vetoed: true}
	}

	w := prefs.Normalized()
	var b ScoreBreakdown

	b.Text = s.textSimilarity(m, p) * s.cfg.TextWeight * w.Genre

	genres := m.GenreNames()
	b.Genre = JaccardSimilarity(genres, p.GenreNames()) * s.cfg.GenreOverlapWeight * w.Genre
	if m.HasAnyGenre(prefs.Favorites()) {
		b.Favorite = s.cfg.FavoriteGenreBonus * w.Genre
	}

	b.Director = directorAffinity(m, p) * s.cfg.DirectorWeight * w.Genre
	b.Cast = castAffinity(m, p) * s.cfg.CastWeight * w.Genre
	b.Popularity = s.popularity(m) * w.Popularity
	b.Recency = s.recency(m) * w.Recency

	return b
}

// textSimilarity is the cosine between the movie's TF-IDF vector and the
// profile centroid. Any failure contributes 0.
func (s *ContentScorer) textSimilarity(m *models.Movie, p *Profile) (sim float64) {
	if p.Vectorizer == nil || len(p.Vector) == 0 {
		return 0
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn().Int64("movie_id", m.ID).Interface("panic", r).Msg("text similarity failed")
			sim = 0
		}
	}()

	vec, err := p.Vectorizer.Transform(FeatureText(m))
	if err != nil {
		s.logger.Debug().Err(err).Int64("movie_id", m.ID).Msg("transform failed")
		return 0
	}

	sim = CosineSimilarity(vec, p.Vector)
	if math.IsNaN(sim) || sim < 0 {
		return 0
	}
	return sim
}

func directorAffinity(m *models.Movie, p *Profile) float64 {
	d := strings.TrimSpace(m.Director)
	if d == "" {
		return 0
	}
	freq, ok := p.Directors[d]
	if !ok {
		return 0
	}
	total := p.DirectorTotal()
	if total == 0 {
		return 0
	}
	return float64(freq) / float64(total)
}

func castAffinity(m *models.Movie, p *Profile) float64 {
	total := p.CastTotal()
	if total == 0 {
		return 0
	}

	var sum float64
	matched := 0
	for _, actor := range firstCast(m.Cast) {
		if freq, ok := p.Cast[actor]; ok {
			sum += float64(freq) / float64(total)
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	return sum / float64(matched)
}

func (s *ContentScorer) popularity(m *models.Movie) float64 {
	if m.RatingCount <= s.cfg.PopularityMinCount || s.cfg.PopularitySaturate <= 0 {
		return 0
	}
	return math.Min(float64(m.RatingCount)/float64(s.cfg.PopularitySaturate), 1.0)
}

func (s *ContentScorer) recency(m *models.Movie) float64 {
	if !m.HasReleaseDate() || s.cfg.RecencyWindowDays <= 0 {
		return 0
	}
	days := DaysSince(m.ReleaseDate, s.now())
	if days >= s.cfg.RecencyWindowDays {
		return 0
	}
	window := float64(s.cfg.RecencyWindowDays)
	return (window - float64(days)) / window
}

// DaysSince returns whole days between t and now, clamped at 0 for future
// dates.
func DaysSince(t, now time.Time) int {
	d := int(now.Sub(t).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
