// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

// Default preference weights for newly created preference records.
const (
	DefaultGenreWeight      = 0.3
	DefaultRatingWeight     = 0.4
	DefaultPopularityWeight = 0.2
	DefaultRecencyWeight    = 0.1
)

// Preferences holds a user's explicit tastes and scoring weights.
type Preferences struct {
	UserID           int64    `json:"user_id" validate:"gt=0"`
	FavoriteGenres   []string `json:"favorite_genres" validate:"dive,nocontrol,max=64"`
	DislikedGenres   []string `json:"disliked_genres" validate:"dive,nocontrol,max=64"`
	GenreWeight      float64  `json:"genre_weight" validate:"gte=0"`
	RatingWeight     float64  `json:"rating_weight" validate:"gte=0"`
	PopularityWeight float64  `json:"popularity_weight" validate:"gte=0"`
	RecencyWeight    float64  `json:"recency_weight" validate:"gte=0"`
}

// DefaultPreferences returns the preference record created for a user who
// has none yet.
func DefaultPreferences(userID int64) *Preferences {
	return &Preferences{
		UserID:           userID,
		FavoriteGenres:   []string{},
		DislikedGenres:   []string{},
		GenreWeight:      DefaultGenreWeight,
		RatingWeight:     DefaultRatingWeight,
		PopularityWeight: DefaultPopularityWeight,
		RecencyWeight:    DefaultRecencyWeight,
	}
}

// Weights are preference weights normalized to sum to 1.
type Weights struct {
	Genre      float64
	Rating     float64
	Popularity float64
	Recency    float64
}

// Normalized divides each weight by the total. A non-positive total falls
// back to the default weights.
func (p *Preferences) Normalized() Weights {
	total := p.GenreWeight + p.RatingWeight + p.PopularityWeight + p.RecencyWeight
	if total <= 0 {
		return Weights{
			Genre:      DefaultGenreWeight,
			Rating:     DefaultRatingWeight,
			Popularity: DefaultPopularityWeight,
			Recency:    DefaultRecencyWeight,
		}
	}
	return Weights{
		Genre:      p.GenreWeight / total,
		Rating:     p.RatingWeight / total,
		Popularity: p.PopularityWeight / total,
		Recency:    p.RecencyWeight / total,
	}
}

// Favorites returns the favorite genres as a set.
func (p *Preferences) Favorites() GenreSet {
	return NewGenreSet(p.FavoriteGenres...)
}

// Disliked returns the disliked genres as a set.
func (p *Preferences) Disliked() GenreSet {
	return NewGenreSet(p.DislikedGenres...)
}

// Clone returns a deep copy.
func (p *Preferences) Clone() *Preferences {
	c := *p
	c.FavoriteGenres = append([]string(nil), p.FavoriteGenres...)
	c.DislikedGenres = append([]string(nil), p.DislikedGenres...)
	return &c
}
