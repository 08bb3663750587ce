// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

// Config holds the recommendation engine configuration.
type Config struct {
	// Weights controls hybrid rank fusion.
	Weights HybridWeights `koanf:"weights" json:"weights"`

	// Content holds the content scorer constants.
	Content algorithms.ContentConfig `koanf:"content" json:"content"`

	// Collaborative holds the matrix factorization parameters.
	Collaborative algorithms.CollaborativeConfig `koanf:"collaborative" json:"collaborative"`

	// Trending selects movies from recent rating activity.
	Trending TrendingConfig `koanf:"trending" json:"trending"`

	// Behavior derives preferences from rating history.
	Behavior BehaviorConfig `koanf:"behavior" json:"behavior"`

	// Explain holds the thresholds used in explanations.
	Explain ExplainConfig `koanf:"explain" json:"explain"`

	// Limits bounds request sizes.
	Limits LimitsConfig `koanf:"limits" json:"limits"`

	// Cache controls response caching.
	Cache CacheConfig `koanf:"cache" json:"cache"`
}

// HybridWeights are the position-score multipliers of the two ranked lists.
type HybridWeights struct {
	Collaborative float64 `koanf:"collaborative" json:"collaborative"`
	Content       float64 `koanf:"content" json:"content"`
}

// TrendingConfig configures the trending window.
type TrendingConfig struct {
	// Window is how far back ratings count as recent.
	Window time.Duration `koanf:"window" json:"window"`

	// MinRatings is the minimum number of recent ratings.
	MinRatings int `koanf:"min_ratings" json:"min_ratings"`

	// MinMean is the minimum mean of the recent ratings (0-10).
	MinMean float64 `koanf:"min_mean" json:"min_mean"`
}

// BehaviorConfig configures preference refresh from ratings.
type BehaviorConfig struct {
	// LikedThreshold is the minimum score of a liked movie.
	LikedThreshold float64 `koanf:"liked_threshold" json:"liked_threshold"`

	// LowThreshold is the maximum score of a disliked movie.
	LowThreshold float64 `koanf:"low_threshold" json:"low_threshold"`

	// FavoriteShare is the fraction of liked movies a genre must exceed to
	// become a favorite.
	FavoriteShare float64 `koanf:"favorite_share" json:"favorite_share"`

	// DislikedShare is the fraction of low-rated movies a genre must exceed
	// to become disliked.
	DislikedShare float64 `koanf:"disliked_share" json:"disliked_share"`
}

// ExplainConfig holds explanation thresholds.
type ExplainConfig struct {
	HighRating   float64 `koanf:"high_rating" json:"high_rating"`
	PopularCount int     `koanf:"popular_count" json:"popular_count"`
}

// LimitsConfig bounds result sizes.
type LimitsConfig struct {
	DefaultLimit int `koanf:"default_limit" json:"default_limit"`
	MaxLimit     int `koanf:"max_limit" json:"max_limit"`
}

// CacheConfig controls response caching.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled" json:"enabled"`
	TTL     time.Duration `koanf:"ttl" json:"ttl"`
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights: HybridWeights{
			Collaborative: 0.6,
			Content:       0.4,
		},
		Content:       algorithms.DefaultContentConfig(),
		Collaborative: algorithms.DefaultCollaborativeConfig(),
		Trending: TrendingConfig{
			Window:     30 * 24 * time.Hour,
			MinRatings: 5,
			MinMean:    7.0,
		},
		Behavior: BehaviorConfig{
			LikedThreshold: algorithms.LikedThreshold,
			LowThreshold:   4.0,
			FavoriteShare:  0.4,
			DislikedShare:  0.5,
		},
		Explain: ExplainConfig{
			HighRating:   7.5,
			PopularCount: 100,
		},
		Limits: LimitsConfig{
			DefaultLimit: 20,
			MaxLimit:     100,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Weights.Collaborative < 0 || c.Weights.Content < 0 {
		return fmt.Errorf("weights must be non-negative, got %f/%f", c.Weights.Collaborative, c.Weights.Content)
	}
	if c.Weights.Collaborative+c.Weights.Content <= 0 {
		return fmt.Errorf("weights must not both be zero")
	}

	if c.Content.MaxVocabularyTerms < 1 {
		return fmt.Errorf("content.max_vocabulary_terms must be positive, got %d", c.Content.MaxVocabularyTerms)
	}
	if c.Content.TextWeight < 0 || c.Content.GenreOverlapWeight < 0 || c.Content.FavoriteGenreBonus < 0 ||
		c.Content.DirectorWeight < 0 || c.Content.CastWeight < 0 {
		return fmt.Errorf("content weights must be non-negative")
	}

	if c.Collaborative.MinRatings < 0 {
		return fmt.Errorf("collaborative.min_ratings must be non-negative, got %d", c.Collaborative.MinRatings)
	}
	if c.Collaborative.MaxRank < 1 {
		return fmt.Errorf("collaborative.max_rank must be positive, got %d", c.Collaborative.MaxRank)
	}
	if c.Collaborative.MaxMatrixCells < 1 {
		return fmt.Errorf("collaborative.max_matrix_cells must be positive, got %d", c.Collaborative.MaxMatrixCells)
	}
	if c.Collaborative.Timeout <= 0 {
		return fmt.Errorf("collaborative.timeout must be positive, got %v", c.Collaborative.Timeout)
	}

	if c.Trending.Window <= 0 {
		return fmt.Errorf("trending.window must be positive, got %v", c.Trending.Window)
	}
	if c.Trending.MinRatings < 1 {
		return fmt.Errorf("trending.min_ratings must be positive, got %d", c.Trending.MinRatings)
	}

	if c.Behavior.FavoriteShare < 0 || c.Behavior.FavoriteShare > 1 {
		return fmt.Errorf("behavior.favorite_share must be in [0, 1], got %f", c.Behavior.FavoriteShare)
	}
	if c.Behavior.DislikedShare < 0 || c.Behavior.DislikedShare > 1 {
		return fmt.Errorf("behavior.disliked_share must be in [0, 1], got %f", c.Behavior.DislikedShare)
	}
	if c.Behavior.LowThreshold >= c.Behavior.LikedThreshold {
		return fmt.Errorf("behavior.low_threshold must be below behavior.liked_threshold, got %f >= %f",
			c.Behavior.LowThreshold, c.Behavior.LikedThreshold)
	}

	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when caching is enabled, got %v", c.Cache.TTL)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// all nested structs are value types
	cp := *c
	return &cp
}
