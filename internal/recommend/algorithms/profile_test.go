// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"math"
	"testing"

	"github.com/tomtom215/cinematch/internal/models"
)

func TestBuildProfile_Empty(t *testing.T) {
	if p := BuildProfile(nil, DefaultMaxFeatures); p != nil {
		t.Errorf("BuildProfile(nil) = %+v, want nil", p)
	}
}

func TestBuildProfile_FrequencyTables(t *testing.T) {
	p := likedActionProfile()
	if p == nil {
		t.Fatal("BuildProfile() = nil")
	}

	if p.Movies != 5 {
		t.Errorf("Movies = %d, want 5", p.Movies)
	}
	if got := p.Directors["Kathryn Bigelow"]; got != 2 {
		t.Errorf("Bigelow = %d, want 2", got)
	}
	if got := p.DirectorTotal(); got != 5 {
		t.Errorf("DirectorTotal() = %d, want 5", got)
	}
	if got := p.Cast["Bruce Willis"]; got != 2 {
		t.Errorf("Willis = %d, want 2", got)
	}
	if got := p.CastTotal(); got != 6 {
		t.Errorf("CastTotal() = %d, want 6", got)
	}
	if got := len(p.GenreNames()); got != 2 {
		t.Errorf("GenreNames() len = %d, want 2", got)
	}
}

func TestBuildProfile_VectorIsMeanOfRows(t *testing.T) {
	liked := []models.Movie{
		{ID: 1, Genres: genres("Western"), Description: "outlaws riding across plains"},
		{ID: 2, Genres: genres("Western"), Description: "sheriff defends frontier town"},
	}
	p := BuildProfile(liked, DefaultMaxFeatures)
	if p.Vectorizer == nil || p.Vector == nil {
		t.Fatal("expected fitted vectorizer and vector")
	}
	if len(p.Vector) != p.Vectorizer.Dim() {
		t.Fatalf("vector len = %d, want %d", len(p.Vector), p.Vectorizer.Dim())
	}

	var sum float64
	for _, x := range p.Vector {
		if x < 0 {
			t.Fatalf("negative component %v", x)
		}
		sum += x
	}
	if sum == 0 {
		t.Error("profile vector is all zeros")
	}

	// A liked movie must be closer to the centroid than an unrelated one.
	own, _ := p.Vectorizer.Transform(FeatureText(&liked[0]))
	other, _ := p.Vectorizer.Transform("romantic comedy wedding")
	if CosineSimilarity(own, p.Vector) <= CosineSimilarity(other, p.Vector) {
		t.Error("liked movie should be more similar to profile than unrelated text")
	}
}

func TestBuildProfile_NoVocabulary(t *testing.T) {
	// Single-letter genre names produce no tokens of length two.
	p := BuildProfile([]models.Movie{{ID: 1, Genres: genres("X")}}, DefaultMaxFeatures)
	if p == nil {
		t.Fatal("BuildProfile() = nil, want profile with frequency tables")
	}
	if p.Vectorizer != nil || p.Vector != nil {
		t.Error("expected no vectorizer for empty vocabulary")
	}
	if p.Genres["x"] != 1 {
		t.Errorf("genre table = %v", p.Genres)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"cosine identical", CosineSimilarity([]float64{1, 2}, []float64{2, 4}), 1},
		{"cosine orthogonal", CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 0},
		{"cosine zero vector", CosineSimilarity([]float64{0, 0}, []float64{1, 1}), 0},
		{"cosine length mismatch", CosineSimilarity([]float64{1}, []float64{1, 1}), 0},
		{"jaccard half", JaccardSimilarity([]string{"Action"}, []string{"action", "Drama"}), 0.5},
		{"jaccard empty", JaccardSimilarity(nil, nil), 0},
		{"jaccard disjoint", JaccardSimilarity([]string{"a"}, []string{"b"}), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}
