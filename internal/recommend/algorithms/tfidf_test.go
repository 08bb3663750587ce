// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{"empty", "", []string{}},
		{"single token", "Action", []string{"action"}},
		{"stop words removed before bigrams", "the dark knight of gotham", []string{"dark", "knight", "gotham", "dark knight", "knight gotham"}},
		{"single letters dropped", "a b cd", []string{"cd"}},
		{"underscored tokens kept", "director_Jane_Doe Drama", []string{"director_jane_doe", "drama", "director_jane_doe drama"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyze(tt.doc)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("analyze(%q) = %v, want %v", tt.doc, got, tt.want)
			}
		})
	}
}

func TestVectorizer_Fit(t *testing.T) {
	v := NewVectorizer(0)
	rows, err := v.Fit([]string{"space opera", "space western", "courtroom drama"})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	terms := v.Terms()
	wantTerms := []string{"courtroom", "courtroom drama", "drama", "opera", "space", "space opera", "space western", "western"}
	if !reflect.DeepEqual(terms, wantTerms) {
		t.Errorf("Terms() = %v, want %v", terms, wantTerms)
	}

	for i, row := range rows {
		if len(row) != v.Dim() {
			t.Errorf("row %d len = %d, want %d", i, len(row), v.Dim())
		}
		if n := l2(row); math.Abs(n-1) > 1e-9 {
			t.Errorf("row %d norm = %v, want 1", i, n)
		}
	}

	// "space" appears in two documents and must weigh less than "opera".
	idx := map[string]int{}
	for i, term := range terms {
		idx[term] = i
	}
	if rows[0][idx["space"]] >= rows[0][idx["opera"]] {
		t.Errorf("space weight %v should be below opera weight %v", rows[0][idx["space"]], rows[0][idx["opera"]])
	}
}

func TestVectorizer_MaxFeatures(t *testing.T) {
	v := NewVectorizer(2)
	if _, err := v.Fit([]string{"alpha alpha beta", "alpha gamma"}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// alpha=3, then beta, gamma, bigrams each 1: alphabetical tie-break keeps "alpha alpha".
	want := []string{"alpha", "alpha alpha"}
	if got := v.Terms(); !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %v, want %v", got, want)
	}
}

func TestVectorizer_EmptyVocabulary(t *testing.T) {
	v := NewVectorizer(10)
	_, err := v.Fit([]string{"", "the of and"})
	if !errors.Is(err, ErrEmptyVocabulary) {
		t.Fatalf("Fit() error = %v, want ErrEmptyVocabulary", err)
	}

	if _, err := v.Transform("anything"); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Transform() error = %v, want ErrNotFitted", err)
	}
}

func TestVectorizer_TransformUnknownTerms(t *testing.T) {
	v := NewVectorizer(10)
	if _, err := v.Fit([]string{"heist thriller"}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	vec, err := v.Transform("romantic comedy")
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if l2(vec) != 0 {
		t.Errorf("expected zero vector for unseen terms, got %v", vec)
	}
}

func TestMeanVector(t *testing.T) {
	got := MeanVector([][]float64{{1, 0, 2}, {3, 2, 0}})
	want := []float64{2, 1, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MeanVector() = %v, want %v", got, want)
	}
	if MeanVector(nil) != nil {
		t.Error("MeanVector(nil) should be nil")
	}
}

func l2(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}
