// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxFeatures caps the TF-IDF vocabulary.
const DefaultMaxFeatures = 1000

// ErrEmptyVocabulary is returned by Fit when no document yields a term.
var ErrEmptyVocabulary = errors.New("tfidf: empty vocabulary")

// ErrNotFitted is returned by Transform on a vectorizer without vocabulary.
var ErrNotFitted = errors.New("tfidf: vectorizer not fitted")

var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// Vectorizer converts documents into L2-normalized TF-IDF vectors.
//
// Tokens are lower-cased words of two or more word characters with English
// stop words removed. Unigrams and bigrams of the remaining tokens form the
// terms. The vocabulary keeps the MaxFeatures terms with the highest corpus
// frequency (ties alphabetical) and is indexed alphabetically. IDF is
// smoothed: ln((1+n)/(1+df)) + 1.
//
// A fitted Vectorizer is read-only and safe for concurrent Transform calls.
type Vectorizer struct {
	MaxFeatures int

	vocabulary map[string]int
	terms      []string
	idf        []float64
}

// NewVectorizer returns an unfitted vectorizer. maxFeatures <= 0 selects
// DefaultMaxFeatures.
func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Vectorizer{MaxFeatures: maxFeatures}
}

// Fit learns vocabulary and IDF weights from docs and returns the TF-IDF
// matrix of the same documents, one row per document.
func (v *Vectorizer) Fit(docs []string) ([][]float64, error) {
	analyzed := make([][]string, len(docs))
	corpusFreq := make(map[string]int)
	docFreq := make(map[string]int)

	for i, doc := range docs {
		terms := analyze(doc)
		analyzed[i] = terms

		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			corpusFreq[t]++
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				docFreq[t]++
			}
		}
	}

	if len(corpusFreq) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(corpusFreq))
	for t := range corpusFreq {
		terms = append(terms, t)
	}

	if len(terms) > v.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if corpusFreq[terms[i]] != corpusFreq[terms[j]] {
				return corpusFreq[terms[i]] > corpusFreq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.MaxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v.terms = terms
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, t := range terms {
		v.vocabulary[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}

	rows := make([][]float64, len(analyzed))
	for i, doc := range analyzed {
		rows[i] = v.vectorize(doc)
	}
	return rows, nil
}

// Transform maps a document onto the fitted vocabulary.
func (v *Vectorizer) Transform(doc string) ([]float64, error) {
	if v == nil || len(v.vocabulary) == 0 {
		return nil, ErrNotFitted
	}
	return v.vectorize(analyze(doc)), nil
}

// Dim returns the vocabulary size.
func (v *Vectorizer) Dim() int {
	if v == nil {
		return 0
	}
	return len(v.terms)
}

// Terms returns the vocabulary in index order.
func (v *Vectorizer) Terms() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.terms...)
}

func (v *Vectorizer) vectorize(terms []string) []float64 {
	vec := make([]float64, len(v.terms))
	for _, t := range terms {
		if idx, ok := v.vocabulary[t]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for i := range vec {
		vec[i] *= v.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm == 0 {
		return vec
	}

	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// analyze tokenizes doc and emits unigrams followed by bigrams.
func analyze(doc string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(doc), -1)

	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := englishStopWords[tok]; !stop {
			tokens = append(tokens, tok)
		}
	}

	if len(tokens) < 2 {
		return tokens
	}

	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// MeanVector returns the element-wise mean of rows. All rows must share a
// length; an empty input yields nil.
func MeanVector(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}

	mean := make([]float64, len(rows[0]))
	for _, row := range rows {
		for i, x := range row {
			mean[i] += x
		}
	}

	n := float64(len(rows))
	for i := range mean {
		mean[i] /= n
	}
	return mean
}
