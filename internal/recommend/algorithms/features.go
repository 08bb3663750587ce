// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tomtom215/cinematch/internal/models"
)

const (
	// MaxCastFeatures is how many billed cast members feed the feature text
	// and the profile cast table.
	MaxCastFeatures = 5

	// MaxKeywords is how many description keywords feed the feature text.
	MaxKeywords = 10
)

var keywordPattern = regexp.MustCompile(`\b[a-z]{4,}\b`)

// keywordStoplist removes words that describe almost every synopsis.
var keywordStoplist = map[string]struct{}{
	"movie": {}, "film": {}, "story": {}, "when": {}, "after": {},
	"with": {}, "their": {}, "they": {}, "this": {}, "that": {},
}

// FeatureText builds the bag-of-tokens document for a movie: genre names,
// a director token, tokens for the first five cast members and up to ten
// description keywords, joined by single spaces. Output is deterministic.
func FeatureText(m *models.Movie) string {
	if m == nil {
		return ""
	}

	parts := make([]string, 0, len(m.Genres)+1+MaxCastFeatures+MaxKeywords)
	for _, g := range m.Genres {
		if g.Name != "" {
			parts = append(parts, g.Name)
		}
	}

	if d := strings.TrimSpace(m.Director); d != "" {
		parts = append(parts, "director_"+underscore(d))
	}

	for _, actor := range firstCast(m.Cast) {
		parts = append(parts, "actor_"+underscore(actor))
	}

	parts = append(parts, ExtractKeywords(m.Description, MaxKeywords)...)

	return strings.Join(parts, " ")
}

// ExtractKeywords returns up to n lower-case words of four or more letters
// from text, most frequent first. Ties keep first-occurrence order.
func ExtractKeywords(text string, n int) []string {
	if text == "" || n <= 0 {
		return nil
	}

	words := keywordPattern.FindAllString(strings.ToLower(text), -1)

	counts := make(map[string]int, len(words))
	order := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := keywordStoplist[w]; stop {
			continue
		}
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}

func firstCast(cast []string) []string {
	out := make([]string, 0, MaxCastFeatures)
	for _, c := range cast {
		if len(out) == MaxCastFeatures {
			break
		}
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func underscore(s string) string {
	return strings.Join(strings.Fields(s), "_")
}
