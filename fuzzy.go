package airsearch

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Fuzzy-match configuration defaults. These were fixed literals in the
// system this engine replaces; they are exported so integrators can tune
// them through SearchOptions instead of recompiling.
const (
	// DefaultSimilarityThreshold is the minimum normalized similarity a
	// candidate needs to be suggested at all.
	DefaultSimilarityThreshold = 0.6

	// DefaultCodeSuggestions caps "did you mean" suggestions after a
	// failed code lookup.
	DefaultCodeSuggestions = 5

	// DefaultCityMatches caps fuzzy city-key matches whose buckets are
	// unioned when substring matching finds nothing.
	DefaultCityMatches = 10

	// DefaultCountryMatches caps fuzzy country matches.
	DefaultCountryMatches = 3
)

// Similarity returns a normalized string-similarity score in [0, 1]:
// 1 is an exact match (case-insensitive), 0 shares nothing. The score
// is the Levenshtein distance scaled by the longer input's rune length.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// ClosestMatches ranks candidates by Similarity against the query,
// keeps those at or above threshold and returns the top maxResults by
// descending score. Equal scores break by lexical candidate order so
// the result is deterministic for any candidate ordering.
//
// This is strictly a fallback: the search engine only consults it after
// exact and substring lookups come up empty, and its output is surfaced
// as suggestions, never as a match.
func ClosestMatches(query string, candidates []string, maxResults int, threshold float64) []string {
	if maxResults <= 0 || query == "" {
		return nil
	}

	type scored struct {
		candidate string
		score     float64
	}
	kept := make([]scored, 0, maxResults)
	for _, c := range candidates {
		if s := Similarity(query, c); s >= threshold {
			kept = append(kept, scored{c, s})
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].score != kept[j].score {
			return kept[i].score > kept[j].score
		}
		return kept[i].candidate < kept[j].candidate
	})

	if len(kept) == 0 {
		return nil
	}
	if len(kept) > maxResults {
		kept = kept[:maxResults]
	}
	out := make([]string, len(kept))
	for i, s := range kept {
		out[i] = s.candidate
	}
	return out
}
