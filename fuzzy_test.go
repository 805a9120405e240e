package airsearch

import (
	"reflect"
	"testing"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"JFK", "JFK", 1},
		{"jfk", "JFK", 1}, // case-insensitive
		{"", "", 1},       // nothing differs
		{"Londn", "London", 5.0 / 6.0},
		{"KJF", "KJFK", 0.75},
		{"LHR", "JFK", 0},
	}
	for _, tt := range tests {
		got := Similarity(tt.a, tt.b)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClosestMatches(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		candidates []string
		maxResults int
		threshold  float64
		want       []string
	}{
		{
			name:       "single clear winner",
			query:      "Londn",
			candidates: []string{"London", "Paris", "Luton"},
			maxResults: 5,
			threshold:  0.6,
			want:       []string{"London"},
		},
		{
			name:       "equal scores break lexically",
			query:      "AAA",
			candidates: []string{"AAC", "AAB"},
			maxResults: 5,
			threshold:  0.6,
			want:       []string{"AAB", "AAC"},
		},
		{
			name:       "maxResults truncates",
			query:      "AAA",
			candidates: []string{"AAC", "AAB"},
			maxResults: 1,
			threshold:  0.6,
			want:       []string{"AAB"},
		},
		{
			name:       "threshold filters everything",
			query:      "XYZ",
			candidates: []string{"AAB", "AAC"},
			maxResults: 5,
			threshold:  0.6,
			want:       nil,
		},
		{
			name:       "empty query matches nothing",
			query:      "",
			candidates: []string{"AAB"},
			maxResults: 5,
			threshold:  0.6,
			want:       nil,
		},
		{
			name:       "higher score ranks first",
			query:      "LONDON",
			candidates: []string{"LONDONDERRY", "LONDON"},
			maxResults: 5,
			threshold:  0.5,
			want:       []string{"LONDON", "LONDONDERRY"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClosestMatches(tt.query, tt.candidates, tt.maxResults, tt.threshold)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ClosestMatches(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestClosestMatchesDeterministicAcrossOrderings(t *testing.T) {
	a := ClosestMatches("AAA", []string{"AAB", "AAC", "AAD"}, 3, 0.6)
	b := ClosestMatches("AAA", []string{"AAD", "AAC", "AAB"}, 3, 0.6)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("candidate order changed the result: %v vs %v", a, b)
	}
}
