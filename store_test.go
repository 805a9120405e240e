package airsearch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRecords(t *testing.T) {
	path := writeTempFile(t, "airports.json", `[
		{"id": 1, "name": "John F Kennedy Intl", "city": "New York", "country": "United States", "iata": "JFK", "icao": "KJFK", "latitude": 40.6398, "longitude": -73.7789},
		{"id": 2, "name": "Los Angeles Intl", "city": "Los Angeles", "country": "United States", "iata": "LAX", "icao": "KLAX", "latitude": 33.9425, "longitude": -118.4081}
	]`)

	store, err := LoadRecords(path)
	if err != nil {
		t.Fatal(err)
	}
	if store.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", store.Count())
	}
	if store.Skipped() != 0 {
		t.Errorf("Skipped() = %d, want 0", store.Skipped())
	}
	// Load order is stable.
	if store.All()[0].IATA != "JFK" || store.All()[1].IATA != "LAX" {
		t.Errorf("load order = %s, %s; want JFK, LAX", store.All()[0].IATA, store.All()[1].IATA)
	}
}

func TestLoadRecordsSkipsPartialRows(t *testing.T) {
	path := writeTempFile(t, "airports.json", `[
		{"id": 1, "name": "John F Kennedy Intl", "city": "New York", "country": "United States", "iata": "JFK", "latitude": 40.6398, "longitude": -73.7789},
		{"id": 2, "name": 12345, "city": "Nowhere", "country": "Nowhere"},
		{"id": 3, "name": "Missing City", "city": "", "country": "United States"},
		{"id": 4, "name": "Los Angeles Intl", "city": "Los Angeles", "country": "United States", "iata": "LAX", "latitude": 33.9425, "longitude": -118.4081}
	]`)

	store, err := LoadRecords(path)
	if err != nil {
		t.Fatal(err)
	}
	if store.Count() != 2 {
		t.Errorf("Count() = %d, want 2 (bad rows skipped, not fatal)", store.Count())
	}
	if store.Skipped() != 2 {
		t.Errorf("Skipped() = %d, want 2", store.Skipped())
	}
}

func TestLoadRecordsMissingSource(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrMissingSource) {
		t.Errorf("err = %v, want ErrMissingSource", err)
	}
}

func TestLoadRecordsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "definitely not json"},
		{"object instead of array", `{"id": 1}`},
		{"empty array", `[]`},
		{"no usable records", `[{"name": 1}, {"name": 2}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "airports.json", tt.payload)
			if _, err := LoadRecords(path); !errors.Is(err, ErrMalformed) {
				t.Errorf("err = %v, want ErrMalformed", err)
			}
		})
	}
}
