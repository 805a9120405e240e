package airsearch

import (
	"testing"
)

// testRecords is the sample dataset plus a second London airport and a
// small field without an IATA code, to exercise multi-airport cities
// and code-index eligibility.
func testRecords() []AirportRecord {
	records := SampleAirports()
	records = append(records,
		AirportRecord{ID: 16, Name: "London Gatwick", City: "London", Country: "United Kingdom", IATA: "LGW", ICAO: "EGKK", Latitude: 51.148056, Longitude: -0.190278, Elevation: 202, Timezone: "Europe/London", Type: "airport", Source: "OurAirports"},
		AirportRecord{ID: 17, Name: "Bembridge Airport", City: "Bembridge", Country: "United Kingdom", ICAO: "EGHJ", Latitude: 50.678101, Longitude: -1.10943, Elevation: 53, Timezone: "Europe/London", Type: "airport", Source: "OurAirports"},
	)
	return records
}

func newTestCatalog() *Catalog {
	return NewCatalog(testRecords())
}

func TestSearchByCode(t *testing.T) {
	engine := NewSearchEngine(newTestCatalog())

	tests := []struct {
		query    string
		wantIATA string
	}{
		{"JFK", "JFK"},
		{"jfk", "JFK"},   // caller-side normalization
		{" lax ", "LAX"}, // trimmed
		{"EGLL", "LHR"},  // 4 letters hits the secondary index
		{"kjfk", "JFK"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			result := engine.Search(tt.query)
			if result.Strategy != MatchCode {
				t.Fatalf("Search(%q) strategy = %s, want code", tt.query, result.Strategy)
			}
			if len(result.Records) != 1 || result.Records[0].IATA != tt.wantIATA {
				t.Errorf("Search(%q) = %v, want single record %s", tt.query, result.Records, tt.wantIATA)
			}
		})
	}
}

func TestSearchCodeMissSuggests(t *testing.T) {
	engine := NewSearchEngine(newTestCatalog())

	// "KJF" is one edit from KJFK (similarity 0.75) but far from every
	// 3-letter code, so the miss should carry a suggestion.
	result := engine.Search("KJF")
	if !result.Empty() {
		t.Fatalf("Search(KJF) matched %v, want miss", result.Records)
	}
	if len(result.Suggestions) == 0 {
		t.Fatal("Search(KJF) returned no suggestions")
	}
	found := false
	for _, s := range result.Suggestions {
		if s == "KJFK" {
			found = true
		}
	}
	if !found {
		t.Errorf("suggestions %v do not include KJFK", result.Suggestions)
	}
}

func TestSearchCodeMissNoSuggestions(t *testing.T) {
	// With only JFK and LAX in the store, "LHR" scores below the
	// threshold against every code, so both the match set and the
	// suggestion list must be empty.
	catalog := NewCatalog([]AirportRecord{
		{ID: 1, Name: "John F Kennedy Intl", City: "New York", Country: "United States", IATA: "JFK", Latitude: 40.6398, Longitude: -73.7789},
		{ID: 2, Name: "Los Angeles Intl", City: "Los Angeles", Country: "United States", IATA: "LAX", Latitude: 33.9425, Longitude: -118.4081},
	})
	engine := NewSearchEngine(catalog)

	result := engine.Search("LHR")
	if !result.Empty() {
		t.Fatalf("Search(LHR) matched %v, want miss", result.Records)
	}
	if len(result.Suggestions) != 0 {
		t.Errorf("Search(LHR) suggestions = %v, want none", result.Suggestions)
	}
}

func TestSearchMissFallsBackToNameSuggestions(t *testing.T) {
	// No code keys exist here, so the code-stage fuzzy matcher has
	// nothing to offer; the final miss still surfaces subsequence
	// candidates from display names and city keys.
	catalog := NewCatalog([]AirportRecord{
		{ID: 1, Name: "Lahore Walton", City: "Lahore", Country: "Pakistan", Latitude: 31.4947, Longitude: 74.3461},
	})
	engine := NewSearchEngine(catalog)

	result := engine.Search("LHR")
	if !result.Empty() {
		t.Fatalf("Search(LHR) matched %v, want miss", result.Records)
	}
	if len(result.Suggestions) == 0 {
		t.Fatal("Search(LHR) returned no suggestions")
	}
	found := false
	for _, s := range result.Suggestions {
		if s == "Lahore Walton" {
			found = true
		}
	}
	if !found {
		t.Errorf("suggestions %v do not include Lahore Walton", result.Suggestions)
	}
}

func TestSearchByCitySubstring(t *testing.T) {
	engine := NewSearchEngine(newTestCatalog())

	result := engine.Search("London")
	if result.Strategy != MatchCity {
		t.Fatalf("Search(London) strategy = %s, want city", result.Strategy)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Search(London) = %d records, want 2 (no result cap)", len(result.Records))
	}
	// Same city, so order falls back to record ID.
	if result.Records[0].IATA != "LHR" || result.Records[1].IATA != "LGW" {
		t.Errorf("Search(London) order = %s, %s; want LHR, LGW",
			result.Records[0].IATA, result.Records[1].IATA)
	}
}

func TestSearchByCityFuzzy(t *testing.T) {
	engine := NewSearchEngine(newTestCatalog())

	// One edit from the composite key, so substring matching misses and
	// the fuzzy fallback over city keys has to fire. The fallback unions
	// every key at or above the threshold: the shared ", United Kingdom"
	// suffix pulls Bembridge in alongside the two London airports.
	result := engine.Search("London, United Kingdm")
	if result.Strategy != MatchCity {
		t.Fatalf("strategy = %s, want city", result.Strategy)
	}
	if len(result.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(result.Records))
	}
	// Sorted by city, then ID.
	if result.Records[0].City != "Bembridge" ||
		result.Records[1].IATA != "LHR" || result.Records[2].IATA != "LGW" {
		t.Errorf("order = %s, %s, %s; want Bembridge, LHR, LGW",
			result.Records[0].City, result.Records[1].IATA, result.Records[2].IATA)
	}
}

func TestSearchCountryViaCityKey(t *testing.T) {
	// Composite city keys embed the country, so a country query matches
	// the city stage by substring before the country stage is reached.
	engine := NewSearchEngine(newTestCatalog())

	result := engine.Search("United States")
	if result.Strategy != MatchCity {
		t.Fatalf("strategy = %s, want city", result.Strategy)
	}
	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Records))
	}
	// Sorted by city: Los Angeles before New York.
	if result.Records[0].IATA != "LAX" || result.Records[1].IATA != "JFK" {
		t.Errorf("order = %s, %s; want LAX, JFK", result.Records[0].IATA, result.Records[1].IATA)
	}
}

func TestByCountry(t *testing.T) {
	engine := NewSearchEngine(newTestCatalog())

	records := engine.ByCountry("United Kingdom")
	if len(records) != 3 {
		t.Fatalf("ByCountry(United Kingdom) = %d records, want 3", len(records))
	}
	if records[0].City != "Bembridge" {
		t.Errorf("first record city = %q, want Bembridge (sorted by city)", records[0].City)
	}

	// Two edits away still resolves through the fuzzy fallback.
	fuzzy := engine.ByCountry("Untied Kingdom")
	if len(fuzzy) != 3 {
		t.Errorf("ByCountry(Untied Kingdom) = %d records, want 3", len(fuzzy))
	}

	if got := engine.ByCountry("Atlantis"); len(got) != 0 {
		t.Errorf("ByCountry(Atlantis) = %v, want empty", got)
	}
}

func TestSearchByName(t *testing.T) {
	engine := NewSearchEngine(newTestCatalog())

	result := engine.Search("Kennedy")
	if result.Strategy != MatchName {
		t.Fatalf("Search(Kennedy) strategy = %s, want name", result.Strategy)
	}
	if len(result.Records) != 1 || result.Records[0].IATA != "JFK" {
		t.Errorf("Search(Kennedy) = %v, want JFK", result.Records)
	}

	// Substring matching is case-insensitive and uncapped.
	intl := engine.ByName("intl")
	if len(intl) < 5 {
		t.Errorf("ByName(intl) = %d records, want at least 5", len(intl))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	engine := NewSearchEngine(newTestCatalog())

	for _, q := range []string{"", "   ", "\t"} {
		result := engine.Search(q)
		if !result.Empty() || len(result.Suggestions) != 0 || result.Strategy != MatchNone {
			t.Errorf("Search(%q) = %+v, want empty result", q, result)
		}
	}
}

func TestSearchSkipsCodeStageForNonAlpha(t *testing.T) {
	engine := NewSearchEngine(newTestCatalog())

	// 3 characters but not alphabetic: the code stage must not run, so
	// there are no code suggestions on a full miss.
	result := engine.Search("JF1")
	if !result.Empty() {
		t.Fatalf("Search(JF1) matched %v, want miss", result.Records)
	}
}

func TestCodeMatchWinsOverLaterStages(t *testing.T) {
	// "SIN" is both a valid IATA code and a substring of the
	// "Singapore, Singapore" city key; the code stage has precedence.
	engine := NewSearchEngine(newTestCatalog())

	result := engine.Search("SIN")
	if result.Strategy != MatchCode {
		t.Fatalf("Search(SIN) strategy = %s, want code", result.Strategy)
	}
	if len(result.Records) != 1 || result.Records[0].IATA != "SIN" {
		t.Errorf("Search(SIN) = %v, want single SIN record", result.Records)
	}
}

func TestEveryIndexedCodeResolvesToItself(t *testing.T) {
	catalog := newTestCatalog()
	engine := NewSearchEngine(catalog)

	for _, r := range catalog.Store().All() {
		if !r.HasIATA() {
			continue
		}
		result := engine.Search(r.IATA)
		if len(result.Records) != 1 || result.Records[0].ID != r.ID {
			t.Errorf("Search(%s) = %v, want exactly record %d", r.IATA, result.Records, r.ID)
		}
	}
}
