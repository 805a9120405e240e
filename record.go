package airsearch

import (
	"fmt"
	"strings"

	geohash "github.com/TomiHiltunen/geohash-golang"
)

// AirportRecord is a single airport as loaded from a dataset snapshot.
// Records are immutable once loaded; all query components receive copies
// or read-only views and never write back.
type AirportRecord struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	IATA      string  `json:"iata"`      // 3-letter code, may be empty
	ICAO      string  `json:"icao"`      // 4-letter code, may be empty
	Latitude  float64 `json:"latitude"`  // degrees
	Longitude float64 `json:"longitude"` // degrees
	Elevation int     `json:"elevation"` // feet, 0 = unknown
	Timezone  string  `json:"timezone"`  // free-text label, may be empty
	Type      string  `json:"type"`      // facility type tag
	Source    string  `json:"source"`    // provenance tag
}

// geohashPrecision gives ~5m cells, enough to treat two records at the
// same hash as the same physical location.
const geohashPrecision = 9

// CityKey returns the composite "City, Country" index key that
// disambiguates same-named cities in different countries.
func (r AirportRecord) CityKey() string {
	return fmt.Sprintf("%s, %s", r.City, r.Country)
}

// Geohash encodes the record's coordinates for location display and
// duplicate detection during dataset builds.
func (r AirportRecord) Geohash() string {
	return geohash.EncodeWithPrecision(r.Latitude, r.Longitude, geohashPrecision)
}

// HasIATA reports whether the record is eligible for the primary-code
// index: exactly 3 alphabetic characters. Records failing this stay in
// the store but are never code-indexed.
func (r AirportRecord) HasIATA() bool {
	return len(r.IATA) == 3 && isAlpha(r.IATA)
}

// HasICAO reports whether the record is eligible for the secondary-code
// index: exactly 4 characters.
func (r AirportRecord) HasICAO() bool {
	return len(r.ICAO) == 4
}

// Codes returns a "IATA/ICAO" style label for display, degrading
// gracefully when either code is missing.
func (r AirportRecord) Codes() string {
	switch {
	case r.IATA != "" && r.ICAO != "":
		return r.IATA + "/" + r.ICAO
	case r.IATA != "":
		return r.IATA
	default:
		return r.ICAO
	}
}

func isAlpha(s string) bool {
	for _, c := range s {
		if !('a' <= c && c <= 'z') && !('A' <= c && c <= 'Z') {
			return false
		}
	}
	return s != ""
}

// normalizeCode uppercases and trims a code query before index lookup.
// Index keys are stored uppercase; callers normalize, indexes stay
// case-sensitive.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
