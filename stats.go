package airsearch

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/samber/lo"
)

// Statistics aggregates reporting figures over a catalog. It holds a
// reference to a SearchEngine and calls its read-only query contract;
// it needs nothing from the engine's internals.
type Statistics struct {
	engine        *SearchEngine
	total         int
	iataCount     int
	countryCounts map[string]int
	cityCounts    map[string]int
}

// Tally is one name/count pair in a ranking.
type Tally struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Overview is the global dataset summary.
type Overview struct {
	Airports     int `json:"airports"`
	Countries    int `json:"countries"`
	Cities       int `json:"cities"`
	IATAAirports int `json:"iata_airports"`
	Regional     int `json:"regional_airports"` // records without an indexable IATA code
}

// CountryReport is the per-country detail breakdown.
type CountryReport struct {
	Country      string          `json:"country"`
	Airports     []AirportRecord `json:"airports"` // sorted by city
	Cities       int             `json:"cities"`
	IATAAirports int             `json:"iata_airports"`
}

// NewStatistics aggregates once over the engine's catalog. The figures
// are immutable afterwards, like everything else built from a store
// snapshot.
func NewStatistics(engine *SearchEngine) *Statistics {
	records := engine.catalog.store.All()
	return &Statistics{
		engine:    engine,
		total:     len(records),
		iataCount: lo.CountBy(records, AirportRecord.HasIATA),
		countryCounts: lo.CountValuesBy(records, func(r AirportRecord) string {
			return r.Country
		}),
		cityCounts: lo.CountValuesBy(records, func(r AirportRecord) string {
			return r.CityKey()
		}),
	}
}

// Overview returns the global summary.
func (s *Statistics) Overview() Overview {
	return Overview{
		Airports:     s.total,
		Countries:    len(s.countryCounts),
		Cities:       len(s.cityCounts),
		IATAAirports: s.iataCount,
		Regional:     s.total - s.iataCount,
	}
}

// TopCountries ranks countries by airport count, descending, ties by
// name. n <= 0 returns the full ranking.
func (s *Statistics) TopCountries(n int) []Tally {
	return topTallies(s.countryCounts, n)
}

// TopCities ranks composite city keys by airport count. Callers usually
// only display entries with more than one airport.
func (s *Statistics) TopCities(n int) []Tally {
	return topTallies(s.cityCounts, n)
}

func topTallies(counts map[string]int, n int) []Tally {
	tallies := make([]Tally, 0, len(counts))
	for name, count := range counts {
		tallies = append(tallies, Tally{Name: name, Count: count})
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Count != tallies[j].Count {
			return tallies[i].Count > tallies[j].Count
		}
		return tallies[i].Name < tallies[j].Name
	})
	if n > 0 && len(tallies) > n {
		tallies = tallies[:n]
	}
	return tallies
}

// CountryReport builds the detail report for one country, using the
// engine's country lookup so near-miss spellings still resolve.
func (s *Statistics) CountryReport(name string) (CountryReport, error) {
	airports := s.engine.ByCountry(name)
	if len(airports) == 0 {
		return CountryReport{}, fmt.Errorf("%w: no airports for country %q", ErrNotFound, name)
	}

	cities := lo.CountValuesBy(airports, func(r AirportRecord) string {
		return r.City
	})
	return CountryReport{
		Country:      airports[0].Country,
		Airports:     airports,
		Cities:       len(cities),
		IATAAirports: lo.CountBy(airports, AirportRecord.HasIATA),
	}, nil
}

// countryExport is the JSON envelope written by ExportCountry.
type countryExport struct {
	Country       string          `json:"country"`
	TotalAirports int             `json:"total_airports"`
	GeneratedDate string          `json:"generated_date"`
	Airports      []AirportRecord `json:"airports"`
}

// ExportCountry writes a country's airports as an indented UTF-8 JSON
// document with a small metadata envelope.
func (s *Statistics) ExportCountry(name string, w io.Writer) error {
	report, err := s.CountryReport(name)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(countryExport{
		Country:       report.Country,
		TotalAirports: len(report.Airports),
		GeneratedDate: time.Now().UTC().Format("2006-01-02"),
		Airports:      report.Airports,
	})
}
