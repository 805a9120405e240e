package airsearch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Snapshot file names. The four index files use the persisted shape the
// index loader consumes: code files map key -> record, city/country
// files map key -> record sequence.
const (
	recordsFile      = "airports.json"
	iataIndexFile    = "iata_index.json"
	icaoIndexFile    = "icao_index.json"
	cityIndexFile    = "city_index.json"
	countryIndexFile = "country_index.json"
	countriesFile    = "countries.json"
	citiesFile       = "cities.json"

	rawAirportsFile = "airports_raw.dat"
)

// datasetURL is the OpenFlights airport dump, ~7K airports worldwide.
const datasetURL = "https://raw.githubusercontent.com/jpatokal/openflights/master/data/airports.dat"

// httpClient is shared by all downloads.
var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// DatasetBuilder downloads the raw airport feed and turns it into the
// snapshot files the catalog loads. It lives entirely upstream of the
// query core: the core only ever consumes its output.
type DatasetBuilder struct {
	cfg *Config
}

// NewDatasetBuilder constructs a builder; WithDataDir and
// WithSnapshotDir control where files land.
func NewDatasetBuilder(opts ...Option) *DatasetBuilder {
	return &DatasetBuilder{cfg: newConfig(opts)}
}

// Fetch downloads the raw dataset unless it is already present.
func (b *DatasetBuilder) Fetch() error {
	if err := os.MkdirAll(b.cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	path := filepath.Join(b.cfg.DataDir, rawAirportsFile)
	if _, err := os.Stat(path); err == nil {
		b.cfg.logger.Info("raw dataset already present", zap.String("path", path))
		return nil
	}
	b.cfg.logger.Info("downloading airport dataset", zap.String("url", datasetURL))
	if err := downloadFile(datasetURL, path); err != nil {
		return fmt.Errorf("downloading dataset: %w", err)
	}
	return nil
}

// Build parses the raw feed into records and writes the snapshot files.
// When the raw feed is missing it falls back to the built-in sample
// dataset so the rest of the system stays usable offline. Returns the
// number of records written.
func (b *DatasetBuilder) Build() (int, error) {
	var (
		records []AirportRecord
		skipped int
	)

	path := filepath.Join(b.cfg.DataDir, rawAirportsFile)
	fi, err := os.Open(path)
	if err == nil {
		defer fi.Close()
		records, skipped = ParseRawAirports(fi)
		b.cfg.logger.Info("parsed raw dataset",
			zap.Int("records", len(records)),
			zap.Int("skipped", skipped))
	} else {
		b.cfg.logger.Warn("raw dataset unavailable, using sample data", zap.Error(err))
		records = SampleAirports()
	}

	if len(records) == 0 {
		return 0, fmt.Errorf("%w: raw feed produced no records", ErrMalformed)
	}
	if err := WriteSnapshot(b.cfg.SnapshotDir, records); err != nil {
		return 0, err
	}
	b.cfg.logger.Info("snapshot written",
		zap.String("dir", b.cfg.SnapshotDir),
		zap.Int("records", len(records)))
	return len(records), nil
}

func downloadFile(url, path string) error {
	resp, err := httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("HTTP GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP GET %s: status %d", url, resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}

	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(path) // best-effort cleanup of partial file
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing file %s: %w", path, err)
	}
	success = true
	return nil
}

// ParseRawAirports reads the OpenFlights CSV feed into records. Rows
// with too few fields or unparseable coordinates are skipped and
// counted, never fatal. Rows whose coordinates geohash-collide with an
// earlier row are duplicates of the same physical location and are
// dropped.
func ParseRawAirports(r io.Reader) ([]AirportRecord, int) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		records []AirportRecord
		skipped int
		seen    = make(map[string]bool)
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(row) < 14 {
			skipped++
			continue
		}

		lat, errLat := strconv.ParseFloat(row[6], 64)
		lng, errLng := strconv.ParseFloat(row[7], 64)
		if errLat != nil || errLng != nil {
			skipped++
			continue
		}

		id, _ := strconv.Atoi(row[0])
		elevation, _ := strconv.Atoi(row[8])

		rec := AirportRecord{
			ID:        id,
			Name:      cleanField(row[1]),
			City:      cleanField(row[2]),
			Country:   cleanField(row[3]),
			IATA:      cleanField(row[4]),
			ICAO:      cleanField(row[5]),
			Latitude:  lat,
			Longitude: lng,
			Elevation: elevation,
			Timezone:  cleanField(row[11]),
			Type:      cleanField(row[12]),
			Source:    cleanField(row[13]),
		}
		if rec.Name == "" || rec.City == "" || rec.Country == "" {
			skipped++
			continue
		}

		hash := rec.Geohash()
		if seen[hash] {
			skipped++
			continue
		}
		seen[hash] = true
		records = append(records, rec)
	}
	return records, skipped
}

// cleanField strips quoting leftovers and the OpenFlights \N null
// marker.
func cleanField(s string) string {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if s == `\N` {
		return ""
	}
	return s
}

// WriteSnapshot persists records plus the four derived index mappings
// and the key lists as UTF-8 JSON, the exact shape the catalog loaders
// consume.
func WriteSnapshot(dir string, records []AirportRecord) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	ix := BuildIndexes(NewRecordStore(records))

	iataOut := make(map[string]AirportRecord, len(ix.iata))
	for code, i := range ix.iata {
		iataOut[code] = records[i]
	}
	icaoOut := make(map[string]AirportRecord, len(ix.icao))
	for code, i := range ix.icao {
		icaoOut[code] = records[i]
	}
	cityOut := make(map[string][]AirportRecord, len(ix.city))
	for key := range ix.city {
		cityOut[key] = ix.ByCityKey(key)
	}
	countryOut := make(map[string][]AirportRecord, len(ix.country))
	for key := range ix.country {
		countryOut[key] = ix.ByCountry(key)
	}

	files := map[string]any{
		recordsFile:      records,
		iataIndexFile:    iataOut,
		icaoIndexFile:    icaoOut,
		cityIndexFile:    cityOut,
		countryIndexFile: countryOut,
		countriesFile:    ix.CountryKeys(),
		citiesFile:       ix.CityKeys(),
	}
	for name, payload := range files {
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}

// SampleAirports is the built-in fallback dataset: fifteen major
// airports, enough for the system to answer meaningful queries when the
// feed cannot be downloaded.
func SampleAirports() []AirportRecord {
	return []AirportRecord{
		{ID: 1, Name: "John F Kennedy Intl", City: "New York", Country: "United States", IATA: "JFK", ICAO: "KJFK", Latitude: 40.639751, Longitude: -73.778925, Elevation: 13, Timezone: "America/New_York", Type: "airport", Source: "OurAirports"},
		{ID: 2, Name: "Los Angeles Intl", City: "Los Angeles", Country: "United States", IATA: "LAX", ICAO: "KLAX", Latitude: 33.942536, Longitude: -118.408075, Elevation: 125, Timezone: "America/Los_Angeles", Type: "airport", Source: "OurAirports"},
		{ID: 3, Name: "London Heathrow", City: "London", Country: "United Kingdom", IATA: "LHR", ICAO: "EGLL", Latitude: 51.4706, Longitude: -0.461941, Elevation: 83, Timezone: "Europe/London", Type: "airport", Source: "OurAirports"},
		{ID: 4, Name: "Tokyo Haneda Intl", City: "Tokyo", Country: "Japan", IATA: "HND", ICAO: "RJTT", Latitude: 35.552258, Longitude: 139.779694, Elevation: 35, Timezone: "Asia/Tokyo", Type: "airport", Source: "OurAirports"},
		{ID: 5, Name: "Charles de Gaulle", City: "Paris", Country: "France", IATA: "CDG", ICAO: "LFPG", Latitude: 49.012779, Longitude: 2.55, Elevation: 392, Timezone: "Europe/Paris", Type: "airport", Source: "OurAirports"},
		{ID: 6, Name: "Dubai Intl", City: "Dubai", Country: "United Arab Emirates", IATA: "DXB", ICAO: "OMDB", Latitude: 25.252778, Longitude: 55.364444, Elevation: 62, Timezone: "Asia/Dubai", Type: "airport", Source: "OurAirports"},
		{ID: 7, Name: "Singapore Changi", City: "Singapore", Country: "Singapore", IATA: "SIN", ICAO: "WSSS", Latitude: 1.350189, Longitude: 103.994433, Elevation: 22, Timezone: "Asia/Singapore", Type: "airport", Source: "OurAirports"},
		{ID: 8, Name: "Amsterdam Schiphol", City: "Amsterdam", Country: "Netherlands", IATA: "AMS", ICAO: "EHAM", Latitude: 52.308613, Longitude: 4.763889, Elevation: -11, Timezone: "Europe/Amsterdam", Type: "airport", Source: "OurAirports"},
		{ID: 9, Name: "Frankfurt am Main", City: "Frankfurt", Country: "Germany", IATA: "FRA", ICAO: "EDDF", Latitude: 50.033333, Longitude: 8.570556, Elevation: 364, Timezone: "Europe/Berlin", Type: "airport", Source: "OurAirports"},
		{ID: 10, Name: "Hong Kong Intl", City: "Hong Kong", Country: "Hong Kong", IATA: "HKG", ICAO: "VHHH", Latitude: 22.308919, Longitude: 113.914603, Elevation: 28, Timezone: "Asia/Hong_Kong", Type: "airport", Source: "OurAirports"},
		{ID: 11, Name: "Sydney Kingsford Smith", City: "Sydney", Country: "Australia", IATA: "SYD", ICAO: "YSSY", Latitude: -33.946609, Longitude: 151.177002, Elevation: 21, Timezone: "Australia/Sydney", Type: "airport", Source: "OurAirports"},
		{ID: 12, Name: "Toronto Pearson Intl", City: "Toronto", Country: "Canada", IATA: "YYZ", ICAO: "CYYZ", Latitude: 43.677223, Longitude: -79.630556, Elevation: 569, Timezone: "America/Toronto", Type: "airport", Source: "OurAirports"},
		{ID: 13, Name: "Mumbai Chhatrapati Shivaji", City: "Mumbai", Country: "India", IATA: "BOM", ICAO: "VABB", Latitude: 19.088686, Longitude: 72.867919, Elevation: 39, Timezone: "Asia/Kolkata", Type: "airport", Source: "OurAirports"},
		{ID: 14, Name: "Beijing Capital Intl", City: "Beijing", Country: "China", IATA: "PEK", ICAO: "ZBAA", Latitude: 40.080111, Longitude: 116.584556, Elevation: 116, Timezone: "Asia/Shanghai", Type: "airport", Source: "OurAirports"},
		{ID: 15, Name: "São Paulo Guarulhos", City: "São Paulo", Country: "Brazil", IATA: "GRU", ICAO: "SBGR", Latitude: -23.435556, Longitude: -46.473056, Elevation: 2459, Timezone: "America/Sao_Paulo", Type: "airport", Source: "OurAirports"},
	}
}
