package airsearch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// IndexSet holds the four derived mappings over a RecordStore: primary
// code, secondary code, composite city key and country. Values are
// positions into the store slice so that indexed records are always
// shared views of the store, never copies that could drift.
//
// An IndexSet is built once after the store finishes loading and is
// never mutated afterwards; a reload rebuilds it wholesale.
type IndexSet struct {
	store   *RecordStore
	iata    map[string]int
	icao    map[string]int
	city    map[string][]int
	country map[string][]int
}

// BuildIndexes derives an IndexSet from a store snapshot. It is a pure
// function of the snapshot: identical input order yields identical
// mappings, and duplicate code collisions resolve to the last record
// encountered in store order.
func BuildIndexes(store *RecordStore) *IndexSet {
	ix := &IndexSet{
		store:   store,
		iata:    make(map[string]int),
		icao:    make(map[string]int),
		city:    make(map[string][]int),
		country: make(map[string][]int),
	}
	for i, r := range store.records {
		if r.HasIATA() {
			ix.iata[normalizeCode(r.IATA)] = i
		}
		if r.HasICAO() {
			ix.icao[normalizeCode(r.ICAO)] = i
		}
		key := r.CityKey()
		ix.city[key] = append(ix.city[key], i)
		ix.country[r.Country] = append(ix.country[r.Country], i)
	}
	return ix
}

// ByIATA looks up a record by its 3-letter primary code. The lookup is
// case-sensitive on the stored key; callers normalize first.
func (ix *IndexSet) ByIATA(code string) (AirportRecord, bool) {
	i, ok := ix.iata[code]
	if !ok {
		return AirportRecord{}, false
	}
	return ix.store.records[i], true
}

// ByICAO looks up a record by its 4-letter secondary code.
func (ix *IndexSet) ByICAO(code string) (AirportRecord, bool) {
	i, ok := ix.icao[code]
	if !ok {
		return AirportRecord{}, false
	}
	return ix.store.records[i], true
}

// ByCityKey returns every record sharing a composite "City, Country"
// key, in store order. Unknown keys yield an empty slice, never an
// error.
func (ix *IndexSet) ByCityKey(key string) []AirportRecord {
	return ix.resolve(ix.city[key])
}

// ByCountry returns every record in a country, in store order.
func (ix *IndexSet) ByCountry(name string) []AirportRecord {
	return ix.resolve(ix.country[name])
}

// CityKeys returns all composite city keys in lexical order.
func (ix *IndexSet) CityKeys() []string {
	return sortedKeys(ix.city)
}

// CountryKeys returns all country names in lexical order.
func (ix *IndexSet) CountryKeys() []string {
	return sortedKeys(ix.country)
}

// CodeKeys returns the union of primary and secondary code keys in
// lexical order. This is the fuzzy-suggestion candidate pool for code
// lookups.
func (ix *IndexSet) CodeKeys() []string {
	keys := make([]string, 0, len(ix.iata)+len(ix.icao))
	for k := range ix.iata {
		keys = append(keys, k)
	}
	for k := range ix.icao {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (ix *IndexSet) resolve(positions []int) []AirportRecord {
	records := make([]AirportRecord, 0, len(positions))
	for _, i := range positions {
		records = append(records, ix.store.records[i])
	}
	return records
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadIndexSnapshot consumes the four persisted index mappings and
// resolves them against an already-loaded store. The persisted values
// must be record-shaped (code indexes) or record-sequence-shaped
// (city/country indexes); anything else fails with ErrMalformed.
// Resolution is by record ID so the resulting IndexSet still holds
// store positions, preserving the shared-view invariant.
func LoadIndexSnapshot(dir string, store *RecordStore) (*IndexSet, error) {
	byID := make(map[int]int, len(store.records))
	for i, r := range store.records {
		byID[r.ID] = i
	}

	ix := &IndexSet{
		store:   store,
		iata:    make(map[string]int),
		icao:    make(map[string]int),
		city:    make(map[string][]int),
		country: make(map[string][]int),
	}

	if err := loadCodeIndex(filepath.Join(dir, iataIndexFile), byID, ix.iata); err != nil {
		return nil, err
	}
	if err := loadCodeIndex(filepath.Join(dir, icaoIndexFile), byID, ix.icao); err != nil {
		return nil, err
	}
	if err := loadBucketIndex(filepath.Join(dir, cityIndexFile), byID, ix.city); err != nil {
		return nil, err
	}
	if err := loadBucketIndex(filepath.Join(dir, countryIndexFile), byID, ix.country); err != nil {
		return nil, err
	}
	return ix, nil
}

func loadCodeIndex(path string, byID map[int]int, dst map[string]int) error {
	raw, err := readIndexPayload(path)
	if err != nil {
		return err
	}
	for key, msg := range raw {
		var r AirportRecord
		if err := json.Unmarshal(msg, &r); err != nil {
			return fmt.Errorf("%w: %s key %q is not a record: %v", ErrMalformed, path, key, err)
		}
		if i, ok := byID[r.ID]; ok {
			dst[key] = i
		}
	}
	return nil
}

func loadBucketIndex(path string, byID map[int]int, dst map[string][]int) error {
	raw, err := readIndexPayload(path)
	if err != nil {
		return err
	}
	for key, msg := range raw {
		var rs []AirportRecord
		if err := json.Unmarshal(msg, &rs); err != nil {
			return fmt.Errorf("%w: %s key %q is not a record sequence: %v", ErrMalformed, path, key, err)
		}
		for _, r := range rs {
			if i, ok := byID[r.ID]; ok {
				dst[key] = append(dst[key], i)
			}
		}
	}
	return nil
}

func readIndexPayload(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSource, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s is not a keyed mapping: %v", ErrMalformed, path, err)
	}
	return raw, nil
}
