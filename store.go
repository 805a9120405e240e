package airsearch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// RecordStore is the immutable in-memory collection of airport records.
// It is loaded once and never mutated; concurrent reads need no locking.
type RecordStore struct {
	records []AirportRecord
	skipped int
}

// NewRecordStore wraps an already-parsed record slice. The slice is
// owned by the store afterwards and must not be modified by the caller.
func NewRecordStore(records []AirportRecord) *RecordStore {
	return &RecordStore{records: records}
}

// LoadRecords reads an airports.json snapshot into a RecordStore.
//
// A missing file fails with ErrMissingSource and a payload from which no
// record can be parsed fails with ErrMalformed. Individual elements that
// do not decode into a record, or that lack name/city/country, are
// skipped and counted rather than aborting the load.
func LoadRecords(path string) (*RecordStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSource, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s is not a record array: %v", ErrMalformed, path, err)
	}

	store := &RecordStore{records: make([]AirportRecord, 0, len(raw))}
	for _, m := range raw {
		var r AirportRecord
		if err := json.Unmarshal(m, &r); err != nil {
			store.skipped++
			continue
		}
		if r.Name == "" || r.City == "" || r.Country == "" {
			store.skipped++
			continue
		}
		store.records = append(store.records, r)
	}

	if len(store.records) == 0 {
		return nil, fmt.Errorf("%w: no usable records in %s", ErrMalformed, path)
	}
	return store, nil
}

// All returns every record in stable load order. The returned slice is
// shared with the store and must be treated as read-only.
func (s *RecordStore) All() []AirportRecord {
	return s.records
}

// Count returns the number of loaded records.
func (s *RecordStore) Count() int {
	return len(s.records)
}

// Skipped returns how many malformed or incomplete rows the loader
// dropped. Partial failures are reported here, never as errors.
func (s *RecordStore) Skipped() int {
	return s.skipped
}
