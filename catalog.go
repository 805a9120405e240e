package airsearch

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/golang/geo/s2"
	"go.uber.org/zap"
)

// cellIndexLevel sets the S2 cell granularity for the nearest-airport
// index. Level 6 cells are roughly 100km across: airports are far
// sparser than cities, so a coarse grid keeps the cell-plus-neighbors
// scan small while still finding something near most inhabited places.
const cellIndexLevel = 6

// Config carries construction options shared by the catalog and the
// dataset builder.
type Config struct {
	DataDir     string // raw download directory
	SnapshotDir string // processed dataset and index files
	Search      SearchOptions
	logger      *zap.Logger
}

// Option is a functional option for configuring the catalog and
// dataset builder.
type Option func(*Config)

// WithDataDir sets the directory raw dataset downloads land in.
func WithDataDir(dir string) Option {
	return func(c *Config) {
		c.DataDir = dir
	}
}

// WithSnapshotDir sets the directory holding airports.json and the
// persisted index files.
func WithSnapshotDir(dir string) Option {
	return func(c *Config) {
		c.SnapshotDir = dir
	}
}

// WithLogger installs a structured logger. The default is a no-op
// logger, which keeps library consumers quiet unless they opt in.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}

// WithSearchOptions overrides the fuzzy thresholds and caps used by
// engines constructed from this catalog.
func WithSearchOptions(o SearchOptions) Option {
	return func(c *Config) {
		c.Search = o.withDefaults()
	}
}

func defaultConfig() *Config {
	return &Config{
		DataDir:     "./airsearch-data",
		SnapshotDir: "./airsearch-snapshot",
		Search:      DefaultSearchOptions(),
		logger:      zap.NewNop(),
	}
}

func newConfig(opts []Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Catalog bundles the record store, the index set and the spatial cell
// index into one immutable context object. It is built once, passed
// explicitly to the query engines, and safe for unlimited concurrent
// reads; there is no write path after construction.
//
// Reloading is wholesale: build a fresh Catalog and swap the pointer,
// so an in-flight query never observes a store inconsistent with its
// indexes.
type Catalog struct {
	store     *RecordStore
	indexes   *IndexSet
	cellIndex map[s2.CellID][]int
	search    SearchOptions
	logger    *zap.Logger
}

// OpenCatalog loads the airports.json snapshot from the snapshot
// directory, derives the index set and builds the spatial index.
// Load failures wrap ErrMissingSource or ErrMalformed; on failure no
// catalog is returned, so dependent engines cannot be constructed over
// a silently empty store.
func OpenCatalog(opts ...Option) (*Catalog, error) {
	cfg := newConfig(opts)

	store, err := LoadRecords(filepath.Join(cfg.SnapshotDir, recordsFile))
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	if store.Skipped() > 0 {
		cfg.logger.Info("skipped unusable records during load",
			zap.Int("skipped", store.Skipped()),
			zap.Int("loaded", store.Count()))
	}
	return newCatalog(store, BuildIndexes(store), cfg), nil
}

// OpenCatalogFromSnapshot is like OpenCatalog but consumes the four
// persisted index mappings instead of rebuilding them from the store.
func OpenCatalogFromSnapshot(opts ...Option) (*Catalog, error) {
	cfg := newConfig(opts)

	store, err := LoadRecords(filepath.Join(cfg.SnapshotDir, recordsFile))
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	indexes, err := LoadIndexSnapshot(cfg.SnapshotDir, store)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	return newCatalog(store, indexes, cfg), nil
}

// NewCatalog builds a catalog directly from records already in memory.
func NewCatalog(records []AirportRecord, opts ...Option) *Catalog {
	cfg := newConfig(opts)
	store := NewRecordStore(records)
	return newCatalog(store, BuildIndexes(store), cfg)
}

func newCatalog(store *RecordStore, indexes *IndexSet, cfg *Config) *Catalog {
	c := &Catalog{
		store:   store,
		indexes: indexes,
		search:  cfg.Search,
		logger:  cfg.logger,
	}
	c.buildCellIndex()
	c.logger.Info("catalog ready",
		zap.Int("airports", store.Count()),
		zap.Int("countries", len(indexes.country)),
		zap.Int("cities", len(indexes.city)))
	return c
}

// Store exposes read-only access to the underlying record store.
func (c *Catalog) Store() *RecordStore {
	return c.store
}

// Indexes exposes read-only access to the derived index set.
func (c *Catalog) Indexes() *IndexSet {
	return c.indexes
}

// Resolve looks a record up by primary or secondary code, normalizing
// case first. This is the code-to-record step callers run before the
// pure geo functions; a miss is ErrNotFound.
func (c *Catalog) Resolve(code string) (AirportRecord, error) {
	n := normalizeCode(code)
	if r, ok := c.indexes.ByIATA(n); ok {
		return r, nil
	}
	if r, ok := c.indexes.ByICAO(n); ok {
		return r, nil
	}
	return AirportRecord{}, fmt.Errorf("%w: %s", ErrNotFound, code)
}

// DistanceBetween resolves two codes and returns their great-circle
// distance. Either code failing to resolve yields ErrNotFound.
func (c *Catalog) DistanceBetween(codeA, codeB string) (Distance, error) {
	a, err := c.Resolve(codeA)
	if err != nil {
		return Distance{}, err
	}
	b, err := c.Resolve(codeB)
	if err != nil {
		return Distance{}, err
	}
	return AirportDistance(a, b), nil
}

// NearbyAirports resolves a reference code and scans the whole store
// for records within radiusKm, sorted ascending by distance.
func (c *Catalog) NearbyAirports(code string, radiusKm float64) (AirportRecord, []NearbyAirport, error) {
	ref, err := c.Resolve(code)
	if err != nil {
		return AirportRecord{}, nil, err
	}
	return ref, Nearby(ref, radiusKm, c.store.All()), nil
}

func (c *Catalog) buildCellIndex() {
	c.cellIndex = make(map[s2.CellID][]int)
	for i, r := range c.store.records {
		ll := s2.LatLngFromDegrees(r.Latitude, r.Longitude)
		cell := s2.CellIDFromLatLng(ll).Parent(cellIndexLevel)
		c.cellIndex[cell] = append(c.cellIndex[cell], i)
	}
}

// cellAndNeighbors returns a cell plus its edge and corner neighbors,
// the 3x3 neighborhood scanned for nearest lookups.
func (c *Catalog) cellAndNeighbors(cell s2.CellID) []s2.CellID {
	cells := make([]s2.CellID, 0, 9)
	cells = append(cells, cell)

	edge := cell.EdgeNeighbors()
	cells = append(cells, edge[:]...)

	seen := make(map[s2.CellID]bool, 9)
	for _, id := range cells {
		seen[id] = true
	}
	for i := 0; i < 4; i++ {
		for _, corner := range edge[i].EdgeNeighbors() {
			if !seen[corner] {
				cells = append(cells, corner)
				seen[corner] = true
			}
		}
	}
	return cells
}

// Nearest returns the record closest to the given coordinates, scanning
// only the surrounding cell neighborhood. It reports false for
// non-finite input or when no airport falls inside the neighborhood
// (remote ocean, poles).
func (c *Catalog) Nearest(lat, lng float64) (AirportRecord, bool) {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return AirportRecord{}, false
	}

	queryLL := s2.LatLngFromDegrees(lat, lng)
	queryCell := s2.CellIDFromLatLng(queryLL).Parent(cellIndexLevel)

	best := -1
	bestDist := math.Inf(1)
	for _, cell := range c.cellAndNeighbors(queryCell) {
		for _, i := range c.cellIndex[cell] {
			r := c.store.records[i]
			ll := s2.LatLngFromDegrees(r.Latitude, r.Longitude)
			dist := float64(queryLL.Distance(ll))
			if dist < bestDist || (dist == bestDist && best >= 0 && r.ID < c.store.records[best].ID) {
				best = i
				bestDist = dist
			}
		}
	}
	if best < 0 {
		return AirportRecord{}, false
	}
	return c.store.records[best], true
}
