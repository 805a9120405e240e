package airsearch

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// SearchOptions tunes the fuzzy fallbacks of the search chain. Zero
// values fall back to the package defaults.
type SearchOptions struct {
	SimilarityThreshold float64
	CodeSuggestions     int
	CityMatches         int
	CountryMatches      int
}

// DefaultSearchOptions returns the thresholds and caps the interactive
// system shipped with.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		SimilarityThreshold: DefaultSimilarityThreshold,
		CodeSuggestions:     DefaultCodeSuggestions,
		CityMatches:         DefaultCityMatches,
		CountryMatches:      DefaultCountryMatches,
	}
}

func (o SearchOptions) withDefaults() SearchOptions {
	d := DefaultSearchOptions()
	if o.SimilarityThreshold <= 0 {
		o.SimilarityThreshold = d.SimilarityThreshold
	}
	if o.CodeSuggestions <= 0 {
		o.CodeSuggestions = d.CodeSuggestions
	}
	if o.CityMatches <= 0 {
		o.CityMatches = d.CityMatches
	}
	if o.CountryMatches <= 0 {
		o.CountryMatches = d.CountryMatches
	}
	return o
}

// MatchStrategy identifies which lookup stage produced a result.
type MatchStrategy int

const (
	MatchNone MatchStrategy = iota
	MatchCode
	MatchCity
	MatchCountry
	MatchName
)

func (m MatchStrategy) String() string {
	switch m {
	case MatchCode:
		return "code"
	case MatchCity:
		return "city"
	case MatchCountry:
		return "country"
	case MatchName:
		return "name"
	default:
		return "none"
	}
}

// SearchResult is the outcome of one query. Records carries the full,
// uncapped match set of the first stage that matched. Suggestions is a
// side output: when every stage misses it may carry "did you mean"
// candidates, so a miss with suggestions is distinguishable from a miss
// with none. Ambiguity is a multi-element Records, never an error.
type SearchResult struct {
	Records     []AirportRecord
	Suggestions []string
	Strategy    MatchStrategy
}

// Empty reports whether no stage matched.
func (r SearchResult) Empty() bool {
	return len(r.Records) == 0
}

// SearchEngine orchestrates the lookup strategies over a catalog in a
// fixed precedence order: code, city, country, name. It borrows
// read-only access to the catalog and is safe for concurrent use.
type SearchEngine struct {
	catalog *Catalog
	opts    SearchOptions
}

// NewSearchEngine builds an engine over an already-loaded catalog.
func NewSearchEngine(c *Catalog, opts ...SearchOptions) *SearchEngine {
	o := DefaultSearchOptions()
	if len(opts) > 0 {
		o = opts[0].withDefaults()
	}
	return &SearchEngine{catalog: c, opts: o}
}

// Search runs the strategy chain, terminating at the first stage that
// yields a non-empty result. An empty query returns an empty result
// without invoking any strategy; no stage ever errors.
func (e *SearchEngine) Search(query string) SearchResult {
	q := strings.TrimSpace(query)
	if q == "" {
		return SearchResult{}
	}

	var codeSuggestions []string
	if looksLikeCode(q) {
		records, suggestions := e.ByCode(q)
		if len(records) > 0 {
			return SearchResult{Records: records, Strategy: MatchCode}
		}
		codeSuggestions = suggestions
	}

	if records := e.ByCity(q); len(records) > 0 {
		return SearchResult{Records: records, Strategy: MatchCity}
	}
	if records := e.ByCountry(q); len(records) > 0 {
		return SearchResult{Records: records, Strategy: MatchCountry}
	}
	if records := e.ByName(q); len(records) > 0 {
		return SearchResult{Records: records, Strategy: MatchName}
	}

	suggestions := codeSuggestions
	if len(suggestions) == 0 {
		suggestions = e.nameSuggestions(q)
	}
	return SearchResult{Suggestions: suggestions}
}

// looksLikeCode gates the code stage: only 3 or 4 purely alphabetic
// characters are ever treated as a code query.
func looksLikeCode(q string) bool {
	return (len(q) == 3 || len(q) == 4) && isAlpha(q)
}

// ByCode resolves a primary (3-letter) or secondary (4-letter) code.
// On a miss it returns fuzzy suggestions over the union of all code
// keys; the suggestions are output, not matches.
func (e *SearchEngine) ByCode(code string) ([]AirportRecord, []string) {
	ix := e.catalog.indexes
	c := normalizeCode(code)

	switch len(c) {
	case 3:
		if r, ok := ix.ByIATA(c); ok {
			return []AirportRecord{r}, nil
		}
	case 4:
		if r, ok := ix.ByICAO(c); ok {
			return []AirportRecord{r}, nil
		}
	default:
		return nil, nil
	}

	suggestions := ClosestMatches(c, ix.CodeKeys(), e.opts.CodeSuggestions, e.opts.SimilarityThreshold)
	return nil, suggestions
}

// ByCity matches the query case-insensitively as a substring of every
// composite city key and unions the matching buckets. When that finds
// nothing it falls back to fuzzy matching over the city keys. Results
// sort by city name for stable presentation.
func (e *SearchEngine) ByCity(name string) []AirportRecord {
	ix := e.catalog.indexes
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return nil
	}

	var records []AirportRecord
	for _, key := range ix.CityKeys() {
		if strings.Contains(strings.ToLower(key), q) {
			records = append(records, ix.ByCityKey(key)...)
		}
	}

	if len(records) == 0 {
		matches := ClosestMatches(name, ix.CityKeys(), e.opts.CityMatches, e.opts.SimilarityThreshold)
		for _, key := range matches {
			records = append(records, ix.ByCityKey(key)...)
		}
	}

	sortByCity(records)
	return records
}

// ByCountry matches the country index exactly (case-sensitive), then
// falls back to fuzzy matching over country keys, unioning the matched
// buckets. Results sort by city name.
func (e *SearchEngine) ByCountry(name string) []AirportRecord {
	ix := e.catalog.indexes
	q := strings.TrimSpace(name)
	if q == "" {
		return nil
	}

	records := ix.ByCountry(q)
	if len(records) == 0 {
		matches := ClosestMatches(q, ix.CountryKeys(), e.opts.CountryMatches, e.opts.SimilarityThreshold)
		for _, key := range matches {
			records = append(records, ix.ByCountry(key)...)
		}
	}

	sortByCity(records)
	return records
}

// ByName matches the query case-insensitively as a substring of every
// record's display name. The full match set is returned uncapped, in
// store order.
func (e *SearchEngine) ByName(name string) []AirportRecord {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return nil
	}

	var records []AirportRecord
	for _, r := range e.catalog.store.All() {
		if strings.Contains(strings.ToLower(r.Name), q) {
			records = append(records, r)
		}
	}
	return records
}

// nameSuggestions is the last-resort side output when the whole chain
// misses: a subsequence match over display names and city keys. These
// are candidates for the caller to show, never results.
func (e *SearchEngine) nameSuggestions(query string) []string {
	store := e.catalog.store
	pool := make([]string, 0, store.Count()+len(e.catalog.indexes.city))
	for _, r := range store.All() {
		pool = append(pool, r.Name)
	}
	pool = append(pool, e.catalog.indexes.CityKeys()...)

	matches := fuzzy.Find(query, pool)
	n := e.opts.CodeSuggestions
	if len(matches) < n {
		n = len(matches)
	}
	out := make([]string, 0, n)
	for _, m := range matches[:n] {
		out = append(out, m.Str)
	}
	return out
}

// sortByCity orders a listing by city name, then record ID so equal
// cities stay deterministic.
func sortByCity(records []AirportRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].City != records[j].City {
			return records[i].City < records[j].City
		}
		return records[i].ID < records[j].ID
	})
}
