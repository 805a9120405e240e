package airsearch

import "errors"

var (
	// ErrMissingSource indicates the backing dataset file is absent.
	// Fatal: the dependent component must refuse to serve queries.
	ErrMissingSource = errors.New("dataset source missing")

	// ErrMalformed indicates a dataset or index payload whose shape does
	// not match a record or record sequence, or from which no record
	// could be parsed. Fatal, like ErrMissingSource.
	ErrMalformed = errors.New("dataset malformed")

	// ErrNotFound indicates a requested airport code resolved to nothing.
	// Recoverable: query-time misses inside the search chain are plain
	// empty results, this sentinel only surfaces where a caller demanded
	// a specific record (distance, nearby, reports).
	ErrNotFound = errors.New("unknown airport code")
)
