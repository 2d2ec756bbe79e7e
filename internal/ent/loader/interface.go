package loader

import (
	"context"
	"errors"
	"time"

	"github.com/gnames/spidermap/internal/ent/geo"
	"github.com/gnames/spidermap/pkg/ent/occur"
)

// ErrEmptyPath is returned when a path to data is not given.
var ErrEmptyPath = errors.New("path to data is empty")

// Stats shows how the loader served requests.
type Stats struct {
	// Hits is the number of requests served from memory.
	Hits int

	// Misses is the number of requests that were not in memory.
	Misses int

	// KVHits is the number of misses served from the persistent cache.
	KVHits int

	// Reads is the number of times an input file was read and parsed.
	Reads int
}

// Loader reads input files and keeps their parsed content in memory.
// A second request for the same path does not touch the file.
type Loader interface {
	// Occurrences returns rows of an occurrence snapshot.
	Occurrences(ctx context.Context, path string) ([]occur.Raw, error)

	// Regions returns canton boundaries.
	Regions(ctx context.Context, path string) (*geo.Collection, error)

	// LoadedAt returns the time when data for the path was loaded.
	LoadedAt(path string) (time.Time, bool)

	// Invalidate removes the path from memory.
	Invalidate(path string)

	// Reset removes everything from memory and from the persistent cache.
	Reset() error

	// Stats returns cache statistics.
	Stats() Stats
}
