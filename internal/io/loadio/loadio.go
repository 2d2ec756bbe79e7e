package loadio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/spidermap/internal/ent/geo"
	"github.com/gnames/spidermap/internal/ent/kv"
	"github.com/gnames/spidermap/internal/ent/loader"
	"github.com/gnames/spidermap/internal/observability"
	"github.com/gnames/spidermap/pkg/ent/occur"
	"github.com/jonboulle/clockwork"
	"github.com/mitchellh/go-homedir"
	"github.com/parquet-go/parquet-go"
	"golang.org/x/sync/singleflight"
)

const (
	kindOccurrences = "occurrences"
	kindRegions     = "regions"
)

type entry[T any] struct {
	val      T
	loadedAt time.Time
}

// loadio implements loader.Loader.
type loadio struct {
	mu    sync.Mutex
	occs  map[string]entry[[]occur.Raw]
	regs  map[string]entry[*geo.Collection]
	stats loader.Stats
	group singleflight.Group

	// gen changes on every invalidation.
	gen uint64

	// beforeStore runs after a read and before its result is stored.
	beforeStore func()

	kv      kv.KeyVal
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// Option changes settings of the loader.
type Option func(*loadio)

// OptKeyVal sets an open persistent store for parsed occurrences.
func OptKeyVal(kv kv.KeyVal) Option {
	return func(l *loadio) {
		l.kv = kv
	}
}

// OptClock sets the time source.
func OptClock(c clockwork.Clock) Option {
	return func(l *loadio) {
		l.clock = c
	}
}

// OptMetrics sets Prometheus metrics.
func OptMetrics(m *observability.Metrics) Option {
	return func(l *loadio) {
		l.metrics = m
	}
}

// New returns a new instance of the loader.
func New(opts ...Option) loader.Loader {
	res := loadio{
		occs:  make(map[string]entry[[]occur.Raw]),
		regs:  make(map[string]entry[*geo.Collection]),
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(&res)
	}
	return &res
}

// Occurrences returns rows of a parquet snapshot.
func (l *loadio) Occurrences(
	ctx context.Context,
	path string,
) ([]occur.Raw, error) {
	return load(ctx, l, kindOccurrences, path,
		func() map[string]entry[[]occur.Raw] { return l.occs },
		l.loadOccurrences,
	)
}

// Regions returns canton boundaries from a GeoJSON file.
func (l *loadio) Regions(
	ctx context.Context,
	path string,
) (*geo.Collection, error) {
	return load(ctx, l, kindRegions, path,
		func() map[string]entry[*geo.Collection] { return l.regs },
		l.loadRegions,
	)
}

// load returns a memoised value or reads it once for all concurrent
// callers. The shared read is not cancelled by any caller, a cancelled
// caller stops waiting for it. The result is stored only if the cache was
// not invalidated while the read was running.
func load[T any](
	ctx context.Context,
	l *loadio,
	kind, path string,
	table func() map[string]entry[T],
	read func(context.Context, string) (T, error),
) (T, error) {
	var zero T
	path, err := expand(path)
	if err != nil {
		return zero, err
	}
	if err = ctx.Err(); err != nil {
		return zero, err
	}

	l.mu.Lock()
	if e, ok := table()[path]; ok {
		l.hit(kind)
		l.mu.Unlock()
		return e.val, nil
	}
	l.miss(kind)
	gen := l.gen
	l.mu.Unlock()

	key := fmt.Sprintf("%s|%d|%s", kind, gen, path)
	readCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		val, err := read(readCtx, path)
		if err != nil {
			return nil, err
		}
		if l.beforeStore != nil {
			l.beforeStore()
		}
		l.mu.Lock()
		if l.gen == gen {
			table()[path] = entry[T]{val: val, loadedAt: l.clock.Now()}
		}
		l.mu.Unlock()
		return val, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// LoadedAt returns the time when the path was loaded to memory.
func (l *loadio) LoadedAt(path string) (time.Time, bool) {
	path, err := expand(path)
	if err != nil {
		return time.Time{}, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.occs[path]; ok {
		return e.loadedAt, true
	}
	if e, ok := l.regs[path]; ok {
		return e.loadedAt, true
	}
	return time.Time{}, false
}

// Invalidate removes data of the path from memory. Reads that are running
// at the time do not store their results.
func (l *loadio) Invalidate(path string) {
	path, err := expand(path)
	if err != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	delete(l.occs, path)
	delete(l.regs, path)
}

// Reset removes all data from memory and the persistent store.
func (l *loadio) Reset() error {
	l.mu.Lock()
	l.gen++
	l.occs = make(map[string]entry[[]occur.Raw])
	l.regs = make(map[string]entry[*geo.Collection])
	l.mu.Unlock()

	if l.kv == nil {
		return nil
	}
	if err := l.kv.Reset(); err != nil {
		return fmt.Errorf("cannot reset loader cache: %w", err)
	}
	return nil
}

// Stats returns cache statistics.
func (l *loadio) Stats() loader.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

func (l *loadio) loadRegions(
	ctx context.Context,
	path string,
) (*geo.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := l.clock.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read regions %s: %w", path, err)
	}
	l.read()
	res, err := geo.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("cannot parse regions %s: %w", path, err)
	}
	l.observe(kindRegions, start)
	slog.Info("Loaded regions", "path", path, "features", len(res.Features))
	return res, nil
}

func (l *loadio) loadOccurrences(
	ctx context.Context,
	path string,
) ([]occur.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open snapshot %s: %w", path, err)
	}
	key := cacheKey(path, fi)

	if l.kv != nil {
		rows, ok, err := l.getCached(key)
		if err != nil {
			slog.Warn("Cannot use cached snapshot", "path", path, "error", err)
		} else if ok {
			l.mu.Lock()
			l.stats.KVHits++
			l.mu.Unlock()
			l.setRows(len(rows))
			slog.Info("Loaded snapshot from cache",
				"path", path, "rows", humanize.Comma(int64(len(rows))))
			return rows, nil
		}
	}

	start := l.clock.Now()
	rows, err := parquet.ReadFile[occur.Raw](path)
	if err != nil {
		return nil, fmt.Errorf("cannot read snapshot %s: %w", path, err)
	}
	l.read()
	l.observe(kindOccurrences, start)
	l.setRows(len(rows))
	slog.Info("Loaded snapshot",
		"path", path, "rows", humanize.Comma(int64(len(rows))))

	if l.kv != nil {
		if err = l.setCached(key, rows); err != nil {
			slog.Warn("Cannot cache snapshot", "path", path, "error", err)
		}
	}
	return rows, nil
}

func expand(path string) (string, error) {
	if path == "" {
		return "", loader.ErrEmptyPath
	}
	res, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("cannot expand path %s: %w", path, err)
	}
	return res, nil
}

// hit and miss are called with the lock held.
func (l *loadio) hit(kind string) {
	l.stats.Hits++
	if l.metrics != nil {
		l.metrics.LoaderCache.WithLabelValues(kind, "hit").Inc()
	}
}

func (l *loadio) miss(kind string) {
	l.stats.Misses++
	if l.metrics != nil {
		l.metrics.LoaderCache.WithLabelValues(kind, "miss").Inc()
	}
}

func (l *loadio) read() {
	l.mu.Lock()
	l.stats.Reads++
	l.mu.Unlock()
}

func (l *loadio) observe(kind string, start time.Time) {
	if l.metrics != nil {
		l.metrics.LoadDuration.WithLabelValues(kind).
			Observe(l.clock.Since(start).Seconds())
	}
}

func (l *loadio) setRows(n int) {
	if l.metrics != nil {
		l.metrics.LoadedRows.Set(float64(n))
	}
}
