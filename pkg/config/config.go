package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config is a struct that holds configuration parameters for the package.
type Config struct {
	// DataPath is a path to the parquet snapshot of spider occurrences.
	DataPath string

	// RegionsPath is a path to GeoJSON boundaries of Swiss cantons.
	RegionsPath string

	// ImagePath is a path to the header image of the dashboard. If empty or
	// missing, the embedded banner is used.
	ImagePath string

	// CacheDir is a directory of the persistent key-value cache of parsed
	// snapshots. Empty string disables the cache.
	CacheDir string

	// Addr is the address of the dashboard server.
	Addr string

	// RenderMode is "aggregated" or "parity".
	RenderMode string

	// MinYear is the earliest year shown on the dashboard.
	MinYear int

	// DefaultFamily is selected when the dashboard opens.
	DefaultFamily string

	// TestSize is the share of rows used for testing the model.
	TestSize float64

	// Seed makes the train/test split and the forest reproducible.
	Seed uint64

	// Trees is the number of trees in the random forest.
	Trees int

	// JobsNum is a number of concurrent goroutines.
	JobsNum int

	// LogLevel is debug, info, warn or error.
	LogLevel string

	// ShutdownTimeout limits graceful shutdown of the server.
	ShutdownTimeout time.Duration
}

// Option type allows to change settings for Config.
type Option func(*Config)

// OptDataPath sets a path to the occurrence snapshot.
func OptDataPath(s string) Option {
	return func(cfg *Config) {
		cfg.DataPath = s
	}
}

// OptRegionsPath sets a path to canton boundaries.
func OptRegionsPath(s string) Option {
	return func(cfg *Config) {
		cfg.RegionsPath = s
	}
}

// OptImagePath sets a path to the header image.
func OptImagePath(s string) Option {
	return func(cfg *Config) {
		cfg.ImagePath = s
	}
}

// OptCacheDir sets a directory for the persistent cache.
func OptCacheDir(s string) Option {
	return func(cfg *Config) {
		cfg.CacheDir = s
	}
}

// OptAddr sets the server address.
func OptAddr(s string) Option {
	return func(cfg *Config) {
		cfg.Addr = s
	}
}

// OptRenderMode sets the render mode of the dashboard.
func OptRenderMode(s string) Option {
	return func(cfg *Config) {
		cfg.RenderMode = s
	}
}

// OptMinYear sets the earliest year of the dashboard.
func OptMinYear(i int) Option {
	return func(cfg *Config) {
		cfg.MinYear = i
	}
}

// OptDefaultFamily sets the preselected family.
func OptDefaultFamily(s string) Option {
	return func(cfg *Config) {
		cfg.DefaultFamily = s
	}
}

// OptTestSize sets the share of test rows.
func OptTestSize(f float64) Option {
	return func(cfg *Config) {
		if f <= 0 || f >= 1 {
			slog.Warn("Test size must be between 0 and 1, ignoring", "test-size", f)
			return
		}
		cfg.TestSize = f
	}
}

// OptSeed sets the random seed.
func OptSeed(i uint64) Option {
	return func(cfg *Config) {
		cfg.Seed = i
	}
}

// OptTrees sets the number of trees.
func OptTrees(i int) Option {
	return func(cfg *Config) {
		cfg.Trees = i
	}
}

// OptJobsNum sets parallelism number for concurrent goroutines.
func OptJobsNum(j int) Option {
	return func(cfg *Config) {
		cfg.JobsNum = j
	}
}

// OptLogLevel sets the log level.
func OptLogLevel(s string) Option {
	return func(cfg *Config) {
		cfg.LogLevel = s
	}
}

// OptShutdownTimeout sets the graceful shutdown timeout.
func OptShutdownTimeout(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.ShutdownTimeout = d
	}
}

// New creates a Config with defaults changed by options.
func New(opts ...Option) Config {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	cacheDir = filepath.Join(cacheDir, "spidermap")

	res := Config{
		DataPath:        filepath.Join("data", "final_dataset.parquet"),
		RegionsPath:     filepath.Join("data", "georef-switzerland-kanton.geojson"),
		ImagePath:       filepath.Join("data", "spiderman.png"),
		CacheDir:        cacheDir,
		Addr:            ":8501",
		RenderMode:      "aggregated",
		MinYear:         1980,
		DefaultFamily:   "Linyphiidae",
		TestSize:        0.3,
		Seed:            42,
		Trees:           10,
		JobsNum:         runtime.NumCPU(),
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(&res)
	}

	return res
}
