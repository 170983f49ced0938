// Package config defines service configuration structures and loading.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// CatalogDir holds the item-set files, one <set>.txt per set.
	CatalogDir string `koanf:"catalog_dir"`

	// RatingsDir holds the persisted rating tables.
	RatingsDir string `koanf:"ratings_dir"`

	// MediaDir holds optional item images, <set>/<item>.<ext>.
	MediaDir string `koanf:"media_dir"`

	// KFactor is the rating update step size.
	KFactor float64 `koanf:"k_factor"`

	// InitialRating is assigned to every item when a set is first loaded.
	InitialRating float64 `koanf:"initial_rating"`

	// DefaultStrategy selects pairs for new sessions: random, adjacent,
	// weighted.
	DefaultStrategy string `koanf:"default_strategy"`

	// MaxRankingLimit caps GET rankings ?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9090",
		CatalogDir:      "./data/sets",
		RatingsDir:      "./data/ratings",
		MediaDir:        "./data/media",
		KFactor:         32,
		InitialRating:   1500,
		DefaultStrategy: "random",
		MaxRankingLimit: 500,
	}
}
