package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arenalab/duelrank/internal/domain/scheduler"
)

// Load builds a Config by layering defaults, optional file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if DUELRANK_CONFIG is set
//  3. env (prefix DUELRANK_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("DUELRANK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: DUELRANK_ADDR, DUELRANK_K_FACTOR, ...
	// Keys keep their underscores to match the koanf struct tags.
	envProvider := env.Provider("DUELRANK_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "duelrank_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CatalogDir == "":
		return fmt.Errorf("%w: catalog_dir must not be empty", ErrInvalidConfig)
	case c.RatingsDir == "":
		return fmt.Errorf("%w: ratings_dir must not be empty", ErrInvalidConfig)
	case c.KFactor <= 0:
		return fmt.Errorf("%w: k_factor must be positive", ErrInvalidConfig)
	case c.InitialRating <= 0:
		return fmt.Errorf("%w: initial_rating must be positive", ErrInvalidConfig)
	case c.MaxRankingLimit < 1:
		return fmt.Errorf("%w: max_ranking_limit must be at least 1", ErrInvalidConfig)
	}
	if _, err := scheduler.ParseStrategy(c.DefaultStrategy); err != nil {
		return fmt.Errorf("%w: default_strategy %q", ErrInvalidConfig, c.DefaultStrategy)
	}
	return nil
}
