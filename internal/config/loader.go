package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. YAML file if CLOUT_CONFIG is set
//  3. env (prefix CLOUT_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("CLOUT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Env keys like CLOUT_RATE_LIMIT_PER_MINUTE map to
	// rate_limit_per_minute; underscores are preserved to match the
	// koanf tags on the struct.
	envProvider := env.Provider("CLOUT_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "clout_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.FetchConcurrency < 1:
		return fmt.Errorf("%w: fetch_concurrency must be positive", ErrInvalidConfig)
	case cfg.MaxTracks < 1:
		return fmt.Errorf("%w: max_tracks must be positive", ErrInvalidConfig)
	case cfg.HistoryLimit < 1:
		return fmt.Errorf("%w: history_limit must be positive", ErrInvalidConfig)
	}
	if _, err := cfg.TimeoutUntilTime(); err != nil {
		return fmt.Errorf("%w: timeout_until must be RFC3339", ErrInvalidConfig)
	}
	return nil
}
