package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "MEDALCAST_"
	envConfigFile = "MEDALCAST_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MEDALCAST_CONFIG is set
//  3. env (prefix MEDALCAST_)
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, os.Getenv(envConfigFile))
}

// LoadFrom is Load with an explicit YAML path. An empty path skips the file
// layer.
func LoadFrom(_ context.Context, path string) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// MEDALCAST_DATA_PATH -> data_path. Keys stay flat to match the koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The file path itself is not a config key.
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataSource != "csv" && c.DataSource != "sqlite":
		return fmt.Errorf("%w: data_source must be csv or sqlite, got %q", ErrInvalidConfig, c.DataSource)
	case strings.TrimSpace(c.DataPath) == "":
		return fmt.Errorf("%w: data_path must not be empty", ErrInvalidConfig)
	case c.DefaultStrategy != "ma" && c.DefaultStrategy != "es":
		return fmt.Errorf("%w: default_strategy must be ma or es, got %q", ErrInvalidConfig, c.DefaultStrategy)
	case c.MAWindow < 1:
		return fmt.Errorf("%w: ma_window must be >= 1", ErrInvalidConfig)
	case c.ESAlpha <= 0 || c.ESAlpha > 1:
		return fmt.Errorf("%w: es_alpha must be in (0, 1]", ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0", ErrInvalidConfig)
	case c.MaxTopLimit < 1 || c.MaxAthleteLimit < 1:
		return fmt.Errorf("%w: limits must be positive", ErrInvalidConfig)
	case c.DefaultTopN < 1 || c.DefaultTopN > c.MaxTopLimit:
		return fmt.Errorf("%w: default_top_n must be within [1, max_top_limit]", ErrInvalidConfig)
	case c.DefaultAthleteLimit < 1 || c.DefaultAthleteLimit > c.MaxAthleteLimit:
		return fmt.Errorf("%w: default_athlete_limit must be within [1, max_athlete_limit]", ErrInvalidConfig)
	}
	if _, err := c.HostTable(); err != nil {
		return err
	}
	return nil
}

// HostTable converts the hosts section to year -> country.
func (c *Config) HostTable() (map[int]string, error) {
	out := make(map[int]string, len(c.Hosts))
	for y, country := range c.Hosts {
		year, err := strconv.Atoi(strings.TrimSpace(y))
		if err != nil || year <= 0 {
			return nil, fmt.Errorf("%w: hosts key %q is not a year", ErrInvalidConfig, y)
		}
		out[year] = country
	}
	return out, nil
}
