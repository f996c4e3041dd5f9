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

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if GUARDIAN_CONFIG is set
//  3. env (prefix GUARDIAN_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("GUARDIAN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: GUARDIAN_ADDR, GUARDIAN_TEAM_SIZE, ...
	// Map env keys like GUARDIAN_TEAM_SIZE -> team_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("GUARDIAN_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "guardian_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.Optimizer != OptimizerSearch && c.Optimizer != OptimizerStrategies {
		return fmt.Errorf("%w: unknown optimizer %q", ErrInvalidConfig, c.Optimizer)
	}
	if c.TeamSize < 1 {
		return fmt.Errorf("%w: team_size must be positive", ErrInvalidConfig)
	}
	if c.MaxTeamSize < c.TeamSize {
		return fmt.Errorf("%w: max_team_size below team_size", ErrInvalidConfig)
	}
	if c.DefaultHours <= 0 {
		return fmt.Errorf("%w: default_hours must be positive", ErrInvalidConfig)
	}
	if c.MaxEdgeWeight <= 0 {
		return fmt.Errorf("%w: max_edge_weight must be positive", ErrInvalidConfig)
	}
	return nil
}
