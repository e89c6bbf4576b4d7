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

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if ULTILOG_CONFIG is set
//  3. env (prefix ULTILOG_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("ULTILOG_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ULTILOG_ADDR, ULTILOG_PLAYERS_PER_SIDE, ...
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ULTILOG_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "ultilog_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	applyLineupDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyLineupDefaults generates lineups and rosters that were not
// configured. Lineups get numbered names sized to players_per_side;
// rosters default to the lineups themselves.
func applyLineupDefaults(cfg *Config) {
	if len(cfg.OnFieldA) == 0 {
		for i := 1; i <= cfg.PlayersPerSide; i++ {
			cfg.OnFieldA = append(cfg.OnFieldA, "A"+strconv.Itoa(i))
		}
	}
	if len(cfg.OnFieldB) == 0 {
		for i := 1; i <= cfg.PlayersPerSide; i++ {
			cfg.OnFieldB = append(cfg.OnFieldB, "B"+strconv.Itoa(i))
		}
	}
	if len(cfg.RosterA) == 0 {
		cfg.RosterA = append([]string(nil), cfg.OnFieldA...)
	}
	if len(cfg.RosterB) == 0 {
		cfg.RosterB = append([]string(nil), cfg.OnFieldB...)
	}
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.PlayersPerSide < 1 {
		return fmt.Errorf("%w: players_per_side must be positive", ErrInvalidConfig)
	}
	if len(cfg.OnFieldA) != cfg.PlayersPerSide {
		return fmt.Errorf("%w: onfield_a needs exactly %d players, got %d", ErrInvalidConfig, cfg.PlayersPerSide, len(cfg.OnFieldA))
	}
	if len(cfg.OnFieldB) != cfg.PlayersPerSide {
		return fmt.Errorf("%w: onfield_b needs exactly %d players, got %d", ErrInvalidConfig, cfg.PlayersPerSide, len(cfg.OnFieldB))
	}
	if cfg.CommandQueueSize < 1 {
		return fmt.Errorf("%w: command_queue_size must be positive", ErrInvalidConfig)
	}
	return nil
}
