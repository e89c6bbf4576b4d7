// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - External errors are wrapped via this package's error helpers.
package config

import (
	"context"
)

// Default sizing constants.
const (
	defaultPlayersPerSide = 7
	defaultQueueSize      = 1024
	defaultDedupeSize     = 50000
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// PlayersPerSide is the on-field lineup size (7, or 5 for the
	// fives variant).
	PlayersPerSide int `koanf:"players_per_side"`

	// TeamAName and TeamBName are display labels for the two teams.
	TeamAName string `koanf:"team_a_name"`
	TeamBName string `koanf:"team_b_name"`

	// OnFieldA and OnFieldB are the starting lineups. When left empty
	// they are generated during Load (A1..An / B1..Bn).
	OnFieldA []string `koanf:"onfield_a"`
	OnFieldB []string `koanf:"onfield_b"`

	// RosterA and RosterB are the full team rosters, supersets of the
	// lineups. When empty they default to the starting lineups.
	RosterA []string `koanf:"roster_a"`
	RosterB []string `koanf:"roster_b"`

	// CommandQueueSize bounds the in-memory command queue.
	CommandQueueSize int `koanf:"command_queue_size"`

	// DedupeSize sets the size of the idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention; it is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		PlayersPerSide:   defaultPlayersPerSide,
		TeamAName:        "Team A",
		TeamBName:        "Team B",
		CommandQueueSize: defaultQueueSize,
		DedupeSize:       defaultDedupeSize,
	}
}
