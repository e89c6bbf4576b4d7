// Package roster holds each team's full named roster, a superset of the
// on-field lineup. The state machine does not own this list; it is only
// consulted during substitution to offer bench players as IN candidates.
package roster

import (
	"context"
	"fmt"
	"sync"

	"github.com/fieldside/ultilog/internal/domain/model"
)

// Store keeps the full roster per team. Order is display order.
type Store struct {
	mu      sync.RWMutex
	players map[model.Team][]string
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithInitial seeds a team's roster.
func WithInitial(team model.Team, players []string) Option {
	return func(s *Store) {
		if team.Valid() {
			s.players[team] = append([]string(nil), players...)
		}
	}
}

// New creates a roster store with empty rosters unless seeded by options.
func New(opts ...Option) *Store {
	s := &Store{
		players: map[model.Team][]string{
			model.TeamA: {},
			model.TeamB: {},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a copy of the team's roster.
func (s *Store) List(ctx context.Context, team model.Team) ([]string, error) {
	if !team.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTeam, team)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.players[team]...), nil
}

// Add appends a player to the team's roster.
func (s *Store) Add(ctx context.Context, team model.Team, name string) error {
	if !team.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTeam, team)
	}
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPlayer)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players[team] {
		if p == name {
			return fmt.Errorf("%w: %q on team %s", ErrDuplicatePlayer, name, team)
		}
	}
	s.players[team] = append(s.players[team], name)
	return nil
}

// Remove deletes a player from the team's roster.
func (s *Store) Remove(ctx context.Context, team model.Team, name string) error {
	if !team.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTeam, team)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.players[team] {
		if p == name {
			s.players[team] = append(s.players[team][:i], s.players[team][i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q on team %s", ErrUnknownPlayer, name, team)
}

// Replace swaps the team's entire roster for the given list.
func (s *Store) Replace(ctx context.Context, team model.Team, players []string) error {
	if !team.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTeam, team)
	}
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if p == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidPlayer)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: %q on team %s", ErrDuplicatePlayer, p, team)
		}
		seen[p] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[team] = append([]string(nil), players...)
	return nil
}

// Contains reports whether the player is on the team's roster.
func (s *Store) Contains(ctx context.Context, team model.Team, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.players[team] {
		if p == name {
			return true
		}
	}
	return false
}

// Bench returns the roster players not currently in the given on-field
// list, preserving roster order. These are the IN candidates during a
// substitution.
func (s *Store) Bench(ctx context.Context, team model.Team, onfield []string) ([]string, error) {
	if !team.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTeam, team)
	}
	active := make(map[string]struct{}, len(onfield))
	for _, p := range onfield {
		active[p] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	bench := make([]string, 0, len(s.players[team]))
	for _, p := range s.players[team] {
		if _, on := active[p]; !on {
			bench = append(bench, p)
		}
	}
	return bench, nil
}
