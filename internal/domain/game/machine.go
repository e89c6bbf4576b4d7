// Package game implements the possession/event state machine that turns
// player clicks and button presses into an ordered log of game events.
//
// The machine infers high-level events (pass, turnover, block, drop,
// score, pull, substitution) from low-level clicks plus disambiguating
// presses. It owns the on-field lineups, the possession context and the
// append-only event log; everything it knows about the outside world is
// the Log sink it writes rows to.
package game

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fieldside/ultilog/internal/domain/model"
)

// timestampLayout renders local wall time with offset at second precision.
const timestampLayout = "2006-01-02T15:04:05-07:00"

// defaultPlayersPerSide is the standard lineup size; the fives variant
// uses WithPlayersPerSide(5).
const defaultPlayersPerSide = 7

// Log is the append-only event sink the machine writes rows to.
type Log interface {
	// Append adds a row at the end of the log.
	Append(ctx context.Context, row model.EventRow)

	// TruncateLast removes up to n rows from the end and returns the
	// number actually removed.
	TruncateLast(ctx context.Context, n int) int

	// Rows returns a copy of all rows in insertion order.
	Rows(ctx context.Context) []model.EventRow

	// Last returns the most recent row, if any.
	Last(ctx context.Context) (model.EventRow, bool)

	// Len returns the current number of rows.
	Len(ctx context.Context) int
}

// State is a read-only snapshot of the machine for display purposes.
type State struct {
	Point             int                   `json:"point"`
	Possession        model.Team            `json:"possession,omitempty"`
	LastHolder        *model.PlayerRef      `json:"last_holder,omitempty"`
	AwaitingNewHolder model.Team            `json:"awaiting_new_holder,omitempty"`
	AwaitingPull      bool                  `json:"awaiting_pull"`
	SubMode           bool                  `json:"sub_mode"`
	SubOut            *model.PlayerRef      `json:"sub_out,omitempty"`
	OnFieldA          []string              `json:"onfield_team_a"`
	OnFieldB          []string              `json:"onfield_team_b"`
	TeamNames         map[model.Team]string `json:"team_names"`
	EventCount        int                   `json:"event_count"`
}

// Machine sequences one game. A single logical actor drives it at a time;
// the mutex only protects display reads arriving from other goroutines
// while the writer applies a command.
type Machine struct {
	mu  sync.RWMutex
	log Log

	onfield map[model.Team][]string

	point      int
	possession model.Team // empty when no team holds the disc
	lastHolder *model.PlayerRef
	lastThrow  *model.Throw

	// Transient press/click context.
	lastClicked    *model.PlayerRef
	awaitNewHolder model.Team // empty when not waiting
	awaitPull      bool
	subMode        bool
	subOut         *model.PlayerRef

	playersPerSide int
	teamNames      map[model.Team]string
	now            func() time.Time
}

// Option applies a configuration option to the Machine.
type Option func(*Machine)

// WithPlayersPerSide sets the lineup size enforced by SetOnField.
func WithPlayersPerSide(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.playersPerSide = n
		}
	}
}

// WithTeamNames sets display labels for the two teams.
func WithTeamNames(a, b string) Option {
	return func(m *Machine) {
		if a != "" {
			m.teamNames[model.TeamA] = a
		}
		if b != "" {
			m.teamNames[model.TeamB] = b
		}
	}
}

// WithClock overrides the wall clock used for row timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// New constructs a Machine starting at point 1 with the given lineups.
// The slices are copied; the caller keeps ownership of its arguments.
func New(log Log, onfieldA, onfieldB []string, opts ...Option) *Machine {
	m := &Machine{
		log: log,
		onfield: map[model.Team][]string{
			model.TeamA: append([]string(nil), onfieldA...),
			model.TeamB: append([]string(nil), onfieldB...),
		},
		point:          1,
		playersPerSide: defaultPlayersPerSide,
		teamNames: map[model.Team]string{
			model.TeamA: string(model.TeamA),
			model.TeamB: string(model.TeamB),
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a copy of the current display state.
func (m *Machine) State(ctx context.Context) State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := map[model.Team]string{
		model.TeamA: m.teamNames[model.TeamA],
		model.TeamB: m.teamNames[model.TeamB],
	}
	return State{
		Point:             m.point,
		Possession:        m.possession,
		LastHolder:        clonePlayer(m.lastHolder),
		AwaitingNewHolder: m.awaitNewHolder,
		AwaitingPull:      m.awaitPull,
		SubMode:           m.subMode,
		SubOut:            clonePlayer(m.subOut),
		OnFieldA:          append([]string(nil), m.onfield[model.TeamA]...),
		OnFieldB:          append([]string(nil), m.onfield[model.TeamB]...),
		TeamNames:         names,
		EventCount:        m.log.Len(ctx),
	}
}

// Rows returns the full ordered event log.
func (m *Machine) Rows(ctx context.Context) []model.EventRow {
	return m.log.Rows(ctx)
}

// OnField returns a copy of the team's current lineup.
func (m *Machine) OnField(ctx context.Context, team model.Team) ([]string, error) {
	if !team.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTeam, team)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.onfield[team]...), nil
}

// SetOnField replaces a team's lineup wholesale. The list must have
// exactly the configured number of players.
func (m *Machine) SetOnField(ctx context.Context, team model.Team, players []string) error {
	if !team.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTeam, team)
	}
	if len(players) != m.playersPerSide {
		return fmt.Errorf("%w: need exactly %d players, got %d", ErrInvalidLineup, m.playersPerSide, len(players))
	}
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if p == "" {
			return fmt.Errorf("%w: empty player name", ErrInvalidLineup)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: duplicate player %q", ErrInvalidLineup, p)
		}
		seen[p] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.onfield[team] = append([]string(nil), players...)
	return nil
}

// StartSub enters substitution mode. The next click selects the OUT
// player, the one after it the IN player.
func (m *Machine) StartSub(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subMode = true
	m.subOut = nil
}

// UndoLast removes up to n rows from the end of the log and returns the
// number removed. It is a pure log truncation: possession, holder, point
// number and lineups are deliberately left as they are, so the live state
// can diverge from the visible log tail afterwards.
func (m *Machine) UndoLast(ctx context.Context, n int) int {
	if n <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.log.TruncateLast(ctx, n)
}

// Export writes the full log as CSV in the fixed column order.
func (m *Machine) Export(ctx context.Context, w io.Writer) error {
	return model.WriteCSV(w, m.log.Rows(ctx))
}

// makeRow builds a row stamped with the current wall time and lineup
// snapshots, appends it to the log and returns it. Callers hold m.mu.
func (m *Machine) makeRow(ctx context.Context, team model.Team, kind model.Kind, from, to string) model.EventRow {
	row := model.EventRow{
		Timestamp: m.now().Format(timestampLayout),
		Team:      team,
		Event:     kind,
		Point:     m.point,
		From:      from,
		To:        to,
		OnFieldA:  append([]string(nil), m.onfield[model.TeamA]...),
		OnFieldB:  append([]string(nil), m.onfield[model.TeamB]...),
	}
	m.log.Append(ctx, row)
	return row
}

func (m *Machine) holderIs(p model.PlayerRef) bool {
	return m.lastHolder != nil && m.lastHolder.Team == p.Team && m.lastHolder.Name == p.Name
}

func (m *Machine) isOnField(team model.Team, name string) bool {
	for _, p := range m.onfield[team] {
		if p == name {
			return true
		}
	}
	return false
}

func clonePlayer(p *model.PlayerRef) *model.PlayerRef {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
