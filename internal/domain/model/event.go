// Package model contains domain models passed between layers.
package model

// Team identifies one of the two sides in a game.
type Team string

// The two fixed team keys.
const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// Other returns the opposing team key.
func (t Team) Other() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Valid reports whether t is one of the two known team keys.
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// Kind enumerates the event taxonomy recorded in the game log.
type Kind string

// Event kinds. The short codes match the exported CSV values.
const (
	KindPull  Kind = "P"    // opening throw of a point
	KindPass  Kind = "PASS" // completed pass between same-team players
	KindTurn  Kind = "TURN" // turnover charged to the throwing team
	KindD     Kind = "D"    // block credited to the defender taking possession
	KindDrop  Kind = "O"    // dropped disc, flips possession
	KindScore Kind = "S"    // goal, ends the point
	KindSub   Kind = "SUB"  // substitution, OUT player replaced by IN player
)

// PlayerRef identifies a player by team and name. It is an immutable
// value compared by (team, name).
type PlayerRef struct {
	Team Team   `json:"team"`
	Name string `json:"name"`
}

// Throw records the most recent completed pass. It disambiguates score
// attribution when the scoring press follows a pass.
type Throw struct {
	Thrower  PlayerRef
	Receiver PlayerRef
}

// EventRow is one logged event. Rows are appended to an ordered log and
// never mutated; the on-field fields snapshot both lineups at the moment
// the row was created, so later substitutions do not alter history.
type EventRow struct {
	Timestamp string   `json:"timestamp"`
	Team      Team     `json:"team"`
	Event     Kind     `json:"event"`
	Point     int      `json:"point"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	OnFieldA  []string `json:"onfield_team_a"`
	OnFieldB  []string `json:"onfield_team_b"`
}
