package game

import "errors"

// Sentinel kinds for state machine errors. Callers can match with errors.Is.
var (
	// ErrUnknownTeam reports a team key other than "A" or "B".
	ErrUnknownTeam = errors.New("unknown team")

	// ErrNoPossession reports a press that needs an established possession.
	ErrNoPossession = errors.New("no team currently holds the disc")

	// ErrNoClick reports a press with no preceding player click to act on.
	ErrNoClick = errors.New("no player has been clicked")

	// ErrNoHolder reports a press that needs a current holder.
	ErrNoHolder = errors.New("no current holder")

	// ErrNotPossessionTeam reports a dropper clicked on the defending team.
	ErrNotPossessionTeam = errors.New("player is not on the possession team")

	// ErrUnresolvedScore reports that neither the last throw nor the last
	// click identifies a thrower/receiver pair for the score.
	ErrUnresolvedScore = errors.New("cannot resolve thrower and receiver")

	// ErrInvalidSubstitution covers all OUT/IN validation failures.
	ErrInvalidSubstitution = errors.New("invalid substitution")

	// ErrInvalidLineup reports an on-field list of the wrong size.
	ErrInvalidLineup = errors.New("invalid lineup")
)
