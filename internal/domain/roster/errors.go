package roster

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrUnknownTeam     = errors.New("unknown team")
	ErrUnknownPlayer   = errors.New("player not on roster")
	ErrDuplicatePlayer = errors.New("player already on roster")
	ErrInvalidPlayer   = errors.New("invalid player name")
)
