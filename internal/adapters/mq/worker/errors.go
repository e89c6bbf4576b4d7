package worker

import "errors"

// Sentinel kinds for writer errors.
var (
	ErrUnknownCommand = errors.New("unknown command kind")
)
