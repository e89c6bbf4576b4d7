package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	// ErrBackpressure reports that the queue refused a command because
	// it is full or closed.
	ErrBackpressure = errors.New("command queue full")
)
