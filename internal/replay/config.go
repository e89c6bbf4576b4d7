// Package replay drives a running game log service with a scripted or
// generated sequence of clicks and presses, then downloads the CSV log.
package replay

import "time"

// Config captures the replay tool settings.
type Config struct {
	// BaseURL of the service, e.g. http://localhost:9080.
	BaseURL string

	// ScriptFile is a JSON-lines action script. When empty a plausible
	// game is generated instead.
	ScriptFile string

	// OutputFile receives the downloaded CSV log.
	OutputFile string

	// Points is the number of points the generator plays.
	Points int

	// Seed makes generated games reproducible.
	Seed int64

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Verbose enables per-action logging.
	Verbose bool
}
