package replay

import (
	"fmt"
	"os"

	"github.com/fieldside/ultilog/pkg/logger"
)

// SetupLogging initializes the shared logger for the CLI.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			return fmt.Errorf("failed to set log level: %w", err)
		}
	}
	return nil
}

// ShowHelp prints usage information for the replay tool.
func ShowHelp() {
	os.Stdout.WriteString(`Game Replay Tool
================

Drives a running game log service with a scripted or generated game,
then downloads the resulting CSV event log.

Usage:
  go run cmd/replay/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -script string
        JSON-lines action script; when empty a random game is generated
  -points int
        Number of points the generator plays (default 5)
  -seed int
        Random seed for the generator (default: current time)
  -output string
        Output file for the CSV log (default: game_log_TIMESTAMP.csv)
  -timeout duration
        HTTP request timeout (default 10s)
  -verbose
        Enable per-action logging
  -help
        Show this help message

Script format (one JSON object per line, # comments allowed):
  {"op":"click","team":"A","player":"A3"}
  {"op":"press","action":"pull"}
  {"op":"press","action":"score"}
  {"op":"sub"}
  {"op":"undo","count":1}

Examples:
  # Replay a generated five-point game
  go run cmd/replay/main.go

  # Replay a scripted game against another host
  go run cmd/replay/main.go -script game.jsonl -url http://localhost:8080

  # Reproducible generated game
  go run cmd/replay/main.go -seed 42 -points 9 -output final.csv
`)
}
