package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/fieldside/ultilog/internal/replay"
)

// Default configuration constants.
const (
	defaultPoints     = 5
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		scriptFile = flag.String("script", "", "JSON-lines action script (default: generate a random game)")
		points     = flag.Int("points", defaultPoints, "Number of points the generator plays")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "Random seed for the generator")
		outputFile = flag.String("output", "", "Output file for the CSV log (default: game_log_TIMESTAMP.csv)")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose    = flag.Bool("verbose", false, "Enable per-action logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		replay.ShowHelp()
		return
	}

	if err := replay.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &replay.Config{
		BaseURL:    *baseURL,
		ScriptFile: *scriptFile,
		OutputFile: *outputFile,
		Points:     *points,
		Seed:       *seed,
		Timeout:    *timeout,
		Verbose:    *verbose,
	}

	if err := replay.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Replay failed: " + err.Error() + "\n")
		return
	}
}
