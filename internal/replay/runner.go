package replay

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fieldside/ultilog/pkg/logger"
)

// File permission constants.
const (
	outputFilePermission = 0600
	directoryPermission  = 0750
)

// Run executes the full replay: health check, action submission, CSV
// download.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get()

	actions, err := loadActions(cfg)
	if err != nil {
		return err
	}

	log.Info(ctx, "starting replay",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("actions", len(actions)),
		logger.String("script", cfg.ScriptFile),
		logger.Any("seed", cfg.Seed))

	client := newClient(cfg.BaseURL, cfg.Timeout)

	if err := checkServiceHealth(ctx, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	start := time.Now()
	applied, rejected := 0, 0
	for i, a := range actions {
		status, err := client.Do(ctx, a)
		if err != nil {
			return fmt.Errorf("action %d (%s): %w", i, a.Op, err)
		}
		switch {
		case status >= http.StatusOK && status < http.StatusMultipleChoices:
			applied++
		case status == http.StatusConflict:
			// The state machine ignored the action; fine for scripts
			// that probe edge cases.
			rejected++
		default:
			return fmt.Errorf("action %d (%s): unexpected status %d", i, a.Op, status)
		}
		if cfg.Verbose {
			log.Info(ctx, "action submitted",
				logger.Int("index", i),
				logger.String("op", a.Op),
				logger.String("team", a.Team),
				logger.String("player", a.Player),
				logger.Int("status", status))
		}
	}
	elapsed := time.Since(start)

	if err := saveCSV(ctx, client, cfg.OutputFile); err != nil {
		return err
	}

	log.Info(ctx, "replay completed",
		logger.Int("applied", applied),
		logger.Int("rejected", rejected),
		logger.String("duration", elapsed.String()))
	return nil
}

// loadActions reads the script file or generates a game.
func loadActions(cfg *Config) ([]Action, error) {
	if cfg.ScriptFile == "" {
		return Generate(cfg.Seed, cfg.Points), nil
	}

	file, err := os.Open(cfg.ScriptFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer file.Close()

	actions, err := ParseScript(file)
	if err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("script %s contains no actions", cfg.ScriptFile)
	}
	return actions, nil
}

// checkServiceHealth verifies the service is reachable.
func checkServiceHealth(ctx context.Context, client *Client) error {
	status, _, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("health check returned status %d", status)
	}
	return nil
}

// saveCSV downloads the event log and writes it to disk.
func saveCSV(ctx context.Context, client *Client, filename string) error {
	data, err := client.FetchCSV(ctx)
	if err != nil {
		return err
	}

	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "game_log_" + timestamp + ".csv"
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, data, outputFilePermission); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}

	logger.Get().Info(ctx, "log saved", logger.String("filename", filename))
	return nil
}
