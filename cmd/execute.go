// Package cmd implements the frontdesk CLI.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/luxevoice/frontdesk/internal/config"
	"github.com/luxevoice/frontdesk/internal/log"
)

// Execute is the entry point called from main. Version and help work even
// when configuration is broken; everything else loads and validates config
// first.
func Execute() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			return printVersionInfo()
		}
	}

	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	return newRootCmd(cfg, logger).Execute()
}

// initLogger builds the process logger. DEBUG in the environment raises
// the level; logs go to stderr so stdout stays clean for command output.
func initLogger() log.Logger {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level})
}
