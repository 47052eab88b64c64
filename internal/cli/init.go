// Package cli provides the startup helpers shared by the command-line
// entry point: dotenv loading, logging and configuration.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"noirbudget/internal/config"
	applog "noirbudget/internal/log"
)

// LoadEnvFile loads the .env file for local development. Errors are
// ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging at the configured level and
// installs it as the default logger.
func SetupLogger(level string) *applog.Logger {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	logger := applog.New("noirbudget", lvl)
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it, exiting
// the process on failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}
