// Package config loads application configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all settings for the fleetdesk client.
type Config struct {
	// APIBaseURL is the origin of the fleet backend. Defaults to the
	// development server on localhost.
	APIBaseURL string

	// DataDir is where the local database and log file live.
	// Defaults to ~/.fleetdesk.
	DataDir string

	// LogLevel controls the minimum log level written to the log file.
	// Valid values: debug, info, warn, error. Defaults to "info".
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first if present; real environment variables win.
func Load() (Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	cfg := Config{
		APIBaseURL: getEnv("FLEETDESK_API_URL", "http://localhost:5001"),
		LogLevel:   strings.ToLower(getEnv("FLEETDESK_LOG_LEVEL", "info")),
	}

	dataDir := os.Getenv("FLEETDESK_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		dataDir = filepath.Join(home, ".fleetdesk")
	}
	cfg.DataDir = dataDir

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
