package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FLEETDESK_API_URL", "")
	t.Setenv("FLEETDESK_DATA_DIR", "")
	t.Setenv("FLEETDESK_LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5001", cfg.APIBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ".fleetdesk", filepath.Base(cfg.DataDir))
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FLEETDESK_API_URL", "https://fleet.example.com")
	t.Setenv("FLEETDESK_DATA_DIR", "/tmp/fleet-test")
	t.Setenv("FLEETDESK_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://fleet.example.com", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/fleet-test", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel, "level is lower-cased")
}
