package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "log.toml", cfg.LogPath)
	assert.Equal(t, "calendar.pdf", cfg.OutputPDF)
	assert.Equal(t, "monday", cfg.WeekStart)
	assert.Equal(t, "a4", cfg.Page)
	assert.Equal(t, "0 * * * *", cfg.RefreshCron)
	assert.Equal(t, 30, cfg.ChromeTimeoutSec)
}

func TestNormalizeFallsBackOnUnknownValues(t *testing.T) {
	cfg := &Config{WeekStart: "wednesday", Page: "a0", ChromeTimeoutSec: -1}
	cfg.Normalize()

	assert.Equal(t, "monday", cfg.WeekStart)
	assert.Equal(t, "a4", cfg.Page)
	assert.Equal(t, 30, cfg.ChromeTimeoutSec)
	assert.Equal(t, "log.toml", cfg.LogPath)
}

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "calendar.pdf", cfg.OutputPDF)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.LogPath = "/data/log.toml"
	cfg.WeekStart = "sunday"
	cfg.OutputICS = "/data/health.ics"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/log.toml", loaded.LogPath)
	assert.Equal(t, "sunday", loaded.WeekStart)
	assert.Equal(t, "/data/health.ics", loaded.OutputICS)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}
