package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BoardFit/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, model.DefaultSettings(), cfg.Settings)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10, cfg.Server.MaxSearchLimit)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.NoError(t, Validate(cfg))
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "config.yaml", filepath.Base(DefaultPath()))
	assert.Equal(t, ".boardfit", filepath.Base(DefaultDir()))
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
settings:
  strategy: bestfit
  kerf_width: 2.5
  padding_length: 1
  search_limit: 12
log:
  level: debug
  format: json
server:
  addr: 127.0.0.1:9000
  read_timeout: 1m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, model.StrategyBestFit, cfg.Settings.Strategy)
	assert.Equal(t, 2.5, cfg.Settings.KerfWidth)
	assert.Equal(t, 1.0, cfg.Settings.PaddingLength)
	assert.Equal(t, 12, cfg.Settings.SearchLimit)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, time.Minute, cfg.Server.ReadTimeout)

	// Keys absent from the file keep their defaults
	assert.Equal(t, int64(42), cfg.Settings.Seed)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "settings:\n  kerf_width: 2.5\n")
	t.Setenv("BOARDFIT_SETTINGS_KERF_WIDTH", "1.5")
	t.Setenv("BOARDFIT_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1.5, cfg.Settings.KerfWidth)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
settings:
  kerf_width: -1
log:
  level: loud
server:
  max_search_limit: -1
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings.kerf_width must be at least 0")
	assert.Contains(t, err.Error(), "log.level must be one of [debug info warn error]")
	assert.Contains(t, err.Error(), "server.max_search_limit must be at least 0")
}

func TestLoadWithDefaults_MissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadWithDefaults_EnvWithoutFile(t *testing.T) {
	t.Setenv("BOARDFIT_SETTINGS_STRATEGY", "genetic")
	t.Setenv("BOARDFIT_SERVER_READ_TIMEOUT", "45s")
	t.Setenv("BOARDFIT_SERVER_MAX_SEARCH_LIMIT", "8")

	cfg, err := LoadWithDefaults("")
	require.NoError(t, err)
	assert.Equal(t, model.StrategyGenetic, cfg.Settings.Strategy)
	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 8, cfg.Server.MaxSearchLimit)
}

func TestLoadWithDefaults_ExistingFile(t *testing.T) {
	path := writeConfig(t, "output:\n  format: json\n")

	cfg, err := LoadWithDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestValidate_Nil(t *testing.T) {
	assert.Error(t, Validate(nil))
}

func TestFormatFieldPath(t *testing.T) {
	assert.Equal(t, "settings.kerf_width", formatFieldPath("Config.Settings.KerfWidth"))
	assert.Equal(t, "server.read_timeout", formatFieldPath("Config.Server.ReadTimeout"))
	assert.Equal(t, "Config", formatFieldPath("Config"))
}
