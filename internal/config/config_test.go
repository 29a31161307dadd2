package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/lovetrack/internal/kv"
	"github.com/pfrederiksen/lovetrack/internal/logger"
)

// isolate points every lookup away from the developer's real configuration.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, name := range []string{
		EnvConfigPath,
		"LOVETRACK_DATA_DIR",
		"LOVETRACK_BACKEND",
		"LOVETRACK_REFRESH_INTERVAL",
		"LOVETRACK_LOG_LEVEL",
		"LOVETRACK_UPCOMING_LIMIT",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "~/.local/share/lovetrack", cfg.DataDir)
	assert.Equal(t, kv.BackendFile, cfg.StorageBackend())
	assert.Equal(t, time.Minute, cfg.RefreshInterval)
	assert.Equal(t, logger.LevelWarn, cfg.Level())
	assert.Equal(t, 5, cfg.UpcomingLimit)
}

func TestLoad_File(t *testing.T) {
	isolate(t)

	path := writeConfig(t, `
data_dir: /tmp/lovetrack-test
backend: sqlite
refresh_interval: 30s
log_level: debug
upcoming_limit: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/lovetrack-test", cfg.DataDir)
	assert.Equal(t, kv.BackendSQLite, cfg.StorageBackend())
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, logger.LevelDebug, cfg.Level())
	assert.Equal(t, 3, cfg.UpcomingLimit)
}

func TestLoad_PartialFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(writeConfig(t, "backend: bolt\n"))
	require.NoError(t, err)

	assert.Equal(t, kv.BackendBolt, cfg.StorageBackend())
	assert.Equal(t, time.Minute, cfg.RefreshInterval)
	assert.Equal(t, "~/.local/share/lovetrack", cfg.DataDir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	t.Setenv("LOVETRACK_BACKEND", "bolt")
	t.Setenv("LOVETRACK_REFRESH_INTERVAL", "5s")

	cfg, err := Load(writeConfig(t, "backend: sqlite\nrefresh_interval: 30s\n"))
	require.NoError(t, err)

	assert.Equal(t, kv.BackendBolt, cfg.StorageBackend())
	assert.Equal(t, 5*time.Second, cfg.RefreshInterval)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvConfigPath, writeConfig(t, "log_level: error\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, logger.LevelError, cfg.Level())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "Unknown backend", content: "backend: redis\n", wantErr: "unknown storage backend"},
		{name: "Interval too short", content: "refresh_interval: 100ms\n", wantErr: "refresh_interval must be at least 1s"},
		{name: "Unknown log level", content: "log_level: loud\n", wantErr: "unknown log level"},
		{name: "Negative limit", content: "upcoming_limit: -1\n", wantErr: "upcoming_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)

			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUsage(t *testing.T) {
	usage := Usage()
	assert.Contains(t, usage, "LOVETRACK_DATA_DIR")
	assert.Contains(t, usage, "LOVETRACK_BACKEND")
}

func TestConfig_String(t *testing.T) {
	cfg := &Config{DataDir: "/data", Backend: "file", RefreshInterval: time.Minute, LogLevel: "warn", UpcomingLimit: 5}
	assert.Contains(t, cfg.String(), "Backend: file\n")
	assert.Contains(t, cfg.String(), "RefreshInterval: 1m0s\n")
}
