package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultBackendURL, cfg.BackendURL)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.True(t, cfg.TelemetryEnabled)
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	assert.Equal(t, "task-frontend", cfg.ServiceName)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BACKEND_URL", "http://tasks.internal:8000")
	t.Setenv("BACKEND_TIMEOUT", "2s")
	t.Setenv("TELEMETRY_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "http://tasks.internal:8000", cfg.BackendURL)
	assert.Equal(t, 2*time.Second, cfg.BackendTimeout)
	assert.False(t, cfg.TelemetryEnabled)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frontend.yaml")
	content := "backend_url: http://file-backend:4000\nserver_port: \"7000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://file-backend:4000", cfg.BackendURL)
	assert.Equal(t, "7001", cfg.ServerPort, "environment overrides the config file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "backend url not a url", key: "BACKEND_URL", val: "not a url"},
		{name: "unknown log level", key: "LOG_LEVEL", val: "verbose"},
		{name: "non numeric port", key: "SERVER_PORT", val: "http"},
		{name: "negative timeout", key: "BACKEND_TIMEOUT", val: "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
