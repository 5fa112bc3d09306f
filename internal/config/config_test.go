package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".clusterctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CLUSTERING_API_URL", "CLUSTERING_AUTH_TOKEN", "CLUSTERCTL_API_BASE_URL", "CLUSTERCTL_LOGGING_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api:
  base_url: https://clustering.example.org/api
  request_timeout: 45s
  dump_dir: debug_requests
export:
  dir: reports
  mode: all_years
logging:
  level: debug
  format: json
output:
  colors: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://clustering.example.org/api", cfg.API.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 2*time.Minute, cfg.API.ArtifactTimeout)
	assert.Equal(t, "debug_requests", cfg.API.DumpDir)
	assert.Equal(t, "reports", cfg.Export.Dir)
	assert.Equal(t, "all_years", cfg.Export.Mode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Output.Colors)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "api:\n  base_url: http://from-file:8000/api\n")

	t.Run("frontend variable", func(t *testing.T) {
		t.Setenv("CLUSTERING_API_URL", "http://from-env:8000/api")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://from-env:8000/api", cfg.API.BaseURL)
	})

	t.Run("prefixed variable", func(t *testing.T) {
		t.Setenv("CLUSTERCTL_LOGGING_LEVEL", "warn")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})
}

func TestLoadValidation(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
	}{
		{"bad level", "logging:\n  level: verbose\n"},
		{"bad format", "logging:\n  format: xml\n"},
		{"bad url", "api:\n  base_url: localhost:8000\n"},
		{"bad timeout", "api:\n  request_timeout: -1s\n"},
		{"empty export dir", "export:\n  dir: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
