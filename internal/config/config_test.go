package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformEnv(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"HOSTDESK_API_URL", "api.base_url"},
		{"HOSTDESK_TOKEN", "api.token"},
		{"HOSTDESK_LOG__LEVEL", "log.level"},
		{"HOSTDESK_PUSH__RELAY_URL", "push.relay_url"},
		{"HOSTDESK_CONFIG", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, _ := transformEnv(tt.key, "x")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFile_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := LoadFile(filepath.Join(home, "missing.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, defaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "/sw.js", cfg.Push.WorkerPath)
	assert.Equal(t, filepath.Join(home, ".hostdesk", "push.json"), cfg.Push.StatePath)
	assert.Zero(t, cfg.API.Timeout)
}

func TestLoadFile_RequiredMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), true)
	assert.Error(t, err)
}

func TestLoadFile_YAMLAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "config.yaml")
	yml := `api:
  base_url: https://ops.example.com/api/
  timeout: 15s
log:
  level: debug
push:
  relay_url: https://relay.example.com
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("HOSTDESK_TOKEN", "env-token")
	t.Setenv("HOSTDESK_LOG__LEVEL", "warn")

	cfg, err := LoadFile(path, true)
	require.NoError(t, err)

	assert.Equal(t, "https://ops.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "env-token", cfg.API.Token)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "https://relay.example.com", cfg.Push.RelayURL)
	// Untouched defaults survive a partial file.
	assert.Equal(t, "/sw.js", cfg.Push.WorkerPath)
}
