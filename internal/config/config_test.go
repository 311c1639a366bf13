package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "publisher-planner", cfg.App.Name)
	assert.Equal(t, "http://localhost:5004/", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "/metrics", cfg.Server.MetricsPath)
	assert.False(t, cfg.Store.AwaitHydration)
	assert.False(t, cfg.Auth.Enforce)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PLANNER_API_BASE_URL", "https://backend.example/")
	t.Setenv("PLANNER_API_TIMEOUT", "3s")
	t.Setenv("PLANNER_STORE_AWAIT_HYDRATION", "true")
	t.Setenv("PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://backend.example/", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.Store.AwaitHydration)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: "127.0.0.1:7000"
log:
  level: debug
  format: console
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load("/nonexistent/planner.yml")
	require.Error(t, err)
}

func TestValidateAuth(t *testing.T) {
	cfg := Config{
		API:  APIConfig{BaseURL: "http://x", Timeout: time.Second},
		Auth: AuthConfig{Enforce: true},
	}
	require.Error(t, cfg.Validate())

	cfg.Auth.Token = "t"
	require.NoError(t, cfg.Validate())
}
