package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "carematch.yaml", `
server:
  port: 9090
  default_limit: 5
matching:
  weights:
    skills: 0.5
    rate: 0.2
  review_threshold: 10
  parallelism: 4
redis:
  addr: localhost:6379
  ttl: 2m
refresh:
  schedule: "@every 10m"
fixtures: testdata/pool.yaml
rate_limit:
  whitelist: ["10.0.0.1"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.DefaultLimit)
	assert.Equal(t, 0.5, cfg.Matching.Weights.Skills)
	assert.Equal(t, 0.2, cfg.Matching.Weights.Rate)
	// Unset weights keep their defaults.
	assert.Equal(t, 0.15, cfg.Matching.Weights.Experience)
	assert.Equal(t, 10, cfg.Matching.ReviewThreshold)
	assert.Equal(t, 4, cfg.Matching.Parallelism)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "@every 10m", cfg.Refresh.Schedule)
	assert.Equal(t, "testdata/pool.yaml", cfg.Fixtures)
	assert.Equal(t, []string{"10.0.0.1"}, cfg.RateLimit.Whitelist)
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "carematch.json", `{"server": {"port": 7000}, "log": {"json": true}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 10, cfg.Server.DefaultLimit)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CAREMATCH_SERVER_PORT", "8181")
	t.Setenv("CAREMATCH_MATCHING_WEIGHTS_LOCATION", "0.4")
	t.Setenv("DATABASE_URL", "postgres://localhost/carematch")

	path := writeConfig(t, "carematch.yaml", "server:\n  port: 9090\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, 0.4, cfg.Matching.Weights.Location)
	assert.Equal(t, "postgres://localhost/carematch", cfg.Database.URL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad port", "server:\n  port: 70000\n", "config error"},
		{"zero default limit", "server:\n  default_limit: 0\n", "config error"},
		{"negative weight", "matching:\n  weights:\n    skills: -1\n", "matching"},
		{"bad schedule", "refresh:\n  schedule: every now and then\n", "refresh.schedule"},
		{"malformed yaml", "server: [unclosed\n", "failed to read config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, "carematch.yaml", tt.content))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/carematch.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CAREMATCH_DATABASE_URL", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.DefaultLimit)
	assert.Equal(t, 20, cfg.Matching.ReviewThreshold)
	assert.Equal(t, 0.30, cfg.Matching.Weights.Skills)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestRateLimitConfig_Limiter(t *testing.T) {
	rl := Default().RateLimit
	rl.Whitelist = []string{" 10.0.0.1 ", ""}
	rl.Blacklist = []string{"10.0.0.9"}

	lc := rl.Limiter()
	assert.True(t, lc.Enabled)
	assert.Equal(t, 1000, lc.DefaultLimit)
	assert.Equal(t, map[string]bool{"10.0.0.1": true}, lc.Whitelist)
	assert.True(t, lc.Blacklist["10.0.0.9"])
	assert.NotEmpty(t, lc.EndpointConfigs)
}
