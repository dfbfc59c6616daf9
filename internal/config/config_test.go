package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 160, cfg.Market.Window)
	assert.Equal(t, 900*time.Millisecond, cfg.Market.TickInterval)
	assert.Equal(t, 50, cfg.Session.ModuleCost)
	assert.Equal(t, 1500*time.Millisecond, cfg.Session.RevealDelay)
	assert.Equal(t, 1000, cfg.Account.StartingCoins)
	assert.Equal(t, 50, cfg.Account.LeaderboardLimit)
	assert.False(t, cfg.JWT.Enabled)
}

func TestLoadConfigFile(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "7000"
market:
  window: 40
  tick_interval: 250ms
session:
  module_cost: 0
cors:
  allowed_origins:
    - "https://example.com"
`)
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, 40, cfg.Market.Window)
	assert.Equal(t, 250*time.Millisecond, cfg.Market.TickInterval)
	assert.Equal(t, 0, cfg.Session.ModuleCost)
	assert.Equal(t, []string{"https://example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "6000")
	t.Setenv("AI_API_KEY", "secret-key")
	t.Setenv("INVEST_LEARN_SESSION_MODULE_COST", "75")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "6000", cfg.Server.Port)
	assert.Equal(t, "secret-key", cfg.AI.APIKey)
	assert.Equal(t, 75, cfg.Session.ModuleCost)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"window too small", "market:\n  window: 1\n"},
		{"bad mode", "server:\n  mode: staging\n"},
		{"negative cost", "session:\n  module_cost: -5\n"},
		{"short secret in release", "server:\n  mode: release\njwt:\n  enabled: true\n  secret: short\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "server: [unterminated"))
	assert.Error(t, err)
}
