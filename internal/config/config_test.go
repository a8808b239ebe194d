package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 20, cfg.ChatRateLimit)
	assert.Equal(t, 30*time.Second, cfg.StatsSyncInterval)
	assert.NotEmpty(t, cfg.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("CHAT_RATE_LIMIT", "5")
	t.Setenv("STATS_SYNC_INTERVAL", "2m")
	t.Setenv("ENVIRONMENT", "staging")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 5, cfg.ChatRateLimit)
	assert.Equal(t, 2*time.Minute, cfg.StatsSyncInterval)
	assert.Equal(t, "staging", cfg.Environment)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("CHAT_RATE_LIMIT", "not-a-number")
	t.Setenv("STATS_SYNC_INTERVAL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.ChatRateLimit)
	assert.Equal(t, 30*time.Second, cfg.StatsSyncInterval)
}

func TestParseOrigins(t *testing.T) {
	assert.Empty(t, parseOrigins(""))
	assert.Equal(t, []string{"a", "b"}, parseOrigins("a, ,b,"))
}
