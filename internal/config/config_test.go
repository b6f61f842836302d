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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TOY_VAPID_PUBLIC_KEY", "")
	t.Setenv("TOY_VAPID_PRIVATE_KEY", "")
	t.Setenv("TOY_LOG_LEVEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10*time.Minute, cfg.Pairing.CodeTTL)
	assert.Equal(t, time.Minute, cfg.Pairing.SweepInterval)
	assert.Equal(t, 5, cfg.Pairing.MaxConnections)
	require.NotNil(t, cfg.Pairing.UniqueCodes)
	assert.True(t, *cfg.Pairing.UniqueCodes)
	assert.Equal(t, 10*time.Second, cfg.Push.Timeout)
	assert.Equal(t, 12*time.Hour, cfg.Push.VAPID.TTL)
	assert.Equal(t, 30, cfg.RateLimit.Requests)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.HasVAPIDKeys())
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TOY_LOG_LEVEL", "")

	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 8080
  allowed_origins: ["https://app.example"]
pairing:
  code_ttl: 5m
  sweep_interval: 30s
  max_connections: 3
  unique_codes: false
push:
  timeout: 3s
  vapid:
    public_key: pub
    private_key: priv
    subscriber: mailto:ops@example.com
rate_limit:
  requests: 10
  window: 10s
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.Equal(t, []string{"https://app.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Pairing.CodeTTL)
	assert.Equal(t, 30*time.Second, cfg.Pairing.SweepInterval)
	assert.Equal(t, 3, cfg.Pairing.MaxConnections)
	assert.False(t, *cfg.Pairing.UniqueCodes)
	assert.Equal(t, 3*time.Second, cfg.Push.Timeout)
	assert.True(t, cfg.HasVAPIDKeys())
	assert.Equal(t, "mailto:ops@example.com", cfg.Push.VAPID.Subscriber)
	assert.Equal(t, 10, cfg.RateLimit.Requests)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("TOY_VAPID_PUBLIC_KEY", "env-pub")
	t.Setenv("TOY_VAPID_PRIVATE_KEY", "env-priv")
	t.Setenv("TOY_LOG_LEVEL", "warn")

	path := writeConfig(t, "server:\n  port: 8080\nlog:\n  level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "env-pub", cfg.Push.VAPID.PublicKey)
	assert.Equal(t, "env-priv", cfg.Push.VAPID.PrivateKey)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  string
	}{
		{name: "bad yaml", body: "server: [unclosed"},
		{name: "bad port env", body: "", env: "eighty"},
		{name: "port out of range", body: "server:\n  port: 70000\n"},
		{name: "negative ttl", body: "pairing:\n  code_ttl: -1m\n"},
		{name: "half vapid pair", body: "push:\n  vapid:\n    public_key: pub\n"},
		{name: "apns without topic", body: "push:\n  apns:\n    key_file: key.p8\n    key_id: k\n    team_id: t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", tt.env)
			t.Setenv("TOY_VAPID_PUBLIC_KEY", "")
			t.Setenv("TOY_VAPID_PRIVATE_KEY", "")

			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
