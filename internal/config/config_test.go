package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 30*time.Minute, cfg.Store.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Store.SweepInterval)
	assert.Equal(t, "keep", cfg.Store.ReadPolicy)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 20, cfg.RateLimit.MaxRequests)
	assert.False(t, cfg.PollRateLimit.Enabled)
	assert.True(t, cfg.Validation.StrictID)
	assert.Equal(t, 50, cfg.Validation.MaxIDLength)
	assert.Equal(t, 5000, cfg.Validation.MaxResultLength)
	assert.Equal(t, 20, cfg.Validation.MaxStatusLength)
	assert.Equal(t, 500, cfg.Validation.MaxMessageLength)
	assert.False(t, cfg.Debug.Enabled)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
  trusted_proxies: ["10.0.0.0/8"]
store:
  ttl: 10m
  sweep_interval: 1m
  read_policy: consume
validation:
  strict_id: false
debug:
  enabled: true
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Server.TrustedProxies)
	assert.Equal(t, 10*time.Minute, cfg.Store.TTL)
	assert.Equal(t, "consume", cfg.Store.ReadPolicy)
	assert.False(t, cfg.Validation.StrictID)
	assert.True(t, cfg.Debug.Enabled)
	assert.Equal(t, 20, cfg.RateLimit.MaxRequests, "unset keys keep defaults")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Run("PORT", func(t *testing.T) {
		t.Setenv("PORT", "4000")
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, 4000, cfg.Server.Port)
	})

	t.Run("SERVER_PORT beats PORT", func(t *testing.T) {
		t.Setenv("PORT", "4000")
		t.Setenv("SERVER_PORT", "5000")
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, 5000, cfg.Server.Port)
	})

	t.Run("store and proxies", func(t *testing.T) {
		t.Setenv("STORE_TTL", "90s")
		t.Setenv("STORE_SWEEP_INTERVAL", "30s")
		t.Setenv("STORE_READ_POLICY", "consume")
		t.Setenv("SERVER_TRUSTED_PROXIES", "127.0.0.1, 10.0.0.0/8")
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, cfg.Store.TTL)
		assert.Equal(t, "consume", cfg.Store.ReadPolicy)
		assert.Equal(t, []string{"127.0.0.1", "10.0.0.0/8"}, cfg.Server.TrustedProxies)
	})
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	return cfg
}

func TestValidateStatic(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantField: "server.port"},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }, wantField: "server.port"},
		{name: "bad policy", mutate: func(c *Config) { c.Store.ReadPolicy = "once" }, wantField: "store.read_policy"},
		{name: "zero ttl", mutate: func(c *Config) { c.Store.TTL = 0 }, wantField: "store.ttl"},
		{name: "sweep longer than ttl", mutate: func(c *Config) { c.Store.SweepInterval = time.Hour }, wantField: "store.sweep_interval"},
		{name: "zero max requests", mutate: func(c *Config) { c.RateLimit.MaxRequests = 0 }, wantField: "rate_limit.max_requests"},
		{name: "bad proxy", mutate: func(c *Config) { c.Server.TrustedProxies = []string{"not-an-ip"} }, wantField: "server.trusted_proxies[0]"},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantField: "logging.level"},
		{name: "strict with short ids", mutate: func(c *Config) { c.Validation.MaxIDLength = 10 }, wantField: "validation.max_id_length"},
		{name: "tracing without endpoint", mutate: func(c *Config) { c.Tracing.Enabled = true; c.Tracing.OTLP.Endpoint = "" }, wantField: "tracing.otlp.endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := ValidateStatic(cfg)
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}
