package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "memory", cfg.Catalog.Backend)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"negative body limit", func(c *Config) { c.Server.MaxBodyBytes = -1 }, "max_body_bytes"},
		{"rate limit without rpm", func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.RequestsPerMinute = 0
		}, "requests_per_minute"},
		{"disabled rate limit ignores rpm", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }, ""},
		{"unknown backend", func(c *Config) { c.Catalog.Backend = "s3" }, "unknown catalog backend"},
		{"redis without addr", func(c *Config) {
			c.Catalog.Backend = "redis"
			c.Catalog.Redis.Addr = ""
		}, "catalog.redis.addr"},
		{"postgres without dsn", func(c *Config) { c.Catalog.Backend = "postgres" }, "catalog.postgres.dsn"},
		{"postgres with dsn", func(c *Config) {
			c.Catalog.Backend = "postgres"
			c.Catalog.Postgres.DSN = "postgres://localhost/sf"
		}, ""},
		{"negative ttl", func(c *Config) { c.Catalog.TTL = -time.Second }, "catalog.ttl"},
		{"sample rate", func(c *Config) { c.Tracing.SampleRate = 1.5 }, "sample_rate"},
		{"tracing protocol", func(c *Config) { c.Tracing.Protocol = "zipkin" }, "tracing.protocol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("SF_TEST_REDIS_ADDR", "redis.internal:6380")

	path := writeConfigFile(t, `
server:
  port: 9090
  read_timeout: 5s
rate_limit:
  enabled: true
  requests_per_minute: 120
catalog:
  backend: redis
  ttl: 1h
  redis:
    addr: ${SF_TEST_REDIS_ADDR}
logging:
  level: debug
  format: text
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout, "unset fields keep defaults")
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 120, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 10, cfg.RateLimit.BurstSize)
	assert.Equal(t, "redis", cfg.Catalog.Backend)
	assert.Equal(t, time.Hour, cfg.Catalog.TTL)
	assert.Equal(t, "redis.internal:6380", cfg.Catalog.Redis.Addr)
	assert.Equal(t, "stellarforge", cfg.Catalog.Redis.Namespace)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	_, err = LoadFromFile(writeConfigFile(t, "server: [unterminated"))
	assert.ErrorContains(t, err, "parse config")

	_, err = LoadFromFile(writeConfigFile(t, "server:\n  port: -1\n"))
	assert.ErrorContains(t, err, "validate config")
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
