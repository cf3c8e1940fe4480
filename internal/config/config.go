// Package config provides configuration for the mock registry server with
// hot-reload support. It uses fsnotify to watch for file changes and atomic
// pointer swaps to publish updates.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete mock server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// RateLimitConfig defines per-API-key rate limiting.
type RateLimitConfig struct {
	Enabled           bool   `yaml:"enabled"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	BurstSize         int    `yaml:"burst_size"`
	RedisAddr         string `yaml:"redis_addr"` // shared counters when set
	FailOpen          bool   `yaml:"fail_open"`
}

// CatalogConfig selects where registered stars are kept.
type CatalogConfig struct {
	Backend  string         `yaml:"backend"` // memory, redis, postgres
	TTL      time.Duration  `yaml:"ttl"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	Namespace string `yaml:"namespace"`
}

// PostgresConfig contains PostgreSQL connection settings.
type PostgresConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// TracingConfig contains OpenTelemetry tracing settings.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Protocol    string  `yaml:"protocol"`     // grpc or http
	Endpoint    string  `yaml:"endpoint"`     // OTLP endpoint (e.g., "localhost:4317")
	ServiceName string  `yaml:"service_name"` // Service name for traces
	SampleRate  float64 `yaml:"sample_rate"`  // Sampling rate (0.0 to 1.0)
	Insecure    bool    `yaml:"insecure"`     // Use insecure connection (no TLS)
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerMinute: 60,
			BurstSize:         10,
			FailOpen:          true,
		},
		Catalog: CatalogConfig{
			Backend: "memory",
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				Namespace: "stellarforge",
			},
			Postgres: PostgresConfig{
				MaxOpenConns: 10,
				MaxIdleConns: 2,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			Protocol:    "grpc",
			Endpoint:    "localhost:4317",
			ServiceName: "stellarforge-mock",
			SampleRate:  1.0,
			Insecure:    true,
		},
	}
}

// LoadFromFile reads and parses a YAML configuration file on top of the
// defaults. Environment variables in the format ${VAR_NAME} are expanded.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes cannot be negative")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerMinute <= 0 {
			return fmt.Errorf("rate_limit.requests_per_minute must be positive")
		}
		if c.RateLimit.BurstSize < 0 {
			return fmt.Errorf("rate_limit.burst_size cannot be negative")
		}
	}

	switch c.Catalog.Backend {
	case "memory":
	case "redis":
		if c.Catalog.Redis.Addr == "" {
			return fmt.Errorf("catalog.redis.addr is required for the redis backend")
		}
	case "postgres":
		if c.Catalog.Postgres.DSN == "" {
			return fmt.Errorf("catalog.postgres.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown catalog backend %q", c.Catalog.Backend)
	}
	if c.Catalog.TTL < 0 {
		return fmt.Errorf("catalog.ttl cannot be negative")
	}

	switch c.Tracing.Protocol {
	case "", "grpc", "http":
	default:
		return fmt.Errorf("tracing.protocol must be grpc or http")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0 and 1")
	}
	return nil
}
