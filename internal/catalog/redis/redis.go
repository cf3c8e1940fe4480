// Package redis implements the star catalog on Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"

	"github.com/stellarforge/stellarforge-go/internal/catalog"
	"github.com/stellarforge/stellarforge-go/pkg/types"
)

// Config holds configuration for the Redis catalog.
type Config struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	Namespace    string        `yaml:"namespace"`
	TTL          time.Duration `yaml:"ttl"` // zero keeps entries forever
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PoolSize     int           `yaml:"pool_size"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		Namespace:    "stellarforge",
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	}
}

// Store persists stars as their 201 response body under <namespace>:star:<id>.
type Store struct {
	client    goredis.UniversalClient
	namespace string
	ttl       time.Duration
}

var _ catalog.Store = (*Store)(nil)

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg.Namespace, cfg.TTL), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client goredis.UniversalClient, namespace string, ttl time.Duration) *Store {
	if namespace == "" {
		namespace = "stellarforge"
	}
	return &Store{client: client, namespace: namespace, ttl: ttl}
}

func (s *Store) key(id string) string {
	return s.namespace + ":star:" + id
}

// Put implements catalog.Store.
func (s *Store) Put(ctx context.Context, star *types.Star) error {
	if err := catalog.Validate(star); err != nil {
		return err
	}

	data, err := json.Marshal(star.Response())
	if err != nil {
		return fmt.Errorf("marshal star: %w", err)
	}

	if err := s.client.Set(ctx, s.key(star.ID()), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get implements catalog.Store.
func (s *Store) Get(ctx context.Context, id string) (*types.Star, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	resp, err := types.ParseRegistrationResponse(data)
	if err != nil {
		return nil, err
	}
	return types.NewStar(resp), nil
}

// Ping checks Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close implements catalog.Store.
func (s *Store) Close() error {
	return s.client.Close()
}
