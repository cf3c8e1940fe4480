package main

import (
	"context"
	"fmt"

	"github.com/stellarforge/stellarforge-go/internal/catalog"
	"github.com/stellarforge/stellarforge-go/internal/catalog/memory"
	"github.com/stellarforge/stellarforge-go/internal/catalog/postgres"
	"github.com/stellarforge/stellarforge-go/internal/catalog/redis"
	"github.com/stellarforge/stellarforge-go/internal/config"
)

// openCatalog builds the configured catalog backend.
func openCatalog(ctx context.Context, cfg config.CatalogConfig) (catalog.Store, error) {
	switch cfg.Backend {
	case catalog.BackendMemory, "":
		return memory.New(cfg.TTL), nil

	case catalog.BackendRedis:
		rc := redis.DefaultConfig()
		rc.Addr = cfg.Redis.Addr
		rc.Password = cfg.Redis.Password
		rc.DB = cfg.Redis.DB
		rc.TTL = cfg.TTL
		if cfg.Redis.Namespace != "" {
			rc.Namespace = cfg.Redis.Namespace
		}
		return redis.New(ctx, rc)

	case catalog.BackendPostgres:
		pc := postgres.DefaultConfig()
		pc.DSN = cfg.Postgres.DSN
		if cfg.Postgres.MaxOpenConns > 0 {
			pc.MaxOpenConns = cfg.Postgres.MaxOpenConns
		}
		if cfg.Postgres.MaxIdleConns > 0 {
			pc.MaxIdleConns = cfg.Postgres.MaxIdleConns
		}
		return postgres.New(ctx, pc)

	default:
		return nil, fmt.Errorf("unknown catalog backend %q", cfg.Backend)
	}
}
