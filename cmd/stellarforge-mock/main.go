// Package main runs the StellarForge mock registry server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"github.com/stellarforge/stellarforge-go/internal/config"
	"github.com/stellarforge/stellarforge-go/internal/mockserver"
	"github.com/stellarforge/stellarforge-go/internal/observability"
	"github.com/stellarforge/stellarforge-go/internal/resilience"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "path to configuration file (defaults are used when empty)")
	port := flag.Int("port", 0, "override server.port")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		slog.Error("mock server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, portOverride int) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfgManager, cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if portOverride > 0 {
		cfg.Server.Port = portOverride
	}

	level := new(slog.LevelVar)
	logger, err := observability.NewLogger(observability.LoggerConfig{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		LevelVar: level,
	})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	logger.Info("starting StellarForge mock server", "version", version)

	if cfgManager != nil {
		cfgManager.OnChange(func(next *config.Config) {
			if l, err := observability.ParseLevel(next.Logging.Level); err == nil {
				level.Set(l)
			}
		})
		if err := cfgManager.Watch(ctx); err != nil {
			logger.Warn("config hot-reload disabled", "error", err)
		}
		defer cfgManager.Close()
	}

	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		Protocol:    cfg.Tracing.Protocol,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		SampleRate:  cfg.Tracing.SampleRate,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	store, err := openCatalog(ctx, cfg.Catalog)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	logger.Info("catalog ready", "backend", cfg.Catalog.Backend)

	limiter, closeLimiter := newLimiter(cfg.RateLimit, logger)
	defer closeLimiter()

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	srv := mockserver.New(mockserver.Config{
		Catalog:        store,
		CatalogBackend: cfg.Catalog.Backend,
		Limiter:        limiter,
		Logger:         logger,
		Tracer:         tp.Tracer(),
		MetricsPath:    metricsPath,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	})
	defer srv.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
	return nil
}

func loadConfig(path string) (*config.Manager, *config.Config, error) {
	if path == "" {
		return nil, config.DefaultConfig(), nil
	}
	mgr, err := config.NewManager(path, slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	return mgr, mgr.Get(), nil
}

// newLimiter returns nil when rate limiting is disabled. The returned func
// releases the limiter and any Redis client it opened.
func newLimiter(cfg config.RateLimitConfig, logger *slog.Logger) (*resilience.KeyLimiter, func()) {
	if !cfg.Enabled {
		return nil, func() {}
	}

	limiter := resilience.NewKeyLimiter(resilience.KeyLimiterConfig{
		RPM:      cfg.RequestsPerMinute,
		Burst:    cfg.BurstSize,
		FailOpen: cfg.FailOpen,
		Logger:   logger,
	})
	if cfg.RedisAddr == "" {
		return limiter, limiter.Stop
	}

	client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	limiter.SetDistributedLimiter(resilience.NewRedisLimiter(client, ""))
	logger.Info("distributed rate limiting enabled", "redis_addr", cfg.RedisAddr)
	return limiter, func() {
		limiter.Stop()
		_ = client.Close()
	}
}
