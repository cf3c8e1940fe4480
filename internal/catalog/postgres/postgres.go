// Package postgres implements the star catalog on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/stellarforge/stellarforge-go/internal/catalog"
	"github.com/stellarforge/stellarforge-go/internal/metrics"
	"github.com/stellarforge/stellarforge-go/pkg/types"
)

// Config contains PostgreSQL connection settings.
type Config struct {
	DSN          string        `yaml:"dsn"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	ConnLifetime time.Duration `yaml:"conn_lifetime"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		DSN:          "postgres://localhost:5432/stellarforge?sslmode=disable",
		MaxOpenConns: 10,
		MaxIdleConns: 2,
		ConnLifetime: 5 * time.Minute,
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS stars (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	ra            DOUBLE PRECISION NOT NULL,
	dec           DOUBLE PRECISION NOT NULL,
	observed_by   TEXT NOT NULL,
	registered_at TEXT NOT NULL
)`

// Store persists stars in the stars table.
type Store struct {
	db *sql.DB
}

var _ catalog.Store = (*Store)(nil)

// New opens the database, verifies the connection and creates the table.
func New(ctx context.Context, cfg Config) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the stars table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Put implements catalog.Store.
func (s *Store) Put(ctx context.Context, star *types.Star) error {
	if err := catalog.Validate(star); err != nil {
		return err
	}

	const query = `
		INSERT INTO stars (id, name, ra, dec, observed_by, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			ra = EXCLUDED.ra,
			dec = EXCLUDED.dec,
			observed_by = EXCLUDED.observed_by,
			registered_at = EXCLUDED.registered_at`

	_, err := s.db.ExecContext(ctx, query,
		star.ID(), star.Name(), star.RA(), star.Dec(), star.ObservedBy(), star.RegisteredAt())
	if err != nil {
		return fmt.Errorf("insert star: %w", err)
	}
	return nil
}

// Get implements catalog.Store.
func (s *Store) Get(ctx context.Context, id string) (*types.Star, error) {
	const query = `
		SELECT id, name, ra, dec, observed_by, registered_at
		FROM stars
		WHERE id = $1`

	var (
		starID, name, observedBy, registeredAt string
		ra, dec                                float64
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&starID, &name, &ra, &dec, &observedBy, &registeredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query star: %w", err)
	}

	return types.NewStar(&types.RegistrationResponse{
		StarID:       &starID,
		Name:         &name,
		Coordinates:  &types.ResponseCoordinates{RA: &ra, Dec: &dec},
		ObservedBy:   &observedBy,
		RegisteredAt: &registeredAt,
	}), nil
}

// Ping checks database connectivity and publishes pool statistics.
func (s *Store) Ping(ctx context.Context) error {
	metrics.UpdateDBPoolStats(s.db.Stats())
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
