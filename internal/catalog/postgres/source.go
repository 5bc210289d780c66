// Package postgres loads catalog reference tables from PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"zoohousing/internal/catalog/sqlstore"
	"zoohousing/pkg/domain"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/zoo?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Source reads the catalog from Postgres.
type Source struct {
	db *sql.DB
}

// Open connects to Postgres and ensures the reference schema exists.
func Open(ctx context.Context, dsn string) (*Source, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := sqlstore.ApplySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Source{db: db}, nil
}

// Name identifies the source in logs.
func (s *Source) Name() string { return "postgres" }

// Load reads the reference tables.
func (s *Source) Load(ctx context.Context) (*domain.Catalog, error) {
	c, err := sqlstore.Load(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("load postgres catalog: %w", err)
	}
	return c, nil
}

// Seed replaces the reference tables with the catalog contents.
func (s *Source) Seed(ctx context.Context, c *domain.Catalog) error {
	return sqlstore.Seed(ctx, s.db, c, sqlstore.Dollar)
}

// Close releases the database handle.
func (s *Source) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Source) DB() *sql.DB { return s.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
