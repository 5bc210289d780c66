// Package sqlite loads catalog reference tables from an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"zoohousing/internal/catalog/sqlstore"
	"zoohousing/pkg/domain"
)

const defaultPath = "zoo.db"

// Source reads the catalog from a SQLite database file.
type Source struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the SQLite file and ensures the schema exists.
func Open(ctx context.Context, path string) (*Source, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := sqlstore.ApplySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Source{db: db, path: path}, nil
}

// Name identifies the source in logs.
func (s *Source) Name() string { return "sqlite:" + s.path }

// Load reads the reference tables.
func (s *Source) Load(ctx context.Context) (*domain.Catalog, error) {
	c, err := sqlstore.Load(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("load sqlite catalog %s: %w", s.path, err)
	}
	return c, nil
}

// Seed replaces the reference tables with the catalog contents.
func (s *Source) Seed(ctx context.Context, c *domain.Catalog) error {
	return sqlstore.Seed(ctx, s.db, c, sqlstore.Question)
}

// Close releases the database handle.
func (s *Source) Close() error { return s.db.Close() }
