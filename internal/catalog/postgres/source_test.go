package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	_ "modernc.org/sqlite"

	"zoohousing/internal/catalog"
	"zoohousing/internal/catalog/codec"
	"zoohousing/internal/catalog/postgres"
	"zoohousing/internal/catalog/sqlstore"
)

func TestOpenUsesOverriddenSQLOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pg.db")

	var gotDriver, gotDSN string
	restore := postgres.OverrideSQLOpen(func(driverName, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driverName, dsn
		return sql.Open("sqlite", path)
	})
	t.Cleanup(restore)

	src, err := postgres.Open(ctx, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })

	if gotDriver != "pgx" {
		t.Fatalf("expected pgx driver, got %s", gotDriver)
	}
	if gotDSN == "" {
		t.Fatalf("expected default dsn to be supplied")
	}

	// The fake backend is SQLite, so seed it with SQLite placeholders.
	if err := sqlstore.Seed(ctx, src.DB(), catalog.Reference(), sqlstore.Question); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(codec.FromCatalog(got), codec.FromCatalog(catalog.Reference())) {
		t.Fatalf("loaded catalog differs from reference")
	}
	if src.Name() != "postgres" {
		t.Fatalf("unexpected name %s", src.Name())
	}
}

func TestOpenPropagatesOpenError(t *testing.T) {
	boom := errors.New("boom")
	restore := postgres.OverrideSQLOpen(func(string, string) (*sql.DB, error) { return nil, boom })
	t.Cleanup(restore)

	if _, err := postgres.Open(context.Background(), "postgres://example"); !errors.Is(err, boom) {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestDollarPlaceholders(t *testing.T) {
	if got := sqlstore.Dollar(3); got != "$3" {
		t.Fatalf("expected $3, got %s", got)
	}
	if got := sqlstore.Question(3); got != "?" {
		t.Fatalf("expected ?, got %s", got)
	}
}
