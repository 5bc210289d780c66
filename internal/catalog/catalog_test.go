package catalog

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"zoohousing/internal/catalog/codec"
	"zoohousing/internal/catalog/postgres"
	"zoohousing/internal/catalog/s3"
	"zoohousing/internal/catalog/sqlite"
	"zoohousing/internal/config"
)

func TestReferenceTables(t *testing.T) {
	c := Reference()
	if got := len(c.ListSpecies()); got != 6 {
		t.Fatalf("expected 6 species, got %d", got)
	}
	enclosures := c.ListEnclosures()
	if len(enclosures) != 5 {
		t.Fatalf("expected 5 enclosures, got %d", len(enclosures))
	}
	wantCaps := []int{10, 5, 7, 8, 9}
	for i, e := range enclosures {
		if e.ID != i+1 || e.TotalCapacity != wantCaps[i] {
			t.Fatalf("unexpected enclosure %+v", e)
		}
	}
	hippo, _ := c.FindSpecies("HIPOPOTAMO")
	if hippo.UnitSize != 4 || hippo.Carnivore {
		t.Fatalf("unexpected hippo %+v", hippo)
	}
}

func TestOpenBuiltinByDefault(t *testing.T) {
	for _, driver := range []string{"", config.DriverBuiltin} {
		src, err := Open(context.Background(), config.CatalogConfig{Driver: driver})
		if err != nil {
			t.Fatalf("open %q: %v", driver, err)
		}
		if _, ok := src.(Builtin); !ok {
			t.Fatalf("expected builtin source for %q, got %T", driver, src)
		}
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.CatalogConfig{Driver: "mongo"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestOpenS3RequiresBucket(t *testing.T) {
	src, err := Open(context.Background(), config.CatalogConfig{Driver: config.DriverS3})
	if err == nil {
		t.Fatalf("expected error without bucket")
	}
	if src != nil {
		t.Fatalf("expected nil source on error, got %#v", src)
	}
}

func TestOpenPostgresFailureReturnsNilSource(t *testing.T) {
	boom := errors.New("boom")
	restore := postgres.OverrideSQLOpen(func(string, string) (*sql.DB, error) { return nil, boom })
	t.Cleanup(restore)

	src, err := Open(context.Background(), config.CatalogConfig{Driver: config.DriverPostgres, PostgresDSN: "postgres://example"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected open error, got %v", err)
	}
	if src != nil {
		t.Fatalf("expected nil source on error, got %#v", src)
	}
}

func TestOpenS3BuildsSource(t *testing.T) {
	src, err := Open(context.Background(), config.CatalogConfig{
		Driver: config.DriverS3,
		S3: config.S3Config{
			Region:          "eu-west-1",
			Bucket:          "zoo",
			Endpoint:        "http://127.0.0.1:9000",
			AccessKeyID:     "minio",
			SecretAccessKey: "minio123",
			PathStyle:       true,
		},
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := src.(*s3.Source); !ok {
		t.Fatalf("expected s3 source, got %T", src)
	}
	if src.Name() != "s3://zoo/catalog.yaml" {
		t.Fatalf("unexpected name %s", src.Name())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := codec.Encode(fh, Reference()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := fh.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	c, src, err := Load(context.Background(), config.CatalogConfig{Driver: config.DriverFile, Path: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.HasPrefix(src.Name(), "file:") {
		t.Fatalf("unexpected source name %s", src.Name())
	}
	if !reflect.DeepEqual(codec.FromCatalog(c), codec.FromCatalog(Reference())) {
		t.Fatalf("file catalog differs from reference")
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	_, src, err := Load(context.Background(), config.CatalogConfig{Driver: config.DriverFile, Path: filepath.Join(t.TempDir(), "missing.yaml")})
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if src == nil {
		t.Fatalf("expected source to be returned alongside load error")
	}
}

func TestLoadFromSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "zoo.db")
	seed, err := sqlite.Open(ctx, path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := seed.Seed(ctx, Reference()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := seed.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	c, src, err := Load(ctx, config.CatalogConfig{Driver: config.DriverSQLite, SQLitePath: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Cleanup(func() { _ = src.(*sqlite.Source).Close() })
	if !reflect.DeepEqual(codec.FromCatalog(c), codec.FromCatalog(Reference())) {
		t.Fatalf("sqlite catalog differs from reference")
	}
}
