package sqlite_test

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"zoohousing/internal/catalog"
	"zoohousing/internal/catalog/codec"
	"zoohousing/internal/catalog/sqlite"
	"zoohousing/pkg/domain"
)

func TestSeedThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "zoo.db")
	src, err := sqlite.Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })

	if err := src.Seed(ctx, catalog.Reference()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(codec.FromCatalog(got), codec.FromCatalog(catalog.Reference())) {
		t.Fatalf("loaded catalog differs from seeded one")
	}
	if !strings.HasSuffix(src.Name(), "zoo.db") {
		t.Fatalf("unexpected name %s", src.Name())
	}
}

func TestSeedReplacesPreviousContents(t *testing.T) {
	ctx := context.Background()
	src, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "zoo.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })

	if err := src.Seed(ctx, catalog.Reference()); err != nil {
		t.Fatalf("seed reference: %v", err)
	}
	small, err := domain.NewCatalog(
		[]domain.Species{{Name: "GAZELA", UnitSize: 2, Biomes: domain.NewBiomeSet(domain.BiomeSavanna)}},
		[]domain.Enclosure{domain.NewEnclosure(9, "savana", 4, map[string]int{"GAZELA": 2})},
	)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if err := src.Seed(ctx, small); err != nil {
		t.Fatalf("seed small: %v", err)
	}
	got, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.ListSpecies()) != 1 || len(got.ListEnclosures()) != 1 {
		t.Fatalf("expected previous rows to be replaced, got %+v", codec.FromCatalog(got))
	}
	e, ok := got.FindEnclosure(9)
	if !ok || e.Occupants["GAZELA"] != 2 {
		t.Fatalf("unexpected enclosure %+v", e)
	}
}

func TestLoadEmptyDatabase(t *testing.T) {
	ctx := context.Background()
	src, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "zoo.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })

	got, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.ListSpecies()) != 0 || len(got.ListEnclosures()) != 0 {
		t.Fatalf("expected empty catalog")
	}
}
