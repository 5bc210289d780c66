// Package catalog selects and loads the zoo reference tables.
package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"zoohousing/internal/catalog/codec"
	"zoohousing/internal/catalog/postgres"
	"zoohousing/internal/catalog/s3"
	"zoohousing/internal/catalog/sqlite"
	"zoohousing/internal/config"
	"zoohousing/pkg/domain"
)

// Source yields an immutable catalog snapshot.
type Source interface {
	Name() string
	Load(ctx context.Context) (*domain.Catalog, error)
}

// Builtin serves the reference tables compiled into the binary.
type Builtin struct{}

// Name identifies the source in logs.
func (Builtin) Name() string { return config.DriverBuiltin }

// Load returns the built-in reference catalog.
func (Builtin) Load(context.Context) (*domain.Catalog, error) { return Reference(), nil }

// File reads a YAML catalog document from disk.
type File struct {
	Path string
}

// Name identifies the source in logs.
func (f File) Name() string { return "file:" + f.Path }

// Load decodes the YAML document at Path.
func (f File) Load(context.Context) (*domain.Catalog, error) {
	fh, err := os.Open(filepath.Clean(f.Path))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = fh.Close() }()
	c, err := codec.Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return c, nil
}

// Open builds the source selected by cfg.Driver. On error the returned Source is nil.
func Open(ctx context.Context, cfg config.CatalogConfig) (Source, error) {
	switch cfg.Driver {
	case "", config.DriverBuiltin:
		return Builtin{}, nil
	case config.DriverFile:
		return File{Path: cfg.Path}, nil
	case config.DriverS3:
		src, err := s3.New(ctx, s3.Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Key:             cfg.S3.Key,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			SessionToken:    cfg.S3.SessionToken,
			PathStyle:       cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.DriverSQLite:
		src, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.DriverPostgres:
		src, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown catalog driver %s", cfg.Driver)
	}
}

// Load opens the configured source and reads one snapshot from it.
func Load(ctx context.Context, cfg config.CatalogConfig) (*domain.Catalog, Source, error) {
	src, err := Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	c, err := src.Load(ctx)
	if err != nil {
		return nil, src, err
	}
	return c, src, nil
}
