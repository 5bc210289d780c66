// Package config loads zoohousing process configuration from an optional YAML
// file with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Catalog drivers accepted by CatalogConfig.Driver.
const (
	DriverBuiltin  = "builtin"
	DriverFile     = "file"
	DriverS3       = "s3"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for zoohousing.
// Environment variables always override YAML values.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Cache   CacheConfig   `yaml:"cache"`
}

// CatalogConfig selects where the species and enclosure tables come from.
type CatalogConfig struct {
	Driver      string   `yaml:"driver" env:"ZOO_CATALOG_DRIVER" env-default:"builtin"`
	Path        string   `yaml:"path" env:"ZOO_CATALOG_PATH" env-default:"catalog.yaml"`
	SQLitePath  string   `yaml:"sqlite_path" env:"ZOO_SQLITE_PATH" env-default:"zoo.db"`
	PostgresDSN string   `yaml:"-" env:"ZOO_POSTGRES_DSN"` // Secret - not in YAML
	S3          S3Config `yaml:"s3"`
}

// S3Config locates a catalog document in an S3-compatible bucket.
type S3Config struct {
	Bucket          string `yaml:"bucket" env:"ZOO_S3_BUCKET"`
	Key             string `yaml:"key" env:"ZOO_S3_KEY" env-default:"catalog.yaml"`
	Region          string `yaml:"region" env:"ZOO_S3_REGION" env-default:"us-east-1"`
	Endpoint        string `yaml:"endpoint" env:"ZOO_S3_ENDPOINT"`
	PathStyle       bool   `yaml:"path_style" env:"ZOO_S3_PATH_STYLE" env-default:"false"`
	AccessKeyID     string `yaml:"-" env:"ZOO_S3_ACCESS_KEY_ID"`     // Secret - not in YAML
	SecretAccessKey string `yaml:"-" env:"ZOO_S3_SECRET_ACCESS_KEY"` // Secret - not in YAML
	SessionToken    string `yaml:"-" env:"ZOO_S3_SESSION_TOKEN"`     // Secret - not in YAML
}

// HTTPConfig configures the HTTP API.
type HTTPConfig struct {
	Addr string `yaml:"addr" env:"ZOO_HTTP_ADDR" env-default:"127.0.0.1:8080"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" env:"ZOO_LOG_LEVEL" env-default:"info"`
	Development bool   `yaml:"development" env:"ZOO_LOG_DEVELOPMENT" env-default:"false"`
}

// CacheConfig configures placement result memoisation.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" env:"ZOO_CACHE_ENABLED" env-default:"true"`
	TTL     time.Duration `yaml:"ttl" env:"ZOO_CACHE_TTL" env-default:"5m"`
}

// Load reads path when it exists, otherwise only the environment, then validates.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			return validated(cfg)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return validated(cfg)
}

func validated(cfg *Config) (*Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks driver specific requirements.
func (c *Config) Validate() error {
	switch c.Catalog.Driver {
	case DriverBuiltin, DriverSQLite:
	case DriverFile:
		if c.Catalog.Path == "" {
			return errors.New("catalog path required for file driver")
		}
	case DriverS3:
		if c.Catalog.S3.Bucket == "" {
			return errors.New("ZOO_S3_BUCKET required for s3 driver")
		}
	case DriverPostgres:
		if c.Catalog.PostgresDSN == "" {
			return errors.New("ZOO_POSTGRES_DSN required for postgres driver")
		}
	default:
		return fmt.Errorf("unknown catalog driver %s", c.Catalog.Driver)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return errors.New("cache ttl must be positive when cache is enabled")
	}
	return nil
}
