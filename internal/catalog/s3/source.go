// Package s3 loads a YAML catalog document from an S3-compatible bucket (AWS S3 or MinIO).
package s3

import (
	"context"
	"fmt"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"zoohousing/internal/catalog/codec"
	"zoohousing/pkg/domain"
)

const (
	defaultRegion = "us-east-1"
	defaultKey    = "catalog.yaml"
)

// Config holds explicit construction parameters.
type Config struct {
	Region          string
	Bucket          string
	Key             string
	Endpoint        string // optional; enables a custom endpoint (e.g. MinIO)
	AccessKeyID     string // optional (falls back to default credentials chain)
	SecretAccessKey string // optional
	SessionToken    string // optional
	PathStyle       bool
}

// GetObjectAPI is the subset of the S3 client used by Source.
type GetObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Source fetches and decodes the catalog object on every Load.
type Source struct {
	client GetObjectAPI
	bucket string
	key    string
}

// New creates an S3 catalog source from Config.
func New(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Key), nil
}

// NewWithClient builds a source around an existing client.
func NewWithClient(client GetObjectAPI, bucket, key string) *Source {
	if key == "" {
		key = defaultKey
	}
	return &Source{client: client, bucket: bucket, key: key}
}

// Name identifies the source in logs.
func (s *Source) Name() string { return "s3://" + s.bucket + "/" + s.key }

// Load downloads and decodes the catalog document.
func (s *Source) Load(ctx context.Context) (*domain.Catalog, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(s.key)})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.Name(), err)
	}
	defer func() { _ = out.Body.Close() }()
	c, err := codec.Decode(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), err)
	}
	return c, nil
}
