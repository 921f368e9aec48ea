// Package storage holds the file backends behind uploaded images.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/config"
)

// Store defines the file operations the asset manager relies on
type Store interface {
	// Save stores a file at the given path
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Delete removes a file at the given path; a missing file is not an error
	Delete(ctx context.Context, path string) error

	// URL returns the public URL of a stored path
	URL(path string) string
}

// Config holds storage configuration
type Config struct {
	Type     string // local, s3
	BasePath string // For local storage
	BaseURL  string // Public URL base
	Bucket   string // For S3
	Region   string // For S3
	Endpoint string // For S3-compatible services
}

// ConfigFromEnv reads the STORAGE_* and S3_* keys
func ConfigFromEnv(cfg map[string]string) Config {
	return Config{
		Type:     config.GetString(cfg, "STORAGE_TYPE", "local"),
		BasePath: config.GetString(cfg, "STORAGE_PATH", "./storage/app/public"),
		BaseURL:  config.GetString(cfg, "STORAGE_BASE_URL", ""),
		Bucket:   config.GetString(cfg, "S3_BUCKET", ""),
		Region:   config.GetString(cfg, "S3_REGION", "us-east-1"),
		Endpoint: config.GetString(cfg, "S3_ENDPOINT", ""),
	}
}

// New creates a store for the configured backend
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStore(cfg)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
