package storage

import (
	"fmt"

	"github.com/jeweai/media_vault/pkg/config"
	"github.com/jeweai/media_vault/pkg/storage/local"
	"github.com/jeweai/media_vault/pkg/storage/s3"
)

// New creates a storage backend from configuration.
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Backend {
	case "", "local":
		return local.New(cfg.Local.BasePath, cfg.PublicBaseURL)

	case "s3":
		return s3.New(s3.Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PathStyle: cfg.S3.PathStyle,
		})

	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
