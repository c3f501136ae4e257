package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/imagineread/lite-backend/internal/modules/storage/domain"
	"github.com/imagineread/lite-backend/internal/modules/storage/infrastructure/local"
	"github.com/imagineread/lite-backend/internal/modules/storage/infrastructure/s3"
	"github.com/imagineread/lite-backend/internal/shared/infrastructure/config"
)

// Module represents the Storage module
type Module struct {
	backend domain.Backend
}

// NewModule creates and initializes the Storage module. The backend variant
// is chosen once from configuration; construction failures (bad credentials,
// missing bucket) are fatal to service startup.
func NewModule(ctx context.Context, cfg config.StorageConfig, freeExpiry time.Duration, logger *slog.Logger) (*Module, error) {
	var backend domain.Backend
	var err error

	switch cfg.Driver {
	case config.StorageDriverS3:
		backend, err = s3.NewS3Storage(ctx, s3.S3Config{
			BucketName: cfg.Bucket,
			Region:     cfg.Region,
			Endpoint:   cfg.Endpoint,
			AccessKey:  cfg.AccessKey,
			SecretKey:  cfg.SecretKey,
			FreeExpiry: freeExpiry,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
	case config.StorageDriverLocal:
		backend, err = local.NewLocalStorage(cfg.LocalPath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	return &Module{backend: backend}, nil
}

// Backend returns the storage backend for use by other modules
func (m *Module) Backend() domain.Backend {
	return m.backend
}
