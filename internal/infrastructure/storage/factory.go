package storage

import (
	"context"
	"time"

	"github.com/supplychain/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ObjectStore is implemented by every storage backend
type ObjectStore interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

var (
	_ ObjectStore = (*S3ObjectStorage)(nil)
	_ ObjectStore = (*LocalObjectStorage)(nil)
)

// New returns the S3 store when storage is enabled and the local filesystem
// store otherwise. The S3 bucket is created when missing.
func New(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (ObjectStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Info("Object storage disabled, using local filesystem", zap.String("path", cfg.LocalPath))
		return NewLocalObjectStorage(cfg.LocalPath, cfg.PublicBaseURL)
	}

	s3Store, err := NewS3ObjectStorage(cfg, WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := s3Store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	logger.Info("Using S3 object storage", zap.String("bucket", s3Store.Bucket()))
	return s3Store, nil
}
