package storage

import (
	"context"
	"fmt"

	"skywatch/internal/config"
)

// Backend selects where alert archives are stored
type Backend string

const (
	BackendLocal Backend = "local"
	BackendGCS   Backend = "gcs"
)

// NewArchiveClient creates an archive client for the configured backend
func NewArchiveClient(ctx context.Context, cfg *config.Config) (ArchiveClient, error) {
	switch Backend(cfg.ArchiveBackend) {
	case BackendLocal:
		dir := cfg.ArchiveDir
		if dir == "" {
			dir = "archive"
		}

		localClient, err := NewLocalArchiveClient(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local archive client: %w", err)
		}
		return localClient, nil

	case BackendGCS:
		gcsClient, err := NewGCSArchiveClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS archive client: %w", err)
		}
		return gcsClient, nil

	default:
		return nil, fmt.Errorf("unsupported archive backend: %s", cfg.ArchiveBackend)
	}
}
