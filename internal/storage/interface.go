package storage

import (
	"context"
	"time"
)

// ArchiveClient is the backend the history sink exports alert archives
// through. Implementations exist for the local filesystem and GCS.
type ArchiveClient interface {
	// Close closes the archive client
	Close() error

	// StoreFile stores a snapshot file in the dated archive folder for
	// the given timestamp
	StoreFile(ctx context.Context, fileData []byte, filename string, timestamp time.Time) error

	// GetFile retrieves a previously stored file
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListArchives lists stored archive files, newest first
	ListArchives(ctx context.Context, limit int) ([]string, error)
}
