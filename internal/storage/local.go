package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// LocalArchiveClient stores alert archives on the local filesystem
type LocalArchiveClient struct {
	baseDir string
}

// NewLocalArchiveClient creates a local archive client rooted at baseDir
func NewLocalArchiveClient(baseDir string) (*LocalArchiveClient, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory %s: %w", baseDir, err)
	}

	return &LocalArchiveClient{
		baseDir: baseDir,
	}, nil
}

// Close is a no-op for local storage
func (l *LocalArchiveClient) Close() error {
	return nil
}

// StoreFile writes the file into the dated archive folder for timestamp
func (l *LocalArchiveClient) StoreFile(ctx context.Context, fileData []byte, filename string, timestamp time.Time) error {
	filePath := filepath.Join(l.baseDir, ArchiveFolderPath(timestamp), filename)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(filePath), err)
	}

	if err := os.WriteFile(filePath, fileData, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}

	return nil
}

// GetFile retrieves a stored file by its path relative to the archive root
func (l *LocalArchiveClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.baseDir, filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// ListArchives lists stored archive files sorted newest first
func (l *LocalArchiveClient) ListArchives(ctx context.Context, limit int) ([]string, error) {
	var paths []string

	err := filepath.Walk(l.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries and continue
		}
		if !info.IsDir() && filepath.Ext(info.Name()) == ".json" {
			relPath, _ := filepath.Rel(l.baseDir, path)
			paths = append(paths, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk archive directory: %w", err)
	}

	// Dated folder names sort chronologically; reverse for newest first
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	if limit > 0 && limit < len(paths) {
		paths = paths[:limit]
	}

	return paths, nil
}
