package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"skywatch/internal/logger"
)

// GCSArchiveClient stores alert archives in a Google Cloud Storage bucket
type GCSArchiveClient struct {
	client *storage.Client
	bucket string
	log    *logger.Logger
}

// NewGCSArchiveClient creates a new GCS-backed archive client
func NewGCSArchiveClient(ctx context.Context, bucketName string) (*GCSArchiveClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSArchiveClient{
		client: client,
		bucket: bucketName,
		log:    logger.GetGlobalLogger().WithComponent("gcs"),
	}, nil
}

// Close closes the GCS client
func (g *GCSArchiveClient) Close() error {
	return g.client.Close()
}

// StoreFile uploads the file into the dated archive folder for timestamp
func (g *GCSArchiveClient) StoreFile(ctx context.Context, fileData []byte, filename string, timestamp time.Time) error {
	objectPath := ArchiveFolderPath(timestamp) + "/" + filename

	g.log.Debugf("Storing archive to GCS: gs://%s/%s", g.bucket, objectPath)

	obj := g.client.Bucket(g.bucket).Object(objectPath)
	writer := obj.NewWriter(ctx)
	writer.ContentType = ContentType(filename)
	writer.Metadata = map[string]string{
		"archived-at": timestamp.Format(time.RFC3339),
		"filename":    filename,
	}

	if _, err := writer.Write(fileData); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write archive to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS archive upload: %w", err)
	}

	return nil
}

// GetFile retrieves a stored archive object
func (g *GCSArchiveClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	obj := g.client.Bucket(g.bucket).Object(filePath)

	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for %s: %w", filePath, err)
	}
	defer reader.Close()

	fileData, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	return fileData, nil
}

// ListArchives lists stored archive objects sorted newest first
func (g *GCSArchiveClient) ListArchives(ctx context.Context, limit int) ([]string, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{})

	var paths []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		if strings.HasSuffix(attrs.Name, ".json") {
			paths = append(paths, attrs.Name)
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	if limit > 0 && limit < len(paths) {
		paths = paths[:limit]
	}

	return paths, nil
}
