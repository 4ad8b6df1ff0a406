package storage

import (
	"fmt"
	"strings"
	"time"
)

// ArchiveFolderPath generates a consistent dated folder path for archive
// snapshots. Format: YYYY/MM/DD/AlertArchive-YYYY-MM-DD-HH-MM-SS
func ArchiveFolderPath(timestamp time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d/AlertArchive-%04d-%02d-%02d-%02d-%02d-%02d",
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
}

// ContentType determines the MIME content type based on file extension
func ContentType(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".json"):
		return "application/json"
	case strings.HasSuffix(filename, ".txt"):
		return "text/plain"
	case strings.HasSuffix(filename, ".html"):
		return "text/html"
	default:
		return "application/octet-stream"
	}
}
