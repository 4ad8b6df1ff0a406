package storage

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestArchiveFolderPath(t *testing.T) {
	ts := time.Date(2026, 3, 7, 14, 5, 9, 0, time.UTC)

	got := ArchiveFolderPath(ts)
	want := "2026/03/07/AlertArchive-2026-03-07-14-05-09"
	if got != want {
		t.Errorf("ArchiveFolderPath() = %q, want %q", got, want)
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"alerts.json", "application/json"},
		{"notes.txt", "text/plain"},
		{"index.html", "text/html"},
		{"data.bin", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := ContentType(tt.filename); got != tt.expected {
			t.Errorf("ContentType(%q) = %q, want %q", tt.filename, got, tt.expected)
		}
	}
}

func TestLocalArchiveRoundTrip(t *testing.T) {
	client, err := NewLocalArchiveClient(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalArchiveClient() error: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	ts := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	payload := []byte(`[{"id":"aurora-1"}]`)

	if err := client.StoreFile(ctx, payload, "alerts.json", ts); err != nil {
		t.Fatalf("StoreFile() error: %v", err)
	}

	path := ArchiveFolderPath(ts) + "/alerts.json"
	data, err := client.GetFile(ctx, path)
	if err != nil {
		t.Fatalf("GetFile() error: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("GetFile() = %s, want %s", data, payload)
	}
}

func TestLocalArchiveListNewestFirst(t *testing.T) {
	client, err := NewLocalArchiveClient(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalArchiveClient() error: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	if err := client.StoreFile(ctx, []byte("[]"), "alerts.json", older); err != nil {
		t.Fatalf("StoreFile() error: %v", err)
	}
	if err := client.StoreFile(ctx, []byte("[]"), "alerts.json", newer); err != nil {
		t.Fatalf("StoreFile() error: %v", err)
	}

	archives, err := client.ListArchives(ctx, 10)
	if err != nil {
		t.Fatalf("ListArchives() error: %v", err)
	}
	if len(archives) != 2 {
		t.Fatalf("ListArchives() returned %d entries, want 2", len(archives))
	}
	if !strings.HasPrefix(archives[0], "2026/02/01/") {
		t.Errorf("first entry = %q, want the newer archive first", archives[0])
	}

	limited, err := client.ListArchives(ctx, 1)
	if err != nil {
		t.Fatalf("ListArchives() error: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("ListArchives(1) returned %d entries, want 1", len(limited))
	}
}
