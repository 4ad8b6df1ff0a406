package main

import (
	"context"
	"testing"
	"time"

	"skywatch/internal/config"
)

func TestNewService(t *testing.T) {
	cfg := &config.Config{
		DetectInterval:  60,
		SpaceWeatherTTL: 30,
		ForecastTTL:     120,
		SpotsTTL:        10,
		SatellitesTTL:   15,
		Environment:     "test",
	}

	svc, err := NewService(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	defer svc.Close()

	if svc.fetcher == nil || svc.ledger == nil || svc.detector == nil || svc.router == nil {
		t.Error("Expected all pipeline components to be constructed")
	}
	if svc.archive != nil {
		t.Error("Expected no archive client when archiving is disabled")
	}
}

func TestNewServiceWithLocalArchive(t *testing.T) {
	cfg := &config.Config{
		DetectInterval:  60,
		SpaceWeatherTTL: 30,
		ForecastTTL:     120,
		SpotsTTL:        10,
		SatellitesTTL:   15,
		ArchiveEnabled:  true,
		ArchiveBackend:  "local",
		ArchiveDir:      t.TempDir(),
	}

	svc, err := NewService(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	defer svc.Close()

	if svc.archive == nil {
		t.Error("Expected a local archive client to be created")
	}
}

func TestConfigLoad(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		t.Fatalf("config.Load() error: %v", err)
	}
	if cfg.DetectInterval <= 0 {
		t.Errorf("DetectInterval = %d, want positive", cfg.DetectInterval)
	}
}
