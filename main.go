package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skywatch/internal/alerts"
	"skywatch/internal/cache"
	"skywatch/internal/config"
	"skywatch/internal/dashboard"
	"skywatch/internal/fetchers"
	"skywatch/internal/logger"
	"skywatch/internal/sinks"
	"skywatch/internal/storage"
)

// Service bundles the detection pipeline's long-lived components
type Service struct {
	cfg      *config.Config
	cache    *cache.ResponseCache
	fetcher  *fetchers.DataFetcher
	ledger   *alerts.Ledger
	detector *alerts.Detector
	router   *sinks.Router
	archive  storage.ArchiveClient
}

// NewService creates the service and its archive backend if enabled
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	responseCache := cache.New(cache.TTLs{
		SpaceWeather: time.Duration(cfg.SpaceWeatherTTL) * time.Minute,
		Forecast:     time.Duration(cfg.ForecastTTL) * time.Minute,
		Spots:        time.Duration(cfg.SpotsTTL) * time.Minute,
		Satellites:   time.Duration(cfg.SatellitesTTL) * time.Minute,
	})

	svc := &Service{
		cfg:      cfg,
		cache:    responseCache,
		fetcher:  fetchers.NewDataFetcher(cfg, responseCache),
		ledger:   alerts.NewLedger(),
		detector: alerts.NewDetector(cfg),
		router:   sinks.NewRouter(),
	}

	if cfg.ArchiveEnabled {
		archive, err := storage.NewArchiveClient(ctx, cfg)
		if err != nil {
			// Archiving is an optional extra on top of the history sink
			logger.Error("Failed to initialize archive client, archiving disabled", err)
		} else {
			svc.archive = archive
		}
	}

	return svc, nil
}

// Close cleans up service resources
func (s *Service) Close() {
	if s.archive != nil {
		s.archive.Close() //nolint:errcheck
	}
}

// runDetectionLoop drives the periodic detection cycle: refresh telemetry
// through the cache, evaluate rules against the ledger, and hand each
// accepted alert to the router. The loop never waits on any sink.
func (s *Service) runDetectionLoop(ctx context.Context) {
	log := logger.GetGlobalLogger().WithComponent("detect")

	interval := time.Duration(s.cfg.DetectInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Infof("Detection cycle started (interval: %s)", interval)

	for {
		select {
		case <-ctx.Done():
			log.Info("Detection cycle stopped")
			return
		case <-ticker.C:
			snapshot := s.fetcher.Snapshot(ctx)
			accepted := s.detector.Detect(s.ledger, snapshot)

			for _, alert := range accepted {
				log.Infof("Alert: [%s] %s %s", alert.Severity, alert.Type, alert.Message)
				s.router.Distribute(alert)
			}
		}
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	if level := logger.ParseLogLevel(cfg.LogLevel); level != -1 {
		logger.GetGlobalLogger().SetLevel(level)
	}

	logger.Infof("Starting skywatch %s", config.GetVersion())
	logger.Infof("Environment: %s", cfg.Environment)

	svc, err := NewService(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to create service", err)
	}
	defer svc.Close()

	// Each sink drains its own queue and owns its own failure domain
	go sinks.RunHistory(ctx, svc.router.History(), cfg, svc.archive)
	go sinks.RunNotifications(ctx, svc.router.Notification(), cfg)
	go sinks.RunBroker(ctx, svc.router.Broker(), cfg)

	dash := dashboard.NewServer(cfg, svc.ledger, svc.cache)
	go dash.Run(ctx, svc.router.Live())

	go svc.runDetectionLoop(ctx)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logger.Infof("Received signal %s, shutting down", sig)
	cancel()

	// Give sinks a moment to finish in-flight work
	time.Sleep(500 * time.Millisecond)
}
