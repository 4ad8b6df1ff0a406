package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"skywatch/internal/alerts"
	"skywatch/internal/cache"
	"skywatch/internal/config"
	"skywatch/internal/logger"
	"skywatch/internal/models"
)

// Server hosts the live alert dashboard: a WebSocket push stream for
// connected viewers plus a small JSON API exposing the ledger's active
// alerts and the acknowledgment interface.
type Server struct {
	cfg    *config.Config
	hub    *Hub
	ledger *alerts.Ledger
	cache  *cache.ResponseCache
	log    *logger.Logger
}

// NewServer creates a dashboard server bound to the ledger and cache
func NewServer(cfg *config.Config, ledger *alerts.Ledger, responseCache *cache.ResponseCache) *Server {
	return &Server{
		cfg:    cfg,
		hub:    NewHub(),
		ledger: ledger,
		cache:  responseCache,
		log:    logger.GetGlobalLogger().WithComponent("dashboard"),
	}
}

// Run starts the dashboard HTTP server and the hub's broadcast loop, and
// blocks until ctx is cancelled. A disabled dashboard returns immediately.
func (s *Server) Run(ctx context.Context, alertQueue <-chan models.Alert) {
	if !s.cfg.DashboardEnabled {
		s.log.Info("Web dashboard disabled")
		return
	}

	go s.hub.Run(ctx, alertQueue)

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/ws", s.hub)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/alerts", s.handleAlerts)
	mux.HandleFunc("/api/alerts/ack", s.handleAckLatest)
	mux.HandleFunc("/api/alerts/ack-all", s.handleAckAll)
	mux.HandleFunc("/api/cache", s.handleCacheStats)

	httpServer := &http.Server{
		Addr:         s.cfg.DashboardAddr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	s.log.Infof("Web dashboard started on %s", s.cfg.DashboardAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.log.Error("Web dashboard server error", err)
	}
}

// handleIndex serves the dashboard page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML)) //nolint:errcheck
}

// handleHealth reports liveness plus connected viewer count
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": config.GetVersion(),
		"viewers": s.hub.ClientCount(),
	})
}

// handleAlerts lists the currently active alerts
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.ledger.Active())
}

// handleAckLatest acknowledges the most recent active alert
func (s *Server) handleAckLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.ledger.AcknowledgeLatest()
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// handleAckAll acknowledges every active alert
func (s *Server) handleAckAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.ledger.AcknowledgeAll()
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// handleCacheStats reports which telemetry kinds are currently cached
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.cache.GetStats())
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("Failed to encode response", err)
	}
}
