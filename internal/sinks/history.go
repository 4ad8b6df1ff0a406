package sinks

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"skywatch/internal/config"
	"skywatch/internal/logger"
	"skywatch/internal/models"
	"skywatch/internal/storage"
)

// maintenanceInterval is how often the history store runs its retention and
// max-entry maintenance pass
const maintenanceInterval = time.Hour

// AlertRecord is one durable row of the history store, with timestamps as
// epoch seconds
type AlertRecord struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Severity     string `json:"severity"`
	Message      string `json:"message"`
	CreatedAt    int64  `json:"created_at"`
	ExpiresAt    int64  `json:"expires_at"`
	Acknowledged int    `json:"acknowledged"`
}

// HistoryStore persists every received alert to SQLite, keyed by alert id
type HistoryStore struct {
	db  *sql.DB
	cfg *config.Config
	log *logger.Logger
}

// NewHistoryStore opens (creating if needed) the alert database and its schema
func NewHistoryStore(cfg *config.Config) (*HistoryStore, error) {
	if dir := filepath.Dir(cfg.HistoryDBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", cfg.HistoryDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		alert_type TEXT NOT NULL,
		severity TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL,
		acknowledged INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_created_at ON alerts(created_at DESC);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &HistoryStore{
		db:  db,
		cfg: cfg,
		log: logger.GetGlobalLogger().WithComponent("history"),
	}, nil
}

// Close closes the underlying database
func (h *HistoryStore) Close() error {
	return h.db.Close()
}

// Insert stores one alert row
func (h *HistoryStore) Insert(alert models.Alert) error {
	acknowledged := 0
	if alert.Acknowledged {
		acknowledged = 1
	}

	_, err := h.db.Exec(
		`INSERT INTO alerts (id, alert_type, severity, message, created_at, expires_at, acknowledged)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		alert.ID, string(alert.Type), alert.Severity.String(), alert.Message,
		alert.CreatedAt.Unix(), alert.ExpiresAt.Unix(), acknowledged,
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert %s: %w", alert.ID, err)
	}
	return nil
}

// CleanupOld removes alerts older than the configured retention period
func (h *HistoryStore) CleanupOld() (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -h.cfg.HistoryRetentionDays)

	result, err := h.db.Exec(`DELETE FROM alerts WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old alerts: %w", err)
	}
	deleted, _ := result.RowsAffected()
	return deleted, nil
}

// EnforceMaxEntries deletes the oldest surplus rows once the table exceeds
// the configured maximum
func (h *HistoryStore) EnforceMaxEntries() error {
	count, err := h.Count()
	if err != nil {
		return err
	}

	if count <= h.cfg.HistoryMaxEntries {
		return nil
	}

	toDelete := count - h.cfg.HistoryMaxEntries
	_, err = h.db.Exec(
		`DELETE FROM alerts WHERE id IN (
			SELECT id FROM alerts ORDER BY created_at ASC LIMIT ?
		)`, toDelete)
	if err != nil {
		return fmt.Errorf("failed to enforce max entries: %w", err)
	}
	return nil
}

// Count returns the total number of stored alerts
func (h *HistoryStore) Count() (int, error) {
	var count int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM alerts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count alerts: %w", err)
	}
	return count, nil
}

// Get fetches a single alert row by id
func (h *HistoryStore) Get(id string) (*AlertRecord, error) {
	var rec AlertRecord
	err := h.db.QueryRow(
		`SELECT id, alert_type, severity, message, created_at, expires_at, acknowledged
		 FROM alerts WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Type, &rec.Severity, &rec.Message,
		&rec.CreatedAt, &rec.ExpiresAt, &rec.Acknowledged)
	if err != nil {
		return nil, fmt.Errorf("failed to get alert %s: %w", id, err)
	}
	return &rec, nil
}

// Recent returns up to limit rows ordered newest first
func (h *HistoryStore) Recent(limit int) ([]AlertRecord, error) {
	rows, err := h.db.Query(
		`SELECT id, alert_type, severity, message, created_at, expires_at, acknowledged
		 FROM alerts ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var records []AlertRecord
	for rows.Next() {
		var rec AlertRecord
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.Severity, &rec.Message,
			&rec.CreatedAt, &rec.ExpiresAt, &rec.Acknowledged); err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RunHistory consumes the history queue for the process lifetime, persisting
// each alert and running the hourly maintenance pass. A disabled sink returns
// immediately.
func RunHistory(ctx context.Context, alerts <-chan models.Alert, cfg *config.Config, archive storage.ArchiveClient) {
	log := logger.GetGlobalLogger().WithComponent("history")

	if !cfg.HistoryEnabled {
		log.Info("Alert history logging disabled")
		return
	}

	store, err := NewHistoryStore(cfg)
	if err != nil {
		log.Error("Failed to initialize alert history", err)
		return
	}
	defer store.Close()

	log.Info("Alert history logger started")

	maintenance := time.NewTicker(maintenanceInterval)
	defer maintenance.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case alert, ok := <-alerts:
			if !ok {
				return
			}
			if err := store.Insert(alert); err != nil {
				log.Error("Failed to log alert", err)
			} else {
				log.Debugf("Logged alert to history: %s", alert.ID)
			}

		case <-maintenance.C:
			if deleted, err := store.CleanupOld(); err != nil {
				log.Error("Failed to cleanup old alerts", err)
			} else if deleted > 0 {
				log.Infof("Removed %d alerts past retention", deleted)
			}

			if err := store.EnforceMaxEntries(); err != nil {
				log.Error("Failed to enforce max entries", err)
			}

			if count, err := store.Count(); err == nil {
				log.Infof("Alert history database: %d entries", count)
			}

			if cfg.ArchiveEnabled && archive != nil {
				if err := store.exportArchive(ctx, archive); err != nil {
					log.Error("Failed to export alert archive", err)
				}
			}
		}
	}
}

// exportArchive writes the current table as a JSON snapshot through the
// archive backend
func (h *HistoryStore) exportArchive(ctx context.Context, archive storage.ArchiveClient) error {
	records, err := h.Recent(h.cfg.HistoryMaxEntries)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal archive: %w", err)
	}

	now := time.Now().UTC()
	if err := archive.StoreFile(ctx, data, "alerts.json", now); err != nil {
		return err
	}

	h.log.Infof("Exported %d alerts to archive", len(records))
	return nil
}
