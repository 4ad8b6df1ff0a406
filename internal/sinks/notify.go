package sinks

import (
	"context"

	"github.com/gen2brain/beeep"

	"skywatch/internal/config"
	"skywatch/internal/logger"
	"skywatch/internal/models"
)

// NotificationSender emits one desktop notification per accepted alert,
// filtered by the configured minimum severity
type NotificationSender struct {
	minSeverity models.Severity
	log         *logger.Logger
}

// NewNotificationSender creates a sender from the notification configuration
func NewNotificationSender(cfg *config.Config) *NotificationSender {
	return &NotificationSender{
		minSeverity: models.ParseSeverity(cfg.NotificationMinSeverity),
		log:         logger.GetGlobalLogger().WithComponent("notify"),
	}
}

// Send emits a desktop notification for the alert. Alerts below the minimum
// severity are skipped silently.
func (n *NotificationSender) Send(alert models.Alert) error {
	if alert.Severity < n.minSeverity {
		return nil
	}

	summary := alertSummary(alert.Type)

	// Critical and Emergency alerts get the attention-demanding variant
	if alert.Severity >= models.SeverityCritical {
		return beeep.Alert(summary, alert.Message, "")
	}
	return beeep.Notify(summary, alert.Message, "")
}

// alertSummary maps an alert type to its human notification title
func alertSummary(alertType models.AlertType) string {
	switch alertType {
	case models.AlertSpot:
		return "DX Spot"
	case models.AlertSatellitePass:
		return "Satellite Pass"
	case models.AlertKpSpike:
		return "Geomagnetic Storm"
	case models.AlertXRayFlare:
		return "Solar Flare"
	case models.AlertAurora:
		return "Aurora Alert"
	case models.AlertCME:
		return "CME Detected"
	default:
		return "Alert"
	}
}

// RunNotifications consumes the notification queue for the process lifetime.
// Failures are logged and the alert is not retried.
func RunNotifications(ctx context.Context, alerts <-chan models.Alert, cfg *config.Config) {
	log := logger.GetGlobalLogger().WithComponent("notify")

	if !cfg.NotificationsEnabled {
		log.Info("Desktop notifications disabled")
		return
	}

	sender := NewNotificationSender(cfg)
	log.Info("Desktop notification sender started")

	for {
		select {
		case <-ctx.Done():
			return
		case alert, ok := <-alerts:
			if !ok {
				return
			}
			if err := sender.Send(alert); err != nil {
				log.Error("Failed to send desktop notification", err)
			} else {
				log.Debugf("Sent desktop notification for alert: %s", alert.ID)
			}
		}
	}
}
