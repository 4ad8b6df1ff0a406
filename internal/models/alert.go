package models

import (
	"fmt"
	"time"
)

// AlertType identifies which rule produced an alert
type AlertType string

const (
	AlertSpot          AlertType = "spot"
	AlertSatellitePass AlertType = "satellite-pass"
	AlertKpSpike       AlertType = "kp-spike"
	AlertXRayFlare     AlertType = "xray-flare"
	AlertAurora        AlertType = "aurora"
	AlertCME           AlertType = "cme"
)

// Severity is a totally ordered alert severity. The integer backing makes
// threshold comparisons stable across serialization boundaries.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityNotice
	SeverityWarning
	SeverityCritical
	SeverityEmergency
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityNotice:
		return "Notice"
	case SeverityWarning:
		return "Warning"
	case SeverityCritical:
		return "Critical"
	case SeverityEmergency:
		return "Emergency"
	default:
		return "Unknown"
	}
}

// ParseSeverity converts a severity name back to its ordered value.
// Unknown names parse as Info.
func ParseSeverity(s string) Severity {
	switch s {
	case "Notice":
		return SeverityNotice
	case "Warning":
		return SeverityWarning
	case "Critical":
		return SeverityCritical
	case "Emergency":
		return SeverityEmergency
	default:
		return SeverityInfo
	}
}

// Alert is a discrete, time-bounded notification produced by a rule match
type Alert struct {
	ID           string    `json:"id"`
	Type         AlertType `json:"type"`
	Severity     Severity  `json:"severity"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	Acknowledged bool      `json:"acknowledged"`
}

// NewAlert creates an alert with a generated id. The id combines the alert
// type with the creation instant, which is unique enough for dedup and
// storage keys.
func NewAlert(alertType AlertType, severity Severity, message string, duration time.Duration) Alert {
	now := time.Now().UTC()
	return Alert{
		ID:        fmt.Sprintf("%s-%d", alertType, now.UnixNano()),
		Type:      alertType,
		Severity:  severity,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
	}
}

// Expired reports whether the alert's display window has passed
func (a Alert) Expired(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}

// Active reports whether the alert is still live: not expired and not
// acknowledged
func (a Alert) Active(now time.Time) bool {
	return !a.Acknowledged && !a.Expired(now)
}
