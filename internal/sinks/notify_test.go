package sinks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"skywatch/internal/config"
	"skywatch/internal/models"
)

func TestSendSkipsBelowMinSeverity(t *testing.T) {
	sender := NewNotificationSender(&config.Config{NotificationMinSeverity: "Warning"})

	// Below the threshold: skipped without touching the desktop layer
	alert := models.NewAlert(models.AlertSpot, models.SeverityNotice, "NEW DX", time.Minute)
	assert.NoError(t, sender.Send(alert))
}

func TestAlertSummary(t *testing.T) {
	tests := []struct {
		alertType models.AlertType
		expected  string
	}{
		{models.AlertSpot, "DX Spot"},
		{models.AlertSatellitePass, "Satellite Pass"},
		{models.AlertKpSpike, "Geomagnetic Storm"},
		{models.AlertXRayFlare, "Solar Flare"},
		{models.AlertAurora, "Aurora Alert"},
		{models.AlertCME, "CME Detected"},
		{models.AlertType("unknown"), "Alert"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, alertSummary(tt.alertType), "%s", tt.alertType)
	}
}

func TestRunNotificationsDisabled(t *testing.T) {
	ch := make(chan models.Alert)

	done := make(chan struct{})
	go func() {
		RunNotifications(context.Background(), ch, &config.Config{NotificationsEnabled: false})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunNotifications should return immediately when disabled")
	}
}

func TestRunBrokerDisabled(t *testing.T) {
	ch := make(chan models.Alert)

	done := make(chan struct{})
	go func() {
		RunBroker(context.Background(), ch, &config.Config{MQTTEnabled: false})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunBroker should return immediately when disabled")
	}
}
