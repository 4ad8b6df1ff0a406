package sinks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skywatch/internal/logger"
	"skywatch/internal/models"
)

func TestBrokerIntakeDropsOldestOnOverflow(t *testing.T) {
	source := make(chan models.Alert, 6)
	ids := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		alert := models.NewAlert(models.AlertSpot, models.SeverityNotice, "overflow", time.Minute)
		alert.ID = fmt.Sprintf("alert-%d", i)
		ids = append(ids, alert.ID)
		source <- alert
	}
	close(source)

	// Nothing drains pending, so intake must evict from the front
	pending := make(chan models.Alert, 3)
	runBrokerIntake(context.Background(), source, pending, logger.GetGlobalLogger().WithComponent("broker"))

	kept := make([]string, 0, 3)
	for alert := range pending {
		kept = append(kept, alert.ID)
	}
	require.Equal(t, ids[3:], kept, "the oldest unsent alerts are dropped, newest kept in order")
}

func TestBrokerIntakePassesThroughWithoutOverflow(t *testing.T) {
	source := make(chan models.Alert, 2)
	first := models.NewAlert(models.AlertAurora, models.SeverityWarning, "a", time.Minute)
	second := models.NewAlert(models.AlertKpSpike, models.SeverityCritical, "b", time.Minute)
	source <- first
	source <- second
	close(source)

	pending := make(chan models.Alert, brokerQueueCapacity)
	runBrokerIntake(context.Background(), source, pending, logger.GetGlobalLogger().WithComponent("broker"))

	got := <-pending
	assert.Equal(t, first.ID, got.ID)
	got = <-pending
	assert.Equal(t, second.ID, got.ID)

	// pending is closed once the source closes
	_, open := <-pending
	assert.False(t, open)
}

func TestBrokerIntakeStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := make(chan models.Alert)
	pending := make(chan models.Alert, 1)

	done := make(chan struct{})
	go func() {
		runBrokerIntake(ctx, source, pending, logger.GetGlobalLogger().WithComponent("broker"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("intake should exit on context cancellation")
	}
	_, open := <-pending
	assert.False(t, open)
}
