package sinks

import (
	"skywatch/internal/logger"
	"skywatch/internal/models"
)

// queueCapacity is the depth of each sink's hand-off queue
const queueCapacity = 64

// Router fans each accepted alert out to every sink queue. Enqueue is
// best-effort: a full queue drops the new alert instead of blocking the
// detection cycle or the other sinks. The broker sink keeps its own
// drop-oldest intake on top of this.
type Router struct {
	history      chan models.Alert
	notification chan models.Alert
	broker       chan models.Alert
	live         chan models.Alert

	log *logger.Logger
}

// NewRouter creates a router with one bounded queue per sink
func NewRouter() *Router {
	return &Router{
		history:      make(chan models.Alert, queueCapacity),
		notification: make(chan models.Alert, queueCapacity),
		broker:       make(chan models.Alert, queueCapacity),
		live:         make(chan models.Alert, queueCapacity),
		log:          logger.GetGlobalLogger().WithComponent("router"),
	}
}

// Distribute pushes a copy of the alert onto each sink queue without blocking
func (r *Router) Distribute(alert models.Alert) {
	r.trySend(r.history, alert, "history")
	r.trySend(r.notification, alert, "notification")
	r.trySend(r.broker, alert, "broker")
	r.trySend(r.live, alert, "live")
}

func (r *Router) trySend(ch chan models.Alert, alert models.Alert, sink string) {
	select {
	case ch <- alert:
	default:
		r.log.Warnf("Dropped alert %s: %s queue full", alert.ID, sink)
	}
}

// History returns the history sink's receive queue
func (r *Router) History() <-chan models.Alert { return r.history }

// Notification returns the notification sink's receive queue
func (r *Router) Notification() <-chan models.Alert { return r.notification }

// Broker returns the broker sink's receive queue
func (r *Router) Broker() <-chan models.Alert { return r.broker }

// Live returns the live broadcaster's receive queue
func (r *Router) Live() <-chan models.Alert { return r.live }
