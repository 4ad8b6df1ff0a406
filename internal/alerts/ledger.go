package alerts

import (
	"sync"
	"time"

	"skywatch/internal/logger"
	"skywatch/internal/models"
)

// dedupWindow is the minimum time between two accepted alerts of the same
// type. A same-type candidate arriving inside the window is silently dropped
// (storm suppression).
const dedupWindow = 5 * time.Minute

// callsignHistoryLimit bounds the recent-callsign history. When the limit is
// exceeded the oldest half is dropped in one batch rather than per entry.
const callsignHistoryLimit = 100

// Ledger tracks the currently active alerts plus the per-rule state the
// detector needs for edge-triggered evaluation. The detection cycle is the
// only writer of rule state; acknowledgment calls can arrive from other
// goroutines, so all access goes through the mutex.
type Ledger struct {
	mu sync.Mutex

	alerts          []models.Alert
	lastKp          float64
	hasKpBaseline   bool
	lastXRayClass   string
	lastFlux        float64
	lastAp          float64
	hasBaseline     bool
	recentCallsigns []string
	lastElevations  map[string]float64

	log *logger.Logger
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		lastElevations: make(map[string]float64),
		log:            logger.GetGlobalLogger().WithComponent("ledger"),
	}
}

// CleanupExpired removes every alert that has expired or been acknowledged.
// Called at the start of each detection cycle.
func (l *Ledger) CleanupExpired() {
	now := time.Now().UTC()

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.alerts[:0]
	for _, a := range l.alerts {
		if a.Active(now) {
			kept = append(kept, a)
		}
	}
	if removed := len(l.alerts) - len(kept); removed > 0 {
		l.log.Debugf("Removed %d expired/acknowledged alerts", removed)
	}
	l.alerts = kept
}

// Add appends the candidate unless an active alert of the same type was
// created within the dedup window. Returns whether the candidate was
// accepted.
func (l *Ledger) Add(candidate models.Alert) bool {
	now := time.Now().UTC()

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, a := range l.alerts {
		if a.Type == candidate.Type && a.Active(now) &&
			candidate.CreatedAt.Sub(a.CreatedAt) < dedupWindow {
			l.log.Debugf("Suppressed duplicate %s alert within dedup window", candidate.Type)
			return false
		}
	}

	l.alerts = append(l.alerts, candidate)
	return true
}

// AcknowledgeLatest marks the most recently created active alert as
// acknowledged
func (l *Ledger) AcknowledgeLatest() {
	now := time.Now().UTC()

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := len(l.alerts) - 1; i >= 0; i-- {
		if l.alerts[i].Active(now) {
			l.alerts[i].Acknowledged = true
			return
		}
	}
}

// AcknowledgeAll marks every active alert as acknowledged
func (l *Ledger) AcknowledgeAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.alerts {
		l.alerts[i].Acknowledged = true
	}
}

// Active returns a copy of the currently active alerts
func (l *Ledger) Active() []models.Alert {
	now := time.Now().UTC()

	l.mu.Lock()
	defer l.mu.Unlock()

	active := make([]models.Alert, 0, len(l.alerts))
	for _, a := range l.alerts {
		if a.Active(now) {
			active = append(active, a)
		}
	}
	return active
}

// seenCallsign reports whether the callsign is in the recent history
func (l *Ledger) seenCallsign(callsign string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, c := range l.recentCallsigns {
		if c == callsign {
			return true
		}
	}
	return false
}

// recordCallsign appends the callsign to history and batch-trims the oldest
// half once the history exceeds its limit
func (l *Ledger) recordCallsign(callsign string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.recentCallsigns = append(l.recentCallsigns, callsign)
	if len(l.recentCallsigns) > callsignHistoryLimit {
		l.recentCallsigns = append([]string(nil), l.recentCallsigns[callsignHistoryLimit/2:]...)
	}
}

// swapElevation records the satellite's current elevation and returns the
// previously recorded one (0 if never seen)
func (l *Ledger) swapElevation(name string, elevation float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.lastElevations[name]
	l.lastElevations[name] = elevation
	return prev
}

// swapKp records the current Kp and returns the previous value. ok is false
// on the very first cycle, when delta detection would compare against zero.
func (l *Ledger) swapKp(kp float64) (prev float64, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev, ok = l.lastKp, l.hasKpBaseline
	l.lastKp = kp
	l.hasKpBaseline = true
	return prev, ok
}

// swapXRayClass records the current X-ray class and returns the previous one
func (l *Ledger) swapXRayClass(class string) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.lastXRayClass
	l.lastXRayClass = class
	return prev
}

// swapBaseline records the flux/Ap baseline and returns the previous values.
// ok is false on the very first cycle, when no baseline exists yet and delta
// detection would compare against zero.
func (l *Ledger) swapBaseline(flux, ap float64) (prevFlux, prevAp float64, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prevFlux, prevAp, ok = l.lastFlux, l.lastAp, l.hasBaseline
	l.lastFlux, l.lastAp = flux, ap
	l.hasBaseline = true
	return prevFlux, prevAp, ok
}
