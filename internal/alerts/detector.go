package alerts

import (
	"fmt"
	"math"
	"strings"
	"time"

	"skywatch/internal/config"
	"skywatch/internal/logger"
	"skywatch/internal/models"
)

// bandMatchTolerance is how close (MHz) a spot frequency must be to a watched
// band to count as a match
const bandMatchTolerance = 0.01

// Detector evaluates each telemetry snapshot against the configured watch
// rules. Stateless itself; all edge-trigger state lives in the ledger.
type Detector struct {
	cfg *config.Config
	log *logger.Logger
}

// NewDetector creates a detector bound to the given configuration
func NewDetector(cfg *config.Config) *Detector {
	return &Detector{
		cfg: cfg,
		log: logger.GetGlobalLogger().WithComponent("detector"),
	}
}

// Detect runs one detection cycle: prunes the ledger, evaluates every enabled
// rule against the snapshot, and passes each produced candidate through the
// ledger's dedup filter. Returns the accepted alerts in production order.
func (d *Detector) Detect(ledger *Ledger, snapshot *models.TelemetrySnapshot) []models.Alert {
	ledger.CleanupExpired()

	var accepted []models.Alert
	for _, candidate := range d.Evaluate(ledger, snapshot) {
		if ledger.Add(candidate) {
			accepted = append(accepted, candidate)
		}
	}
	return accepted
}

// Evaluate produces the cycle's candidate alerts and updates the ledger's
// edge-trigger state (last Kp, X-ray class, flux/Ap baseline, callsign
// history, satellite elevations). Candidates have not passed dedup yet.
func (d *Detector) Evaluate(ledger *Ledger, snapshot *models.TelemetrySnapshot) []models.Alert {
	var candidates []models.Alert

	if d.cfg.SpotAlertsEnabled {
		candidates = append(candidates, d.checkSpots(ledger, snapshot.Spots)...)
	}

	if d.cfg.SatelliteAlertsEnabled {
		candidates = append(candidates, d.checkSatellites(ledger, snapshot.Satellites)...)
	}

	if d.cfg.SpaceWeatherAlertsEnabled {
		candidates = append(candidates, d.checkSpaceWeather(ledger, snapshot.SpaceWeather)...)
	}

	return candidates
}

// alertDuration returns the configured display duration
func (d *Detector) alertDuration() time.Duration {
	return time.Duration(d.cfg.AlertDurationSeconds) * time.Second
}

// checkSpots alerts on spots whose callsign has not been seen recently and
// that match a watched band or mode inside the optional frequency window
func (d *Detector) checkSpots(ledger *Ledger, spots []models.Spot) []models.Alert {
	var candidates []models.Alert

	for _, spot := range spots {
		if ledger.seenCallsign(spot.Callsign) {
			continue
		}

		watchedBand := false
		for _, freq := range d.cfg.WatchedBands {
			if math.Abs(spot.Frequency-freq) < bandMatchTolerance {
				watchedBand = true
				break
			}
		}

		watchedMode := false
		for _, mode := range d.cfg.WatchedModes {
			if strings.Contains(strings.ToUpper(spot.Mode), strings.ToUpper(mode)) {
				watchedMode = true
				break
			}
		}

		// A bound of 0 leaves that side of the window open
		inRange := true
		if d.cfg.SpotMinFrequency > 0 && spot.Frequency < d.cfg.SpotMinFrequency {
			inRange = false
		}
		if d.cfg.SpotMaxFrequency > 0 && spot.Frequency > d.cfg.SpotMaxFrequency {
			inRange = false
		}

		if (watchedBand || watchedMode) && inRange {
			message := fmt.Sprintf("NEW DX: %.3f MHz %s %s by %s",
				spot.Frequency, spot.Mode, spot.Callsign, spot.Spotter)

			candidates = append(candidates,
				models.NewAlert(models.AlertSpot, models.SeverityNotice, message, d.alertDuration()))
			ledger.recordCallsign(spot.Callsign)
		}
	}

	return candidates
}

// checkSatellites alerts on the transition from below to at-or-above the
// elevation threshold. Continuously high passes fire once, at the crossing.
func (d *Detector) checkSatellites(ledger *Ledger, sats []models.SatelliteObservation) []models.Alert {
	var candidates []models.Alert

	for _, sat := range sats {
		watched := len(d.cfg.WatchedSatellites) == 0
		for _, name := range d.cfg.WatchedSatellites {
			if strings.Contains(strings.ToUpper(sat.Name), strings.ToUpper(name)) {
				watched = true
				break
			}
		}
		if !watched {
			continue
		}

		prevElevation := ledger.swapElevation(sat.Name, sat.Elevation)

		if sat.Elevation >= d.cfg.SatelliteElevationThreshold &&
			prevElevation < d.cfg.SatelliteElevationThreshold {

			var message string
			if d.cfg.SatelliteCountdownEnabled {
				degreesToPeak := 90.0 - sat.Elevation
				minutesToPeak := math.Max(degreesToPeak/10.0, 1.0)
				message = fmt.Sprintf("%s PASS: El %.0f° Az %.0f° (%.0f min to peak)",
					sat.Name, sat.Elevation, sat.Azimuth, minutesToPeak)
			} else {
				message = fmt.Sprintf("%s PASS: El %.0f° Az %.0f° (%dkm)",
					sat.Name, sat.Elevation, sat.Azimuth, int(sat.Range))
			}

			// Pass alerts stay visible twice as long as other alerts
			candidates = append(candidates,
				models.NewAlert(models.AlertSatellitePass, models.SeverityNotice,
					message, d.alertDuration()*2))
		}
	}

	return candidates
}

// checkSpaceWeather runs the Kp spike, X-ray flare, aurora, and CME rules
func (d *Detector) checkSpaceWeather(ledger *Ledger, sw models.SpaceWeather) []models.Alert {
	// A failed refresh leaves the snapshot with a zero-valued reading
	// (Updated is only stamped by a successful fetch). Evaluating it would
	// overwrite the Kp and flux baselines with zeros and turn the next
	// healthy reading into a spurious spike or CME.
	if sw.Updated.IsZero() {
		return nil
	}

	var candidates []models.Alert

	// Kp spike: edge on the delta, baseline always updated
	lastKp, hasBaseline := ledger.swapKp(sw.Kp)
	if kpChange := sw.Kp - lastKp; hasBaseline && kpChange >= d.cfg.KpSpikeThreshold {
		message := fmt.Sprintf("Kp SPIKE: %.1f (+%.1f) - %s", sw.Kp, kpChange, kpStatus(sw.Kp))
		candidates = append(candidates,
			models.NewAlert(models.AlertKpSpike, kpSpikeSeverity(sw.Kp), message, d.alertDuration()))
	}

	// X-ray flare: fires only when the flux classification changes into a
	// watched class; the recorded class always tracks the current one
	if sw.SolarFlux > 0 {
		class := classifyXRay(sw.SolarFlux)
		if prev := ledger.swapXRayClass(class); prev != class && d.xrayClassWatched(class) {
			message := fmt.Sprintf("SOLAR FLARE: %s class", class)
			candidates = append(candidates,
				models.NewAlert(models.AlertXRayFlare, xraySeverity(class), message, d.alertDuration()))
		}
	}

	// Aurora: level-triggered, re-fires every cycle while Kp holds at or
	// above the threshold. The ledger's dedup window bounds the accepted rate.
	if sw.Kp >= d.cfg.KpAlertThreshold {
		message := fmt.Sprintf("AURORA LIKELY: Kp %.1f", sw.Kp)
		candidates = append(candidates,
			models.NewAlert(models.AlertAurora, auroraSeverity(sw.Kp), message, d.alertDuration()))
	}

	// CME: large swing in flux or Ap since the previous cycle
	if d.cfg.CMEAlertsEnabled {
		prevFlux, prevAp, ok := ledger.swapBaseline(sw.SolarFlux, sw.ApIndex)
		if ok {
			fluxDelta := math.Abs(sw.SolarFlux - prevFlux)
			apDelta := math.Abs(sw.ApIndex - prevAp)

			if fluxDelta > 200 || apDelta > 100 {
				message := fmt.Sprintf("CME DETECTED: flux delta %.0f SFU, Ap delta %.0f", fluxDelta, apDelta)
				candidates = append(candidates,
					models.NewAlert(models.AlertCME, cmeSeverity(fluxDelta, apDelta),
						message, d.alertDuration()))
			}
		}
	}

	return candidates
}

func (d *Detector) xrayClassWatched(class string) bool {
	for _, c := range d.cfg.XRayAlertClasses {
		if c == class {
			return true
		}
	}
	return false
}

// classifyXRay buckets the solar flux into an X-ray class
func classifyXRay(flux float64) string {
	switch {
	case flux > 1000:
		return "X"
	case flux > 100:
		return "M"
	case flux > 10:
		return "C"
	default:
		return "B"
	}
}

func kpSpikeSeverity(kp float64) models.Severity {
	switch {
	case kp >= 8:
		return models.SeverityEmergency
	case kp >= 6:
		return models.SeverityCritical
	case kp >= 5:
		return models.SeverityWarning
	default:
		return models.SeverityNotice
	}
}

func kpStatus(kp float64) string {
	switch {
	case kp >= 8:
		return "STORM"
	case kp >= 6:
		return "ACTIVE"
	case kp >= 5:
		return "UNSETTLED"
	default:
		return "QUIET"
	}
}

func xraySeverity(class string) models.Severity {
	switch class {
	case "X":
		return models.SeverityCritical
	case "M":
		return models.SeverityWarning
	default:
		return models.SeverityNotice
	}
}

func auroraSeverity(kp float64) models.Severity {
	switch {
	case kp >= 8:
		return models.SeverityCritical
	case kp >= 6:
		return models.SeverityWarning
	case kp >= 5:
		return models.SeverityNotice
	default:
		return models.SeverityInfo
	}
}

func cmeSeverity(fluxDelta, apDelta float64) models.Severity {
	switch {
	case fluxDelta >= 500 || apDelta >= 150:
		return models.SeverityCritical
	case fluxDelta >= 350 || apDelta >= 120:
		return models.SeverityWarning
	default:
		return models.SeverityNotice
	}
}
