package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skywatch/internal/config"
	"skywatch/internal/models"
)

// testConfig returns a config with every rule off so each test can enable
// only what it exercises
func testConfig() *config.Config {
	return &config.Config{
		AlertDurationSeconds: 30,
	}
}

// weather wraps a space weather reading in a snapshot, stamped the way a
// successful fetch stamps it
func weather(sw models.SpaceWeather) *models.TelemetrySnapshot {
	sw.Updated = time.Now().UTC()
	return &models.TelemetrySnapshot{SpaceWeather: sw}
}

func countType(alerts []models.Alert, alertType models.AlertType) int {
	n := 0
	for _, a := range alerts {
		if a.Type == alertType {
			n++
		}
	}
	return n
}

func TestSatellitePassEdgeTrigger(t *testing.T) {
	cfg := testConfig()
	cfg.SatelliteAlertsEnabled = true
	cfg.SatelliteElevationThreshold = 30
	cfg.SatelliteCountdownEnabled = true

	detector := NewDetector(cfg)
	ledger := NewLedger()

	// Crossings happen at 31 (from 25) and 35 (from 25): two alerts total.
	// 40 stays above threshold and must not re-fire.
	elevations := []float64{10, 20, 31, 40, 25, 35}
	expected := []int{0, 0, 1, 0, 0, 1}

	for i, el := range elevations {
		snapshot := &models.TelemetrySnapshot{
			Satellites: []models.SatelliteObservation{
				{Name: "ISS", Elevation: el, Azimuth: 180, Range: 500},
			},
		}
		candidates := detector.Evaluate(ledger, snapshot)
		assert.Equal(t, expected[i], countType(candidates, models.AlertSatellitePass),
			"cycle %d elevation %.0f", i, el)
	}
}

func TestSatellitePassWatchList(t *testing.T) {
	cfg := testConfig()
	cfg.SatelliteAlertsEnabled = true
	cfg.SatelliteElevationThreshold = 30
	cfg.WatchedSatellites = []string{"ISS"}

	detector := NewDetector(cfg)
	ledger := NewLedger()

	snapshot := &models.TelemetrySnapshot{
		Satellites: []models.SatelliteObservation{
			{Name: "ISS (ZARYA)", Elevation: 45, Azimuth: 90, Range: 400},
			{Name: "NOAA-19", Elevation: 60, Azimuth: 270, Range: 800},
		},
	}

	candidates := detector.Evaluate(ledger, snapshot)
	require.Len(t, candidates, 1)
	assert.Contains(t, candidates[0].Message, "ISS (ZARYA)")
}

func TestSatellitePassCountdownMessage(t *testing.T) {
	cfg := testConfig()
	cfg.SatelliteAlertsEnabled = true
	cfg.SatelliteElevationThreshold = 30
	cfg.SatelliteCountdownEnabled = true

	detector := NewDetector(cfg)
	ledger := NewLedger()

	snapshot := &models.TelemetrySnapshot{
		Satellites: []models.SatelliteObservation{
			{Name: "SO-50", Elevation: 50, Azimuth: 120, Range: 600},
		},
	}

	candidates := detector.Evaluate(ledger, snapshot)
	require.Len(t, candidates, 1)

	// (90-50)/10 = 4 minutes to peak
	assert.Contains(t, candidates[0].Message, "4 min to peak")

	// Pass alerts carry double the display duration
	duration := candidates[0].ExpiresAt.Sub(candidates[0].CreatedAt)
	assert.Equal(t, 60*time.Second, duration)
}

func TestAuroraLevelTriggered(t *testing.T) {
	cfg := testConfig()
	cfg.SpaceWeatherAlertsEnabled = true
	cfg.KpAlertThreshold = 5
	cfg.KpSpikeThreshold = 100 // keep the spike rule quiet

	detector := NewDetector(cfg)
	ledger := NewLedger()

	// The rule re-fires on every cycle at or above the threshold
	kpValues := []float64{4, 6, 6, 6, 3}
	total := 0
	for _, kp := range kpValues {
		candidates := detector.Evaluate(ledger, weather(models.SpaceWeather{Kp: kp}))
		total += countType(candidates, models.AlertAurora)
	}
	assert.Equal(t, 3, total)
}

func TestAuroraSeverity(t *testing.T) {
	tests := []struct {
		kp       float64
		expected models.Severity
	}{
		{4.5, models.SeverityInfo},
		{5.0, models.SeverityNotice},
		{6.0, models.SeverityWarning},
		{8.5, models.SeverityCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, auroraSeverity(tt.kp), "kp=%.1f", tt.kp)
	}
}

func TestXRayFiresOnClassChangeOnly(t *testing.T) {
	cfg := testConfig()
	cfg.SpaceWeatherAlertsEnabled = true
	cfg.KpSpikeThreshold = 100
	cfg.XRayAlertClasses = []string{"M", "X"}

	detector := NewDetector(cfg)
	ledger := NewLedger()

	// Flux values classify as B, B, M, M, X, X, M. Alerts fire on the
	// B->M, M->X, and X->M transitions: three in total.
	fluxes := []float64{5, 5, 200, 200, 1500, 1500, 200}
	expected := []int{0, 0, 1, 0, 1, 0, 1}

	for i, flux := range fluxes {
		candidates := detector.Evaluate(ledger, weather(models.SpaceWeather{SolarFlux: flux}))
		assert.Equal(t, expected[i], countType(candidates, models.AlertXRayFlare),
			"cycle %d flux %.0f", i, flux)
	}
}

func TestXRayUnwatchedClassStillRecorded(t *testing.T) {
	cfg := testConfig()
	cfg.SpaceWeatherAlertsEnabled = true
	cfg.KpSpikeThreshold = 100
	cfg.XRayAlertClasses = []string{"X"}

	detector := NewDetector(cfg)
	ledger := NewLedger()

	// B -> M is an unwatched transition, but the class must still be
	// recorded so the later M reading does not fire as a fresh change.
	for _, flux := range []float64{5, 200, 200} {
		candidates := detector.Evaluate(ledger, weather(models.SpaceWeather{SolarFlux: flux}))
		assert.Equal(t, 0, countType(candidates, models.AlertXRayFlare))
	}
}

func TestClassifyXRay(t *testing.T) {
	tests := []struct {
		flux     float64
		expected string
	}{
		{5, "B"},
		{10, "B"},
		{50, "C"},
		{100, "C"},
		{500, "M"},
		{1000, "M"},
		{1500, "X"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, classifyXRay(tt.flux), "flux=%.0f", tt.flux)
	}
}

func TestKpSpikeWaitsForBaseline(t *testing.T) {
	cfg := testConfig()
	cfg.SpaceWeatherAlertsEnabled = true
	cfg.KpAlertThreshold = 100
	cfg.KpSpikeThreshold = 2

	detector := NewDetector(cfg)
	ledger := NewLedger()

	// First reading establishes the baseline without firing
	first := detector.Evaluate(ledger, weather(models.SpaceWeather{Kp: 3.0}))
	assert.Empty(t, first)

	second := detector.Evaluate(ledger, weather(models.SpaceWeather{Kp: 6.5}))
	require.Len(t, second, 1)
	assert.Equal(t, models.AlertKpSpike, second[0].Type)
	assert.Equal(t, models.SeverityCritical, second[0].Severity)
	assert.Contains(t, second[0].Message, "6.5")
	assert.Contains(t, second[0].Message, "ACTIVE")
}

func TestKpSpikeBaselineAlwaysUpdated(t *testing.T) {
	cfg := testConfig()
	cfg.SpaceWeatherAlertsEnabled = true
	cfg.KpAlertThreshold = 100
	cfg.KpSpikeThreshold = 2

	detector := NewDetector(cfg)
	ledger := NewLedger()

	// A slow climb never exceeds the delta threshold on any single cycle
	for _, kp := range []float64{2.0, 3.5, 5.0, 6.5} {
		candidates := detector.Evaluate(ledger, weather(models.SpaceWeather{Kp: kp}))
		assert.Equal(t, 0, countType(candidates, models.AlertKpSpike), "kp=%.1f", kp)
	}
}

func TestKpSpikeSeverity(t *testing.T) {
	tests := []struct {
		kp       float64
		expected models.Severity
	}{
		{3.0, models.SeverityNotice},
		{5.0, models.SeverityWarning},
		{6.0, models.SeverityCritical},
		{8.0, models.SeverityEmergency},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, kpSpikeSeverity(tt.kp), "kp=%.1f", tt.kp)
	}
}

func TestKpStatus(t *testing.T) {
	tests := []struct {
		kp       float64
		expected string
	}{
		{2.0, "QUIET"},
		{5.0, "UNSETTLED"},
		{6.5, "ACTIVE"},
		{8.0, "STORM"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, kpStatus(tt.kp), "kp=%.1f", tt.kp)
	}
}

func TestCMESkipsFirstCycle(t *testing.T) {
	cfg := testConfig()
	cfg.SpaceWeatherAlertsEnabled = true
	cfg.CMEAlertsEnabled = true
	cfg.KpSpikeThreshold = 100
	cfg.KpAlertThreshold = 100

	detector := NewDetector(cfg)
	ledger := NewLedger()

	// A huge first reading must not be compared against a zero baseline
	first := detector.Evaluate(ledger, weather(models.SpaceWeather{ApIndex: 180}))
	assert.Equal(t, 0, countType(first, models.AlertCME))

	// Unchanged readings stay quiet
	second := detector.Evaluate(ledger, weather(models.SpaceWeather{ApIndex: 180}))
	assert.Equal(t, 0, countType(second, models.AlertCME))
}

func TestCMEDeltaDetection(t *testing.T) {
	tests := []struct {
		name     string
		flux     float64
		ap       float64
		fires    bool
		severity models.Severity
	}{
		{"small swing", 150, 50, false, 0},
		{"ap jump", 100, 110, true, models.SeverityNotice},
		{"flux jump", 400, 0, true, models.SeverityWarning},
		{"major flux jump", 600, 0, true, models.SeverityCritical},
		{"major ap jump", 0, 160, true, models.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.SpaceWeatherAlertsEnabled = true
			cfg.CMEAlertsEnabled = true
			cfg.KpSpikeThreshold = 100
			cfg.KpAlertThreshold = 100

			detector := NewDetector(cfg)
			ledger := NewLedger()

			// establish a zero baseline first
			detector.Evaluate(ledger, weather(models.SpaceWeather{}))

			candidates := detector.Evaluate(ledger,
				weather(models.SpaceWeather{SolarFlux: tt.flux, ApIndex: tt.ap}))

			cme := countType(candidates, models.AlertCME)
			if !tt.fires {
				assert.Equal(t, 0, cme)
				return
			}
			require.Equal(t, 1, cme)
			assert.Equal(t, tt.severity, candidates[len(candidates)-1].Severity)
		})
	}
}

func TestSpotMatching(t *testing.T) {
	tests := []struct {
		name  string
		spot  models.Spot
		fires bool
	}{
		{"watched band", models.Spot{Callsign: "JA1ABC", Frequency: 14.074, Mode: "FT8"}, true},
		{"band within tolerance", models.Spot{Callsign: "VK2DEF", Frequency: 14.078, Mode: "SSB"}, true},
		{"band outside tolerance", models.Spot{Callsign: "VK2XYZ", Frequency: 14.120, Mode: "SSB"}, false},
		{"watched mode off band", models.Spot{Callsign: "ZL3GHI", Frequency: 21.074, Mode: "FT8"}, true},
		{"mode substring", models.Spot{Callsign: "PY4JKL", Frequency: 28.180, Mode: "CW/QRS"}, true},
		{"neither band nor mode", models.Spot{Callsign: "W1MNO", Frequency: 28.400, Mode: "SSB"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.SpotAlertsEnabled = true
			cfg.WatchedBands = []float64{14.074, 7.074}
			cfg.WatchedModes = []string{"FT8", "CW"}

			detector := NewDetector(cfg)
			ledger := NewLedger()

			candidates := detector.Evaluate(ledger, &models.TelemetrySnapshot{
				Spots: []models.Spot{tt.spot},
			})

			if tt.fires {
				require.Len(t, candidates, 1)
				assert.Equal(t, models.AlertSpot, candidates[0].Type)
				assert.Equal(t, models.SeverityNotice, candidates[0].Severity)
				assert.Contains(t, candidates[0].Message, tt.spot.Callsign)
			} else {
				assert.Empty(t, candidates)
			}
		})
	}
}

func TestSpotFrequencyWindow(t *testing.T) {
	cfg := testConfig()
	cfg.SpotAlertsEnabled = true
	cfg.WatchedModes = []string{"FT8"}
	cfg.SpotMinFrequency = 7.0
	cfg.SpotMaxFrequency = 15.0

	detector := NewDetector(cfg)
	ledger := NewLedger()

	candidates := detector.Evaluate(ledger, &models.TelemetrySnapshot{
		Spots: []models.Spot{
			{Callsign: "K1AAA", Frequency: 3.573, Mode: "FT8"},  // below window
			{Callsign: "K2BBB", Frequency: 14.074, Mode: "FT8"}, // inside
			{Callsign: "K3CCC", Frequency: 21.074, Mode: "FT8"}, // above window
		},
	})

	require.Len(t, candidates, 1)
	assert.Contains(t, candidates[0].Message, "K2BBB")
}

func TestSpotOpenWindowSide(t *testing.T) {
	cfg := testConfig()
	cfg.SpotAlertsEnabled = true
	cfg.WatchedModes = []string{"FT8"}
	cfg.SpotMinFrequency = 7.0
	// max of 0 leaves the upper side open

	detector := NewDetector(cfg)
	ledger := NewLedger()

	candidates := detector.Evaluate(ledger, &models.TelemetrySnapshot{
		Spots: []models.Spot{
			{Callsign: "K4DDD", Frequency: 50.313, Mode: "FT8"},
		},
	})
	assert.Len(t, candidates, 1)
}

func TestSpotCallsignDedup(t *testing.T) {
	cfg := testConfig()
	cfg.SpotAlertsEnabled = true
	cfg.WatchedModes = []string{"FT8"}

	detector := NewDetector(cfg)
	ledger := NewLedger()

	snapshot := &models.TelemetrySnapshot{
		Spots: []models.Spot{
			{Callsign: "JA1ABC", Frequency: 14.074, Mode: "FT8"},
		},
	}

	first := detector.Evaluate(ledger, snapshot)
	assert.Len(t, first, 1)

	// Same callsign appearing again produces nothing
	second := detector.Evaluate(ledger, snapshot)
	assert.Empty(t, second)
}

func TestDetectAppliesDedupWindow(t *testing.T) {
	cfg := testConfig()
	cfg.SpaceWeatherAlertsEnabled = true
	cfg.KpAlertThreshold = 5
	cfg.KpSpikeThreshold = 100

	detector := NewDetector(cfg)
	ledger := NewLedger()

	snapshot := weather(models.SpaceWeather{Kp: 6})

	// The rule produces a candidate every cycle, but the ledger accepts
	// only the first within the dedup window
	first := detector.Detect(ledger, snapshot)
	assert.Len(t, first, 1)

	second := detector.Detect(ledger, snapshot)
	assert.Empty(t, second)
}

func TestFailedRefreshKeepsBaselines(t *testing.T) {
	cfg := testConfig()
	cfg.SpaceWeatherAlertsEnabled = true
	cfg.CMEAlertsEnabled = true
	cfg.KpAlertThreshold = 100
	cfg.KpSpikeThreshold = 2

	detector := NewDetector(cfg)
	ledger := NewLedger()

	// Two healthy cycles at steady Kp 5 / flux 250
	steady := models.SpaceWeather{Kp: 5, SolarFlux: 250}
	detector.Evaluate(ledger, weather(steady))
	assert.Empty(t, detector.Evaluate(ledger, weather(steady)))

	// A failed refresh yields a zero-valued, unstamped reading; it must
	// not register as a drop to Kp 0 / flux 0
	assert.Empty(t, detector.Evaluate(ledger, &models.TelemetrySnapshot{}))

	// The next healthy cycle compares against the last real reading, so
	// the steady values stay quiet
	candidates := detector.Evaluate(ledger, weather(steady))
	assert.Equal(t, 0, countType(candidates, models.AlertKpSpike))
	assert.Equal(t, 0, countType(candidates, models.AlertCME))
}
