package models

import "time"

// TelemetrySnapshot bundles everything one refresh cycle collected. A snapshot
// is immutable once assembled; the detection cycle that produced it is its
// only owner.
type TelemetrySnapshot struct {
	SpaceWeather SpaceWeather           `json:"space_weather"`
	Spots        []Spot                 `json:"spots"`
	Satellites   []SatelliteObservation `json:"satellites"`
	Forecast     []ForecastDay          `json:"forecast"`
	FetchedAt    time.Time              `json:"fetched_at"`
}

// SpaceWeather contains the current solar and geomagnetic indices
type SpaceWeather struct {
	Kp           float64   `json:"kp"`            // Planetary K-index (0-9)
	AIndex       float64   `json:"a_index"`       // Planetary A-index
	ApIndex      float64   `json:"ap_index"`      // Average planetary A-index
	SolarFlux    float64   `json:"solar_flux"`    // 10.7cm flux in SFU
	XRayClass    string    `json:"xray_class"`    // Reported X-ray class (B/C/M/X)
	GeomagStatus string    `json:"geomag_status"` // Quiet/Unsettled/Active/Storm
	Updated      time.Time `json:"updated"`
}

// Spot is a single propagation spot from the cluster feed
type Spot struct {
	Frequency float64   `json:"frequency"` // MHz
	Callsign  string    `json:"callsign"`  // Spotted station
	Spotter   string    `json:"spotter"`   // Reporting station
	Mode      string    `json:"mode"`      // SSB, CW, FT8, etc.
	Time      time.Time `json:"time"`
}

// SatelliteObservation is one satellite's current look angles
type SatelliteObservation struct {
	Name      string  `json:"name"`
	Elevation float64 `json:"elevation"` // Degrees above horizon
	Azimuth   float64 `json:"azimuth"`   // Degrees from north
	Range     float64 `json:"range"`     // Distance in km
}

// ForecastDay is one day of the geomagnetic outlook
type ForecastDay struct {
	Date       time.Time `json:"date"`
	KpForecast string    `json:"kp_forecast"`
	Conditions string    `json:"conditions"`
}
