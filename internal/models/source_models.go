package models

// NOAASolarEntry represents one row of NOAA's observed solar cycle indices
type NOAASolarEntry struct {
	TimeTag       string  `json:"time-tag"`
	SolarFlux     float64 `json:"f10.7"`
	SunspotNumber float64 `json:"ssn"`
}

// N0NBHResponse represents the N0NBH solar API response
type N0NBHResponse struct {
	SolarData struct {
		SolarFlux  string `json:"solarflux"`
		AIndex     string `json:"aindex"`
		KIndex     string `json:"kindex"`
		SunSpots   string `json:"sunspots"`
		XRay       string `json:"xray"`
		ProtonFlux string `json:"protonflux"`
		Aurora     string `json:"aurora"`
		Updated    string `json:"updated"`
	} `json:"solardata"`
	Time string `json:"time"`
}

// SpotFeedEntry is one spot as delivered by the external spot feed
type SpotFeedEntry struct {
	Frequency float64 `json:"frequency"` // MHz
	Callsign  string  `json:"callsign"`
	Spotter   string  `json:"spotter"`
	Mode      string  `json:"mode"`
	Time      string  `json:"time"` // RFC3339
}

// SatFeedEntry is one satellite observation as delivered by the external
// tracker feed
type SatFeedEntry struct {
	Name      string  `json:"name"`
	Elevation float64 `json:"elevation"`
	Azimuth   float64 `json:"azimuth"`
	Range     float64 `json:"range"`
}
