package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"skywatch/internal/models"
)

// fetchN0NBH fetches the N0NBH solar API, which carries the A-index, X-ray
// class, and aurora fields the NOAA endpoints lack
func (f *DataFetcher) fetchN0NBH(ctx context.Context) (*models.N0NBHResponse, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(f.cfg.N0NBHSolarURL)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch N0NBH data: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("N0NBH API returned status %d", resp.StatusCode())
	}

	var data models.N0NBHResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		return nil, fmt.Errorf("failed to parse N0NBH response: %w", err)
	}

	return &data, nil
}

// fetchSpaceWeather combines the NOAA and N0NBH sources into one normalized
// space weather reading. N0NBH is optional: if it fails, the NOAA values
// stand alone.
func (f *DataFetcher) fetchSpaceWeather(ctx context.Context) (models.SpaceWeather, error) {
	kp, aRunning, err := f.fetchNOAAKIndex(ctx)
	if err != nil {
		return models.SpaceWeather{}, err
	}

	sw := models.SpaceWeather{
		Kp:           kp,
		ApIndex:      aRunning,
		GeomagStatus: geomagStatus(kp),
		Updated:      time.Now().UTC(),
	}

	if flux, err := f.fetchNOAASolar(ctx); err != nil {
		f.log.Warnf("NOAA solar fetch failed: %v", err)
	} else {
		sw.SolarFlux = flux
	}

	if n0nbh, err := f.fetchN0NBH(ctx); err != nil {
		f.log.Warnf("N0NBH fetch failed: %v", err)
	} else {
		sw.AIndex = parseFloatField(n0nbh.SolarData.AIndex)
		sw.XRayClass = normalizeXRayClass(n0nbh.SolarData.XRay)
		if sw.SolarFlux == 0 {
			sw.SolarFlux = parseFloatField(n0nbh.SolarData.SolarFlux)
		}
	}

	return sw, nil
}

// geomagStatus maps Kp to the conventional geomagnetic activity description
func geomagStatus(kp float64) string {
	switch {
	case kp >= 8:
		return "Storm"
	case kp >= 6:
		return "Active"
	case kp >= 5:
		return "Unsettled"
	default:
		return "Quiet"
	}
}

// normalizeXRayClass reduces an X-ray reading like "M1.2" to its class letter
func normalizeXRayClass(xray string) string {
	xray = strings.ToUpper(strings.TrimSpace(xray))
	if xray == "" {
		return ""
	}
	switch xray[0] {
	case 'A', 'B', 'C', 'M', 'X':
		return string(xray[0])
	default:
		return ""
	}
}

func parseFloatField(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}
