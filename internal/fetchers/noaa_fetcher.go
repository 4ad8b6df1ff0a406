package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"skywatch/internal/models"
)

// fetchNOAAKIndex fetches the planetary K-index series from NOAA and returns
// the most recent Kp and running A-index values. The products endpoint
// returns an array of rows where the first row is the header:
// ["time_tag","Kp","a_running","station_count"].
func (f *DataFetcher) fetchNOAAKIndex(ctx context.Context) (kp, aRunning float64, err error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(f.cfg.NOAAKIndexURL)

	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch NOAA K-index: %w", err)
	}

	if resp.StatusCode() != 200 {
		return 0, 0, fmt.Errorf("NOAA K-index API returned status %d", resp.StatusCode())
	}

	var rows [][]string
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return 0, 0, fmt.Errorf("failed to parse NOAA K-index response: %w", err)
	}

	if len(rows) < 2 {
		return 0, 0, fmt.Errorf("NOAA K-index response contains no data rows")
	}

	latest := rows[len(rows)-1]
	if len(latest) < 3 {
		return 0, 0, fmt.Errorf("NOAA K-index row has %d columns, want 3", len(latest))
	}

	kp, err = strconv.ParseFloat(latest[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse Kp value %q: %w", latest[1], err)
	}

	// a_running is best-effort; some rows omit it
	aRunning, _ = strconv.ParseFloat(latest[2], 64)

	return kp, aRunning, nil
}

// fetchNOAASolar fetches the observed solar cycle indices and returns the
// latest 10.7cm solar flux
func (f *DataFetcher) fetchNOAASolar(ctx context.Context) (float64, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(f.cfg.NOAASolarURL)

	if err != nil {
		return 0, fmt.Errorf("failed to fetch NOAA solar data: %w", err)
	}

	if resp.StatusCode() != 200 {
		return 0, fmt.Errorf("NOAA solar API returned status %d", resp.StatusCode())
	}

	var entries []models.NOAASolarEntry
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return 0, fmt.Errorf("failed to parse NOAA solar response: %w", err)
	}

	if len(entries) == 0 {
		return 0, fmt.Errorf("NOAA solar response is empty")
	}

	return entries[len(entries)-1].SolarFlux, nil
}
