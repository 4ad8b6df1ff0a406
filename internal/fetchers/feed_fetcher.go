package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"skywatch/internal/models"
)

// fetchSpots fetches the external spot feed. An empty feed URL means the
// source is not configured and yields no spots.
func (f *DataFetcher) fetchSpots(ctx context.Context) ([]models.Spot, error) {
	if f.cfg.SpotFeedURL == "" {
		return nil, nil
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(f.cfg.SpotFeedURL)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch spot feed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("spot feed returned status %d", resp.StatusCode())
	}

	var entries []models.SpotFeedEntry
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse spot feed response: %w", err)
	}

	spots := make([]models.Spot, 0, len(entries))
	for _, e := range entries {
		spotTime, err := time.Parse(time.RFC3339, e.Time)
		if err != nil {
			spotTime = time.Now().UTC()
		}
		spots = append(spots, models.Spot{
			Frequency: e.Frequency,
			Callsign:  e.Callsign,
			Spotter:   e.Spotter,
			Mode:      e.Mode,
			Time:      spotTime,
		})
	}

	return spots, nil
}

// fetchSatellites fetches the external satellite tracker feed. An empty feed
// URL means the source is not configured and yields no observations.
func (f *DataFetcher) fetchSatellites(ctx context.Context) ([]models.SatelliteObservation, error) {
	if f.cfg.SatFeedURL == "" {
		return nil, nil
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(f.cfg.SatFeedURL)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch satellite feed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("satellite feed returned status %d", resp.StatusCode())
	}

	var entries []models.SatFeedEntry
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse satellite feed response: %w", err)
	}

	sats := make([]models.SatelliteObservation, 0, len(entries))
	for _, e := range entries {
		sats = append(sats, models.SatelliteObservation{
			Name:      e.Name,
			Elevation: e.Elevation,
			Azimuth:   e.Azimuth,
			Range:     e.Range,
		})
	}

	return sats, nil
}
