package fetchers

import (
	"context"
	"fmt"
	"time"

	"skywatch/internal/models"
)

// fetchForecast fetches the space weather advisory RSS feed and turns the
// most recent bulletins into a short geomagnetic outlook
func (f *DataFetcher) fetchForecast(ctx context.Context) ([]models.ForecastDay, error) {
	feed, err := f.parser.ParseURLWithContext(f.cfg.AdvisoryRSSURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch advisory feed: %w", err)
	}

	var forecast []models.ForecastDay
	for _, item := range feed.Items {
		if len(forecast) >= 3 {
			break
		}

		date := time.Now().UTC()
		if item.PublishedParsed != nil {
			date = item.PublishedParsed.UTC()
		}

		forecast = append(forecast, models.ForecastDay{
			Date:       date,
			KpForecast: item.Title,
			Conditions: item.Description,
		})
	}

	return forecast, nil
}
