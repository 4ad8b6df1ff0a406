package fetchers

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"

	"skywatch/internal/cache"
	"skywatch/internal/config"
	"skywatch/internal/logger"
	"skywatch/internal/models"
)

// DataFetcher handles fetching telemetry from all external sources through
// the freshness cache
type DataFetcher struct {
	client *resty.Client
	parser *gofeed.Parser
	cfg    *config.Config
	cache  *cache.ResponseCache
	log    *logger.Logger
}

// NewDataFetcher creates a new data fetcher instance
func NewDataFetcher(cfg *config.Config, responseCache *cache.ResponseCache) *DataFetcher {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)

	return &DataFetcher{
		client: client,
		parser: gofeed.NewParser(),
		cfg:    cfg,
		cache:  responseCache,
		log:    logger.GetGlobalLogger().WithComponent("fetchers"),
	}
}

// Snapshot assembles one telemetry snapshot. Each data kind is served from
// the cache when still fresh; stale or absent kinds are refetched
// concurrently. A kind whose fetch fails falls back to its default or empty
// value, leaving the cache untouched.
func (f *DataFetcher) Snapshot(ctx context.Context) *models.TelemetrySnapshot {
	snapshot := &models.TelemetrySnapshot{FetchedAt: time.Now().UTC()}

	type result struct {
		kind string
		err  error
	}

	done := make(chan result, 4)
	pending := 0

	if sw, ok := f.cache.GetSpaceWeather(); ok {
		snapshot.SpaceWeather = sw
	} else {
		pending++
		go func() {
			sw, err := f.fetchSpaceWeather(ctx)
			if err == nil {
				f.cache.PutSpaceWeather(sw)
				snapshot.SpaceWeather = sw
			}
			done <- result{"space weather", err}
		}()
	}

	if forecast, ok := f.cache.GetForecast(); ok {
		snapshot.Forecast = forecast
	} else {
		pending++
		go func() {
			forecast, err := f.fetchForecast(ctx)
			if err == nil {
				f.cache.PutForecast(forecast)
				snapshot.Forecast = forecast
			}
			done <- result{"forecast", err}
		}()
	}

	if spots, ok := f.cache.GetSpots(); ok {
		snapshot.Spots = spots
	} else {
		pending++
		go func() {
			spots, err := f.fetchSpots(ctx)
			if err == nil {
				f.cache.PutSpots(spots)
				snapshot.Spots = spots
			}
			done <- result{"spots", err}
		}()
	}

	if sats, ok := f.cache.GetSatellites(); ok {
		snapshot.Satellites = sats
	} else {
		pending++
		go func() {
			sats, err := f.fetchSatellites(ctx)
			if err == nil {
				f.cache.PutSatellites(sats)
				snapshot.Satellites = sats
			}
			done <- result{"satellites", err}
		}()
	}

	for i := 0; i < pending; i++ {
		select {
		case res := <-done:
			if res.err != nil {
				f.log.Warnf("Fetch failed for %s, using fallback: %v", res.kind, res.err)
			}
		case <-ctx.Done():
			// In-flight fetch goroutines may still write into the
			// snapshot being assembled, so hand back an empty one
			f.log.Warn("Snapshot assembly cancelled")
			return &models.TelemetrySnapshot{FetchedAt: snapshot.FetchedAt}
		}
	}

	return snapshot
}
