package cache

import (
	"sync"
	"time"

	"skywatch/internal/logger"
	"skywatch/internal/models"
)

// Entry wraps a cached value with its creation time and TTL. Entries are
// replaced wholesale on refresh, never mutated in place.
type Entry[T any] struct {
	data      T
	createdAt time.Time
	ttl       time.Duration
}

// NewEntry creates a cache entry stamped with the current time
func NewEntry[T any](data T, ttl time.Duration) *Entry[T] {
	return &Entry[T]{
		data:      data,
		createdAt: time.Now(),
		ttl:       ttl,
	}
}

// Valid reports whether the entry is younger than its TTL
func (e *Entry[T]) Valid() bool {
	return time.Since(e.createdAt) < e.ttl
}

// RemainingTTL returns the time left before expiry (0 if expired)
func (e *Entry[T]) RemainingTTL() time.Duration {
	remaining := e.ttl - time.Since(e.createdAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Get returns the cached value if the entry is still valid
func (e *Entry[T]) Get() (T, bool) {
	if e.Valid() {
		return e.data, true
	}
	var zero T
	return zero, false
}

// TTLs holds the per-kind time-to-live settings
type TTLs struct {
	SpaceWeather time.Duration
	Forecast     time.Duration
	Spots        time.Duration
	Satellites   time.Duration
}

// DefaultTTLs returns the standard freshness windows for each data kind
func DefaultTTLs() TTLs {
	return TTLs{
		SpaceWeather: 30 * time.Minute,
		Forecast:     2 * time.Hour,
		Spots:        10 * time.Minute,
		Satellites:   15 * time.Minute,
	}
}

// ResponseCache shields the detection cycle and its upstream sources from
// redundant expensive fetches. Expiry is checked lazily at read time; a fetch
// failure simply leaves the stale or absent entry in place.
type ResponseCache struct {
	mu   sync.Mutex
	ttls TTLs
	log  *logger.Logger

	spaceWeather *Entry[models.SpaceWeather]
	forecast     *Entry[[]models.ForecastDay]
	spots        *Entry[[]models.Spot]
	satellites   *Entry[[]models.SatelliteObservation]
}

// New creates a response cache with the given per-kind TTLs
func New(ttls TTLs) *ResponseCache {
	return &ResponseCache{
		ttls: ttls,
		log:  logger.GetGlobalLogger().WithComponent("cache"),
	}
}

// PutSpaceWeather replaces the cached space weather entry
func (c *ResponseCache) PutSpaceWeather(data models.SpaceWeather) {
	c.mu.Lock()
	c.spaceWeather = NewEntry(data, c.ttls.SpaceWeather)
	c.mu.Unlock()
	c.log.Debugf("Cached space weather (TTL: %s)", c.ttls.SpaceWeather)
}

// GetSpaceWeather returns the cached space weather if still valid
func (c *ResponseCache) GetSpaceWeather() (models.SpaceWeather, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.spaceWeather == nil {
		c.log.Debug("Cache MISS: space weather")
		return models.SpaceWeather{}, false
	}
	data, ok := c.spaceWeather.Get()
	if !ok {
		c.log.Debug("Cache EXPIRED: space weather")
		return models.SpaceWeather{}, false
	}
	c.log.Debugf("Cache HIT: space weather (remaining: %s)", c.spaceWeather.RemainingTTL())
	return data, true
}

// PutForecast replaces the cached forecast entry
func (c *ResponseCache) PutForecast(data []models.ForecastDay) {
	c.mu.Lock()
	c.forecast = NewEntry(data, c.ttls.Forecast)
	c.mu.Unlock()
	c.log.Debugf("Cached forecast (TTL: %s)", c.ttls.Forecast)
}

// GetForecast returns the cached forecast if still valid
func (c *ResponseCache) GetForecast() ([]models.ForecastDay, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.forecast == nil {
		return nil, false
	}
	return c.forecast.Get()
}

// PutSpots replaces the cached spot list
func (c *ResponseCache) PutSpots(data []models.Spot) {
	c.mu.Lock()
	c.spots = NewEntry(data, c.ttls.Spots)
	c.mu.Unlock()
	c.log.Debugf("Cached spots (TTL: %s)", c.ttls.Spots)
}

// GetSpots returns the cached spot list if still valid
func (c *ResponseCache) GetSpots() ([]models.Spot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.spots == nil {
		return nil, false
	}
	return c.spots.Get()
}

// PutSatellites replaces the cached satellite observations
func (c *ResponseCache) PutSatellites(data []models.SatelliteObservation) {
	c.mu.Lock()
	c.satellites = NewEntry(data, c.ttls.Satellites)
	c.mu.Unlock()
	c.log.Debugf("Cached satellites (TTL: %s)", c.ttls.Satellites)
}

// GetSatellites returns the cached satellite observations if still valid
func (c *ResponseCache) GetSatellites() ([]models.SatelliteObservation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.satellites == nil {
		return nil, false
	}
	return c.satellites.Get()
}

// ClearAll drops every cached entry
func (c *ResponseCache) ClearAll() {
	c.mu.Lock()
	c.spaceWeather = nil
	c.forecast = nil
	c.spots = nil
	c.satellites = nil
	c.mu.Unlock()
	c.log.Info("All caches cleared")
}

// Stats reports which kinds currently hold valid entries
type Stats struct {
	SpaceWeatherCached bool `json:"space_weather_cached"`
	ForecastCached     bool `json:"forecast_cached"`
	SpotsCached        bool `json:"spots_cached"`
	SatellitesCached   bool `json:"satellites_cached"`
	TotalCached        int  `json:"total_cached"`
}

// GetStats returns current cache validity per data kind
func (c *ResponseCache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	valid := func(ok bool) int {
		if ok {
			return 1
		}
		return 0
	}

	stats := Stats{
		SpaceWeatherCached: c.spaceWeather != nil && c.spaceWeather.Valid(),
		ForecastCached:     c.forecast != nil && c.forecast.Valid(),
		SpotsCached:        c.spots != nil && c.spots.Valid(),
		SatellitesCached:   c.satellites != nil && c.satellites.Valid(),
	}
	stats.TotalCached = valid(stats.SpaceWeatherCached) + valid(stats.ForecastCached) +
		valid(stats.SpotsCached) + valid(stats.SatellitesCached)
	return stats
}
