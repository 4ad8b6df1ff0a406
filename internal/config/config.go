package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the skywatch alert service.
// It is constructed once at startup and passed by reference to every
// component constructor; nothing mutates it afterwards.
type Config struct {
	// Detection cycle
	DetectInterval int `env:"DETECT_INTERVAL_SECONDS,default=60"`

	// Spot alerts
	SpotAlertsEnabled bool      `env:"SPOT_ALERTS_ENABLED,default=true"`
	WatchedBands      []float64 `env:"WATCHED_BANDS,default=14.074,7.074,3.573"`
	WatchedModes      []string  `env:"WATCHED_MODES,default=FT8,CW"`
	SpotMinFrequency  float64   `env:"SPOT_MIN_FREQUENCY,default=0"`
	SpotMaxFrequency  float64   `env:"SPOT_MAX_FREQUENCY,default=0"`

	// Satellite pass alerts
	SatelliteAlertsEnabled      bool     `env:"SATELLITE_ALERTS_ENABLED,default=true"`
	SatelliteElevationThreshold float64  `env:"SATELLITE_ELEVATION_THRESHOLD,default=30"`
	WatchedSatellites           []string `env:"WATCHED_SATELLITES,default=ISS,SO-50"`
	SatelliteCountdownEnabled   bool     `env:"SATELLITE_COUNTDOWN_ENABLED,default=true"`

	// Space weather alerts
	SpaceWeatherAlertsEnabled bool     `env:"SPACE_WEATHER_ALERTS_ENABLED,default=true"`
	KpAlertThreshold          float64  `env:"KP_ALERT_THRESHOLD,default=5"`
	KpSpikeThreshold          float64  `env:"KP_SPIKE_THRESHOLD,default=2"`
	XRayAlertClasses          []string `env:"XRAY_ALERT_CLASSES,default=M,X"`
	CMEAlertsEnabled          bool     `env:"CME_ALERTS_ENABLED,default=true"`

	// Alert lifecycle
	AlertDurationSeconds int `env:"ALERT_DURATION_SECONDS,default=30"`

	// History sink
	HistoryEnabled       bool   `env:"HISTORY_ENABLED,default=true"`
	HistoryDBPath        string `env:"HISTORY_DB_PATH,default=./skywatch_alerts.db"`
	HistoryRetentionDays int    `env:"HISTORY_RETENTION_DAYS,default=30"`
	HistoryMaxEntries    int    `env:"HISTORY_MAX_ENTRIES,default=10000"`

	// History archive export (optional)
	ArchiveEnabled bool   `env:"ARCHIVE_ENABLED,default=false"`
	ArchiveBackend string `env:"ARCHIVE_BACKEND,default=local"`
	ArchiveDir     string `env:"ARCHIVE_DIR,default=./archive"`
	GCSBucket      string `env:"GCS_BUCKET"`

	// Desktop notification sink
	NotificationsEnabled    bool   `env:"NOTIFICATIONS_ENABLED,default=true"`
	NotificationMinSeverity string `env:"NOTIFICATION_MIN_SEVERITY,default=Notice"`

	// Broker publisher sink
	MQTTEnabled     bool   `env:"MQTT_ENABLED,default=false"`
	MQTTBrokerURL   string `env:"MQTT_BROKER_URL,default=tcp://localhost:1883"`
	MQTTClientID    string `env:"MQTT_CLIENT_ID,default=skywatch"`
	MQTTTopicPrefix string `env:"MQTT_TOPIC_PREFIX,default=skywatch/alerts"`
	MQTTQoS         int    `env:"MQTT_QOS,default=1"`

	// Live dashboard
	DashboardEnabled bool   `env:"DASHBOARD_ENABLED,default=true"`
	DashboardAddr    string `env:"DASHBOARD_ADDR,default=:8982"`

	// Data source URLs. Spot and satellite feeds are produced by external
	// collaborators; an empty URL disables that source.
	NOAAKIndexURL  string `env:"NOAA_K_INDEX_URL,default=https://services.swpc.noaa.gov/products/noaa-planetary-k-index.json"`
	NOAASolarURL   string `env:"NOAA_SOLAR_URL,default=https://services.swpc.noaa.gov/json/solar-cycle/observed-solar-cycle-indices.json"`
	N0NBHSolarURL  string `env:"N0NBH_SOLAR_URL,default=https://www.hamqsl.com/solarapi.php?format=json"`
	AdvisoryRSSURL string `env:"ADVISORY_RSS_URL,default=https://www.sidc.be/products/meu"`
	SpotFeedURL    string `env:"SPOT_FEED_URL"`
	SatFeedURL     string `env:"SAT_FEED_URL"`

	// Cache TTLs in minutes
	SpaceWeatherTTL int `env:"SPACE_WEATHER_TTL_MINUTES,default=30"`
	ForecastTTL     int `env:"FORECAST_TTL_MINUTES,default=120"`
	SpotsTTL        int `env:"SPOTS_TTL_MINUTES,default=10"`
	SatellitesTTL   int `env:"SATELLITES_TTL_MINUTES,default=15"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}
