// Package openmeteo collects hourly weather forecasts from open-meteo.com
package openmeteo

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wattfeed/internal/collector"
	"wattfeed/internal/logger"
	"wattfeed/internal/models"
)

const (
	// Name is the unique identifier of the weather feed
	Name = "openmeteo"
	// DefaultURL is the forecast endpoint
	DefaultURL = "https://api.open-meteo.com/v1/forecast"
	// DefaultLatitude and DefaultLongitude point at Winterthur
	DefaultLatitude  = 47.5001
	DefaultLongitude = 8.7502
	// DefaultForecastDays is the number of days requested
	DefaultForecastDays = 2

	hourlyVariables = "temperature_2m,wind_speed_10m,shortwave_radiation,cloud_cover"
	timeLayout      = "2006-01-02T15:04"
)

// Getter performs an outbound GET
type Getter interface {
	Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error)
}

// Config contains weather feed settings
type Config struct {
	URL          string
	Latitude     float64
	Longitude    float64
	ForecastDays int
}

// Collector implements collector.Collector for weather forecasts
type Collector struct {
	cfg    Config
	client Getter
	log    *logger.Entry
}

// New creates a new weather collector. Zero coordinates select the defaults.
func New(cfg Config, client Getter) *Collector {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Latitude == 0 && cfg.Longitude == 0 {
		cfg.Latitude = DefaultLatitude
		cfg.Longitude = DefaultLongitude
	}
	if cfg.ForecastDays <= 0 {
		cfg.ForecastDays = DefaultForecastDays
	}

	return &Collector{
		cfg:    cfg,
		client: client,
		log:    logger.GetLogger().WithComponent(Name),
	}
}

// Name returns the feed's unique identifier
func (c *Collector) Name() string {
	return Name
}

// Fetch requests the hourly forecast, with timestamps in UTC
func (c *Collector) Fetch(ctx context.Context) ([]byte, error) {
	params := url.Values{
		"latitude":      {strconv.FormatFloat(c.cfg.Latitude, 'f', -1, 64)},
		"longitude":     {strconv.FormatFloat(c.cfg.Longitude, 'f', -1, 64)},
		"hourly":        {hourlyVariables},
		"forecast_days": {strconv.Itoa(c.cfg.ForecastDays)},
		"timezone":      {"UTC"},
	}

	c.log.WithFields(logger.Fields{
		"latitude":      c.cfg.Latitude,
		"longitude":     c.cfg.Longitude,
		"forecast_days": c.cfg.ForecastDays,
	}).Info("fetching weather forecast")
	return c.client.Get(ctx, c.cfg.URL, params)
}

type forecastResponse struct {
	Hourly struct {
		Time               []string `json:"time"`
		Temperature2m      []any    `json:"temperature_2m"`
		WindSpeed10m       []any    `json:"wind_speed_10m"`
		ShortwaveRadiation []any    `json:"shortwave_radiation"`
		CloudCover         []any    `json:"cloud_cover"`
	} `json:"hourly"`
}

// Parse converts the parallel hourly arrays into one record per time entry.
// A missing or non-numeric value yields a nil field for that record only.
func (c *Collector) Parse(raw []byte) ([]models.WeatherRecord, error) {
	var resp forecastResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, collector.ParseErrorf("openmeteo: decode response: %v", err)
	}

	h := resp.Hourly
	records := make([]models.WeatherRecord, 0, len(h.Time))
	for i, ts := range h.Time {
		t, err := parseTime(ts)
		if err != nil {
			return nil, collector.ParseErrorf("openmeteo: time[%d] %q: %v", i, ts, err)
		}
		records = append(records, models.WeatherRecord{
			Time:               t,
			Latitude:           c.cfg.Latitude,
			Longitude:          c.cfg.Longitude,
			Temperature2m:      safeFloat(h.Temperature2m, i),
			WindSpeed10m:       safeFloat(h.WindSpeed10m, i),
			ShortwaveRadiation: safeFloat(h.ShortwaveRadiation, i),
			CloudCover:         safeFloat(h.CloudCover, i),
		})
	}

	if len(records) == 0 {
		c.log.Warn("forecast contains no hourly entries")
	}
	return records, nil
}

// parseTime reads the naive local timestamps returned for timezone=UTC
func parseTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(timeLayout, s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func safeFloat(values []any, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	switch v := values[i].(type) {
	case float64:
		return &v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
