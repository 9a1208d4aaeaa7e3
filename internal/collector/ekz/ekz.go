// Package ekz collects the EKZ dynamic electricity tariff
package ekz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wattfeed/internal/aliases"
	"wattfeed/internal/collector"
	"wattfeed/internal/logger"
	"wattfeed/internal/models"
)

const (
	// Name is the unique identifier of the tariff feed
	Name = "ekz"
	// DefaultURL is the EKZ tariff endpoint
	DefaultURL = "https://api.tariffs.ekz.ch/v1/tariffs"
	// DefaultTariffType selects the 15-minute dynamic tariff
	DefaultTariffType = "dynamic"

	dateLayout = "2006-01-02"
)

// Getter performs an outbound GET
type Getter interface {
	Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error)
}

// Config contains tariff feed settings
type Config struct {
	URL        string
	TariffType string
	// Date is YYYY-MM-DD; empty means today in UTC
	Date    string
	Aliases aliases.Tariff
}

// Collector implements collector.Collector for the dynamic tariff
type Collector struct {
	cfg    Config
	client Getter
	log    *logger.Entry
	// Now is the clock used to derive the default date
	Now collector.Clock
}

// New creates a new tariff collector. Empty alias lists select the defaults.
func New(cfg Config, client Getter) *Collector {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.TariffType == "" {
		cfg.TariffType = DefaultTariffType
	}
	if len(cfg.Aliases.Intervals) == 0 {
		cfg.Aliases = aliases.DefaultTariff()
	}

	return &Collector{
		cfg:    cfg,
		client: client,
		log:    logger.GetLogger().WithComponent(Name),
		Now:    collector.UTCNow,
	}
}

// Name returns the feed's unique identifier
func (c *Collector) Name() string {
	return Name
}

// Date returns the requested schedule date
func (c *Collector) Date() string {
	if c.cfg.Date != "" {
		return c.cfg.Date
	}
	return c.Now().UTC().Format(dateLayout)
}

// Fetch requests one day's tariff schedule
func (c *Collector) Fetch(ctx context.Context) ([]byte, error) {
	params := url.Values{
		"date":       {c.Date()},
		"tariffType": {c.cfg.TariffType},
	}

	c.log.WithFields(logger.Fields{
		"date":        params.Get("date"),
		"tariff_type": c.cfg.TariffType,
	}).Info("fetching tariff schedule")
	return c.client.Get(ctx, c.cfg.URL, params)
}

// Parse extracts one record per interval that has a start timestamp and a
// per-kWh price. Intervals lacking either are skipped.
func (c *Collector) Parse(raw []byte) ([]models.TariffRecord, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, collector.ParseErrorf("ekz: decode response: %v", err)
	}

	var intervals []any
	switch v := doc.(type) {
	case map[string]any:
		if list, ok := aliases.First(v, c.cfg.Aliases.Intervals); ok {
			intervals, ok = list.([]any)
			if !ok {
				return nil, collector.ParseErrorf("ekz: interval list is %T, not an array", list)
			}
		}
	case []any:
		intervals = v
	default:
		return nil, collector.ParseErrorf("ekz: unexpected top-level %T", doc)
	}

	records := make([]models.TariffRecord, 0, len(intervals))
	for _, item := range intervals {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ts, ok := c.start(entry)
		if !ok {
			continue
		}
		price, ok := c.price(entry)
		if !ok {
			continue
		}
		records = append(records, models.TariffRecord{
			Time:        ts,
			TariffType:  c.cfg.TariffType,
			PriceCHFKWh: price,
		})
	}

	if len(records) == 0 {
		fields := logger.Fields{"intervals": len(intervals)}
		if m, ok := doc.(map[string]any); ok {
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			fields["keys"] = keys
		}
		c.log.WithFields(fields).Warn("tariff response produced no records")
	}
	return records, nil
}

func (c *Collector) start(entry map[string]any) (time.Time, bool) {
	v, ok := aliases.First(entry, c.cfg.Aliases.Start)
	if !ok {
		return time.Time{}, false
	}
	t, err := parseTimestamp(v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// price prefers a kWh-tagged sub-value over a flat price field
func (c *Collector) price(entry map[string]any) (float64, bool) {
	a := c.cfg.Aliases
	for _, group := range a.TaggedGroups {
		values, ok := entry[group].([]any)
		if !ok {
			continue
		}
		for _, tv := range values {
			tagged, ok := tv.(map[string]any)
			if !ok {
				continue
			}
			unit, _ := tagged[a.TagKey].(string)
			if !aliases.Contains(a.KWhUnits, unit) {
				continue
			}
			if f, ok := toFloat(tagged[a.TagValueKey]); ok {
				return f, true
			}
		}
	}

	if v, ok := aliases.First(entry, a.FlatPrice); ok {
		return toFloat(v)
	}
	return 0, false
}

// parseTimestamp accepts RFC 3339, naive ISO-8601 (read as UTC) and epoch seconds
func parseTimestamp(v any) (time.Time, error) {
	switch ts := v.(type) {
	case string:
		s := strings.TrimSpace(ts)
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC(), nil
		}
		for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05"} {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
	case float64:
		return time.Unix(int64(ts), 0).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
