// Package bafu collects river discharge and level readings (BAFU data via existenz.ch)
package bafu

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"wattfeed/internal/aliases"
	"wattfeed/internal/collector"
	"wattfeed/internal/logger"
	"wattfeed/internal/models"
)

const (
	// Name is the unique identifier of the hydrology feed
	Name = "bafu"
	// DefaultURL is the existenz.ch hydro date-range endpoint
	DefaultURL = "https://api.existenz.ch/apiv1/hydro/daterange"
	// DefaultStationID is Rhein-Rekingen
	DefaultStationID = "2018"
	// DefaultDaysBack is the trailing window in days
	DefaultDaysBack = 2
	// DefaultApp identifies the caller to the API
	DefaultApp = "bdsp"

	dateLayout = "2006-01-02"
)

// Getter performs an outbound GET
type Getter interface {
	Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error)
}

// Config contains hydrology feed settings
type Config struct {
	URL       string
	StationID string
	DaysBack  int
	App       string
	Aliases   aliases.Hydro
}

// Collector implements collector.Collector for hydrology readings
type Collector struct {
	cfg    Config
	client Getter
	log    *logger.Entry
	// Now is the clock used to derive the trailing window
	Now collector.Clock
}

// New creates a new hydrology collector. Empty alias lists select the defaults.
func New(cfg Config, client Getter) *Collector {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.StationID == "" {
		cfg.StationID = DefaultStationID
	}
	if cfg.DaysBack <= 0 {
		cfg.DaysBack = DefaultDaysBack
	}
	if cfg.App == "" {
		cfg.App = DefaultApp
	}
	if len(cfg.Aliases.Payload) == 0 {
		cfg.Aliases = aliases.DefaultHydro()
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

// Fetch requests discharge and level for the trailing window ending today
func (c *Collector) Fetch(ctx context.Context) ([]byte, error) {
	now := c.Now().UTC()
	params := url.Values{
		"locations":  {c.cfg.StationID},
		"parameters": {"flow,height"},
		"startdate":  {now.AddDate(0, 0, -c.cfg.DaysBack).Format(dateLayout)},
		"enddate":    {now.Format(dateLayout)},
		"app":        {c.cfg.App},
		"version":    {"0.1"},
	}

	c.log.WithFields(logger.Fields{
		"station":   c.cfg.StationID,
		"startdate": params.Get("startdate"),
		"enddate":   params.Get("enddate"),
	}).Info("fetching hydrology readings")
	return c.client.Get(ctx, c.cfg.URL, params)
}

// Parse merges readings sharing an epoch timestamp into one record and
// returns them sorted ascending. Interleaved entries ({timestamp, par, val})
// and pre-merged entries ({timestamp, flow, height}) are both accepted.
func (c *Collector) Parse(raw []byte) ([]models.HydroRecord, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, collector.ParseErrorf("bafu: decode response: %v", err)
	}

	a := c.cfg.Aliases
	var payload []any
	if v, ok := aliases.First(doc, a.Payload); ok {
		list, ok := v.([]any)
		if !ok {
			return nil, collector.ParseErrorf("bafu: payload is %T, not an array", v)
		}
		payload = list
	}

	if len(payload) == 0 {
		keys := make([]string, 0, len(doc))
		for k := range doc {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		c.log.WithFields(logger.Fields{"keys": keys}).Warn("empty payload")
		return []models.HydroRecord{}, nil
	}

	byTS := make(map[int64]*models.HydroRecord)
	for _, item := range payload {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rawTS, ok := aliases.First(entry, a.Timestamp)
		if !ok {
			continue
		}
		epoch, ok := toEpoch(rawTS)
		if !ok {
			continue
		}

		rec, seen := byTS[epoch]
		if !seen {
			rec = &models.HydroRecord{
				Time:      time.Unix(epoch, 0).UTC(),
				StationID: c.cfg.StationID,
			}
		}

		if par, ok := aliases.First(entry, a.Parameter); ok {
			name, _ := par.(string)
			val, _ := aliases.First(entry, a.Value)
			switch {
			case aliases.Contains(a.DischargeTags, name):
				rec.DischargeM3s = toFloat(val)
			case aliases.Contains(a.LevelTags, name):
				rec.LevelMASL = toFloat(val)
			default:
				if !seen {
					continue
				}
			}
		} else {
			if v, ok := aliases.First(entry, a.DischargeFields); ok {
				rec.DischargeM3s = toFloat(v)
			}
			if v, ok := aliases.First(entry, a.LevelFields); ok {
				rec.LevelMASL = toFloat(v)
			}
		}
		byTS[epoch] = rec
	}

	records := make([]models.HydroRecord, 0, len(byTS))
	for _, rec := range byTS {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Time.Before(records[j].Time)
	})
	return records, nil
}

// toEpoch reads Unix seconds from a JSON number or numeric string
func toEpoch(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func toFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
