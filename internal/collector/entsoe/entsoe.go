// Package entsoe collects day-ahead prices from the ENTSO-E transparency platform
package entsoe

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wattfeed/internal/collector"
	"wattfeed/internal/logger"
	"wattfeed/internal/models"
)

const (
	// Name is the unique identifier of the price feed
	Name = "entsoe"
	// DefaultURL is the ENTSO-E REST endpoint
	DefaultURL = "https://web-api.tp.entsoe.eu/api"
	// DefaultDomain is the Swissgrid bidding zone
	DefaultDomain = "10YCH-SWISSGRIDZ"
	// DocumentTypeDayAhead is document type A44, day-ahead prices
	DocumentTypeDayAhead = "A44"

	periodLayout = "200601021504"
)

// ErrMissingToken is returned when no security token is configured
var ErrMissingToken = errors.New("entsoe: security token is required")

// Getter performs an outbound GET
type Getter interface {
	Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error)
}

// Config contains price feed settings
type Config struct {
	Token  string
	URL    string
	Domain string
	// PeriodStart and PeriodEnd bound the requested window; zero values
	// default to today 00:00 UTC through tomorrow 00:00 UTC.
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// Collector implements collector.Collector for day-ahead prices
type Collector struct {
	cfg    Config
	client Getter
	log    *logger.Entry
	// Now is the clock used to derive the default window
	Now collector.Clock
}

// New creates a new price feed collector
func New(cfg Config, client Getter) (*Collector, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrMissingToken
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Domain == "" {
		cfg.Domain = DefaultDomain
	}

	return &Collector{
		cfg:    cfg,
		client: client,
		log:    logger.GetLogger().WithComponent(Name),
		Now:    collector.UTCNow,
	}, nil
}

// Name returns the feed's unique identifier
func (c *Collector) Name() string {
	return Name
}

// Window returns the UTC period requested by Fetch
func (c *Collector) Window() (time.Time, time.Time) {
	start, end := c.cfg.PeriodStart, c.cfg.PeriodEnd
	if start.IsZero() {
		now := c.Now().UTC()
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if end.IsZero() {
		end = start.Add(24 * time.Hour)
	}
	return start.UTC(), end.UTC()
}

// Fetch requests the day-ahead price document for the configured window
func (c *Collector) Fetch(ctx context.Context) ([]byte, error) {
	start, end := c.Window()
	params := url.Values{
		"securityToken": {c.cfg.Token},
		"documentType":  {DocumentTypeDayAhead},
		"in_Domain":     {c.cfg.Domain},
		"out_Domain":    {c.cfg.Domain},
		"periodStart":   {start.Format(periodLayout)},
		"periodEnd":     {end.Format(periodLayout)},
	}

	c.log.WithFields(logger.Fields{
		"domain": c.cfg.Domain,
		"start":  start.Format(time.RFC3339),
		"end":    end.Format(time.RFC3339),
	}).Info("fetching day-ahead prices")
	return c.client.Get(ctx, c.cfg.URL, params)
}

// publicationDocument mirrors the parts of Publication_MarketDocument we read.
// Tags carry no namespace so every document version decodes. The root name is
// not enforced: an Acknowledgement_MarketDocument ("no matching data") yields
// zero series.
type publicationDocument struct {
	XMLName    xml.Name
	TimeSeries []timeSeries `xml:"TimeSeries"`
}

type timeSeries struct {
	Currency *string  `xml:"currency_Unit.name"`
	Periods  []period `xml:"Period"`
}

type period struct {
	TimeInterval *struct {
		Start *string `xml:"start"`
	} `xml:"timeInterval"`
	Resolution *string `xml:"resolution"`
	Points     []point `xml:"Point"`
}

type point struct {
	Position *string `xml:"position"`
	Price    *string `xml:"price.amount"`
}

// Parse converts a Publication_MarketDocument into price records.
// Series, periods and points missing required elements are skipped.
func (c *Collector) Parse(raw []byte) ([]models.PriceRecord, error) {
	var doc publicationDocument
	dec := xml.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		return nil, collector.ParseErrorf("entsoe: decode document: %v", err)
	}

	records := make([]models.PriceRecord, 0)
	skipped := 0
	for _, ts := range doc.TimeSeries {
		currency := "EUR"
		if ts.Currency != nil && strings.TrimSpace(*ts.Currency) != "" {
			currency = strings.TrimSpace(*ts.Currency)
		}

		for _, p := range ts.Periods {
			if p.TimeInterval == nil || p.TimeInterval.Start == nil {
				skipped++
				continue
			}
			start, err := parseTimestamp(*p.TimeInterval.Start)
			if err != nil {
				skipped++
				continue
			}

			resolution := "PT60M"
			if p.Resolution != nil {
				resolution = strings.TrimSpace(*p.Resolution)
			}
			step := time.Duration(ResolutionMinutes(resolution)) * time.Minute

			for _, pt := range p.Points {
				if pt.Position == nil || pt.Price == nil {
					skipped++
					continue
				}
				position, err := strconv.Atoi(strings.TrimSpace(*pt.Position))
				if err != nil {
					skipped++
					continue
				}
				price, err := strconv.ParseFloat(strings.TrimSpace(*pt.Price), 64)
				if err != nil {
					skipped++
					continue
				}

				records = append(records, models.PriceRecord{
					Time:        start.Add(time.Duration(position-1) * step),
					PriceEURMWh: price,
					Currency:    currency,
					Domain:      c.cfg.Domain,
				})
			}
		}
	}

	if len(doc.TimeSeries) == 0 {
		c.log.WithFields(logger.Fields{"root": doc.XMLName.Local}).Warn("document contains no time series")
	}
	if skipped > 0 {
		c.log.WithFields(logger.Fields{"skipped": skipped}).Warn("skipped incomplete elements")
	}
	return records, nil
}

// ResolutionMinutes maps an ISO-8601 resolution token to minutes; unknown tokens map to 60
func ResolutionMinutes(resolution string) int {
	switch resolution {
	case "PT15M":
		return 15
	case "PT30M":
		return 30
	case "PT60M":
		return 60
	case "P1D":
		return 1440
	default:
		return 60
	}
}

// parseTimestamp accepts minute-precision ("2026-02-28T00:00Z") and RFC 3339 timestamps
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("2006-01-02T15:04Z07:00", s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}
