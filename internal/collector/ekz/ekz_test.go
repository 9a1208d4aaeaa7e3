package ekz

import (
	"context"
	"net/url"
	"testing"
	"time"

	"wattfeed/internal/aliases"
	"wattfeed/internal/collector"
	"wattfeed/internal/models"

	"github.com/stretchr/testify/require"
)

const pricesShape = `{
  "publication_timestamp": "2026-02-27T17:00:00+01:00",
  "prices": [
    {
      "start_timestamp": "2026-02-28T00:00:00+01:00",
      "end_timestamp": "2026-02-28T00:15:00+01:00",
      "electricity": [
        {"unit": "CHF_m", "value": 4.2},
        {"unit": "CHF_kWh", "value": 0.2312}
      ]
    },
    {
      "start_timestamp": "2026-02-28T00:15:00+01:00",
      "electricity": [
        {"unit": "CHF_kWh", "value": 0.2289}
      ]
    },
    {
      "start_timestamp": "2026-02-28T00:30:00+01:00",
      "electricity": [
        {"unit": "CHF_m", "value": 4.2}
      ]
    },
    {
      "electricity": [
        {"unit": "CHF_kWh", "value": 0.3}
      ]
    }
  ]
}`

const flatShape = `{
  "intervals": [
    {"startTime": "2026-02-28T00:00:00Z", "price": 0.21},
    {"startTime": "2026-02-28T00:15:00", "price": "0.22"},
    {"timestamp": "2026-02-28T00:30:00Z", "value": 0.23},
    {"startTime": "2026-02-28T00:45:00Z"}
  ]
}`

type fakeGetter struct {
	params url.Values
	body   []byte
}

func (f *fakeGetter) Get(_ context.Context, _ string, params url.Values) ([]byte, error) {
	f.params = params
	return f.body, nil
}

func TestParseTaggedPrices(t *testing.T) {
	c := New(Config{}, nil)
	records, err := c.Parse([]byte(pricesShape))
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, time.Date(2026, 2, 27, 23, 0, 0, 0, time.UTC), records[0].Time)
	require.InDelta(t, 0.2312, records[0].PriceCHFKWh, 1e-9)
	require.Equal(t, DefaultTariffType, records[0].TariffType)
	require.Equal(t, time.Date(2026, 2, 27, 23, 15, 0, 0, time.UTC), records[1].Time)
	require.NoError(t, collector.Validate(records))
}

func TestParseFlatIntervals(t *testing.T) {
	c := New(Config{TariffType: "dynamic_grid"}, nil)
	records, err := c.Parse([]byte(flatShape))
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.InDelta(t, 0.21, records[0].PriceCHFKWh, 1e-9)
	require.Equal(t, time.Date(2026, 2, 28, 0, 15, 0, 0, time.UTC), records[1].Time)
	require.InDelta(t, 0.22, records[1].PriceCHFKWh, 1e-9)
	require.InDelta(t, 0.23, records[2].PriceCHFKWh, 1e-9)
	require.Equal(t, "dynamic_grid", records[2].TariffType)
	for _, r := range records {
		require.Equal(t, time.UTC, r.Time.Location())
	}
}

func TestParseZeroRecordsIsNotAnError(t *testing.T) {
	c := New(Config{}, nil)

	records, err := c.Parse([]byte(`{"status": "ok", "message": "no data"}`))
	require.NoError(t, err)
	require.Empty(t, records)

	records, err = c.Parse([]byte(`{"prices": []}`))
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestParseMalformed(t *testing.T) {
	c := New(Config{}, nil)

	_, err := c.Parse([]byte(`<html>`))
	require.ErrorIs(t, err, collector.ErrParse)

	_, err = c.Parse([]byte(`{"prices": "soon"}`))
	require.ErrorIs(t, err, collector.ErrParse)
}

func TestParseCustomAliases(t *testing.T) {
	a := aliases.DefaultTariff()
	a.Start = []string{"begin"}
	a.KWhUnits = []string{"Rp_kWh"}
	c := New(Config{Aliases: a}, nil)

	records, err := c.Parse([]byte(`{"prices": [{"begin": "2026-02-28T00:00:00Z", "electricity": [{"unit": "Rp_kWh", "value": 23.1}]}]}`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.InDelta(t, 23.1, records[0].PriceCHFKWh, 1e-9)
}

func TestFetchParams(t *testing.T) {
	g := &fakeGetter{body: []byte(pricesShape)}
	c := New(Config{}, g)
	c.Now = func() time.Time { return time.Date(2026, 2, 28, 22, 30, 0, 0, time.UTC) }

	records, err := collector.Run[models.TariffRecord](context.Background(), c)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "2026-02-28", g.params.Get("date"))
	require.Equal(t, "dynamic", g.params.Get("tariffType"))

	c = New(Config{Date: "2026-03-01"}, g)
	_, err = c.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2026-03-01", g.params.Get("date"))
}
