package postgres

import (
	"strings"

	"github.com/lib/pq"
)

// Source tables and the derived feature view
const (
	TablePrices   = "entsoe_day_ahead_prices"
	TableWeather  = "weather_hourly"
	TableTariffs  = "ekz_tariffs_raw"
	TableHydro    = "bafu_hydro"
	ViewFeatures  = "training_features"
	featureLagCol = "lag_24h"
)

// Tables maps the dashboard key of every explorable relation to its name
var Tables = map[string]string{
	"entsoe":   TablePrices,
	"weather":  TableWeather,
	"ekz":      TableTariffs,
	"bafu":     TableHydro,
	"features": ViewFeatures,
}

// allowedTable reports whether name is one of the whitelisted relations
func allowedTable(name string) bool {
	for _, t := range Tables {
		if t == name {
			return true
		}
	}
	return false
}

// quoteQualified quotes each dot-separated part of a possibly
// schema-qualified relation name
func quoteQualified(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}
