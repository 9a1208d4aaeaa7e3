package export

// TargetColumn is the prediction target
const TargetColumn = "price_eur_mwh"

// DefaultFeatureColumns lists the model inputs in artifact column order
var DefaultFeatureColumns = []string{
	"lag_1h",
	"lag_2h",
	"lag_24h",
	"lag_168h",
	"rolling_avg_24h",
	"rolling_avg_7d",
	"hour_of_day",
	"day_of_week",
	"month",
	"is_weekend",
	"is_peak_hour",
	"temperature_2m",
	"wind_speed_10m",
	"shortwave_radiation",
	"cloud_cover",
	"temp_rolling_avg_24h",
	"discharge_m3s",
	"level_masl",
	"ekz_price_chf_kwh_avg",
}

// FeatureColumns returns a copy of the default feature list
func FeatureColumns() []string {
	out := make([]string, len(DefaultFeatureColumns))
	copy(out, DefaultFeatureColumns)
	return out
}
