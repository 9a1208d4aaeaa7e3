package models

import "time"

// Record is a canonical reading produced by a collector. RecordTime returns
// the reading's timestamp, which must be normalized to UTC.
type Record interface {
	RecordTime() time.Time
}

// PriceRecord represents one day-ahead price point, keyed by (time, domain)
type PriceRecord struct {
	Time        time.Time `json:"time" db:"time"`
	PriceEURMWh float64   `json:"price_eur_mwh" db:"price_eur_mwh"`
	Currency    string    `json:"currency" db:"currency"`
	Domain      string    `json:"domain" db:"domain"`
}

// RecordTime implements Record
func (r PriceRecord) RecordTime() time.Time { return r.Time }

// WeatherRecord represents one hourly forecast row, keyed by (time, latitude, longitude)
type WeatherRecord struct {
	Time               time.Time `json:"time" db:"time"`
	Latitude           float64   `json:"latitude" db:"latitude"`
	Longitude          float64   `json:"longitude" db:"longitude"`
	Temperature2m      *float64  `json:"temperature_2m" db:"temperature_2m"`
	WindSpeed10m       *float64  `json:"wind_speed_10m" db:"wind_speed_10m"`
	ShortwaveRadiation *float64  `json:"shortwave_radiation" db:"shortwave_radiation"`
	CloudCover         *float64  `json:"cloud_cover" db:"cloud_cover"`
}

// RecordTime implements Record
func (r WeatherRecord) RecordTime() time.Time { return r.Time }

// TariffRecord represents one dynamic tariff interval, keyed by (time, tariff_type)
type TariffRecord struct {
	Time        time.Time `json:"time" db:"time"`
	TariffType  string    `json:"tariff_type" db:"tariff_type"`
	PriceCHFKWh float64   `json:"price_chf_kwh" db:"price_chf_kwh"`
}

// RecordTime implements Record
func (r TariffRecord) RecordTime() time.Time { return r.Time }

// HydroRecord represents one hydrology reading, keyed by (time, station_id)
type HydroRecord struct {
	Time         time.Time `json:"time" db:"time"`
	StationID    string    `json:"station_id" db:"station_id"`
	DischargeM3s *float64  `json:"discharge_m3s" db:"discharge_m3s"`
	LevelMASL    *float64  `json:"level_masl" db:"level_masl"`
}

// RecordTime implements Record
func (r HydroRecord) RecordTime() time.Time { return r.Time }
