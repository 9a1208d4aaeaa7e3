// Package aliases holds the field-name candidates used to read feeds whose
// response shape has changed across provider versions.
package aliases

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tariff lists candidate keys for the dynamic tariff feed
type Tariff struct {
	// Intervals are the keys of the top-level interval list
	Intervals []string `yaml:"intervals"`
	// Start are the keys of an interval's start timestamp
	Start []string `yaml:"start"`
	// TaggedGroups are the keys of lists of {unit, value} sub-values
	TaggedGroups []string `yaml:"tagged_groups"`
	// TagKey names the unit field inside a tagged sub-value
	TagKey string `yaml:"tag_key"`
	// TagValueKey names the value field inside a tagged sub-value
	TagValueKey string `yaml:"tag_value_key"`
	// KWhUnits are the unit tags of a per-kWh energy price
	KWhUnits []string `yaml:"kwh_units"`
	// FlatPrice are the keys of a plain price on the interval itself
	FlatPrice []string `yaml:"flat_price"`
}

// Hydro lists candidate keys for the hydrology feed
type Hydro struct {
	Payload   []string `yaml:"payload"`
	Timestamp []string `yaml:"timestamp"`
	Parameter []string `yaml:"parameter"`
	Value     []string `yaml:"value"`
	// DischargeTags and LevelTags are parameter values of interleaved entries
	DischargeTags []string `yaml:"discharge_tags"`
	LevelTags     []string `yaml:"level_tags"`
	// DischargeFields and LevelFields are keys of pre-merged entries
	DischargeFields []string `yaml:"discharge_fields"`
	LevelFields     []string `yaml:"level_fields"`
}

// Set groups the alias lists of all feeds
type Set struct {
	Tariff Tariff `yaml:"tariff"`
	Hydro  Hydro  `yaml:"hydro"`
}

// DefaultTariff returns the built-in tariff aliases
func DefaultTariff() Tariff {
	return Tariff{
		Intervals:    []string{"prices", "intervals", "data"},
		Start:        []string{"start_timestamp", "startTime", "timestamp", "time"},
		TaggedGroups: []string{"electricity"},
		TagKey:       "unit",
		TagValueKey:  "value",
		KWhUnits:     []string{"CHF_kWh"},
		FlatPrice:    []string{"price", "value"},
	}
}

// DefaultHydro returns the built-in hydrology aliases
func DefaultHydro() Hydro {
	return Hydro{
		Payload:         []string{"payload"},
		Timestamp:       []string{"timestamp"},
		Parameter:       []string{"par"},
		Value:           []string{"val"},
		DischargeTags:   []string{"flow"},
		LevelTags:       []string{"height"},
		DischargeFields: []string{"flow", "discharge", "discharge_m3s"},
		LevelFields:     []string{"height", "level", "level_masl"},
	}
}

// Default returns the built-in alias set
func Default() Set {
	return Set{Tariff: DefaultTariff(), Hydro: DefaultHydro()}
}

// Load overlays the YAML file at path on the defaults. Lists present in the
// file replace the default list; absent keys keep their default.
// An empty path returns the defaults.
func Load(path string) (Set, error) {
	set := Default()
	if path == "" {
		return set, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("failed to read alias file: %w", err)
	}
	if err := yaml.Unmarshal(data, &set); err != nil {
		return Set{}, fmt.Errorf("failed to parse alias file: %w", err)
	}
	return set, nil
}

// First returns the value of the first candidate key present and non-null in m
func First(m map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Contains reports whether s is one of values
func Contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
