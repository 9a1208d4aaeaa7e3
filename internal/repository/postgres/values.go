package postgres

import (
	"math"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// toFloat64 converts a decoded column value into a nullable float.
// Booleans map to 0/1; unsupported types and NaN numerics map to nil.
func toFloat64(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case int:
		f = float64(n)
	case bool:
		if n {
			f = 1
		}
	case pgtype.Numeric:
		fv, err := n.Float64Value()
		if err != nil || !fv.Valid {
			return nil
		}
		f = fv.Float64
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

// serialize converts a decoded column value into a JSON-friendly value
func serialize(v any) any {
	switch n := v.(type) {
	case nil:
		return nil
	case time.Time:
		return n.UTC().Format(time.RFC3339)
	case pgtype.Numeric:
		if f := toFloat64(n); f != nil {
			return *f
		}
		return nil
	default:
		return v
	}
}
