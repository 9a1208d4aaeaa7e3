package postgres

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  *float64
	}{
		{name: "nil", input: nil, want: nil},
		{name: "float64", input: 1.5, want: f(1.5)},
		{name: "float32", input: float32(0.5), want: f(0.5)},
		{name: "int16", input: int16(7), want: f(7)},
		{name: "int32", input: int32(-3), want: f(-3)},
		{name: "int64", input: int64(168), want: f(168)},
		{name: "bool true", input: true, want: f(1)},
		{name: "bool false", input: false, want: f(0)},
		{name: "numeric", input: pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}, want: f(123.45)},
		{name: "null numeric", input: pgtype.Numeric{}, want: nil},
		{name: "numeric string", input: "2.25", want: f(2.25)},
		{name: "text", input: "peak", want: nil},
		{name: "nan", input: math.NaN(), want: nil},
		{name: "timestamp", input: time.Now(), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toFloat64(tt.input)
			if tt.want == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestSerialize(t *testing.T) {
	zurich := time.FixedZone("CET", 3600)
	ts := time.Date(2026, 2, 28, 1, 0, 0, 0, zurich)

	require.Equal(t, "2026-02-28T00:00:00Z", serialize(ts))
	require.Nil(t, serialize(nil))
	require.Equal(t, "EUR", serialize("EUR"))
	require.InDelta(t, 1.5, serialize(pgtype.Numeric{Int: big.NewInt(15), Exp: -1, Valid: true}).(float64), 1e-9)
}

func TestAllowedTable(t *testing.T) {
	require.True(t, allowedTable(TablePrices))
	require.True(t, allowedTable(ViewFeatures))
	require.False(t, allowedTable("pg_user"))
	require.False(t, allowedTable("entsoe"))
}

func f(v float64) *float64 { return &v }
