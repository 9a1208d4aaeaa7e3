package export

import (
	"testing"
	"time"

	"wattfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlyRows(n int) []models.FeatureRow {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]models.FeatureRow, n)
	for i := range rows {
		price := float64(50 + i%30)
		feature := float64(i % 10)
		values := map[string]*float64{TargetColumn: &price}
		for _, col := range DefaultFeatureColumns {
			v := feature
			values[col] = &v
		}
		rows[i] = models.FeatureRow{Time: start.Add(time.Duration(i) * time.Hour), Values: values}
	}
	return rows
}

func TestSplitChronological(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		ratio     float64
		wantTrain int
		wantTest  int
		wantErr   bool
	}{
		{name: "80/20 on 100 rows", rows: 100, ratio: 0.2, wantTrain: 80, wantTest: 20},
		{name: "floor on the train side", rows: 10, ratio: 0.25, wantTrain: 7, wantTest: 3},
		{name: "two rows half split", rows: 2, ratio: 0.5, wantTrain: 1, wantTest: 1},
		{name: "ratio zero", rows: 50, ratio: 0, wantErr: true},
		{name: "ratio one", rows: 50, ratio: 1, wantErr: true},
		{name: "negative ratio", rows: 50, ratio: -0.1, wantErr: true},
		{name: "empty train side", rows: 3, ratio: 0.9, wantErr: true},
		{name: "empty test side", rows: 3, ratio: 1e-17, wantErr: true},
		{name: "single row", rows: 1, ratio: 0.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := hourlyRows(tt.rows)
			train, test, err := SplitChronological(rows, tt.ratio)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSplit)
				var splitErr *SplitError
				require.ErrorAs(t, err, &splitErr)
				assert.Equal(t, tt.rows, splitErr.Rows)
				return
			}

			require.NoError(t, err)
			assert.Len(t, train, tt.wantTrain)
			assert.Len(t, test, tt.wantTest)
			assert.Equal(t, len(rows), len(train)+len(test))
			assert.True(t, train[len(train)-1].Time.Before(test[0].Time))

			seen := make(map[time.Time]struct{}, len(train))
			for _, r := range train {
				seen[r.Time] = struct{}{}
			}
			for _, r := range test {
				_, overlap := seen[r.Time]
				assert.False(t, overlap, "timestamp %s in both sides", r.Time)
			}
		})
	}
}

func TestCheckAscending(t *testing.T) {
	rows := hourlyRows(5)
	require.NoError(t, CheckAscending(rows))
	require.NoError(t, CheckAscending(rows[:0]))

	swapped := hourlyRows(5)
	swapped[1], swapped[2] = swapped[2], swapped[1]
	require.ErrorIs(t, CheckAscending(swapped), ErrUnordered)

	dup := hourlyRows(3)
	dup[2].Time = dup[1].Time
	require.ErrorIs(t, CheckAscending(dup), ErrUnordered)
}

func TestValidateNoLeakage(t *testing.T) {
	require.NoError(t, ValidateNoLeakage(DefaultFeatureColumns, TargetColumn))
	assert.NotContains(t, DefaultFeatureColumns, TargetColumn)
	for _, col := range []string{"lag_1h", "lag_2h", "lag_24h", "lag_168h"} {
		assert.Contains(t, DefaultFeatureColumns, col)
	}

	features := []string{"lag_1h", TargetColumn, "month"}
	before := append([]string(nil), features...)

	err := ValidateNoLeakage(features, TargetColumn)
	require.ErrorIs(t, err, ErrLeakage)
	assert.Contains(t, err.Error(), TargetColumn)
	assert.Contains(t, err.Error(), "leakage")
	assert.Equal(t, before, features)
}

func TestFeatureColumnsCopy(t *testing.T) {
	cols := FeatureColumns()
	cols[0] = "changed"
	assert.Equal(t, "lag_1h", DefaultFeatureColumns[0])
}
