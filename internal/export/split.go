package export

import (
	"fmt"
	"math"

	"wattfeed/internal/models"
)

// SplitChronological cuts rows at floor(n*(1-ratio)). Rows must already be
// ordered by time; train and test share the backing array of rows.
func SplitChronological[T any](rows []T, ratio float64) (train, test []T, err error) {
	n := len(rows)
	if !(ratio > 0 && ratio < 1) {
		return nil, nil, &SplitError{Ratio: ratio, Rows: n}
	}

	k := int(math.Floor(float64(n) * (1 - ratio)))
	if k == 0 || k == n {
		return nil, nil, &SplitError{Ratio: ratio, Rows: n}
	}

	return rows[:k], rows[k:], nil
}

// CheckAscending verifies that timestamps strictly increase
func CheckAscending[T models.Record](rows []T) error {
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1].RecordTime(), rows[i].RecordTime()
		if !cur.After(prev) {
			return fmt.Errorf("%w: row %d at %s follows %s", ErrUnordered, i, cur.Format("2006-01-02T15:04:05Z07:00"), prev.Format("2006-01-02T15:04:05Z07:00"))
		}
	}
	return nil
}
