package profiling

import (
	"math"

	"edadash/domain/table"
	"edadash/internal/errors"
)

// ErrAllPresent is returned by NullReport when no column has missing values,
// so callers can show a message instead of an empty report.
var ErrAllPresent = errors.New("ALL_PRESENT", "There is not any NA value in your dataset.")

// ErrNoRows is returned when a summary is requested over a table without rows
var ErrNoRows = errors.New("NO_ROWS", "The dataset has no rows.")

// NullEntry is one row of the null report
type NullEntry struct {
	Column  string
	Missing int
	Percent float64 // 100 * Missing / rows, rounded to two decimals
}

// NullReport lists, in table order, every column with at least one missing
// value together with its count and percentage.
func NullReport(t *table.Table) ([]NullEntry, error) {
	rows := t.Rows()
	if rows == 0 {
		return nil, ErrNoRows
	}

	var entries []NullEntry
	for _, c := range t.Columns() {
		missing := c.MissingCount()
		if missing == 0 {
			continue
		}
		entries = append(entries, NullEntry{
			Column:  c.Name,
			Missing: missing,
			Percent: round2(100 * float64(missing) / float64(rows)),
		})
	}
	if len(entries) == 0 {
		return nil, ErrAllPresent
	}
	return entries, nil
}

// TotalMissing counts missing cells across the whole table
func TotalMissing(t *table.Table) int {
	total := 0
	for _, c := range t.Columns() {
		total += c.MissingCount()
	}
	return total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
