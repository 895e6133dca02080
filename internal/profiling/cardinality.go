package profiling

import "edadash/domain/table"

// Cardinality counts distinct non-missing values of a column
func Cardinality(c *table.Column) int {
	seen := make(map[string]struct{}, len(c.Values))
	for _, v := range c.Values {
		if v.Missing {
			continue
		}
		seen[v.Raw] = struct{}{}
	}
	return len(seen)
}

// IsHighCardinality reports whether a column has more distinct values than a
// tenth of the row count. Such columns make unreadable faceted plots.
func IsHighCardinality(c *table.Column, rows int) bool {
	return float64(Cardinality(c)) > float64(rows)/10
}

// SplitByCardinality partitions the named columns into normal and high
// cardinality lists, preserving order. Unknown names are skipped.
func SplitByCardinality(t *table.Table, names []string) (normal, high []string) {
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			continue
		}
		if IsHighCardinality(c, t.Rows()) {
			high = append(high, name)
		} else {
			normal = append(normal, name)
		}
	}
	return normal, high
}
