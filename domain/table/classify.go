package table

import (
	"math"
	"strconv"
	"strings"
)

// Classify infers the kind of a column from its raw cells. Missing cells are
// ignored; a column with no present cells is numeric, as an all-NaN column
// would be in a dataframe.
func Classify(raw []string) Kind {
	numeric, boolean := true, true
	present := 0
	for _, cell := range raw {
		if IsMissingMarker(cell) {
			continue
		}
		present++
		if numeric {
			if _, ok := parseNumber(cell); !ok {
				numeric = false
			}
		}
		if boolean {
			if _, ok := parseBool(cell); !ok {
				boolean = false
			}
		}
		if !numeric && !boolean {
			return KindText
		}
	}
	switch {
	case present == 0 || numeric:
		return KindNumeric
	case boolean:
		return KindBoolean
	default:
		return KindText
	}
}

// IsNumeric reports whether the column takes part in numeric summaries
// (describe, distributions, box plots, outliers).
func IsNumeric(c *Column) bool {
	return c.Kind == KindNumeric
}

// IsCategorical reports whether the column is treated as categorical. Text
// columns, boolean columns and columns declared as text are all categorical,
// whatever their raw cells look like.
func IsCategorical(c *Column) bool {
	return c.Kind != KindNumeric
}

// ParseKind maps a user-facing kind name to a Kind
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numeric", "number", "num":
		return KindNumeric, true
	case "boolean", "bool":
		return KindBoolean, true
	case "text", "categorical", "category", "string":
		return KindText, true
	}
	return "", false
}

func parseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func parseBool(cell string) (bool, bool) {
	switch strings.TrimSpace(cell) {
	case "True", "true", "TRUE":
		return true, true
	case "False", "false", "FALSE":
		return false, true
	}
	return false, false
}

// buildValues parses raw cells according to kind. Cells that do not parse
// under a declared kind become missing.
func buildValues(raw []string, kind Kind) []Value {
	values := make([]Value, len(raw))
	for i, cell := range raw {
		v := Value{Raw: cell}
		if IsMissingMarker(cell) {
			v.Missing = true
			values[i] = v
			continue
		}
		switch kind {
		case KindNumeric:
			f, ok := parseNumber(cell)
			v.Number, v.Missing = f, !ok
		case KindBoolean:
			b, ok := parseBool(cell)
			if b {
				v.Number = 1
			}
			v.Missing = !ok
		}
		values[i] = v
	}
	return values
}
