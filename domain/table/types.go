package table

// Kind is the inferred or declared value type of a column
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindBoolean Kind = "boolean"
	KindText    Kind = "text"
)

// Value is a single cell. Number is only meaningful for numeric and boolean
// columns (booleans map to 1/0).
type Value struct {
	Raw     string
	Number  float64
	Missing bool
}

// Column is an ordered sequence of cells sharing one kind
type Column struct {
	Name     string
	Kind     Kind
	Declared bool // Kind was set by the user rather than inferred
	Values   []Value
}

// missingMarkers are the tokens read as an absent observation, matching the
// default NA set of common dataframe libraries.
var missingMarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissingMarker reports whether a raw cell denotes a missing value
func IsMissingMarker(raw string) bool {
	_, ok := missingMarkers[raw]
	return ok
}
