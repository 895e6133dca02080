package dashboard

import (
	"math"
	"strconv"
	"strings"

	"edadash/domain/chat"
	"edadash/domain/table"
	"edadash/internal/charts"
	"edadash/internal/session"
)

// Messages shown in place of a section body
const (
	MsgNoRows              = "The dataset has no rows."
	MsgNoNumeric           = "There is no numerical columns in the data."
	MsgNoCategorical       = "There is no categorical columns in the data."
	MsgNoNormalCategorical = "There is no categorical columns with normal cardinality in the data."

	headingHighCardinalityOne  = "The following column has high cardinality, that is why its boxplot was not plotted:"
	headingHighCardinalityMany = "The following columns have high cardinality, that is why their boxplots were not plotted:"
)

// View is everything the page template needs to draw a session
type View struct {
	SessionID  string
	Format     string
	UseExample bool
	Dataset    *DatasetView
	Visuals    []VisualOption
	Controls   *Controls
	Sections   []Section
	Messages   []chat.Message
	Notice     string
	HasAPIKey  bool
}

// DatasetView describes the active table
type DatasetView struct {
	Name        string
	Fingerprint string
	Example     bool
	Rows    int
	Cols    int
	Shape   string
	Preview *Grid
	Empty   bool
}

// VisualOption is one entry of the visualization multiselect
type VisualOption struct {
	Name     string
	Selected bool
}

// Choice is one selectable column in a sidebar control
type Choice struct {
	Name     string
	Selected bool
}

// ColumnKind is a column and its current kind, for the kind override control
type ColumnKind struct {
	Name     string
	Kind     table.Kind
	Declared bool
}

// Controls are the per-section selections resolved against the active table
type Controls struct {
	Distribution        []Choice
	Count               []Choice
	Box                 []Choice
	Category            []Choice
	Target              []Choice
	ProblemType         session.ProblemType
	PlotHighCardinality bool
	Kinds               []ColumnKind
}

// Grid is a rendered data frame
type Grid struct {
	Header []string
	Rows   [][]string
}

// Section is one rendered visualization
type Section struct {
	Visual  session.Visualization
	Title   string
	Message string
	Grid    *Grid
	Figures []charts.Figure
	Notes   []string

	// Set when high-cardinality columns were held back
	HighCardinalityHeading string
	HighCardinality        []string
	AskHighCardinality     bool
}

// FormatNumber prints a statistic the way a data frame does: NaN as "NaN",
// otherwise at most six decimals with trailing zeros trimmed.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s
}

func highCardinalityHeading(n int) string {
	if n == 1 {
		return headingHighCardinalityOne
	}
	return headingHighCardinalityMany
}
