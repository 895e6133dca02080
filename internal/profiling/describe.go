package profiling

import (
	"math"

	"edadash/domain/table"

	"github.com/montanaflynn/stats"
)

// ColumnInfo is one row of the dataset info table
type ColumnInfo struct {
	Column   string
	NonNull  int
	DType    string
	Declared bool
}

// Info summarises every column: non-null count and storage type
func Info(t *table.Table) []ColumnInfo {
	infos := make([]ColumnInfo, 0, len(t.Columns()))
	for _, c := range t.Columns() {
		infos = append(infos, ColumnInfo{
			Column:   c.Name,
			NonNull:  len(c.Values) - c.MissingCount(),
			DType:    DType(c),
			Declared: c.Declared,
		})
	}
	return infos
}

// DType names the storage type a dataframe would give the column: integral
// numeric columns without gaps are int64, other numerics float64, complete
// boolean columns bool, everything else object.
func DType(c *table.Column) string {
	switch c.Kind {
	case table.KindNumeric:
		if c.MissingCount() > 0 || len(c.Values) == 0 {
			return "float64"
		}
		for _, v := range c.Values {
			if v.Number != math.Trunc(v.Number) || math.IsInf(v.Number, 0) {
				return "float64"
			}
		}
		return "int64"
	case table.KindBoolean:
		if c.MissingCount() == 0 {
			return "bool"
		}
	}
	return "object"
}

// Description holds the descriptive statistics of one numeric column
type Description struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe computes count, mean, sample standard deviation, min, quartiles and
// max of every numeric column. Statistics of an empty column are NaN, and the
// standard deviation of a single value is NaN.
func Describe(t *table.Table) ([]Description, error) {
	var out []Description
	for _, c := range t.Columns() {
		if !table.IsNumeric(c) {
			continue
		}
		d, err := describeValues(c.Name, c.Present())
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func describeValues(name string, values []float64) (Description, error) {
	nan := math.NaN()
	d := Description{Column: name, Count: len(values)}
	if len(values) == 0 {
		d.Mean, d.Std, d.Min, d.Q25, d.Median, d.Q75, d.Max = nan, nan, nan, nan, nan, nan, nan
		return d, nil
	}

	var err error
	if d.Mean, err = stats.Mean(values); err != nil {
		return d, err
	}
	d.Std = nan
	if len(values) > 1 {
		if d.Std, err = stats.StandardDeviationSample(values); err != nil {
			return d, err
		}
	}
	if d.Min, err = stats.Min(values); err != nil {
		return d, err
	}
	if d.Max, err = stats.Max(values); err != nil {
		return d, err
	}

	sorted := sortedCopy(values)
	d.Q25 = Quantile(sorted, 0.25)
	d.Median = Quantile(sorted, 0.5)
	d.Q75 = Quantile(sorted, 0.75)
	return d, nil
}
