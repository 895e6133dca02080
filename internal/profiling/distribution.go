package profiling

import (
	"fmt"
	"math"
	"strconv"

	"edadash/domain/table"
	"edadash/internal/errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bin is one bucket of a histogram, covering [Lower, Upper)
type Bin struct {
	Lower float64
	Upper float64
	Count int
}

// Label renders the bucket bounds compactly for axis ticks
func (b Bin) Label() string {
	return formatNumber(b.Lower) + "–" + formatNumber(b.Upper)
}

// SturgesBins is the default bin count for n observations
func SturgesBins(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// Histogram buckets values into equal-width bins spanning their range. A bins
// value <= 0 selects Sturges' rule. Infinite values are left out. A constant
// input yields a single bin of width one centred on the value.
func Histogram(values []float64, bins int) []Bin {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = SturgesBins(len(finite))
	}

	sorted := sortedCopy(finite)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi, bins = lo-0.5, hi+0.5, 1
	}

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// The upper divider is exclusive; nudge it so the maximum lands in the last bin.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lower: dividers[i], Upper: dividers[i+1], Count: int(counts[i])}
	}
	out[bins-1].Upper = hi
	return out
}

// CategoryCount is the frequency of one category value
type CategoryCount struct {
	Value string
	Count int
}

// ValueCounts counts non-missing values of a column in first-appearance order
func ValueCounts(c *table.Column) []CategoryCount {
	index := make(map[string]int)
	var out []CategoryCount
	for _, v := range c.Values {
		if v.Missing {
			continue
		}
		i, ok := index[v.Raw]
		if !ok {
			i = len(out)
			index[v.Raw] = i
			out = append(out, CategoryCount{Value: v.Raw})
		}
		out[i].Count++
	}
	return out
}

// Box holds the five-number summary drawn by a box plot. Whiskers reach the
// most extreme values still inside the IQR fences; values beyond them are
// listed as outliers.
type Box struct {
	N            int
	Q1           float64
	Median       float64
	Q3           float64
	LowerWhisker float64
	UpperWhisker float64
	Outliers     []float64
}

// BoxStats summarises values for a box plot. It returns false for no values.
func BoxStats(values []float64) (Box, bool) {
	fences, ok := ComputeFences(values)
	if !ok {
		return Box{}, false
	}
	sorted := sortedCopy(values)
	box := Box{
		N:            len(sorted),
		Q1:           fences.Q1,
		Median:       Quantile(sorted, 0.5),
		Q3:           fences.Q3,
		LowerWhisker: fences.Q1,
		UpperWhisker: fences.Q3,
	}
	for _, v := range sorted {
		if fences.Outside(v) {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		if v < box.LowerWhisker {
			box.LowerWhisker = v
		}
		if v > box.UpperWhisker {
			box.UpperWhisker = v
		}
	}
	return box, true
}

// Group is the set of target values observed for one category
type Group struct {
	Category string
	Values   []float64
}

// GroupBy collects the numeric target values per category, categories in
// first-appearance order. Rows where either cell is missing are skipped.
func GroupBy(t *table.Table, target, category string) ([]Group, error) {
	tc, cc, err := lookupPair(t, target, category)
	if err != nil {
		return nil, err
	}
	if !table.IsNumeric(tc) {
		return nil, errors.InvalidInput(fmt.Sprintf("target column %q is not numeric", target))
	}

	index := make(map[string]int)
	var groups []Group
	for i := range tc.Values {
		tv, cv := tc.Values[i], cc.Values[i]
		if tv.Missing || cv.Missing {
			continue
		}
		g, ok := index[cv.Raw]
		if !ok {
			g = len(groups)
			index[cv.Raw] = g
			groups = append(groups, Group{Category: cv.Raw})
		}
		groups[g].Values = append(groups[g].Values, tv.Number)
	}
	return groups, nil
}

// CrossTab counts rows per target bucket and category. Buckets are histogram
// bins for a numeric target and distinct values otherwise.
type CrossTab struct {
	Buckets    []string
	Categories []string
	Counts     [][]int // Counts[bucket][category]
}

// CrossCount builds the cross tabulation behind a target histogram coloured
// by a categorical column.
func CrossCount(t *table.Table, target, category string) (*CrossTab, error) {
	tc, cc, err := lookupPair(t, target, category)
	if err != nil {
		return nil, err
	}

	var rows []int
	for i := range tc.Values {
		if !tc.Values[i].Missing && !cc.Values[i].Missing {
			rows = append(rows, i)
		}
	}

	ct := &CrossTab{}
	catIndex := make(map[string]int)
	for _, i := range rows {
		raw := cc.Values[i].Raw
		if _, ok := catIndex[raw]; !ok {
			catIndex[raw] = len(ct.Categories)
			ct.Categories = append(ct.Categories, raw)
		}
	}

	bucketOf := make([]int, len(rows))
	if table.IsNumeric(tc) {
		values := make([]float64, len(rows))
		for k, i := range rows {
			values[k] = tc.Values[i].Number
		}
		bins := Histogram(values, 0)
		for _, b := range bins {
			ct.Buckets = append(ct.Buckets, b.Label())
		}
		for k, v := range values {
			bucketOf[k] = binIndex(bins, v)
		}
	} else {
		bucketIndex := make(map[string]int)
		for k, i := range rows {
			raw := tc.Values[i].Raw
			b, ok := bucketIndex[raw]
			if !ok {
				b = len(ct.Buckets)
				bucketIndex[raw] = b
				ct.Buckets = append(ct.Buckets, raw)
			}
			bucketOf[k] = b
		}
	}

	ct.Counts = make([][]int, len(ct.Buckets))
	for b := range ct.Counts {
		ct.Counts[b] = make([]int, len(ct.Categories))
	}
	for k, i := range rows {
		ct.Counts[bucketOf[k]][catIndex[cc.Values[i].Raw]]++
	}
	return ct, nil
}

func binIndex(bins []Bin, v float64) int {
	for i, b := range bins {
		if v < b.Upper {
			return i
		}
	}
	return len(bins) - 1
}

func lookupPair(t *table.Table, target, category string) (*table.Column, *table.Column, error) {
	tc, ok := t.Column(target)
	if !ok {
		return nil, nil, errors.NotFound(fmt.Sprintf("column %q", target))
	}
	cc, ok := t.Column(category)
	if !ok {
		return nil, nil, errors.NotFound(fmt.Sprintf("column %q", category))
	}
	return tc, cc, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
