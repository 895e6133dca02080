package profiling

import (
	"sort"

	"edadash/domain/table"
)

// OutlierCount is the number of values of a numeric column outside its IQR fences
type OutlierCount struct {
	Column string
	Count  int
}

// Fences are the Tukey bounds derived from the first and third quartiles
type Fences struct {
	Q1, Q3       float64
	Lower, Upper float64
}

// IQR returns Q3 - Q1
func (f Fences) IQR() float64 { return f.Q3 - f.Q1 }

// Outside reports whether v lies strictly beyond either fence
func (f Fences) Outside(v float64) bool {
	return v < f.Lower || v > f.Upper
}

// CountOutliers counts, for every numeric column in table order, the values
// strictly below Q1-1.5*IQR or strictly above Q3+1.5*IQR. Categorical columns
// are skipped. Missing values are ignored.
func CountOutliers(t *table.Table) []OutlierCount {
	var counts []OutlierCount
	for _, c := range t.Columns() {
		if !table.IsNumeric(c) {
			continue
		}
		values := c.Present()
		n := 0
		if fences, ok := ComputeFences(values); ok {
			for _, v := range values {
				if fences.Outside(v) {
					n++
				}
			}
		}
		counts = append(counts, OutlierCount{Column: c.Name, Count: n})
	}
	return counts
}

// ComputeFences computes quartiles and fences of values. It returns false for
// an empty input.
func ComputeFences(values []float64) (Fences, bool) {
	if len(values) == 0 {
		return Fences{}, false
	}
	sorted := sortedCopy(values)
	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1
	return Fences{
		Q1:    q1,
		Q3:    q3,
		Lower: q1 - 1.5*iqr,
		Upper: q3 + 1.5*iqr,
	}, true
}

// Quantile returns the p-quantile (0 <= p <= 1) of an ascending slice by
// linear interpolation between the closest ranks at position p*(n-1).
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	rank := p * float64(n-1)
	lower := int(rank)
	weight := rank - float64(lower)
	if lower+1 >= n {
		return sorted[lower]
	}
	return sorted[lower] + weight*(sorted[lower+1]-sorted[lower])
}

func sortedCopy(values []float64) []float64 {
	cp := make([]float64, len(values))
	copy(cp, values)
	sort.Float64s(cp)
	return cp
}
