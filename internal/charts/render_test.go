package charts

import (
	"testing"

	"edadash/internal/profiling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogram(t *testing.T) {
	bins := profiling.Histogram([]float64{1, 2, 2, 3, 3, 3, 4, 5, 9}, 0)

	fig, err := Histogram("Distribution of md", bins)
	require.NoError(t, err)
	assert.Equal(t, "Distribution of md", fig.Title)
	assert.Contains(t, string(fig.SVG), "<svg")
}

func TestHistogramSingleBin(t *testing.T) {
	fig, err := Histogram("constant", profiling.Histogram([]float64{4, 4, 4}, 0))
	require.NoError(t, err)
	assert.Contains(t, string(fig.SVG), "<svg")
}

func TestCountPlot(t *testing.T) {
	fig, err := CountPlot("formation", []profiling.CategoryCount{{Value: "Shale", Count: 3}, {Value: "Sand", Count: 1}})
	require.NoError(t, err)
	assert.Contains(t, string(fig.SVG), "<svg")
}

func TestEmptyChartsFail(t *testing.T) {
	_, err := Histogram("empty", nil)
	assert.Error(t, err)

	_, err = CountPlot("empty", nil)
	assert.Error(t, err)

	_, err = BoxPlot("empty", "y", nil)
	assert.Error(t, err)

	_, err = StackedHistogram("empty", "x", nil)
	assert.Error(t, err)
}

func TestBoxPlot(t *testing.T) {
	box, ok := profiling.BoxStats([]float64{1, 2, 3, 4, 5, 100})
	require.True(t, ok)

	fig, err := BoxPlot("md", "md", []NamedBox{{Name: "md", Box: box}})
	require.NoError(t, err)
	assert.Contains(t, string(fig.SVG), "<svg")
}

func TestBoxPlotConstantAndGrouped(t *testing.T) {
	flat, _ := profiling.BoxStats([]float64{7, 7, 7})
	spread, _ := profiling.BoxStats([]float64{1, 5, 9, 12})

	fig, err := BoxPlot("rop by zone", "rop", []NamedBox{{Name: "a", Box: flat}, {Name: "b", Box: spread}})
	require.NoError(t, err)
	assert.Contains(t, string(fig.SVG), "<svg")
}

func TestStackedHistogram(t *testing.T) {
	ct := &profiling.CrossTab{
		Buckets:    []string{"good", "bad"},
		Categories: []string{"a", "b"},
		Counts:     [][]int{{2, 1}, {0, 3}},
	}

	fig, err := StackedHistogram("class by zone", "class", ct)
	require.NoError(t, err)
	assert.Contains(t, string(fig.SVG), "<svg")
}
