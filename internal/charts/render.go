// Package charts renders the dashboard's histograms, count plots and box
// plots as SVG documents.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"edadash/internal/profiling"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultHeight = 400
	minWidth      = 480
	barWidth      = 36
	barSpacing    = 8
)

var (
	colorHistogram = drawing.ColorFromHex("636efa")
	colorCount     = drawing.ColorFromHex("cd5c5c") // indianred
	colorBox       = drawing.ColorFromHex("2a3f5f")

	// palette for per-category series
	palette = []drawing.Color{
		drawing.ColorFromHex("636efa"),
		drawing.ColorFromHex("ef553b"),
		drawing.ColorFromHex("00cc96"),
		drawing.ColorFromHex("ab63fa"),
		drawing.ColorFromHex("ffa15a"),
		drawing.ColorFromHex("19d3f3"),
		drawing.ColorFromHex("ff6692"),
		drawing.ColorFromHex("b6e880"),
		drawing.ColorFromHex("ff97ff"),
		drawing.ColorFromHex("fecb52"),
	}
)

// Figure is a rendered chart
type Figure struct {
	Title string
	SVG   []byte
}

// NamedBox is one box of a box plot
type NamedBox struct {
	Name string
	Box  profiling.Box
}

// Histogram renders binned counts of a numeric column
func Histogram(title string, bins []profiling.Bin) (Figure, error) {
	values := make([]chart.Value, len(bins))
	for i, b := range bins {
		values[i] = chart.Value{Label: b.Label(), Value: float64(b.Count), Style: barStyle(colorHistogram)}
	}
	return renderBars(title, values)
}

// CountPlot renders the frequency of every category value
func CountPlot(title string, counts []profiling.CategoryCount) (Figure, error) {
	values := make([]chart.Value, len(counts))
	for i, c := range counts {
		values[i] = chart.Value{Label: c.Value, Value: float64(c.Count), Style: barStyle(colorCount)}
	}
	return renderBars(title, values)
}

func renderBars(title string, values []chart.Value) (Figure, error) {
	if len(values) == 0 {
		return Figure{}, fmt.Errorf("chart %q has no data", title)
	}

	maxCount := 0.0
	for _, v := range values {
		maxCount = math.Max(maxCount, v.Value)
	}

	graph := chart.BarChart{
		Title:      title,
		Width:      chartWidth(len(values)),
		Height:     defaultHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: paddedMax(maxCount)},
		},
		Bars: values,
	}
	return render(title, graph.Render)
}

// BoxPlot renders one box per entry, side by side. A single entry is a plain
// box plot of one column; several entries compare a target across categories.
func BoxPlot(title, yName string, boxes []NamedBox) (Figure, error) {
	if len(boxes) == 0 {
		return Figure{}, fmt.Errorf("chart %q has no data", title)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	var series []chart.Series
	ticks := make([]chart.Tick, len(boxes))
	for i, nb := range boxes {
		x := float64(i + 1)
		ticks[i] = chart.Tick{Value: x, Label: nb.Name}
		b := nb.Box
		lo = math.Min(lo, b.LowerWhisker)
		hi = math.Max(hi, b.UpperWhisker)
		for _, o := range b.Outliers {
			lo, hi = math.Min(lo, o), math.Max(hi, o)
		}

		col := colorBox
		if len(boxes) > 1 {
			col = palette[i%len(palette)]
		}
		series = append(series, boxSeries(nb.Name, x, b, col)...)
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.05

	graph := chart.Chart{
		Title:      title,
		Width:      chartWidth(len(boxes) * 2),
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(len(boxes)) + 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: lo - pad, Max: hi + pad},
		},
		Series: series,
	}
	return render(title, graph.Render)
}

func boxSeries(name string, x float64, b profiling.Box, col drawing.Color) []chart.Series {
	const half = 0.3
	line := chart.Style{StrokeColor: col, StrokeWidth: 2}
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    name,
			Style:   line,
			XValues: []float64{x - half, x + half, x + half, x - half, x - half},
			YValues: []float64{b.Q1, b.Q1, b.Q3, b.Q3, b.Q1},
		},
		chart.ContinuousSeries{
			Name:    name + " median",
			Style:   chart.Style{StrokeColor: col, StrokeWidth: 3},
			XValues: []float64{x - half, x + half},
			YValues: []float64{b.Median, b.Median},
		},
		chart.ContinuousSeries{
			Name:    name + " upper whisker",
			Style:   line,
			XValues: []float64{x, x, x - half/2, x + half/2},
			YValues: []float64{b.Q3, b.UpperWhisker, b.UpperWhisker, b.UpperWhisker},
		},
		chart.ContinuousSeries{
			Name:    name + " lower whisker",
			Style:   line,
			XValues: []float64{x, x, x - half/2, x + half/2},
			YValues: []float64{b.Q1, b.LowerWhisker, b.LowerWhisker, b.LowerWhisker},
		},
	}
	if len(b.Outliers) > 0 {
		xs := make([]float64, len(b.Outliers))
		for i := range xs {
			xs[i] = x
		}
		series = append(series, chart.ContinuousSeries{
			Name:    name + " outliers",
			Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 4, DotColor: col},
			XValues: xs,
			YValues: b.Outliers,
		})
	}
	return series
}

// StackedHistogram renders target buckets as bars split by category. Each
// category series is filled down to zero, drawn from the tallest cumulative
// total to the shortest so lower segments paint over upper ones.
func StackedHistogram(title, xName string, ct *profiling.CrossTab) (Figure, error) {
	if ct == nil || len(ct.Buckets) == 0 || len(ct.Categories) == 0 {
		return Figure{}, fmt.Errorf("chart %q has no data", title)
	}

	nb, nc := len(ct.Buckets), len(ct.Categories)
	// cumulative[c][b] is the top of category c's segment in bucket b
	cumulative := make([][]float64, nc)
	maxTotal := 0.0
	for c := range cumulative {
		cumulative[c] = make([]float64, nb)
	}
	for b := 0; b < nb; b++ {
		run := 0.0
		for c := 0; c < nc; c++ {
			run += float64(ct.Counts[b][c])
			cumulative[c][b] = run
		}
		maxTotal = math.Max(maxTotal, run)
	}

	const half = 0.4
	series := make([]chart.Series, 0, nc)
	for c := nc - 1; c >= 0; c-- {
		xs := make([]float64, 0, nb*4)
		ys := make([]float64, 0, nb*4)
		for b := 0; b < nb; b++ {
			x := float64(b + 1)
			top := cumulative[c][b]
			xs = append(xs, x-half, x-half, x+half, x+half)
			ys = append(ys, 0, top, top, 0)
		}
		col := palette[c%len(palette)]
		series = append(series, chart.ContinuousSeries{
			Name:    ct.Categories[c],
			Style:   chart.Style{StrokeColor: col, StrokeWidth: 1, FillColor: col},
			XValues: xs,
			YValues: ys,
		})
	}

	ticks := make([]chart.Tick, nb)
	for b, label := range ct.Buckets {
		ticks[b] = chart.Tick{Value: float64(b + 1), Label: label}
	}

	graph := chart.Chart{
		Title:      title,
		Width:      chartWidth(nb),
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  xName,
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(nb) + 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "count",
			Range: &chart.ContinuousRange{Min: 0, Max: paddedMax(maxTotal)},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return render(title, graph.Render)
}

func render(title string, fn func(chart.RendererProvider, io.Writer) error) (Figure, error) {
	var buf bytes.Buffer
	if err := fn(chart.SVG, &buf); err != nil {
		return Figure{}, fmt.Errorf("render chart %q: %w", title, err)
	}
	return Figure{Title: title, SVG: buf.Bytes()}, nil
}

func barStyle(col drawing.Color) chart.Style {
	return chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1}
}

func chartWidth(items int) int {
	w := 120 + items*(barWidth+barSpacing)
	if w < minWidth {
		return minWidth
	}
	return w
}

func paddedMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v * 1.1
}
