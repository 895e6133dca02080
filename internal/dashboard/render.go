package dashboard

import (
	"context"
	"fmt"
	"sort"

	"edadash/domain/table"
	"edadash/internal/charts"
	"edadash/internal/errors"
	"edadash/internal/profiling"
	"edadash/internal/session"

	"golang.org/x/sync/errgroup"
)

// plan is the session's options resolved against the active table
type plan struct {
	table        *table.Table
	numeric      []string
	categorical  []string
	distribution []string
	count        []string
	box          []string
	target       string
	problem      session.ProblemType
	normal       []string
	high         []string
	category     []string
	plotHigh     bool
}

// Render builds the page for a session: the dataset summary and one section
// per switched-on visualization, in canonical order. Sections are built
// concurrently. Without a dataset no sections are built; a dataset without
// rows only gets its summary.
func (s *Service) Render(ctx context.Context, sess *session.Session) (*View, error) {
	view := &View{
		SessionID:  sess.ID.String(),
		Format:     sess.Format,
		UseExample: sess.UseExample,
		Messages:   sess.Messages,
		Notice:     sess.Notice,
		HasAPIKey:  sess.APIKey != "",
	}
	for _, v := range session.AllVisualizations {
		view.Visuals = append(view.Visuals, VisualOption{Name: string(v), Selected: sess.HasVisual(v)})
	}

	ds := sess.Active()
	if ds == nil {
		return view, nil
	}

	tbl := applyKinds(ds.Table, sess.Options.Kinds)
	rows, cols := tbl.Shape()
	view.Dataset = &DatasetView{
		Name:        ds.Name,
		Fingerprint: ds.Fingerprint.Short(),
		Example:     ds.Example,
		Rows:        rows,
		Cols:        cols,
		Shape:       fmt.Sprintf("Dataset contains %d rows and %d columns.", rows, cols),
		Preview:     &Grid{Header: tbl.Names(), Rows: tbl.Head(s.previewRows)},
		Empty:       rows == 0,
	}
	p := resolve(tbl, sess.Options)
	view.Controls = p.controls()
	if rows == 0 {
		return view, nil
	}

	var selected []session.Visualization
	for _, v := range session.AllVisualizations {
		if sess.HasVisual(v) {
			selected = append(selected, v)
		}
	}

	sections := make([]Section, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range selected {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sec, err := p.build(v)
			if err != nil {
				return errors.Wrapf(err, "failed to render %s", v)
			}
			sections[i] = sec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("render failed for session %s: %v", sess.ID, err)
		return nil, err
	}
	view.Sections = sections
	return view, nil
}

// applyKinds re-parses columns the user declared a kind for. Declarations for
// columns the table does not have are ignored.
func applyKinds(t *table.Table, kinds map[string]table.Kind) *table.Table {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c, ok := t.Column(name)
		if !ok || c.Kind == kinds[name] {
			continue
		}
		if next, err := t.WithKind(name, kinds[name]); err == nil {
			t = next
		}
	}
	return t
}

func resolve(t *table.Table, opts session.Options) *plan {
	p := &plan{
		table:       t,
		numeric:     t.NumericColumns(),
		categorical: t.CategoricalColumns(),
		problem:     opts.ProblemType,
		plotHigh:    opts.PlotHighCardinality,
	}
	if p.problem == "" {
		p.problem = session.Regression
	}
	p.distribution = pick(opts.DistributionColumns, p.numeric)
	p.count = pick(opts.CountColumns, p.categorical)
	p.box = pick(opts.BoxColumns, p.numeric)

	names := t.Names()
	if _, ok := t.Column(opts.Target); ok {
		p.target = opts.Target
	} else if len(names) > 0 {
		p.target = names[len(names)-1]
	}

	p.normal, p.high = profiling.SplitByCardinality(t, p.categorical)
	p.category = pick(opts.CategoryColumns, p.normal)
	return p
}

// pick keeps the requested names that are eligible, in eligible order. A nil
// request selects everything eligible.
func pick(requested, eligible []string) []string {
	if requested == nil {
		return eligible
	}
	want := make(map[string]bool, len(requested))
	for _, name := range requested {
		want[name] = true
	}
	out := []string{}
	for _, name := range eligible {
		if want[name] {
			out = append(out, name)
		}
	}
	return out
}

func choices(eligible, selected []string) []Choice {
	on := make(map[string]bool, len(selected))
	for _, name := range selected {
		on[name] = true
	}
	out := make([]Choice, len(eligible))
	for i, name := range eligible {
		out[i] = Choice{Name: name, Selected: on[name]}
	}
	return out
}

func (p *plan) controls() *Controls {
	c := &Controls{
		Distribution:        choices(p.numeric, p.distribution),
		Count:               choices(p.categorical, p.count),
		Box:                 choices(p.numeric, p.box),
		Category:            choices(p.normal, p.category),
		Target:              choices(p.table.Names(), []string{p.target}),
		ProblemType:         p.problem,
		PlotHighCardinality: p.plotHigh,
	}
	for _, col := range p.table.Columns() {
		c.Kinds = append(c.Kinds, ColumnKind{Name: col.Name, Kind: col.Kind, Declared: col.Declared})
	}
	return c
}

func (p *plan) build(v session.Visualization) (Section, error) {
	switch v {
	case session.VisualInfo:
		return p.info(), nil
	case session.VisualNAInfo:
		return p.naInfo()
	case session.VisualDescriptive:
		return p.descriptive()
	case session.VisualTarget:
		return p.targetAnalysis()
	case session.VisualDistribution:
		return p.distributions()
	case session.VisualCountPlots:
		return p.countPlots()
	case session.VisualBoxPlots:
		return p.boxPlots()
	case session.VisualOutliers:
		return p.outliers(), nil
	case session.VisualTargetByCategory:
		return p.targetByCategory()
	}
	return Section{}, errors.InvalidInput("unknown visualization: " + string(v))
}

func (p *plan) info() Section {
	sec := Section{Visual: session.VisualInfo, Title: "Info"}
	grid := &Grid{Header: []string{"Column", "Non-Null Count", "Dtype"}}
	for _, ci := range profiling.Info(p.table) {
		grid.Rows = append(grid.Rows, []string{ci.Column, fmt.Sprintf("%d non-null", ci.NonNull), ci.DType})
	}
	sec.Grid = grid
	return sec
}

func (p *plan) naInfo() (Section, error) {
	sec := Section{Visual: session.VisualNAInfo, Title: "NA Value Information"}
	entries, err := profiling.NullReport(p.table)
	if errors.Is(err, profiling.ErrAllPresent) {
		sec.Message = err.Error()
		return sec, nil
	}
	if err != nil {
		return sec, err
	}
	grid := &Grid{Header: []string{"Column", "Number of NA Values", "Percentage of NA Values"}}
	for _, e := range entries {
		grid.Rows = append(grid.Rows, []string{e.Column, fmt.Sprint(e.Missing), fmt.Sprintf("%.2f", e.Percent)})
	}
	sec.Grid = grid
	sec.Notes = []string{fmt.Sprintf("%d missing cells in total.", profiling.TotalMissing(p.table))}
	return sec, nil
}

func (p *plan) descriptive() (Section, error) {
	sec := Section{Visual: session.VisualDescriptive, Title: "Descriptive Analysis"}
	descs, err := profiling.Describe(p.table)
	if err != nil {
		return sec, err
	}
	if len(descs) == 0 {
		sec.Message = MsgNoNumeric
		return sec, nil
	}

	grid := &Grid{Header: []string{""}}
	stats := []struct {
		name string
		get  func(profiling.Description) string
	}{
		{"count", func(d profiling.Description) string { return fmt.Sprint(d.Count) }},
		{"mean", func(d profiling.Description) string { return FormatNumber(d.Mean) }},
		{"std", func(d profiling.Description) string { return FormatNumber(d.Std) }},
		{"min", func(d profiling.Description) string { return FormatNumber(d.Min) }},
		{"25%", func(d profiling.Description) string { return FormatNumber(d.Q25) }},
		{"50%", func(d profiling.Description) string { return FormatNumber(d.Median) }},
		{"75%", func(d profiling.Description) string { return FormatNumber(d.Q75) }},
		{"max", func(d profiling.Description) string { return FormatNumber(d.Max) }},
	}
	for _, d := range descs {
		grid.Header = append(grid.Header, d.Column)
	}
	for _, st := range stats {
		row := []string{st.name}
		for _, d := range descs {
			row = append(row, st.get(d))
		}
		grid.Rows = append(grid.Rows, row)
	}
	sec.Grid = grid
	return sec, nil
}

func (p *plan) targetAnalysis() (Section, error) {
	sec := Section{Visual: session.VisualTarget, Title: "Target Analysis"}
	col, ok := p.table.Column(p.target)
	if !ok {
		sec.Message = "The dataset has no columns."
		return sec, nil
	}
	fig, ok, err := distributionFigure(col, "Histogram of target column: "+col.Name)
	if err != nil {
		return sec, err
	}
	if !ok {
		sec.Message = noValues(col.Name)
		return sec, nil
	}
	sec.Figures = []charts.Figure{fig}
	return sec, nil
}

// distributionFigure draws a histogram of a numeric column or the category
// counts of any other column.
func distributionFigure(col *table.Column, title string) (charts.Figure, bool, error) {
	if table.IsNumeric(col) {
		bins := profiling.Histogram(col.Present(), 0)
		if len(bins) == 0 {
			return charts.Figure{}, false, nil
		}
		fig, err := charts.Histogram(title, bins)
		return fig, err == nil, err
	}
	counts := profiling.ValueCounts(col)
	if len(counts) == 0 {
		return charts.Figure{}, false, nil
	}
	fig, err := charts.CountPlot(title, counts)
	return fig, err == nil, err
}

func (p *plan) distributions() (Section, error) {
	sec := Section{Visual: session.VisualDistribution, Title: "Distribution of Numerical Columns"}
	if len(p.numeric) == 0 {
		sec.Message = MsgNoNumeric
		return sec, nil
	}
	for _, name := range p.distribution {
		col, _ := p.table.Column(name)
		fig, ok, err := distributionFigure(col, name)
		if err != nil {
			return sec, err
		}
		if !ok {
			sec.Notes = append(sec.Notes, noValues(name))
			continue
		}
		sec.Figures = append(sec.Figures, fig)
	}
	return sec, nil
}

func (p *plan) countPlots() (Section, error) {
	sec := Section{Visual: session.VisualCountPlots, Title: "Count Plots of Categorical Columns"}
	if len(p.categorical) == 0 {
		sec.Message = MsgNoCategorical
		return sec, nil
	}
	for _, name := range p.count {
		col, _ := p.table.Column(name)
		counts := profiling.ValueCounts(col)
		if len(counts) == 0 {
			sec.Notes = append(sec.Notes, noValues(name))
			continue
		}
		fig, err := charts.CountPlot(name, counts)
		if err != nil {
			return sec, err
		}
		sec.Figures = append(sec.Figures, fig)
	}
	return sec, nil
}

func (p *plan) boxPlots() (Section, error) {
	sec := Section{Visual: session.VisualBoxPlots, Title: "Box Plots"}
	if len(p.numeric) == 0 {
		sec.Message = MsgNoNumeric
		return sec, nil
	}
	for _, name := range p.box {
		col, _ := p.table.Column(name)
		box, ok := profiling.BoxStats(col.Present())
		if !ok {
			sec.Notes = append(sec.Notes, noValues(name))
			continue
		}
		fig, err := charts.BoxPlot(name, name, []charts.NamedBox{{Name: name, Box: box}})
		if err != nil {
			return sec, err
		}
		sec.Figures = append(sec.Figures, fig)
	}
	return sec, nil
}

func (p *plan) outliers() Section {
	sec := Section{Visual: session.VisualOutliers, Title: "Outlier Analysis"}
	if len(p.numeric) == 0 {
		sec.Message = MsgNoNumeric
		return sec
	}
	grid := &Grid{Header: []string{"Column", "Number of Outliers"}}
	for _, oc := range profiling.CountOutliers(p.table) {
		grid.Rows = append(grid.Rows, []string{oc.Column, fmt.Sprint(oc.Count)})
	}
	sec.Grid = grid
	return sec
}

func (p *plan) targetByCategory() (Section, error) {
	sec := Section{Visual: session.VisualTargetByCategory, Title: "Variance of Target with Categorical Columns"}
	if len(p.normal) == 0 {
		sec.Message = MsgNoNormalCategorical
		return sec, nil
	}

	complete := p.table.DropMissing()
	for _, cat := range p.category {
		fig, note, err := p.compare(complete, cat, p.problem)
		if err != nil {
			return sec, err
		}
		if note != "" {
			sec.Notes = append(sec.Notes, note)
			continue
		}
		sec.Figures = append(sec.Figures, fig)
	}

	if len(p.high) > 0 {
		sec.HighCardinalityHeading = highCardinalityHeading(len(p.high))
		sec.HighCardinality = p.high
		sec.AskHighCardinality = true
		if p.plotHigh {
			for _, cat := range p.high {
				fig, note, err := p.compare(complete, cat, session.Regression)
				if err != nil {
					return sec, err
				}
				if note != "" {
					sec.Notes = append(sec.Notes, note)
					continue
				}
				sec.Figures = append(sec.Figures, fig)
			}
		}
	}
	return sec, nil
}

// compare draws the target against one categorical column. It returns a note
// instead of a figure when the pair cannot be drawn.
func (p *plan) compare(t *table.Table, category string, problem session.ProblemType) (charts.Figure, string, error) {
	title := fmt.Sprintf("%s by %s", p.target, category)

	if problem == session.Classification {
		ct, err := profiling.CrossCount(t, p.target, category)
		if err != nil {
			return charts.Figure{}, "", err
		}
		if len(ct.Buckets) == 0 {
			return charts.Figure{}, noCompleteRows(category), nil
		}
		fig, err := charts.StackedHistogram(title, p.target, ct)
		return fig, "", err
	}

	if col, ok := t.Column(p.target); !ok || !table.IsNumeric(col) {
		return charts.Figure{}, fmt.Sprintf("Target column %s is not numeric, choose Classification to compare it across %s.", p.target, category), nil
	}
	groups, err := profiling.GroupBy(t, p.target, category)
	if err != nil {
		return charts.Figure{}, "", err
	}
	var boxes []charts.NamedBox
	for _, g := range groups {
		if box, ok := profiling.BoxStats(g.Values); ok {
			boxes = append(boxes, charts.NamedBox{Name: g.Category, Box: box})
		}
	}
	if len(boxes) == 0 {
		return charts.Figure{}, noCompleteRows(category), nil
	}
	fig, err := charts.BoxPlot(title, p.target, boxes)
	return fig, "", err
}

func noValues(column string) string {
	return fmt.Sprintf("Column %s has no values to plot.", column)
}

func noCompleteRows(category string) string {
	return fmt.Sprintf("No complete rows to compare against %s.", category)
}
