package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"edadash/adapters/excel"
	"edadash/domain/table"
	"edadash/internal/charts"
	"edadash/internal/errors"
	"edadash/internal/profiling"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "eda-cli",
		Short:         "Exploratory data analysis of CSV and Excel files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newReportCmd(),
		newChartCmd(),
	)
	return rootCmd
}

func newReportCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Print column info, missing values, descriptive statistics and outliers",
		Long: `Profile a dataset the way the dashboard does.

Example: eda-cli report survey.csv --output report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := excel.LoadFile(args[0])
			if err != nil {
				return err
			}
			report, err := buildReport(args[0], tbl)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)

			if outputFile != "" {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return errors.Wrap(err, "failed to encode report")
				}
				if err := os.WriteFile(outputFile, data, 0o644); err != nil {
					return errors.Wrap(err, "failed to write report")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nDetailed results saved to: %s\n", outputFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Also write the report as JSON to this file")
	return cmd
}

// report is everything `eda-cli report` prints
type report struct {
	Source          string                   `json:"source"`
	Rows            int                      `json:"rows"`
	Columns         int                      `json:"columns"`
	Info            []profiling.ColumnInfo   `json:"info"`
	Missing         []profiling.NullEntry    `json:"missing"`
	Description     []profiling.Description  `json:"-"`
	Outliers        []profiling.OutlierCount `json:"outliers"`
	HighCardinality []string                 `json:"high_cardinality"`
}

func buildReport(source string, tbl *table.Table) (*report, error) {
	r := &report{Source: source, Info: profiling.Info(tbl)}
	r.Rows, r.Columns = tbl.Shape()
	if r.Rows == 0 {
		return r, nil
	}

	missing, err := profiling.NullReport(tbl)
	if err != nil && !errors.Is(err, profiling.ErrAllPresent) {
		return nil, err
	}
	r.Missing = missing

	if r.Description, err = profiling.Describe(tbl); err != nil {
		return nil, err
	}
	r.Outliers = profiling.CountOutliers(tbl)
	_, r.HighCardinality = profiling.SplitByCardinality(tbl, tbl.CategoricalColumns())
	return r, nil
}

func printReport(w io.Writer, r *report) {
	fmt.Fprintf(w, "Source: %s\n", r.Source)
	fmt.Fprintf(w, "Dataset contains %d rows and %d columns.\n", r.Rows, r.Columns)

	fmt.Fprintf(w, "\n=== INFO ===\n")
	for i, ci := range r.Info {
		fmt.Fprintf(w, "%d. %s: %d non-null, %s\n", i+1, ci.Column, ci.NonNull, ci.DType)
	}
	if r.Rows == 0 {
		fmt.Fprintln(w, "\nThe dataset has no rows.")
		return
	}

	fmt.Fprintf(w, "\n=== NA VALUES ===\n")
	if len(r.Missing) == 0 {
		fmt.Fprintln(w, profiling.ErrAllPresent.Error())
	}
	for _, e := range r.Missing {
		fmt.Fprintf(w, "%s: %d (%.2f%%)\n", e.Column, e.Missing, e.Percent)
	}

	fmt.Fprintf(w, "\n=== DESCRIPTIVE STATISTICS ===\n")
	for _, d := range r.Description {
		fmt.Fprintf(w, "%s: count=%d mean=%.4g std=%.4g min=%.4g 25%%=%.4g 50%%=%.4g 75%%=%.4g max=%.4g\n",
			d.Column, d.Count, d.Mean, d.Std, d.Min, d.Q25, d.Median, d.Q75, d.Max)
	}

	fmt.Fprintf(w, "\n=== OUTLIERS ===\n")
	for _, oc := range r.Outliers {
		fmt.Fprintf(w, "%s: %d\n", oc.Column, oc.Count)
	}

	if len(r.HighCardinality) > 0 {
		fmt.Fprintf(w, "\n=== HIGH CARDINALITY ===\n")
		for _, name := range r.HighCardinality {
			fmt.Fprintf(w, "- %s\n", name)
		}
	}
}

func newChartCmd() *cobra.Command {
	var column, kind, outFile string

	cmd := &cobra.Command{
		Use:   "chart [file]",
		Short: "Render one column as an SVG chart",
		Long: `Render a histogram, box plot or count plot of a column.

Example: eda-cli chart survey.csv --column Inclination_deg --kind box --out inclination.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := excel.LoadFile(args[0])
			if err != nil {
				return err
			}
			fig, err := renderColumn(tbl, column, kind)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outFile, fig.SVG, 0o644); err != nil {
				return errors.Wrap(err, "failed to write chart")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chart saved to: %s\n", outFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Column to plot")
	cmd.Flags().StringVar(&kind, "kind", "histogram", "Chart kind: histogram, box or count")
	cmd.Flags().StringVar(&outFile, "out", "chart.svg", "Output SVG file")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func renderColumn(tbl *table.Table, column, kind string) (charts.Figure, error) {
	col, ok := tbl.Column(column)
	if !ok {
		return charts.Figure{}, errors.NotFound(fmt.Sprintf("column %q", column))
	}

	switch kind {
	case "histogram":
		if !table.IsNumeric(col) {
			return charts.Figure{}, errors.InvalidInput(fmt.Sprintf("column %q is not numeric", column))
		}
		bins := profiling.Histogram(col.Present(), 0)
		if len(bins) == 0 {
			return charts.Figure{}, errors.InvalidInput(fmt.Sprintf("column %q has no values", column))
		}
		return charts.Histogram(column, bins)
	case "box":
		if !table.IsNumeric(col) {
			return charts.Figure{}, errors.InvalidInput(fmt.Sprintf("column %q is not numeric", column))
		}
		box, ok := profiling.BoxStats(col.Present())
		if !ok {
			return charts.Figure{}, errors.InvalidInput(fmt.Sprintf("column %q has no values", column))
		}
		return charts.BoxPlot(column, column, []charts.NamedBox{{Name: column, Box: box}})
	case "count":
		counts := profiling.ValueCounts(col)
		if len(counts) == 0 {
			return charts.Figure{}, errors.InvalidInput(fmt.Sprintf("column %q has no values", column))
		}
		return charts.CountPlot(column, counts)
	}
	return charts.Figure{}, errors.InvalidInput(fmt.Sprintf("unknown chart kind %q", kind))
}
