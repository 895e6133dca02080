// Package assets bundles the example dataset offered on the dashboard.
package assets

import (
	"bytes"
	_ "embed"

	"edadash/adapters/excel"
	"edadash/domain/table"
)

// ExampleDatasetName is shown as the source of the bundled dataset
const ExampleDatasetName = "example_mwd_survey.csv"

//go:embed example_mwd_survey.csv
var exampleDataset []byte

// ExampleDataset parses the bundled MWD survey dataset
func ExampleDataset() (*table.Table, error) {
	return excel.NewDataReader(excel.FormatCSV, ExampleDatasetName).Read(bytes.NewReader(exampleDataset))
}
