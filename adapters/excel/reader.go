package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"edadash/domain/table"
	"edadash/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader parses CSV and Excel content into a table
type DataReader struct {
	format Format
	source string // name used in log lines
}

// NewDataReader creates a reader for the given format
func NewDataReader(format Format, source string) *DataReader {
	return &DataReader{format: format, source: source}
}

// Read parses the whole input into a table. Parse failures are returned as
// PARSE_ERROR app errors carrying the underlying library message.
func (r *DataReader) Read(in io.Reader) (*table.Table, error) {
	log.Printf("[DataReader] Reading %s data from %s", r.format, r.source)

	var (
		rows [][]string
		err  error
	)
	switch r.format {
	case FormatCSV:
		rows, err = r.readCSVRows(in)
	case FormatExcel:
		rows, err = r.readExcelRows(in)
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", r.format))
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.ParseError(string(r.format), fmt.Errorf("no columns to parse from file"))
	}

	t, err := table.New(rows[0], rows[1:])
	if err != nil {
		return nil, errors.ParseError(string(r.format), err)
	}

	n, m := t.Shape()
	log.Printf("[DataReader] %s processed (%d columns, %d rows)", r.source, m, n)
	return t, nil
}

// readCSVRows reads comma-separated records. Records shorter than the header
// are kept and their trailing cells read as missing; longer records are an error.
func (r *DataReader) readCSVRows(in io.Reader) ([][]string, error) {
	reader := csv.NewReader(in)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ParseError("csv", err)
	}
	if len(rows) > 0 {
		width := len(rows[0])
		for i, row := range rows[1:] {
			if len(row) > width {
				return nil, errors.ParseError("csv", fmt.Errorf("record on line %d: expected %d fields, saw %d", i+2, width, len(row)))
			}
		}
	}
	log.Printf("[DataReader] CSV read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// readExcelRows reads the first worksheet of a workbook
func (r *DataReader) readExcelRows(in io.Reader) ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(in)
	if err != nil {
		return nil, errors.ParseError("excel", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ParseError("excel", fmt.Errorf("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.ParseError("excel", fmt.Errorf("read sheet %s: %w", sheets[0], err))
	}
	log.Printf("[DataReader] Sheet %s read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// LoadFile reads a dataset from disk, choosing the parser from the extension
func LoadFile(path string) (*table.Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.NotFound(path), "failed to open dataset: %v", err)
	}
	defer file.Close()

	return NewDataReader(format, path).Read(file)
}
