package excel

import (
	"path/filepath"
	"strings"

	"edadash/internal/errors"
)

// Format is the file format a dataset is parsed with
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

// Media types reported by browsers for the two supported uploads
const (
	MediaTypeCSV  = "text/csv"
	MediaTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ParseFormat maps the user's radio selection to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	}
	return "", errors.InvalidInput("unsupported file format: " + s)
}

// ResolveFormat picks the parser for an upload. A media type that matches one
// of the two known literals wins; anything else falls back to the format the
// user declared. The content itself is never sniffed.
func ResolveFormat(declared Format, mediaType string) Format {
	switch strings.TrimSpace(strings.Split(mediaType, ";")[0]) {
	case MediaTypeCSV:
		return FormatCSV
	case MediaTypeXLSX:
		return FormatExcel
	}
	return declared
}

// FormatFromPath infers the format of a file on disk from its extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatExcel, nil
	}
	return "", errors.InvalidInput("cannot infer file format from " + filepath.Base(path))
}
