package table

import (
	"fmt"
	"strings"
)

// Table is an immutable, column-oriented dataset. Rows align positionally
// across columns. Operations that change shape or kinds return a new Table.
type Table struct {
	columns []*Column
	rows    int
}

// New builds a table from a header row and data rows. Blank headers become
// "Unnamed: i" and repeated headers get ".1", ".2" suffixes. Short rows are
// padded with missing cells; cells past the header width are dropped.
func New(headers []string, rows [][]string) (*Table, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("table has no columns")
	}

	names := normalizeHeaders(headers)
	raw := make([][]string, len(names))
	for j := range raw {
		raw[j] = make([]string, len(rows))
	}
	for i, row := range rows {
		for j := range names {
			if j < len(row) {
				raw[j][i] = strings.TrimSpace(row[j])
			}
		}
	}

	t := &Table{rows: len(rows), columns: make([]*Column, len(names))}
	for j, name := range names {
		kind := Classify(raw[j])
		t.columns[j] = &Column{Name: name, Kind: kind, Values: buildValues(raw[j], kind)}
	}
	return t, nil
}

func normalizeHeaders(headers []string) []string {
	names := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			candidate := fmt.Sprintf("%s.%d", name, n)
			for {
				if _, taken := seen[candidate]; !taken {
					break
				}
				n++
				candidate = fmt.Sprintf("%s.%d", name, n)
			}
			seen[name] = n + 1
			name = candidate
		}
		seen[name]++
		names[i] = name
	}
	return names
}

// Shape returns the number of rows and columns
func (t *Table) Shape() (int, int) {
	return t.rows, len(t.columns)
}

// Rows returns the row count
func (t *Table) Rows() int { return t.rows }

// Columns returns the columns in table order. Callers must not modify them.
func (t *Table) Columns() []*Column {
	return t.columns
}

// Names returns the column names in table order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// NumericColumns returns the names of numeric columns in table order
func (t *Table) NumericColumns() []string {
	var names []string
	for _, c := range t.columns {
		if IsNumeric(c) {
			names = append(names, c.Name)
		}
	}
	return names
}

// CategoricalColumns returns the names of categorical columns in table order
func (t *Table) CategoricalColumns() []string {
	var names []string
	for _, c := range t.columns {
		if IsCategorical(c) {
			names = append(names, c.Name)
		}
	}
	return names
}

// WithKind returns a copy of the table with the named column re-parsed under
// the given kind.
func (t *Table) WithKind(name string, kind Kind) (*Table, error) {
	idx := -1
	for i, c := range t.columns {
		if c.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found", name)
	}

	src := t.columns[idx]
	raw := make([]string, len(src.Values))
	for i, v := range src.Values {
		raw[i] = v.Raw
	}

	out := &Table{rows: t.rows, columns: make([]*Column, len(t.columns))}
	copy(out.columns, t.columns)
	out.columns[idx] = &Column{Name: src.Name, Kind: kind, Declared: true, Values: buildValues(raw, kind)}
	return out, nil
}

// DropMissing returns a copy holding only the rows where no column is missing
func (t *Table) DropMissing() *Table {
	keep := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		complete := true
		for _, c := range t.columns {
			if c.Values[i].Missing {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}
	if len(keep) == t.rows {
		return t
	}

	out := &Table{rows: len(keep), columns: make([]*Column, len(t.columns))}
	for j, c := range t.columns {
		values := make([]Value, len(keep))
		for k, i := range keep {
			values[k] = c.Values[i]
		}
		out.columns[j] = &Column{Name: c.Name, Kind: c.Kind, Declared: c.Declared, Values: values}
	}
	return out
}

// Head returns up to n rows of raw cells for previews. Missing cells render
// as "NaN" for numeric columns and "None" otherwise.
func (t *Table) Head(n int) [][]string {
	if n > t.rows || n < 0 {
		n = t.rows
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(t.columns))
		for j, c := range t.columns {
			v := c.Values[i]
			switch {
			case v.Missing && c.Kind == KindNumeric:
				row[j] = "NaN"
			case v.Missing:
				row[j] = "None"
			default:
				row[j] = v.Raw
			}
		}
		out[i] = row
	}
	return out
}

// Present returns the non-missing numbers of a numeric or boolean column
func (c *Column) Present() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.Missing {
			out = append(out, v.Number)
		}
	}
	return out
}

// MissingCount returns how many cells of the column are missing
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.Missing {
			n++
		}
	}
	return n
}
