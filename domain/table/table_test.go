package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(
		[]string{"depth", "formation", "valid", "code"},
		[][]string{
			{"100.5", "Shale", "true", "01"},
			{"", "Sand", "false", "02"},
			{"120", "NA", "True", "03"},
			{"130.25", "Shale", "", "01"},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestNewInfersKinds(t *testing.T) {
	tbl := sampleTable(t)

	rows, cols := tbl.Shape()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 4, cols)

	kinds := map[string]Kind{}
	for _, c := range tbl.Columns() {
		kinds[c.Name] = c.Kind
	}
	assert.Equal(t, KindNumeric, kinds["depth"])
	assert.Equal(t, KindText, kinds["formation"])
	assert.Equal(t, KindBoolean, kinds["valid"])
	assert.Equal(t, KindNumeric, kinds["code"])

	assert.Equal(t, []string{"depth", "code"}, tbl.NumericColumns())
	assert.Equal(t, []string{"formation", "valid"}, tbl.CategoricalColumns())
}

func TestMissingMarkers(t *testing.T) {
	tbl := sampleTable(t)

	depth, ok := tbl.Column("depth")
	require.True(t, ok)
	assert.Equal(t, 1, depth.MissingCount())
	assert.Equal(t, []float64{100.5, 120, 130.25}, depth.Present())

	formation, _ := tbl.Column("formation")
	assert.Equal(t, 1, formation.MissingCount())

	for _, marker := range []string{"", "NA", "NaN", "null", "None", "#N/A", "<NA>", "n/a"} {
		assert.True(t, IsMissingMarker(marker), marker)
	}
	assert.False(t, IsMissingMarker("0"))
	assert.False(t, IsMissingMarker("none"))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindNumeric, Classify([]string{"1", "2.5", "", "-3e2"}))
	assert.Equal(t, KindNumeric, Classify([]string{"", "NA"}))
	assert.Equal(t, KindBoolean, Classify([]string{"True", "false", ""}))
	assert.Equal(t, KindText, Classify([]string{"1", "two"}))
	assert.Equal(t, KindText, Classify([]string{"true", "1"}))
}

func TestWithKindDeclaresCategorical(t *testing.T) {
	tbl := sampleTable(t)

	declared, err := tbl.WithKind("code", KindText)
	require.NoError(t, err)

	code, _ := declared.Column("code")
	assert.True(t, code.Declared)
	assert.True(t, IsCategorical(code))
	assert.Equal(t, []string{"depth"}, declared.NumericColumns())

	original, _ := tbl.Column("code")
	assert.Equal(t, KindNumeric, original.Kind, "source table must be unchanged")

	_, err = tbl.WithKind("missing", KindText)
	assert.Error(t, err)
}

func TestWithKindNumericCoercesUnparsable(t *testing.T) {
	tbl, err := New([]string{"x"}, [][]string{{"1"}, {"abc"}, {"3"}})
	require.NoError(t, err)

	declared, err := tbl.WithKind("x", KindNumeric)
	require.NoError(t, err)

	x, _ := declared.Column("x")
	assert.Equal(t, 1, x.MissingCount())
	assert.Equal(t, []float64{1, 3}, x.Present())
}

func TestNormalizeHeaders(t *testing.T) {
	tbl, err := New([]string{"a", "", "a", "a", " b "}, [][]string{{"1", "2", "3", "4", "5"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "Unnamed: 1", "a.1", "a.2", "b"}, tbl.Names())
}

func TestShortRowsArePadded(t *testing.T) {
	tbl, err := New([]string{"a", "b"}, [][]string{{"1"}, {"2", "x", "extra"}})
	require.NoError(t, err)

	b, _ := tbl.Column("b")
	assert.Equal(t, 1, b.MissingCount())
	assert.Equal(t, [][]string{{"1", "None"}, {"2", "x"}}, tbl.Head(10))
}

func TestDropMissing(t *testing.T) {
	tbl := sampleTable(t)

	complete := tbl.DropMissing()
	assert.Equal(t, 1, complete.Rows())
	assert.Equal(t, [][]string{{"100.5", "Shale", "true", "01"}}, complete.Head(-1))
	assert.Equal(t, 4, tbl.Rows())
}

func TestNewRejectsEmptyHeader(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("Categorical")
	assert.True(t, ok)
	assert.Equal(t, KindText, k)

	_, ok = ParseKind("date")
	assert.False(t, ok)
}
