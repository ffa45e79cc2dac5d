package dataset_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplj/anonhub/internal/dataset"
	"github.com/looplj/anonhub/internal/pkg/xtest"
)

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"Name,Age,Email",
		"Alice,34,alice@example.com",
		"Bob,,bob@example.com",
		",29,",
	}, "\n")

	table, err := dataset.ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Age", "Email"}, table.ColumnNames())
	assert.Equal(t, 3, table.NumRows())

	age, ok := table.Column("Age")
	require.True(t, ok)
	assert.Equal(t, dataset.ColumnNumeric, age.Kind())
	assert.True(t, age.Values[1].IsMissing())

	name, ok := table.Column("Name")
	require.True(t, ok)
	assert.Equal(t, dataset.ColumnText, name.Kind())
	assert.True(t, name.Values[2].IsMissing())
}

func TestReadCSV_WideDigitIdentifiersExact(t *testing.T) {
	// 9999999999999999 exceeds float64's 53-bit mantissa and would round to
	// 10000000000000000 without the recorded lexical form.
	input := strings.Join([]string{
		"Card Number",
		"4111111111111111",
		"9999999999999999",
	}, "\n")

	table, err := dataset.ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	col, ok := table.Column("Card Number")
	require.True(t, ok)
	assert.Equal(t, dataset.ColumnNumeric, col.Kind(), "identifier columns stay numeric")
	assert.Equal(t, "4111111111111111", col.Values[0].Text())
	assert.Equal(t, "9999999999999999", col.Values[1].Text())

	var buf bytes.Buffer
	require.NoError(t, dataset.WriteCSV(&buf, table))
	assert.Contains(t, buf.String(), "9999999999999999")
	assert.NotContains(t, buf.String(), "10000000000000000")
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	table, err := dataset.ReadCSV(strings.NewReader("A,B\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.NumRows())
	assert.Equal(t, 2, table.NumColumns())
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := dataset.ReadCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	table := dataset.New(
		dataset.NewStringColumn("Name", []string{"Alice", "", "Carol"}),
		dataset.NewNumberColumn("Salary", []float64{52000, 61000, 47500.5}),
	)

	var buf bytes.Buffer
	require.NoError(t, dataset.WriteCSV(&buf, table))

	parsed, err := dataset.ReadCSV(&buf)
	require.NoError(t, err)

	if diff := xtest.Diff(table, parsed); diff != "" {
		t.Fatalf("round trip changed table (-want +got):\n%s", diff)
	}
}

func TestSaveCSV_LoadCSV(t *testing.T) {
	table := dataset.New(
		dataset.NewStringColumn("Email", []string{"a@example.com", "b@example.com"}),
		dataset.NewNumberColumn("Age", []float64{30, 41}),
	)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, dataset.SaveCSV(path, table))

	loaded, err := dataset.LoadCSV(path)
	require.NoError(t, err)
	assert.True(t, xtest.Equal(table, loaded))
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := dataset.LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open dataset")
}
