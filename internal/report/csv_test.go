package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/gctool/internal/logger"
)

func TestWriteTable(t *testing.T) {
	r := NewBuilder(loadSample(t), Options{}, logger.Discard())
	tbl, err := r.Section(utilities)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, tbl))

	want := ",1/2023,2/2023,3/2023\n" +
		"Expenses:Utilities:Phone/Internet,170,50,0\n" +
		"Expenses:Groceries,0,0,33\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteRollups(t *testing.T) {
	r := NewBuilder(loadSample(t), Options{}, logger.Discard())
	tbl, err := r.Section(utilities)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteRollups(&buf, []Rollup{tbl.Rollup()}))

	want := "Utilities (month),2023\n" +
		"Expenses:Utilities:Phone/Internet,73\n" +
		"Expenses:Groceries,11\n" +
		"total,84\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteDir(t *testing.T) {
	r := NewBuilder(loadSample(t), Options{}, logger.Discard())
	tables, err := r.Build([]Section{
		utilities,
		{Title: "Income & Salary", Period: Quarter, Accounts: []string{"Income"}},
	})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteDir(dir, tables)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "summary.csv"),
		filepath.Join(dir, "utilities.csv"),
		filepath.Join(dir, "income-salary.csv"),
	}, paths)

	data, err := os.ReadFile(filepath.Join(dir, "income-salary.csv"))
	require.NoError(t, err)
	assert.Equal(t, ",Q1 2023\nIncome,-3000\n", string(data))
}

func TestWriteDir_DistinctSheets(t *testing.T) {
	r := NewBuilder(loadSample(t), Options{}, logger.Discard())
	tables, err := r.Build([]Section{
		{Title: "Summary", Period: Year, Accounts: []string{"Income"}},
		{Title: "Food & Drink", Period: Month, Accounts: []string{"Expenses:Groceries"}},
		{Title: "Food/Drink", Period: Month, Accounts: []string{"Expenses:Groceries"}},
	})
	require.NoError(t, err)

	dir := t.TempDir()
	paths, err := WriteDir(dir, tables)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "summary.csv"),
		filepath.Join(dir, "summary-2.csv"),
		filepath.Join(dir, "food-drink.csv"),
		filepath.Join(dir, "food-drink-2.csv"),
	}, paths)

	rollup, err := os.ReadFile(filepath.Join(dir, "summary.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(rollup), "Food/Drink (")

	sheet, err := os.ReadFile(filepath.Join(dir, "summary-2.csv"))
	require.NoError(t, err)
	assert.Equal(t, ",2023\nIncome,-3000\n", string(sheet))
}

func TestFileNames(t *testing.T) {
	tables := []*Table{{Title: "Travel"}, {Title: "travel"}, {Title: "Travel 2"}, {Title: "Summary"}}
	assert.Equal(t, []string{"travel.csv", "travel-2.csv", "travel-2-2.csv", "summary-2.csv"}, FileNames(tables))
}

func TestFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Utilities", "utilities.csv"},
		{"Utilities & Phone", "utilities-phone.csv"},
		{"  Travel (2023)  ", "travel-2023.csv"},
		{"***", "section.csv"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileName(tt.input), "FileName(%q)", tt.input)
	}
}
