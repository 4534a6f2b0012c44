package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportConfig = `book: home.gnucash
report:
  currency: USD
  exchange_rates:
    EUR:
      2023: "1.1"
  sections:
    - title: Utilities
      agg_period: month
      accounts:
        - "Expenses:Utilities:Phone/Internet"
        - "Expenses:Groceries"
    - title: Assets
      agg_period: year
      accounts: ["Assets:Savings EUR"]
`

func TestReport(t *testing.T) {
	dir := t.TempDir()
	copySample(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gctool.yaml"), []byte(reportConfig), 0o644))

	out, _, err := runGctool(t, dir, nil, "report", "--out", "out")
	require.NoError(t, err, out)
	assert.Contains(t, out, filepath.Join("out", "summary.csv"))

	summary, err := os.ReadFile(filepath.Join(dir, "out", "summary.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Utilities (month),2023\n"+
		"Expenses:Utilities:Phone/Internet,73\n"+
		"Expenses:Groceries,11\n"+
		"total,84\n"+
		"\n"+
		"Assets (year),2023\n"+
		"Assets:Savings EUR,99\n"+
		"total,99\n"+
		"\n", string(summary))

	util, err := os.ReadFile(filepath.Join(dir, "out", "utilities.csv"))
	require.NoError(t, err)
	assert.Equal(t, ",1/2023,2/2023,3/2023\n"+
		"Expenses:Utilities:Phone/Internet,170,50,0\n"+
		"Expenses:Groceries,0,0,33\n", string(util))
}

func TestReport_MissingRate(t *testing.T) {
	dir := t.TempDir()
	copySample(t, dir)
	cfg := `book: home.gnucash
report:
  currency: USD
  sections:
    - title: Assets
      accounts: ["Assets"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gctool.yaml"), []byte(cfg), 0o644))

	_, stderr, err := runGctool(t, dir, nil, "report")
	require.Error(t, err)
	assert.Contains(t, stderr, "no exchange rate")
}

func TestReport_RequiresSections(t *testing.T) {
	dir := t.TempDir()
	copySample(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gctool.yaml"), []byte("book: home.gnucash\n"), 0o644))

	_, stderr, err := runGctool(t, dir, nil, "report")
	require.Error(t, err)
	assert.Contains(t, stderr, "no report sections")
}
