package export

import (
	"bytes"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/gctool/internal/book"
	"github.com/cleared-dev/gctool/internal/model"
	"github.com/cleared-dev/gctool/internal/value"
)

func amount(num, den int64) value.NullAmount {
	return value.NullAmount{Amount: value.NewAmount(num, den), Valid: true}
}

func testRecords() []model.Record {
	return []model.Record{
		{
			ID:              "3821b8b649da6b1375b273bcd32ffcc7",
			Date:            time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
			Description:     "Golan Telecom",
			Account:         "Expenses:Utilities:Phone/Internet",
			ReconciledState: "n",
			Value:           amount(4990, 100),
			Quantity:        amount(4990, 100),
		},
		{
			ID:          "partial",
			Description: `Shop "A", downtown`,
			Memo:        "weekly shop",
			Account:     "Expenses:Groceries",
		},
	}
}

func TestWriteRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, testRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, "3821b8b649da6b1375b273bcd32ffcc7,2023-01-05,Golan Telecom,,Expenses:Utilities:Phone/Internet,n,49.90,49.90", lines[1])
	assert.Equal(t, `partial,,"Shop ""A"", downtown",weekly shop,Expenses:Groceries,,,`, lines[2])
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	records := testRecords()
	require.NoError(t, WriteRecords(&buf, records))

	got, err := ReadRecords(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range records {
		assert.Equal(t, records[i].ID, got[i].ID)
		assert.True(t, records[i].Date.Equal(got[i].Date))
		assert.Equal(t, records[i].Description, got[i].Description)
		assert.Equal(t, records[i].Memo, got[i].Memo)
		assert.Equal(t, records[i].Account, got[i].Account)
		assert.Equal(t, records[i].Value.Valid, got[i].Value.Valid)
		assert.True(t, records[i].Value.Amount.Equal(got[i].Value.Amount))
	}
}

func TestRoundTrip_ExactAmounts(t *testing.T) {
	records := []model.Record{{
		ID:       "shares",
		Account:  "Assets:Brokerage",
		Value:    amount(-3, 1),
		Quantity: amount(15, 1000),
	}, {
		ID:       "thirds",
		Account:  "Assets:Brokerage",
		Value:    amount(1, 3),
		Quantity: amount(1, 3),
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, records))
	assert.Contains(t, buf.String(), "shares,,,,Assets:Brokerage,,-3.00,0.015\n")
	assert.Contains(t, buf.String(), "thirds,,,,Assets:Brokerage,,1/3,1/3\n")

	got, err := ReadRecords(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range records {
		assert.True(t, records[i].Value.Amount.Equal(got[i].Value.Amount), "value of %s", records[i].ID)
		assert.True(t, records[i].Quantity.Amount.Equal(got[i].Quantity.Amount), "quantity of %s", records[i].ID)
	}
}

func TestUnmarshalRecord_Errors(t *testing.T) {
	_, err := UnmarshalRecord([]string{"one"})
	assert.Contains(t, err.Error(), "expected 8 fields")

	row := MarshalRecord(testRecords()[0])
	row[colDate] = "01/05/2023"
	_, err = UnmarshalRecord(row)
	assert.ErrorIs(t, err, value.ErrMalformedDate)

	row = MarshalRecord(testRecords()[0])
	row[colValue] = "lots"
	_, err = UnmarshalRecord(row)
	assert.Error(t, err)
}

func TestWriteRecords_FromBook(t *testing.T) {
	b, err := book.Load("../../testdata/sample.gnucash")
	require.NoError(t, err)

	var records []model.Record
	for s := range b.AccountSplits("Assets:Savings EUR") {
		rec, err := b.Extract(s)
		require.NoError(t, err)
		records = append(records, rec)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, records))
	assert.Contains(t, buf.String(), "2023-04-01,Transfer to savings,,Assets:Savings EUR,n,100.00,90.00")
}

func TestWriteSummary(t *testing.T) {
	b, err := book.Load("../../testdata/sample.gnucash")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, b.Summarize()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		SummaryHeader,
		"Assets:Checking,6,2646.87",
		"Assets:Savings EUR,1,100.00",
		"Expenses:Groceries,1,33.33",
		"Expenses:Utilities:Phone/Internet,3,219.80",
		"Income:Salary,1,-3000.00",
		"total,12,0.00",
	}, lines)
	assert.True(t, slices.IsSorted(lines[1:len(lines)-1]))
}

func TestWriteSummary_KeepsPrecision(t *testing.T) {
	summary := map[string]book.Summary{
		"Assets:Brokerage": {Count: 2, Total: value.NewAmount(15, 1000)},
		"Assets:Cash":      {Count: 1, Total: value.NewAmount(-1, 100)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, summary))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		SummaryHeader,
		"Assets:Brokerage,2,0.015",
		"Assets:Cash,1,-0.01",
		"total,3,0.005",
	}, lines)
}
