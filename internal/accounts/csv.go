package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ChartHeader is the CSV header written by WriteChart.
var ChartHeader = []string{"account_id", "full_name", "name", "type", "parent_id", "commodity"}

const (
	numFields    = 6
	colID        = 0
	colFullName  = 1
	colName      = 2
	colType      = 3
	colParent    = 4
	colCommodity = 5
)

// WriteChart writes the chart of accounts as CSV, in document order.
func WriteChart(w io.Writer, idx *Index) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(ChartHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range idx.All() {
		row := make([]string, numFields)
		row[colID] = acct.ID
		row[colFullName], _ = idx.Name(acct.ID)
		row[colName] = acct.Name
		row[colType] = acct.Type
		row[colParent] = acct.ParentID
		row[colCommodity] = acct.Commodity
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
