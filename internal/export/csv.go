// Package export writes split records and account summaries as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/cleared-dev/gctool/internal/book"
	"github.com/cleared-dev/gctool/internal/model"
	"github.com/cleared-dev/gctool/internal/value"
)

// Header is the CSV header for split exports.
const Header = "split_id,date,description,memo,account,reconciled_state,value,quantity"

// SummaryHeader is the CSV header for account summaries.
const SummaryHeader = "account,count,total"

// Places is the minimum number of decimal places amounts are written with.
// Amounts needing more places keep them.
const Places = 2

const (
	numFields     = 8
	colID         = 0
	colDate       = 1
	colDesc       = 2
	colMemo       = 3
	colAccount    = 4
	colReconciled = 5
	colValue      = 6
	colQuantity   = 7
)

// WriteRecords writes records to w (including header).
func WriteRecords(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range records {
		if err := cw.Write(MarshalRecord(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRecords reads records written by WriteRecords. Account ids are not
// exported, so AccountID is left empty.
func ReadRecords(r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading split CSV: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	// Skip header row.
	var records []model.Record
	for i, row := range rows[1:] {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// MarshalRecord converts a Record to a CSV row. Missing dates and amounts
// are written as empty cells.
func MarshalRecord(rec model.Record) []string {
	row := make([]string, numFields)
	row[colID] = rec.ID
	if !rec.Date.IsZero() {
		row[colDate] = value.FormatDate(rec.Date)
	}
	row[colDesc] = rec.Description
	row[colMemo] = rec.Memo
	row[colAccount] = rec.Account
	row[colReconciled] = rec.ReconciledState
	row[colValue] = formatAmount(rec.Value)
	row[colQuantity] = formatAmount(rec.Quantity)
	return row
}

// UnmarshalRecord converts a CSV row to a Record.
func UnmarshalRecord(row []string) (model.Record, error) {
	if len(row) != numFields {
		return model.Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}

	rec := model.Record{
		ID:              row[colID],
		Description:     row[colDesc],
		Memo:            row[colMemo],
		Account:         row[colAccount],
		ReconciledState: row[colReconciled],
	}

	if row[colDate] != "" {
		d, err := value.ParseDate(row[colDate])
		if err != nil {
			return model.Record{}, fmt.Errorf("parsing date: %w", err)
		}
		rec.Date = d
	}

	var err error
	if rec.Value, err = parseAmount(row[colValue]); err != nil {
		return model.Record{}, fmt.Errorf("parsing value %q: %w", row[colValue], err)
	}
	if rec.Quantity, err = parseAmount(row[colQuantity]); err != nil {
		return model.Record{}, fmt.Errorf("parsing quantity %q: %w", row[colQuantity], err)
	}
	return rec, nil
}

func formatAmount(a value.NullAmount) string {
	if !a.Valid {
		return ""
	}
	return a.Amount.Exact(Places)
}

func parseAmount(s string) (value.NullAmount, error) {
	if s == "" {
		return value.NullAmount{}, nil
	}
	a, err := value.ParseExact(s)
	if err != nil {
		return value.NullAmount{}, err
	}
	return value.NullAmount{Amount: a, Valid: true}, nil
}

// WriteSummary writes one row per account, sorted by name, followed by a
// "total" row with the grand total.
func WriteSummary(w io.Writer, summary map[string]book.Summary) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(SummaryHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	count := 0
	for _, name := range slices.Sorted(maps.Keys(summary)) {
		s := summary[name]
		count += s.Count
		row := []string{name, strconv.Itoa(s.Count), s.Total.Exact(Places)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	total := []string{"total", strconv.Itoa(count), book.GrandTotal(summary).Exact(Places)}
	if err := cw.Write(total); err != nil {
		return fmt.Errorf("writing total: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
