// Package report aggregates account activity into periodic tables and a
// yearly rollup, converting foreign commodities at configured yearly rates.
package report

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cleared-dev/gctool/internal/book"
	"github.com/cleared-dev/gctool/internal/model"
	"github.com/cleared-dev/gctool/internal/value"
)

// ErrNoRate is returned when a split needs converting and the rate table has
// no entry for its commodity and year.
var ErrNoRate = errors.New("no exchange rate")

// Section is one report sheet definition.
type Section struct {
	Title    string
	Period   Period
	Accounts []string // full names; each includes its sub-accounts
}

// Options apply to every section of a report.
type Options struct {
	Range    *model.DateRange
	Currency string                           // report currency; empty disables conversion
	Rates    map[string]map[int]value.Amount // commodity -> year -> rate
}

// Row is one account's series across a table's periods.
type Row struct {
	Account string
	Values  []value.Amount
}

// Table is a section aggregated into consecutive periods. Periods run without
// gaps from the earliest to the latest period with activity; empty cells are 0.
type Table struct {
	Title   string
	Period  Period
	Periods []time.Time // period starts
	Rows    []Row       // only accounts with activity, in section order
}

// Builder produces report tables from a book.
type Builder struct {
	book *book.Book
	opts Options
	log  *slog.Logger
}

// NewBuilder returns a Builder reading from b.
func NewBuilder(b *book.Book, opts Options, log *slog.Logger) *Builder {
	return &Builder{book: b, opts: opts, log: log}
}

// Build aggregates every section, in order.
func (r *Builder) Build(sections []Section) ([]*Table, error) {
	tables := make([]*Table, 0, len(sections))
	for _, sec := range sections {
		t, err := r.Section(sec)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", sec.Title, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Section aggregates one section. Unknown accounts are logged and skipped.
func (r *Builder) Section(sec Section) (*Table, error) {
	var preds []book.Predicate
	if p, ok := r.book.MatchDateRange(r.opts.Range); ok {
		preds = append(preds, p)
	}

	buckets := make(map[string]map[time.Time]value.Amount)
	var first, last time.Time
	for _, name := range sec.Accounts {
		tree, ok := r.book.MatchAccountTree(name)
		if !ok {
			r.log.Warn("report account not found", "section", sec.Title, "account", name)
			continue
		}
		for s := range r.book.Splits(append([]book.Predicate{tree}, preds...)...) {
			d, err := s.Date()
			if err != nil {
				r.log.Warn("skipping split without date", "split", s.ID(), "error", err)
				continue
			}
			amt, err := r.amount(s, d.Year())
			if err != nil {
				return nil, err
			}
			start := sec.Period.Start(d)
			if buckets[name] == nil {
				buckets[name] = make(map[time.Time]value.Amount)
			}
			buckets[name][start] = buckets[name][start].Add(amt)
			if first.IsZero() || start.Before(first) {
				first = start
			}
			if start.After(last) {
				last = start
			}
		}
	}

	t := &Table{Title: sec.Title, Period: sec.Period}
	if first.IsZero() {
		return t, nil
	}
	for p := first; !p.After(last); p = sec.Period.Next(p) {
		t.Periods = append(t.Periods, p)
	}
	for _, name := range sec.Accounts {
		b, ok := buckets[name]
		if !ok || slices.ContainsFunc(t.Rows, func(row Row) bool { return row.Account == name }) {
			continue
		}
		row := Row{Account: name, Values: make([]value.Amount, len(t.Periods))}
		for i, p := range t.Periods {
			row.Values[i] = b[p]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// amount is the split quantity in the report currency. Splits without a
// readable quantity fall back to their value.
func (r *Builder) amount(s book.Split, year int) (value.Amount, error) {
	q, err := s.Quantity()
	if err != nil {
		v, verr := s.Value()
		if verr != nil {
			r.log.Warn("skipping split without amount", "split", s.ID(), "error", verr)
			return value.Zero, nil
		}
		q = v
	}

	if r.opts.Currency == "" {
		return q, nil
	}
	acct, _ := r.book.Index().Account(s.AccountID())
	if acct.Commodity == "" || acct.Commodity == r.opts.Currency {
		return q, nil
	}
	rate, ok := r.opts.Rates[acct.Commodity][year]
	if !ok {
		return value.Amount{}, fmt.Errorf("%w for %s in %d (split %s)", ErrNoRate, acct.Commodity, year, s.ID())
	}
	return q.Mul(rate), nil
}
