package report

import (
	"github.com/cleared-dev/gctool/internal/value"
)

// Rollup is a table reduced to yearly means of its period values, rounded to
// whole units.
type Rollup struct {
	Title  string
	Period Period
	Years  []int
	Rows   []RollupRow
	Total  []int64 // per year, sum of the rounded row means
}

// RollupRow holds one account's yearly means.
type RollupRow struct {
	Account string
	Means   []int64
}

// Rollup averages each row over the periods of every year the table covers.
// A year's mean divides by the number of its periods present in the table,
// so a partial first or last year averages only over the periods shown.
func (t *Table) Rollup() Rollup {
	r := Rollup{Title: t.Title, Period: t.Period}

	yearOf := make([]int, len(t.Periods))
	counts := make(map[int]int64)
	for i, p := range t.Periods {
		y := p.Year()
		yearOf[i] = y
		if counts[y] == 0 {
			r.Years = append(r.Years, y)
		}
		counts[y]++
	}
	col := make(map[int]int, len(r.Years))
	for i, y := range r.Years {
		col[y] = i
	}

	r.Total = make([]int64, len(r.Years))
	for _, row := range t.Rows {
		sums := make([]value.Amount, len(r.Years))
		for i, v := range row.Values {
			c := col[yearOf[i]]
			sums[c] = sums[c].Add(v)
		}
		means := make([]int64, len(r.Years))
		for i, y := range r.Years {
			means[i] = round(sums[i].Quo(counts[y]))
			r.Total[i] += means[i]
		}
		r.Rows = append(r.Rows, RollupRow{Account: row.Account, Means: means})
	}
	return r
}

// round rounds half away from zero to a whole number.
func round(a value.Amount) int64 {
	return a.Decimal(0).IntPart()
}
