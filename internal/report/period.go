package report

import (
	"fmt"
	"strings"
	"time"
)

// Period is a report aggregation bucket size.
type Period int

const (
	Month Period = iota
	Quarter
	Year
)

// ParsePeriod maps a configured aggregation name to a Period. Anything
// mentioning "quarter" or "year" selects those; everything else is Month.
func ParsePeriod(s string) Period {
	p := strings.ToLower(s)
	switch {
	case strings.Contains(p, "quarter"):
		return Quarter
	case strings.Contains(p, "year"):
		return Year
	}
	return Month
}

func (p Period) String() string {
	switch p {
	case Quarter:
		return "quarter"
	case Year:
		return "year"
	}
	return "month"
}

// Start returns the first day of the period containing t.
func (p Period) Start(t time.Time) time.Time {
	y, m, _ := t.Date()
	switch p {
	case Quarter:
		m = m - (m-1)%3
	case Year:
		m = time.January
	}
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the start of the period after the one starting at start.
func (p Period) Next(start time.Time) time.Time {
	switch p {
	case Quarter:
		return start.AddDate(0, 3, 0)
	case Year:
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}

// Label is the column heading of the period starting at start.
// Month "3/2023", quarter "Q1 2023", year "2023".
func (p Period) Label(start time.Time) string {
	switch p {
	case Quarter:
		return fmt.Sprintf("Q%d %d", (int(start.Month())-1)/3+1, start.Year())
	case Year:
		return fmt.Sprintf("%d", start.Year())
	}
	return fmt.Sprintf("%d/%d", int(start.Month()), start.Year())
}
