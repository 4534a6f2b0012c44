package model

import (
	"time"

	"github.com/cleared-dev/gctool/internal/value"
)

// Record is the flat field view of one split and its parent transaction.
// Fields that are missing or fail to parse are left at their zero value.
type Record struct {
	ID              string
	Date            time.Time // zero if missing
	Description     string
	Memo            string
	AccountID       string
	Account         string // full name, or AccountID when unresolved
	ReconciledState string
	Value           value.NullAmount
	Quantity        value.NullAmount
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
