package book

import (
	"fmt"
	"strings"
	"time"

	"github.com/cleared-dev/gctool/internal/document"
	"github.com/cleared-dev/gctool/internal/value"
)

// Split is a handle to one split element of a Book. It stays valid for the
// lifetime of the Book and always reads the current (possibly edited) text.
type Split struct {
	book *Book
	node document.NodeID
}

func (s Split) text(field string) (string, bool) {
	path, ok := s.book.paths[field]
	if !ok {
		return "", false
	}
	return s.book.doc.FindText(s.node, path)
}

// ID returns the split GUID.
func (s Split) ID() string {
	id, _ := s.text(FieldID)
	return strings.TrimSpace(id)
}

// AccountID returns the id of the account the split is posted to.
func (s Split) AccountID() string {
	id, _ := s.text(FieldAccount)
	return strings.TrimSpace(id)
}

// Memo returns the split memo, "" if absent.
func (s Split) Memo() string {
	memo, _ := s.text(FieldMemo)
	return memo
}

// Description returns the parent transaction's description.
func (s Split) Description() string {
	desc, _ := s.text(FieldDescription)
	return desc
}

// Date returns the parent transaction's posted date.
func (s Split) Date() (time.Time, error) {
	raw, ok := s.text(FieldDate)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: no %s", value.ErrMalformedDate, FieldDate)
	}
	return value.ParseDate(raw)
}

// Value returns the split value in the transaction currency.
func (s Split) Value() (value.Amount, error) {
	return s.amount(FieldValue)
}

// Quantity returns the split amount in the account's commodity.
func (s Split) Quantity() (value.Amount, error) {
	return s.amount(FieldQuantity)
}

func (s Split) amount(field string) (value.Amount, error) {
	raw, ok := s.text(field)
	if !ok {
		return value.Amount{}, fmt.Errorf("%w: no %s", value.ErrMalformedValue, field)
	}
	return value.ParseValue(raw)
}
