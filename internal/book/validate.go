package book

import (
	"fmt"

	"github.com/cleared-dev/gctool/internal/id"
	"github.com/cleared-dev/gctool/internal/value"
)

// Check identifies the rule a ValidationError violates.
type Check int

const (
	CheckBalance Check = iota + 1 // splits of a transaction sum to zero
	CheckAccount                  // split account references resolve
	CheckValue                    // split values parse
	CheckDate                     // transaction dates parse
	CheckGUID                     // transaction and split ids are GUIDs
)

func (c Check) String() string {
	switch c {
	case CheckBalance:
		return "balance"
	case CheckAccount:
		return "account"
	case CheckValue:
		return "value"
	case CheckDate:
		return "date"
	case CheckGUID:
		return "guid"
	}
	return fmt.Sprintf("check(%d)", int(c))
}

// ValidationError describes a single rule violation.
type ValidationError struct {
	Check       Check
	Ref         string // transaction or split id
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Check, e.Ref, e.Description)
}

// Validate checks every transaction in the book and returns all violations,
// in document order.
func (b *Book) Validate() []ValidationError {
	var errs []ValidationError

	for txnID, splits := range b.Transactions() {
		if !id.ValidGUID(txnID) {
			errs = append(errs, ValidationError{
				Check:       CheckGUID,
				Ref:         txnID,
				Description: fmt.Sprintf("transaction id %q is not a GUID", txnID),
			})
		}

		if len(splits) > 0 {
			if _, err := splits[0].Date(); err != nil {
				errs = append(errs, ValidationError{
					Check:       CheckDate,
					Ref:         txnID,
					Description: err.Error(),
				})
			}
		}

		total := value.Zero
		balanced := true
		for _, s := range splits {
			splitID := s.ID()
			if !id.ValidGUID(splitID) {
				errs = append(errs, ValidationError{
					Check:       CheckGUID,
					Ref:         splitID,
					Description: fmt.Sprintf("split id %q is not a GUID", splitID),
				})
			}

			if _, ok := b.index.Account(s.AccountID()); !ok {
				errs = append(errs, ValidationError{
					Check:       CheckAccount,
					Ref:         splitID,
					Description: fmt.Sprintf("unknown account %q", s.AccountID()),
				})
			}

			v, err := s.Value()
			if err != nil {
				balanced = false
				errs = append(errs, ValidationError{
					Check:       CheckValue,
					Ref:         splitID,
					Description: err.Error(),
				})
				continue
			}
			total = total.Add(v)
		}

		if balanced && !total.IsZero() {
			errs = append(errs, ValidationError{
				Check:       CheckBalance,
				Ref:         txnID,
				Description: fmt.Sprintf("splits sum to %s, not 0", total.String()),
			})
		}
	}

	return errs
}
