package book

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cleared-dev/gctool/internal/model"
	"github.com/cleared-dev/gctool/internal/value"
)

// Extract projects a split and its transaction into a Record, field by field
// as the schema declares. Missing fields stay empty. Fields that fail to parse
// also stay empty and are reported in the returned error; the record is still
// usable.
func (b *Book) Extract(s Split) (model.Record, error) {
	var rec model.Record
	var errs []error

	for _, f := range b.schema.Split {
		raw, ok := b.doc.FindText(s.node, f.Path)
		if !ok {
			continue
		}

		switch f.Kind {
		case KindDate:
			d, err := value.ParseDate(raw)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", f.Name, err))
				continue
			}
			if f.Name == FieldDate {
				rec.Date = d
			}
		case KindValue:
			v, err := value.ParseValue(raw)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", f.Name, err))
				continue
			}
			switch f.Name {
			case FieldValue:
				rec.Value = value.NullAmount{Amount: v, Valid: true}
			case FieldQuantity:
				rec.Quantity = value.NullAmount{Amount: v, Valid: true}
			}
		case KindAccount:
			rec.AccountID = strings.TrimSpace(raw)
			rec.Account = b.AccountName(rec.AccountID)
		default:
			switch f.Name {
			case FieldID:
				rec.ID = strings.TrimSpace(raw)
			case FieldDescription:
				rec.Description = raw
			case FieldMemo:
				rec.Memo = raw
			case FieldReconciledState:
				rec.ReconciledState = raw
			}
		}
	}

	if len(errs) > 0 {
		return rec, fmt.Errorf("split %s: %w", rec.ID, errors.Join(errs...))
	}
	return rec, nil
}
