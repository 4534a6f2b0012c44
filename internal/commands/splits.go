package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/gctool/internal/book"
	"github.com/cleared-dev/gctool/internal/export"
	"github.com/cleared-dev/gctool/internal/model"
	"github.com/cleared-dev/gctool/internal/value"
)

var farFuture = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

type splitFilter struct {
	account     string
	memo        string
	description string
	from        string
	to          string
}

func newSplitsCommand(a *app) *cobra.Command {
	var f splitFilter

	cmd := &cobra.Command{
		Use:   "splits",
		Short: "Export matching splits as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(false)
			if err != nil {
				return err
			}
			b, _, err := a.loadBook(cfg)
			if err != nil {
				return err
			}

			preds, ok, err := f.predicates(b)
			if err != nil {
				return err
			}
			if !ok {
				a.log.Warn("account not found", "account", f.account)
				return export.WriteRecords(cmd.OutOrStdout(), nil)
			}

			var records []model.Record
			for s := range b.Splits(preds...) {
				rec, err := b.Extract(s)
				if err != nil {
					a.log.Warn("incomplete split", "split", rec.ID, "error", err)
				}
				records = append(records, rec)
			}
			a.log.Debug("matched splits", "count", len(records))
			return export.WriteRecords(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().StringVar(&f.account, "account", "", "account full name, e.g. Expenses:Groceries")
	cmd.Flags().StringVar(&f.memo, "memo", "", "memo regular expression")
	cmd.Flags().StringVar(&f.description, "description", "", "description regular expression")
	cmd.Flags().StringVar(&f.from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "last date, YYYY-MM-DD")

	return cmd
}

// predicates builds the filter chain. ok is false when the account does not
// exist, in which case nothing can match.
func (f splitFilter) predicates(b *book.Book) ([]book.Predicate, bool, error) {
	var preds []book.Predicate

	if f.account != "" {
		p, ok := b.MatchAccount(f.account)
		if !ok {
			return nil, false, nil
		}
		preds = append(preds, p)
	}
	if f.memo != "" {
		p, err := b.MatchMemo(f.memo)
		if err != nil {
			return nil, false, err
		}
		preds = append(preds, p)
	}
	if f.description != "" {
		p, err := b.MatchDescription(f.description)
		if err != nil {
			return nil, false, err
		}
		preds = append(preds, p)
	}

	rng, err := f.dateRange()
	if err != nil {
		return nil, false, err
	}
	if p, ok := b.MatchDateRange(rng); ok {
		preds = append(preds, p)
	}
	return preds, true, nil
}

// dateRange returns nil when neither bound is set. An open bound extends to
// the zero time or the far future.
func (f splitFilter) dateRange() (*model.DateRange, error) {
	if f.from == "" && f.to == "" {
		return nil, nil
	}
	rng := &model.DateRange{End: farFuture}
	if f.from != "" {
		d, err := value.ParseDate(f.from)
		if err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}
		rng.Start = d
	}
	if f.to != "" {
		d, err := value.ParseDate(f.to)
		if err != nil {
			return nil, fmt.Errorf("--to: %w", err)
		}
		rng.End = d
	}
	return rng, nil
}
