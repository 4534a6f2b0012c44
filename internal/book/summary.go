package book

import (
	"github.com/cleared-dev/gctool/internal/value"
)

// Summary is the split count and exact value total of one account.
type Summary struct {
	Count int
	Total value.Amount
}

// Summarize groups every split by account full name. Splits whose value
// cannot be parsed are counted but left out of Total.
func (b *Book) Summarize() map[string]Summary {
	out := make(map[string]Summary)
	for s := range b.Splits() {
		name := b.AccountName(s.AccountID())
		sum := out[name]
		sum.Count++
		if v, err := s.Value(); err == nil {
			sum.Total = sum.Total.Add(v)
		}
		out[name] = sum
	}
	return out
}

// GrandTotal sums the totals of every account in a summary.
func GrandTotal(summary map[string]Summary) value.Amount {
	total := value.Zero
	for _, s := range summary {
		total = total.Add(s.Total)
	}
	return total
}
