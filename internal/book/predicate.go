package book

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/cleared-dev/gctool/internal/accounts"
	"github.com/cleared-dev/gctool/internal/model"
)

// Predicate is a test over splits.
//
// The zero Predicate is the "no predicate" case returned when a filter could
// not be built. It is not Valid and never matches, so passing one by mistake
// filters everything out instead of nothing.
type Predicate struct {
	desc string
	test func(Split) bool
}

// Valid reports whether p was built successfully.
func (p Predicate) Valid() bool {
	return p.test != nil
}

// Match reports whether s satisfies p.
func (p Predicate) Match(s Split) bool {
	if p.test == nil {
		return false
	}
	return p.test(s)
}

func (p Predicate) String() string {
	if p.test == nil {
		return "<none>"
	}
	return p.desc
}

// And matches splits that satisfy every predicate. And() matches everything.
func And(preds ...Predicate) Predicate {
	ps := slices.Clone(preds)
	return Predicate{
		desc: fmt.Sprintf("and%v", ps),
		test: func(s Split) bool {
			for _, p := range ps {
				if !p.Match(s) {
					return false
				}
			}
			return true
		},
	}
}

// MatchAccount matches splits posted to fullName. The name is resolved once,
// here; false means the account does not exist.
func (b *Book) MatchAccount(fullName string) (Predicate, bool) {
	id, ok := b.index.ID(fullName)
	if !ok {
		return Predicate{}, false
	}
	return Predicate{
		desc: "account=" + fullName,
		test: func(s Split) bool { return s.AccountID() == id },
	}, true
}

// MatchAccountTree matches splits posted to fullName or any account below it.
func (b *Book) MatchAccountTree(fullName string) (Predicate, bool) {
	if _, ok := b.index.ID(fullName); !ok {
		return Predicate{}, false
	}
	prefix := fullName + accounts.Separator
	ids := make(map[string]struct{})
	for _, a := range b.index.All() {
		name, _ := b.index.Name(a.ID)
		if name == fullName || strings.HasPrefix(name, prefix) {
			ids[a.ID] = struct{}{}
		}
	}
	return Predicate{
		desc: "account~" + fullName,
		test: func(s Split) bool {
			_, ok := ids[s.AccountID()]
			return ok
		},
	}, true
}

// MatchMemo matches splits whose memo contains a match of pattern.
func (b *Book) MatchMemo(pattern string) (Predicate, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Predicate{}, fmt.Errorf("memo pattern: %w", err)
	}
	return Predicate{
		desc: "memo~" + pattern,
		test: func(s Split) bool { return re.MatchString(s.Memo()) },
	}, nil
}

// MatchDescription matches splits whose transaction description contains a
// match of pattern.
func (b *Book) MatchDescription(pattern string) (Predicate, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Predicate{}, fmt.Errorf("description pattern: %w", err)
	}
	return Predicate{
		desc: "description~" + pattern,
		test: func(s Split) bool { return re.MatchString(s.Description()) },
	}, nil
}

// MatchDateRange matches splits whose transaction date lies in r, bounds
// included. A nil range yields no predicate: leave it out of the chain.
// Splits without a readable date never match.
func (b *Book) MatchDateRange(r *model.DateRange) (Predicate, bool) {
	if r == nil {
		return Predicate{}, false
	}
	rng := *r
	return Predicate{
		desc: fmt.Sprintf("date in [%s, %s]", rng.Start.Format("2006-01-02"), rng.End.Format("2006-01-02")),
		test: func(s Split) bool {
			d, err := s.Date()
			return err == nil && rng.Contains(d)
		},
	}, true
}
