// Package reassign moves splits between accounts according to description
// and memo rules.
package reassign

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/cleared-dev/gctool/internal/book"
)

// Rule sends splits whose transaction description and split memo match to
// the account To. Patterns are regular expressions; an empty pattern matches
// anything.
type Rule struct {
	Description string
	Memo        string
	To          string
}

// Group applies its rules, in order, to the splits of one account. The first
// matching rule wins.
type Group struct {
	Account string
	Rules   []Rule
}

// Change records one split moved by a run.
type Change struct {
	SplitID     string
	Description string
	Memo        string
	From        string
	To          string
}

// Result summarizes a run.
type Result struct {
	Changes []Change
	Missing []string // account names that could not be resolved, deduplicated
}

type compiledRule struct {
	to    string
	preds []book.Predicate
	set   book.Mutator
}

type compiledGroup struct {
	from  string
	rules []compiledRule
}

// Apply runs every group against b. Rules referring to unknown accounts are
// skipped and reported in Result.Missing; an invalid pattern aborts the run
// before anything is changed. With dryRun the matching splits are reported
// but left untouched.
func Apply(b *book.Book, groups []Group, dryRun bool, log *slog.Logger) (*Result, error) {
	res := &Result{}
	missing := func(name string) {
		if !slices.Contains(res.Missing, name) {
			res.Missing = append(res.Missing, name)
		}
	}

	var compiled []compiledGroup
	for _, g := range groups {
		if _, ok := b.MatchAccount(g.Account); !ok {
			log.Warn("account not found", "account", g.Account)
			missing(g.Account)
			continue
		}
		cg := compiledGroup{from: g.Account}
		for i, r := range g.Rules {
			cr, ok, err := compile(b, r)
			if err != nil {
				return nil, fmt.Errorf("%s rule %d: %w", g.Account, i+1, err)
			}
			if !ok {
				log.Warn("account not found", "account", r.To, "rule", i+1, "from", g.Account)
				missing(r.To)
				continue
			}
			cg.rules = append(cg.rules, cr)
		}
		compiled = append(compiled, cg)
	}

	for _, g := range compiled {
		// Collect first: mutating moves splits out of the account being iterated.
		splits := slices.Collect(b.AccountSplits(g.from))
		for _, s := range splits {
			for _, r := range g.rules {
				if !book.And(r.preds...).Match(s) {
					continue
				}
				ch := Change{
					SplitID:     s.ID(),
					Description: s.Description(),
					Memo:        s.Memo(),
					From:        g.from,
					To:          r.to,
				}
				if r.to == g.from {
					break
				}
				if !dryRun {
					if err := r.set(s); err != nil {
						return res, fmt.Errorf("moving split %s to %s: %w", ch.SplitID, r.to, err)
					}
				}
				log.Debug("reassigned split", "split", ch.SplitID, "from", ch.From, "to", ch.To, "dry_run", dryRun)
				res.Changes = append(res.Changes, ch)
				break
			}
		}
	}

	return res, nil
}

func compile(b *book.Book, r Rule) (compiledRule, bool, error) {
	cr := compiledRule{to: r.To}
	if r.Description != "" {
		p, err := b.MatchDescription(r.Description)
		if err != nil {
			return cr, false, err
		}
		cr.preds = append(cr.preds, p)
	}
	if r.Memo != "" {
		p, err := b.MatchMemo(r.Memo)
		if err != nil {
			return cr, false, err
		}
		cr.preds = append(cr.preds, p)
	}
	set, ok := b.SetAccount(r.To)
	if !ok {
		return cr, false, nil
	}
	cr.set = set
	return cr, true, nil
}
