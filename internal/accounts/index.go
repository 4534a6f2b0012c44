package accounts

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cleared-dev/gctool/internal/model"
)

// Separator joins account names into a full name, root first.
const Separator = ":"

// ErrParentCycle is returned when following parent links revisits an account.
var ErrParentCycle = errors.New("account parent cycle")

// Index maps account ids to full names and back.
type Index struct {
	accounts []model.Account
	byID     map[string]model.Account
	names    map[string]string // id -> full name
	ids      map[string]string // full name -> id
}

// Build indexes accounts and resolves every full name. An account whose parent
// is missing, or unknown to the index, is a root and has an empty full name.
// If two accounts resolve to the same full name the first one wins the
// name -> id direction.
func Build(accounts []model.Account) (*Index, error) {
	idx := &Index{
		accounts: accounts,
		byID:     make(map[string]model.Account, len(accounts)),
		names:    make(map[string]string, len(accounts)),
		ids:      make(map[string]string, len(accounts)),
	}
	for _, a := range accounts {
		if a.ID == "" {
			continue
		}
		if _, dup := idx.byID[a.ID]; !dup {
			idx.byID[a.ID] = a
		}
	}

	for _, a := range accounts {
		if a.ID == "" {
			continue
		}
		name, err := idx.resolve(a.ID)
		if err != nil {
			return nil, err
		}
		if name == "" {
			continue
		}
		if _, taken := idx.ids[name]; !taken {
			idx.ids[name] = a.ID
		}
	}
	return idx, nil
}

// resolve walks parent links up to a root or an already resolved ancestor,
// then fills in full names on the way back down.
func (x *Index) resolve(id string) (string, error) {
	if name, ok := x.names[id]; ok {
		return name, nil
	}

	var chain []model.Account // leaf first
	seen := make(map[string]bool)
	prefix := ""
	cur := x.byID[id]
	for {
		if seen[cur.ID] {
			return "", fmt.Errorf("%w: at account %s", ErrParentCycle, cur.ID)
		}
		seen[cur.ID] = true

		parent, ok := x.byID[cur.ParentID]
		if cur.ParentID == "" || !ok {
			x.names[cur.ID] = ""
			break
		}
		chain = append(chain, cur)
		if name, ok := x.names[parent.ID]; ok {
			prefix = name
			break
		}
		cur = parent
	}

	for i := len(chain) - 1; i >= 0; i-- {
		prefix = join(prefix, chain[i].Name)
		x.names[chain[i].ID] = prefix
	}
	return x.names[id], nil
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + Separator + name
}

// Name returns the full name for an account id.
func (x *Index) Name(id string) (string, bool) {
	name, ok := x.names[id]
	return name, ok
}

// ID returns the account id for a full name.
func (x *Index) ID(fullName string) (string, bool) {
	id, ok := x.ids[fullName]
	return id, ok
}

// Account returns an account by id.
func (x *Index) Account(id string) (model.Account, bool) {
	a, ok := x.byID[id]
	return a, ok
}

// All returns all accounts in document order.
func (x *Index) All() []model.Account {
	return x.accounts
}

// FullNames returns every resolvable full name, sorted.
func (x *Index) FullNames() []string {
	names := make([]string, 0, len(x.ids))
	for name := range x.ids {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
