package model

// Account is one entry of the book's chart of accounts. The hierarchy is
// implicit: each account points at its parent by id, and roots have none.
type Account struct {
	ID        string
	Name      string
	Type      string // GnuCash account type, e.g. "ROOT", "BANK", "EXPENSE"
	ParentID  string // "" = root
	Commodity string // commodity id, e.g. "USD"
}

// IsRoot reports whether the account has no parent reference.
func (a Account) IsRoot() bool {
	return a.ParentID == ""
}
