package book

// Split field names.
const (
	FieldID              = "id"
	FieldDate            = "date"
	FieldDescription     = "description"
	FieldMemo            = "memo"
	FieldAccount         = "account"
	FieldReconciledState = "reconciled-state"
	FieldValue           = "value"
	FieldQuantity        = "quantity"
)

// FieldKind selects how a raw field text is converted.
type FieldKind int

const (
	KindText    FieldKind = iota // passthrough
	KindDate                     // value.ParseDate
	KindValue                    // value.ParseValue
	KindAccount                  // account id, resolved through the index
)

// Field locates one split field relative to the split element.
type Field struct {
	Name string
	Path string
	Kind FieldKind
}

// AccountFields locates account attributes relative to an account element.
type AccountFields struct {
	ID        string
	Name      string
	Type      string
	Parent    string
	Commodity string
}

// Schema describes where accounts, transactions and splits live in the
// document. Extraction and mutation both read paths from here.
type Schema struct {
	Accounts          string // account elements, from the root
	Transactions      string // transaction elements, from the root
	TransactionID     string // from a transaction
	TransactionSplits string // split elements, from a transaction
	Account           AccountFields
	Split             []Field
}

// GnuCash returns the schema of a GnuCash v2 XML book.
func GnuCash() Schema {
	return Schema{
		Accounts:          "gnc:book/gnc:account",
		Transactions:      "gnc:book/gnc:transaction",
		TransactionID:     "trn:id",
		TransactionSplits: "trn:splits/trn:split",
		Account: AccountFields{
			ID:        "act:id",
			Name:      "act:name",
			Type:      "act:type",
			Parent:    "act:parent",
			Commodity: "act:commodity/cmdty:id",
		},
		Split: []Field{
			{Name: FieldID, Path: "split:id", Kind: KindText},
			{Name: FieldDate, Path: "../../trn:date-posted/ts:date", Kind: KindDate},
			{Name: FieldDescription, Path: "../../trn:description", Kind: KindText},
			{Name: FieldMemo, Path: "split:memo", Kind: KindText},
			{Name: FieldAccount, Path: "split:account", Kind: KindAccount},
			{Name: FieldReconciledState, Path: "split:reconciled-state", Kind: KindText},
			{Name: FieldValue, Path: "split:value", Kind: KindValue},
			{Name: FieldQuantity, Path: "split:quantity", Kind: KindValue},
		},
	}
}

// splitPaths indexes split field paths by name.
func (s Schema) splitPaths() map[string]string {
	paths := make(map[string]string, len(s.Split))
	for _, f := range s.Split {
		paths[f.Name] = f.Path
	}
	return paths
}
