// Package book loads an accounting book, answers split queries over it,
// rewrites split fields in place and saves it back.
//
// A Book is not safe for concurrent use. Sequences returned by Splits read the
// live document, so collect them (slices.Collect) before mutating the splits
// they yield.
package book

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/cleared-dev/gctool/internal/accounts"
	"github.com/cleared-dev/gctool/internal/document"
	"github.com/cleared-dev/gctool/internal/model"
)

var (
	// ErrLoad wraps every failure to read or parse a book.
	ErrLoad = errors.New("loading book")
	// ErrSave wraps every failure to write a book.
	ErrSave = errors.New("saving book")
	// ErrSaved is returned by Save and mutators once the book has been saved.
	ErrSaved = errors.New("book already saved")
	// ErrMissingField is returned when a split lacks a field a mutation needs.
	ErrMissingField = errors.New("missing field")
)

var gzipMagic = []byte{0x1f, 0x8b}

// Book is a loaded accounting document plus its account index.
type Book struct {
	doc        *document.Document
	schema     Schema
	paths      map[string]string
	index      *accounts.Index
	txns       []document.NodeID
	splits     []document.NodeID
	compressed bool
	saved      bool
}

// Load reads a GnuCash XML book from disk. Gzip-compressed books are detected
// and decompressed; Save compresses them again.
func Load(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrLoad, path, err)
	}
	b, err := New(data, GnuCash())
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrLoad, path, err)
	}
	return b, nil
}

// Read loads a GnuCash XML book from r.
func Read(r io.Reader) (*Book, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	b, err := New(data, GnuCash())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return b, nil
}

// New parses data laid out according to schema and builds the account index.
func New(data []byte, schema Schema) (*Book, error) {
	compressed := bytes.HasPrefix(data, gzipMagic)
	if compressed {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer zr.Close()
		data, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("decompressing: %w", err)
		}
	}

	doc, err := document.Parse(data)
	if err != nil {
		return nil, err
	}

	acctNodes := doc.FindAll(doc.Root(), schema.Accounts)
	if len(acctNodes) == 0 {
		return nil, fmt.Errorf("no accounts found at %s", schema.Accounts)
	}
	accts := make([]model.Account, 0, len(acctNodes))
	for _, n := range acctNodes {
		accts = append(accts, readAccount(doc, n, schema.Account))
	}
	idx, err := accounts.Build(accts)
	if err != nil {
		return nil, fmt.Errorf("indexing accounts: %w", err)
	}

	txns := doc.FindAll(doc.Root(), schema.Transactions)
	var splits []document.NodeID
	for _, t := range txns {
		splits = append(splits, doc.FindAll(t, schema.TransactionSplits)...)
	}

	return &Book{
		doc:        doc,
		schema:     schema,
		paths:      schema.splitPaths(),
		index:      idx,
		txns:       txns,
		splits:     splits,
		compressed: compressed,
	}, nil
}

func readAccount(doc *document.Document, n document.NodeID, f AccountFields) model.Account {
	text := func(path string) string {
		s, _ := doc.FindText(n, path)
		return strings.TrimSpace(s)
	}
	return model.Account{
		ID:        text(f.ID),
		Name:      text(f.Name),
		Type:      text(f.Type),
		ParentID:  text(f.Parent),
		Commodity: text(f.Commodity),
	}
}

// Index returns the account index built at load time.
func (b *Book) Index() *accounts.Index {
	return b.index
}

// Compressed reports whether the book was read from a gzip stream.
func (b *Book) Compressed() bool {
	return b.compressed
}

// Modified reports whether any split has been changed since load.
func (b *Book) Modified() bool {
	return b.doc.Modified()
}

// AccountName returns the full name of an account id, falling back to the id
// itself for unknown accounts and roots.
func (b *Book) AccountName(id string) string {
	if name, ok := b.index.Name(id); ok && name != "" {
		return name
	}
	return id
}

// Splits returns every split that satisfies all preds, in document order.
func (b *Book) Splits(preds ...Predicate) iter.Seq[Split] {
	match := And(preds...)
	return func(yield func(Split) bool) {
		for _, n := range b.splits {
			s := Split{book: b, node: n}
			if match.Match(s) && !yield(s) {
				return
			}
		}
	}
}

// AccountSplits returns the splits posted to fullName that also satisfy
// extra. The sequence is empty when the account does not exist.
func (b *Book) AccountSplits(fullName string, extra ...Predicate) iter.Seq[Split] {
	p, ok := b.MatchAccount(fullName)
	if !ok {
		return func(func(Split) bool) {}
	}
	return b.Splits(append([]Predicate{p}, extra...)...)
}

// Transactions returns the splits of each transaction, grouped, in document order.
func (b *Book) Transactions() iter.Seq2[string, []Split] {
	return func(yield func(string, []Split) bool) {
		for _, t := range b.txns {
			id, _ := b.doc.FindText(t, b.schema.TransactionID)
			var splits []Split
			for _, n := range b.doc.FindAll(t, b.schema.TransactionSplits) {
				splits = append(splits, Split{book: b, node: n})
			}
			if !yield(strings.TrimSpace(id), splits) {
				return
			}
		}
	}
}

// Mutator rewrites one split in place.
type Mutator func(Split) error

// SetAccount returns a Mutator that points a split at fullName. It reports
// false when fullName is not a known account.
func (b *Book) SetAccount(fullName string) (Mutator, bool) {
	id, ok := b.index.ID(fullName)
	if !ok {
		return nil, false
	}
	path := b.paths[FieldAccount]
	return func(s Split) error {
		if b.saved {
			return ErrSaved
		}
		if s.book != b {
			return errors.New("split belongs to a different book")
		}
		n, ok := b.doc.Find(s.node, path)
		if !ok {
			return fmt.Errorf("split %s: %w %s", s.ID(), ErrMissingField, FieldAccount)
		}
		return b.doc.SetText(n, id)
	}, true
}

// WriteTo serializes the book, applying all in-place edits. Untouched bytes
// are written exactly as they were read. Compressed books are written
// compressed.
func (b *Book) WriteTo(w io.Writer) (int64, error) {
	if !b.compressed {
		return b.doc.WriteTo(w)
	}
	cw := &countingWriter{w: w}
	zw := gzip.NewWriter(cw)
	if _, err := b.doc.WriteTo(zw); err != nil {
		return cw.n, err
	}
	if err := zw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// Save writes the book to path atomically. After a successful Save the book
// is finished: further Save calls and mutators return ErrSaved.
func (b *Book) Save(path string) error {
	if b.saved {
		return ErrSaved
	}
	if err := b.save(path); err != nil {
		return fmt.Errorf("%w %s: %w", ErrSave, path, err)
	}
	b.saved = true
	return nil
}

func (b *Book) save(path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmp := f.Name()

	if _, err := b.WriteTo(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing: %w", err)
	}
	if err := os.Chmod(tmp, fileMode(path)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("setting mode: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// fileMode returns the permissions of the file at path, or 0o644 for a new file.
func fileMode(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return 0o644
	}
	return info.Mode().Perm()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
