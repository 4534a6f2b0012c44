// Package document holds a parsed XML document as an arena of element nodes.
//
// Every element is addressed by a NodeID. Leaf elements remember the byte span
// of their text in the source, so SetText can replace exactly that span and
// WriteTo reproduces all other bytes unchanged.
package document

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// NodeID is a stable handle to an element in a Document.
type NodeID int

// NoNode is returned where no element exists.
const NoNode NodeID = -1

var (
	// ErrNotLeaf is returned by SetText for elements that have child elements.
	ErrNotLeaf = errors.New("element has child elements")
	// ErrNoNode is returned for handles outside the document.
	ErrNoNode = errors.New("no such node")
)

type node struct {
	name     string // qualified name as written, "prefix:local"
	parent   NodeID
	children []NodeID
	text     []byte

	tagStart     int64 // offset of '<' of the start tag
	contentStart int64 // offset just past the start tag
	contentEnd   int64 // offset of '<' of the end tag; == contentStart when self-closing
	selfClosing  bool
}

type edit struct {
	start, end int64
	repl       []byte
}

// Document is a parsed XML document. It is not safe for concurrent use.
type Document struct {
	src   []byte
	nodes []node
	root  NodeID
	edits map[NodeID]edit
	texts map[NodeID]string
}

// Parse reads src into a Document. src is retained and must not be modified.
func Parse(src []byte) (*Document, error) {
	doc := &Document{
		src:   src,
		root:  NoNode,
		edits: make(map[NodeID]edit),
		texts: make(map[NodeID]string),
	}

	dec := xml.NewDecoder(bytes.NewReader(src))
	var stack []NodeID
	for {
		start := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XML at offset %d: %w", start, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			id := NodeID(len(doc.nodes))
			n := node{
				name:         qualified(t.Name),
				parent:       NoNode,
				tagStart:     start,
				contentStart: dec.InputOffset(),
			}
			if len(stack) > 0 {
				p := stack[len(stack)-1]
				n.parent = p
				doc.nodes[p].children = append(doc.nodes[p].children, id)
			} else if doc.root == NoNode {
				doc.root = id
			} else {
				return nil, fmt.Errorf("parsing XML at offset %d: multiple root elements", start)
			}
			doc.nodes = append(doc.nodes, n)
			stack = append(stack, id)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parsing XML at offset %d: unexpected end tag </%s>", start, qualified(t.Name))
			}
			id := stack[len(stack)-1]
			n := &doc.nodes[id]
			if name := qualified(t.Name); name != n.name {
				return nil, fmt.Errorf("parsing XML at offset %d: end tag </%s> does not match <%s>", start, name, n.name)
			}
			n.contentEnd = start
			// A self-closing tag yields a synthetic end element that consumes no input.
			n.selfClosing = start == dec.InputOffset() && start == n.contentStart
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				id := stack[len(stack)-1]
				doc.nodes[id].text = append(doc.nodes[id].text, t...)
			}
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("parsing XML: unclosed element <%s>", doc.nodes[stack[len(stack)-1]].name)
	}
	if doc.root == NoNode {
		return nil, errors.New("parsing XML: no root element")
	}
	return doc, nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// Root returns the document element.
func (d *Document) Root() NodeID {
	return d.root
}

// Len returns the number of elements.
func (d *Document) Len() int {
	return len(d.nodes)
}

func (d *Document) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(d.nodes)
}

// Name returns the qualified name of an element, or "" for an invalid handle.
func (d *Document) Name(id NodeID) string {
	if !d.valid(id) {
		return ""
	}
	return d.nodes[id].name
}

// Parent returns the parent element, or NoNode for the root.
func (d *Document) Parent(id NodeID) NodeID {
	if !d.valid(id) {
		return NoNode
	}
	return d.nodes[id].parent
}

// Children returns the child elements in document order.
func (d *Document) Children(id NodeID) []NodeID {
	if !d.valid(id) {
		return nil
	}
	return d.nodes[id].children
}

// Text returns the character data of an element, including pending edits.
func (d *Document) Text(id NodeID) string {
	if !d.valid(id) {
		return ""
	}
	if s, ok := d.texts[id]; ok {
		return s
	}
	return string(d.nodes[id].text)
}

// Find returns the first element matching path below id.
//
// A path is a "/"-separated list of qualified names; ".." steps to the parent
// and "." stays put. "../../trn:description" from a split reaches its
// transaction's description.
func (d *Document) Find(id NodeID, path string) (NodeID, bool) {
	found := d.find(id, path, true)
	if len(found) == 0 {
		return NoNode, false
	}
	return found[0], true
}

// FindAll returns every element matching path below id, in document order.
func (d *Document) FindAll(id NodeID, path string) []NodeID {
	return d.find(id, path, false)
}

// FindText returns the text of the first element matching path.
func (d *Document) FindText(id NodeID, path string) (string, bool) {
	n, ok := d.Find(id, path)
	if !ok {
		return "", false
	}
	return d.Text(n), true
}

func (d *Document) find(id NodeID, path string, first bool) []NodeID {
	if !d.valid(id) {
		return nil
	}
	current := []NodeID{id}
	for _, step := range strings.Split(path, "/") {
		var next []NodeID
		switch step {
		case "", ".":
			continue
		case "..":
			for _, n := range current {
				if p := d.nodes[n].parent; p != NoNode && !slices.Contains(next, p) {
					next = append(next, p)
				}
			}
		default:
			for _, n := range current {
				for _, c := range d.nodes[n].children {
					if d.nodes[c].name == step {
						next = append(next, c)
					}
				}
			}
		}
		current = next
		if len(current) == 0 {
			return nil
		}
	}
	if first && len(current) > 1 {
		return current[:1]
	}
	return current
}

// SetText replaces the character data of a leaf element.
func (d *Document) SetText(id NodeID, text string) error {
	if !d.valid(id) {
		return fmt.Errorf("%w: %d", ErrNoNode, id)
	}
	n := &d.nodes[id]
	if len(n.children) > 0 {
		return fmt.Errorf("%w: <%s>", ErrNotLeaf, n.name)
	}

	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(text)); err != nil {
		return fmt.Errorf("escaping text: %w", err)
	}

	e := edit{start: n.contentStart, end: n.contentEnd, repl: escaped.Bytes()}
	if n.selfClosing {
		// Expand <name attr="x"/> into <name attr="x">text</name>.
		tag := bytes.TrimSuffix(d.src[n.tagStart:n.contentStart], []byte("/>"))
		tag = bytes.TrimRight(tag, " \t\r\n")
		var buf bytes.Buffer
		buf.Write(tag)
		buf.WriteByte('>')
		buf.Write(escaped.Bytes())
		buf.WriteString("</" + n.name + ">")
		e = edit{start: n.tagStart, end: n.contentStart, repl: buf.Bytes()}
	}

	d.edits[id] = e
	d.texts[id] = text
	return nil
}

// Modified reports whether any element text has been changed.
func (d *Document) Modified() bool {
	return len(d.edits) > 0
}

// WriteTo writes the source bytes with every edit applied.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	edits := make([]edit, 0, len(d.edits))
	for _, e := range d.edits {
		edits = append(edits, e)
	}
	slices.SortFunc(edits, func(a, b edit) int {
		return cmp.Compare(a.start, b.start)
	})

	var total int64
	write := func(p []byte) error {
		n, err := w.Write(p)
		total += int64(n)
		return err
	}

	pos := int64(0)
	for _, e := range edits {
		if err := write(d.src[pos:e.start]); err != nil {
			return total, err
		}
		if err := write(e.repl); err != nil {
			return total, err
		}
		pos = e.end
	}
	if err := write(d.src[pos:]); err != nil {
		return total, err
	}
	return total, nil
}

// Bytes returns the serialized document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = d.WriteTo(&buf)
	return buf.Bytes()
}
