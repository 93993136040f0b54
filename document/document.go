// Package document implements the in-memory model for an H5P content
// document (content/content.json and h5p.json): an arbitrarily nested
// tree of mappings and sequences with string/number/boolean leaves.
//
// JSON object key order is preserved on parse and reproduced on
// marshal, so that decode→encode of an already-encoded document is
// byte-identical. Parsing is built on a json.Decoder token loop rather
// than map[string]any, which would lose key order.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	KindMapping Kind = iota
	KindSequence
	KindString
	KindNumber
	KindBool
	KindNull
)

// Node is one value in the document tree. Exactly one variant is
// active, selected by Kind.
type Node struct {
	Kind Kind

	// Str holds the value for KindString.
	Str string
	// Num holds the value for KindNumber, kept as the literal token
	// so numbers round-trip without float formatting drift.
	Num json.Number
	// Bool holds the value for KindBool.
	Bool bool
	// Items holds the elements for KindSequence, in document order.
	Items []*Node

	// keys preserves mapping key order; fields maps key → child.
	keys   []string
	fields map[string]*Node
}

// NewMapping returns an empty mapping node.
func NewMapping() *Node {
	return &Node{Kind: KindMapping, fields: make(map[string]*Node)}
}

// NewSequence returns an empty sequence node.
func NewSequence() *Node {
	return &Node{Kind: KindSequence}
}

// NewString returns a string leaf.
func NewString(s string) *Node {
	return &Node{Kind: KindString, Str: s}
}

// Keys returns the mapping keys in document order.
// Returns nil for non-mapping nodes.
func (n *Node) Keys() []string {
	if n.Kind != KindMapping {
		return nil
	}
	return n.keys
}

// Get returns the child node for key.
func (n *Node) Get(key string) (*Node, bool) {
	if n.Kind != KindMapping {
		return nil, false
	}
	child, ok := n.fields[key]
	return child, ok
}

// Set stores a child under key, appending the key if it is new.
func (n *Node) Set(key string, child *Node) {
	if n.Kind != KindMapping {
		return
	}
	if n.fields == nil {
		n.fields = make(map[string]*Node)
	}
	if _, exists := n.fields[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = child
}

// Delete removes a key from a mapping. Returns true if it was present.
func (n *Node) Delete(key string) bool {
	if n.Kind != KindMapping {
		return false
	}
	if _, ok := n.fields[key]; !ok {
		return false
	}
	delete(n.fields, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of mapping keys or sequence items.
func (n *Node) Len() int {
	switch n.Kind {
	case KindMapping:
		return len(n.keys)
	case KindSequence:
		return len(n.Items)
	}
	return 0
}

// Append adds an item to a sequence node.
func (n *Node) Append(item *Node) {
	if n.Kind == KindSequence {
		n.Items = append(n.Items, item)
	}
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// Parse decodes JSON data into a document tree, preserving object key
// order.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	n, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parsing JSON: trailing data after document")
	}
	return n, nil
}

func parseValue(dec *json.Decoder) (*Node, error) {
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := t.(type) {
	case json.Delim:
		switch v {
		case '{':
			return parseMapping(dec)
		case '[':
			return parseSequence(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %v", v)
	case string:
		return &Node{Kind: KindString, Str: v}, nil
	case json.Number:
		return &Node{Kind: KindNumber, Num: v}, nil
	case bool:
		return &Node{Kind: KindBool, Bool: v}, nil
	case nil:
		return &Node{Kind: KindNull}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", t)
}

func parseMapping(dec *json.Decoder) (*Node, error) {
	n := NewMapping()
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", kt)
		}
		child, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		n.Set(key, child)
	}
	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func parseSequence(dec *json.Decoder) (*Node, error) {
	n := NewSequence()
	for dec.More() {
		item, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		n.Append(item)
	}
	// Closing bracket.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Marshaling
// ---------------------------------------------------------------------------

// Marshal encodes the tree as 2-space-indented UTF-8 JSON with keys in
// document order and non-ASCII characters left unescaped.
func (n *Node) Marshal() []byte {
	var b strings.Builder
	encodeValue(&b, n, 0)
	b.WriteByte('\n')
	return []byte(b.String())
}

func encodeValue(b *strings.Builder, n *Node, depth int) {
	if n == nil {
		b.WriteString("null")
		return
	}
	switch n.Kind {
	case KindMapping:
		if len(n.keys) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{\n")
		for i, key := range n.keys {
			writeIndent(b, depth+1)
			encodeString(b, key)
			b.WriteString(": ")
			encodeValue(b, n.fields[key], depth+1)
			if i < len(n.keys)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		writeIndent(b, depth)
		b.WriteByte('}')
	case KindSequence:
		if len(n.Items) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteString("[\n")
		for i, item := range n.Items {
			writeIndent(b, depth+1)
			encodeValue(b, item, depth+1)
			if i < len(n.Items)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		writeIndent(b, depth)
		b.WriteByte(']')
	case KindString:
		encodeString(b, n.Str)
	case KindNumber:
		b.WriteString(n.Num.String())
	case KindBool:
		if n.Bool {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindNull:
		b.WriteString("null")
	}
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

// encodeString writes a JSON string literal. Unlike encoding/json it
// does not escape <, >, & or non-ASCII runes, matching how content.json
// ships in real H5P containers.
func encodeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}
