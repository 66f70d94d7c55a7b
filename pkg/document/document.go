// Package document wraps one parsed HTTP response body and provides
// selector-based access to its nodes. Three document kinds are supported:
// tree-structured HTML and XML, queried by XPath or CSS, and JSON, queried
// by a slash-separated path. Documents are immutable once parsed.
package document

import (
	"errors"
	"fmt"
	"mime"
	"strings"
)

// Kind identifies how a response body was parsed.
type Kind int

const (
	KindRaw Kind = iota
	KindHTML
	KindXML
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindXML:
		return "xml"
	case KindJSON:
		return "json"
	default:
		return "raw"
	}
}

// Node is one addressable location in a document: an element or attribute of
// a markup tree, or a value inside decoded JSON.
type Node interface {
	// Text returns the node's text content.
	Text() string
	// Attr returns a markup attribute value. The second return is false
	// for absent attributes and for node kinds without attributes.
	Attr(name string) (string, bool)
	// Value returns the underlying parsed value.
	Value() any
}

// Document is an immutable parsed response body.
type Document interface {
	Kind() Kind
	Root() Node
	// Raw returns the undecoded response body.
	Raw() []byte
}

// Selection errors. Callers asking for exactly one node get a distinct error
// for "nothing matched" and "more than one matched"; silently picking the
// first match is only done through First.
var (
	ErrNotFound  = errors.New("document: no node matched")
	ErrAmbiguous = errors.New("document: more than one node matched")
)

// Selector locates zero, one or many nodes in a document. Selectors are
// stateless and reusable across documents.
type Selector interface {
	// Select returns every node matching the expression under n.
	Select(n Node) ([]Node, error)
	String() string
}

// All returns every node matched by sel under n.
func All(sel Selector, n Node) ([]Node, error) {
	return sel.Select(n)
}

// One returns the single node matched by sel. It fails with ErrNotFound on
// zero matches and ErrAmbiguous on more than one.
func One(sel Selector, n Node) (Node, error) {
	nodes, err := sel.Select(n)
	if err != nil {
		return nil, err
	}
	switch len(nodes) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sel)
	case 1:
		return nodes[0], nil
	default:
		return nil, fmt.Errorf("%w: %s (%d matches)", ErrAmbiguous, sel, len(nodes))
	}
}

// First returns the first node matched by sel, with explicit first-match
// semantics. It fails with ErrNotFound on zero matches.
func First(sel Selector, n Node) (Node, error) {
	nodes, err := sel.Select(n)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sel)
	}
	return nodes[0], nil
}

// Exists reports whether sel matches at least one node under n.
func Exists(sel Selector, n Node) bool {
	nodes, err := sel.Select(n)
	return err == nil && len(nodes) > 0
}

// Parse decodes a response body according to its declared content type.
// Unrecognized content types produce a raw document.
func Parse(body []byte, contentType string) (Document, error) {
	mt := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mt = parsed
	}
	mt = strings.ToLower(mt)

	switch {
	case strings.Contains(mt, "html"):
		return ParseHTML(body)
	case strings.Contains(mt, "json"):
		return ParseJSON(body)
	case strings.Contains(mt, "xml"):
		return ParseXML(body)
	default:
		return NewRaw(body), nil
	}
}

// rawDocument keeps an unparsed body addressable through the same interface.
type rawDocument struct {
	body []byte
}

// NewRaw wraps an unparsed body.
func NewRaw(body []byte) Document {
	return &rawDocument{body: body}
}

func (d *rawDocument) Kind() Kind  { return KindRaw }
func (d *rawDocument) Root() Node  { return rawNode{body: d.body} }
func (d *rawDocument) Raw() []byte { return d.body }

type rawNode struct {
	body []byte
}

func (n rawNode) Text() string                 { return string(n.body) }
func (n rawNode) Attr(string) (string, bool)   { return "", false }
func (n rawNode) Value() any                   { return n.body }
