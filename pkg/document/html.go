package document

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// HTMLDocument is a parsed HTML tree.
type HTMLDocument struct {
	body []byte
	root *html.Node
}

// ParseHTML parses an HTML body. Parsing is lenient, as browsers are.
func ParseHTML(body []byte) (*HTMLDocument, error) {
	root, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &HTMLDocument{body: body, root: root}, nil
}

func (d *HTMLDocument) Kind() Kind  { return KindHTML }
func (d *HTMLDocument) Root() Node  { return htmlNode{n: d.root} }
func (d *HTMLDocument) Raw() []byte { return d.body }

type htmlNode struct {
	n *html.Node
}

func (n htmlNode) Text() string {
	return htmlquery.InnerText(n.n)
}

func (n htmlNode) Attr(name string) (string, bool) {
	for _, a := range n.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (n htmlNode) Value() any { return n.n }

// XMLDocument is a parsed XML tree.
type XMLDocument struct {
	body []byte
	root *xmlquery.Node
}

// ParseXML parses an XML body.
func ParseXML(body []byte) (*XMLDocument, error) {
	root, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	return &XMLDocument{body: body, root: root}, nil
}

func (d *XMLDocument) Kind() Kind  { return KindXML }
func (d *XMLDocument) Root() Node  { return xmlNode{n: d.root} }
func (d *XMLDocument) Raw() []byte { return d.body }

type xmlNode struct {
	n *xmlquery.Node
}

func (n xmlNode) Text() string { return n.n.InnerText() }

func (n xmlNode) Attr(name string) (string, bool) {
	for _, a := range n.n.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n xmlNode) Value() any { return n.n }

// xpathSelector evaluates a compiled XPath expression against HTML or XML
// nodes.
type xpathSelector struct {
	expr     string
	compiled *xpath.Expr
}

// XPath compiles an XPath selector. Like regexp.MustCompile it panics on an
// invalid expression, so selectors can be declared in package-level tables.
func XPath(expr string) Selector {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		panic(fmt.Sprintf("document: invalid xpath %q: %v", expr, err))
	}
	return &xpathSelector{expr: expr, compiled: compiled}
}

func (s *xpathSelector) String() string { return "xpath(" + s.expr + ")" }

func (s *xpathSelector) Select(n Node) ([]Node, error) {
	switch t := n.(type) {
	case htmlNode:
		matched := htmlquery.QuerySelectorAll(t.n, s.compiled)
		nodes := make([]Node, len(matched))
		for i, m := range matched {
			nodes[i] = htmlNode{n: m}
		}
		return nodes, nil
	case xmlNode:
		matched := xmlquery.QuerySelectorAll(t.n, s.compiled)
		nodes := make([]Node, len(matched))
		for i, m := range matched {
			nodes[i] = xmlNode{n: m}
		}
		return nodes, nil
	default:
		return nil, fmt.Errorf("document: xpath selector on %T node", n)
	}
}

// cssSelector evaluates a CSS selector against HTML nodes via goquery.
type cssSelector struct {
	expr string
}

// CSS returns a CSS selector for HTML documents.
func CSS(expr string) Selector {
	return &cssSelector{expr: expr}
}

func (s *cssSelector) String() string { return "css(" + s.expr + ")" }

func (s *cssSelector) Select(n Node) ([]Node, error) {
	t, ok := n.(htmlNode)
	if !ok {
		return nil, fmt.Errorf("document: css selector on %T node", n)
	}
	sel := goquery.NewDocumentFromNode(t.n).Find(s.expr)
	nodes := make([]Node, len(sel.Nodes))
	for i, m := range sel.Nodes {
		nodes[i] = htmlNode{n: m}
	}
	return nodes, nil
}
