package document

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// JSONDocument is a decoded JSON body.
type JSONDocument struct {
	body []byte
	root any
}

// ParseJSON decodes a JSON body. Numbers are kept as json.Number so numeric
// filters can parse them without float rounding.
func ParseJSON(body []byte) (*JSONDocument, error) {
	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return &JSONDocument{body: body, root: root}, nil
}

func (d *JSONDocument) Kind() Kind  { return KindJSON }
func (d *JSONDocument) Root() Node  { return jsonNode{v: d.root} }
func (d *JSONDocument) Raw() []byte { return d.body }

type jsonNode struct {
	v any
}

func (n jsonNode) Text() string {
	switch v := n.v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func (n jsonNode) Attr(string) (string, bool) { return "", false }

func (n jsonNode) Value() any { return n.v }

// JSONChildren expands a JSON container node into its element nodes: array
// entries in order, or object values. The second return is false when n is
// not a JSON container.
func JSONChildren(n Node) ([]Node, bool) {
	t, ok := n.(jsonNode)
	if !ok {
		return nil, false
	}
	switch v := t.v.(type) {
	case []any:
		nodes := make([]Node, len(v))
		for i, e := range v {
			nodes[i] = jsonNode{v: e}
		}
		return nodes, true
	case map[string]any:
		nodes := make([]Node, 0, len(v))
		for _, k := range sortedKeys(v) {
			nodes = append(nodes, jsonNode{v: v[k]})
		}
		return nodes, true
	default:
		return nil, false
	}
}

// pathSelector walks decoded JSON by a slash-separated path. Path segments
// are object keys or array indices; "*" fans out over every entry of a
// container. A missing key or index simply matches nothing.
type pathSelector struct {
	expr     string
	segments []string
}

// Path returns a dict-path selector for JSON documents. An empty expression
// selects the node itself.
func Path(expr string) Selector {
	var segments []string
	if expr != "" {
		segments = strings.Split(expr, "/")
	}
	return &pathSelector{expr: expr, segments: segments}
}

func (s *pathSelector) String() string { return "path(" + s.expr + ")" }

func (s *pathSelector) Select(n Node) ([]Node, error) {
	t, ok := n.(jsonNode)
	if !ok {
		return nil, fmt.Errorf("document: path selector on %T node", n)
	}

	current := []any{t.v}
	for _, seg := range s.segments {
		var next []any
		for _, v := range current {
			switch c := v.(type) {
			case map[string]any:
				if seg == "*" {
					// Sorted for deterministic extraction order.
					for _, k := range sortedKeys(c) {
						next = append(next, c[k])
					}
				} else if e, ok := c[seg]; ok {
					next = append(next, e)
				}
			case []any:
				if seg == "*" {
					next = append(next, c...)
				} else if i, err := strconv.Atoi(seg); err == nil && i >= 0 && i < len(c) {
					next = append(next, c[i])
				}
			}
		}
		current = next
		if len(current) == 0 {
			break
		}
	}

	nodes := make([]Node, len(current))
	for i, v := range current {
		nodes[i] = jsonNode{v: v}
	}
	return nodes, nil
}
