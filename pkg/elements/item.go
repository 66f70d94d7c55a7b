package elements

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/pageforge/pageforge/pkg/capabilities"
	"github.com/pageforge/pageforge/pkg/document"
	"github.com/pageforge/pageforge/pkg/filters"
)

// Attr declares one output attribute of an item element.
type Attr[T any] struct {
	// Name identifies the attribute to sibling rules (filters.Field).
	Name string
	// Rule produces the raw attribute value.
	Rule filters.Rule
	// Assign stores the value into the record. Typically a closure over
	// capabilities.Assign.
	Assign func(*T, any) error
	// Optional tolerates rule failure: the record field stays absent
	// instead of aborting the element.
	Optional bool
}

// Item maps one source node to one record of type T.
//
// Attribute rules are pure functions of the source node, the environment
// and sibling attribute values; extracting the same item twice from the
// same document yields equal records.
type Item[T any] struct {
	// Root optionally reroots the item at a child of the source node
	// before any rule runs.
	Root document.Selector
	// Condition, when it returns false, skips the element entirely. No
	// partially populated record is ever produced.
	Condition func(filters.Scope) bool
	// Validate drops the finished record when it returns false.
	Validate func(*T) bool
	// Attrs is evaluated in declaration order, except that a rule reading
	// a sibling through filters.Field forces its dependency first.
	Attrs []Attr[T]
}

// Extract runs the element against a document (or the node given with
// WithNode). The second return is false when the item was skipped by
// Condition, Validate or ErrSkipItem.
func (it *Item[T]) Extract(doc document.Document, opts ...Option) (T, bool, error) {
	c := buildConfig(doc, opts)
	return it.extract(c.node, c.env, c.base, nil, nil)
}

func (it *Item[T]) extract(node document.Node, env map[string]any, base *url.URL, columns map[string]int, cells []document.Node) (T, bool, error) {
	var zero T

	if it.Root != nil {
		rerooted, err := document.One(it.Root, node)
		if err != nil {
			return zero, false, err
		}
		node = rerooted
	}

	sc := &scope{node: node, base: base, env: env, columns: columns, cells: cells}
	results := map[string]evalResult{}
	resolving := map[string]bool{}

	sc.resolve = func(name string) (any, error) {
		if r, ok := results[name]; ok {
			return r.v, r.err
		}
		if resolving[name] {
			return nil, fmt.Errorf("elements: attribute dependency cycle at %q", name)
		}
		attr := it.attr(name)
		if attr == nil {
			return nil, fmt.Errorf("elements: no attribute %q", name)
		}
		resolving[name] = true
		v, err := attr.Rule.Eval(sc)
		delete(resolving, name)
		results[name] = evalResult{v: v, err: err}
		return v, err
	}

	if it.Condition != nil && !it.Condition(sc) {
		return zero, false, nil
	}

	obj := new(T)
	for i := range it.Attrs {
		attr := &it.Attrs[i]
		v, err := sc.resolve(attr.Name)
		if err != nil {
			if errors.Is(err, ErrSkipItem) {
				return zero, false, nil
			}
			if !attr.Optional {
				return zero, false, &AttributeError{Attr: attr.Name, Err: err}
			}
			v = capabilities.Absent
		}
		if attr.Assign != nil {
			if err := attr.Assign(obj, v); err != nil {
				if errors.Is(err, ErrSkipItem) {
					return zero, false, nil
				}
				return zero, false, &AttributeError{Attr: attr.Name, Err: err}
			}
		}
	}

	if it.Validate != nil && !it.Validate(obj) {
		return zero, false, nil
	}
	return *obj, true, nil
}

func (it *Item[T]) attr(name string) *Attr[T] {
	for i := range it.Attrs {
		if it.Attrs[i].Name == name {
			return &it.Attrs[i]
		}
	}
	return nil
}
