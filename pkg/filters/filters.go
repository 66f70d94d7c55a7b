// Package filters implements the composable value transformers used inside
// element attribute rules. A Filter turns one raw value (text, document node,
// JSON scalar) into one typed value; filters are chained left to right and a
// chain short-circuits at the first failing stage. Missing input is
// propagated as the capabilities.Absent sentinel rather than parsed.
package filters

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/pageforge/pageforge/pkg/capabilities"
	"github.com/pageforge/pageforge/pkg/document"
)

// Filter is a single value transformation stage.
type Filter interface {
	Filter(v any) (any, error)
}

// Func adapts a plain function to the Filter interface.
type Func func(any) (any, error)

func (f Func) Filter(v any) (any, error) { return f(v) }

// FormatError reports input a filter could not parse or convert.
type FormatError struct {
	Filter string
	Value  any
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: cannot parse %q: %s", e.Filter, fmt.Sprint(e.Value), e.Reason)
}

func formatErr(filter string, value any, reason string) error {
	return &FormatError{Filter: filter, Value: value, Reason: reason}
}

// Pipe runs v through stages in order. A nil value or an Empty sentinel
// stops the pipeline and flows through unchanged, so later stages only ever
// see real values.
func Pipe(v any, stages ...Filter) (any, error) {
	for _, f := range stages {
		if v == nil {
			return capabilities.Absent, nil
		}
		if capabilities.IsEmpty(v) {
			return v, nil
		}
		next, err := f.Filter(v)
		if err != nil {
			return nil, err
		}
		v = next
	}
	if v == nil {
		return capabilities.Absent, nil
	}
	return v, nil
}

// Scope is what an attribute rule sees while an element is being extracted:
// the source node, the element environment, the values of sibling attributes
// already computed, and (inside a table row) the resolved columns. It is
// implemented by the elements package.
type Scope interface {
	// Node returns the rule's source node.
	Node() document.Node
	// BaseURL returns the URL of the page being extracted, or nil.
	BaseURL() *url.URL
	// Sibling resolves another attribute of the same element by name,
	// evaluating it first if needed.
	Sibling(name string) (any, error)
	// EnvValue reads a key from the element environment.
	EnvValue(key string) (any, bool)
	// Cell returns the current table row's cell for a declared column.
	Cell(column string) (document.Node, error)
}

// Rule produces one attribute value from a scope.
type Rule interface {
	Eval(s Scope) (any, error)
}

// RuleFunc adapts a plain function to the Rule interface.
type RuleFunc func(Scope) (any, error)

func (f RuleFunc) Eval(s Scope) (any, error) { return f(s) }

// text coerces a filter input to a string. Nodes contribute their text
// content; scalars their natural rendering.
func text(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case document.Node:
		return t.Text(), nil
	case json.Number:
		return t.String(), nil
	case fmt.Stringer:
		return t.String(), nil
	case bool:
		if t {
			return "true", nil
		}
		return "false", nil
	case int, int64, float64:
		return fmt.Sprint(t), nil
	default:
		return "", fmt.Errorf("filters: expected text or node, got %T", v)
	}
}
