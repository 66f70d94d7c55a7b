package filters

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/pageforge/pageforge/pkg/capabilities"
	"github.com/pageforge/pageforge/pkg/document"
)

// Take selects exactly one node under the rule's source node and runs it
// through the given stages. Zero or several matches are an error unless the
// rule is wrapped with WithDefault.
func Take(sel document.Selector, stages ...Filter) Rule {
	return RuleFunc(func(s Scope) (any, error) {
		n, err := document.One(sel, s.Node())
		if err != nil {
			return nil, err
		}
		return Pipe(n, stages...)
	})
}

// TakeFirst selects the first matching node, with explicit first-match
// semantics.
func TakeFirst(sel document.Selector, stages ...Filter) Rule {
	return RuleFunc(func(s Scope) (any, error) {
		n, err := document.First(sel, s.Node())
		if err != nil {
			return nil, err
		}
		return Pipe(n, stages...)
	})
}

// TakeEach selects every matching node and runs each through the stages,
// producing a []any.
func TakeEach(sel document.Selector, stages ...Filter) Rule {
	return RuleFunc(func(s Scope) (any, error) {
		nodes, err := document.All(sel, s.Node())
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(nodes))
		for _, n := range nodes {
			v, err := Pipe(n, stages...)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	})
}

// Self runs the rule's source node itself through the stages.
func Self(stages ...Filter) Rule {
	return RuleFunc(func(s Scope) (any, error) {
		return Pipe(s.Node(), stages...)
	})
}

// Dict selects one value by slash-separated path in a JSON document.
func Dict(path string, stages ...Filter) Rule {
	return Take(document.Path(path), stages...)
}

// Field reads a sibling attribute of the same element, evaluating it first
// if it has not been resolved yet, then runs it through the stages.
func Field(name string, stages ...Filter) Rule {
	return RuleFunc(func(s Scope) (any, error) {
		v, err := s.Sibling(name)
		if err != nil {
			return nil, err
		}
		return Pipe(v, stages...)
	})
}

// Env reads a key from the element environment. A missing key resolves to
// the Absent sentinel.
func Env(key string, stages ...Filter) Rule {
	return RuleFunc(func(s Scope) (any, error) {
		v, ok := s.EnvValue(key)
		if !ok {
			return capabilities.Absent, nil
		}
		return Pipe(v, stages...)
	})
}

// Const yields a fixed value.
func Const(v any) Rule {
	return RuleFunc(func(Scope) (any, error) { return v, nil })
}

// Compute runs an arbitrary function against the scope, for attributes that
// need cross-attribute logic beyond what chains express.
func Compute(fn func(Scope) (any, error)) Rule {
	return RuleFunc(fn)
}

// Format expands a printf format with the results of the given sub-rules.
func Format(format string, rules ...Rule) Rule {
	return RuleFunc(func(s Scope) (any, error) {
		args := make([]any, len(rules))
		for i, r := range rules {
			v, err := r.Eval(s)
			if err != nil {
				return nil, err
			}
			if capabilities.IsEmpty(v) {
				return capabilities.Absent, nil
			}
			args[i] = v
		}
		return fmt.Sprintf(format, args...), nil
	})
}

// Coalesce yields the first sub-rule producing a present value. Not-found
// and format errors move on to the next rule; only the final rule's failure
// is surfaced.
func Coalesce(rules ...Rule) Rule {
	return RuleFunc(func(s Scope) (any, error) {
		var lastErr error
		for _, r := range rules {
			v, err := r.Eval(s)
			if err != nil {
				lastErr = err
				continue
			}
			if !capabilities.IsEmpty(v) {
				return v, nil
			}
		}
		if lastErr != nil {
			return nil, lastErr
		}
		return capabilities.Absent, nil
	})
}

// Link selects one anchor-like node and resolves its href against the page
// URL, producing an absolute URL string.
func Link(sel document.Selector, stages ...Filter) Rule {
	return RuleFunc(func(s Scope) (any, error) {
		n, err := document.One(sel, s.Node())
		if err != nil {
			return nil, err
		}
		href, ok := n.Attr("href")
		if !ok {
			href, ok = n.Attr("src")
		}
		if !ok {
			return nil, fmt.Errorf("%w: no href or src attribute", document.ErrNotFound)
		}
		ref, err := url.Parse(href)
		if err != nil {
			return nil, formatErr("link", href, "not a URL")
		}
		if base := s.BaseURL(); base != nil {
			ref = base.ResolveReference(ref)
		}
		return Pipe(ref.String(), stages...)
	})
}

// Cell locates the current table row's cell for a declared column and runs
// it through the stages. It is only meaningful inside a table element.
func Cell(column string, stages ...Filter) Rule {
	return RuleFunc(func(s Scope) (any, error) {
		n, err := s.Cell(column)
		if err != nil {
			return nil, err
		}
		return Pipe(n, stages...)
	})
}

// WithDefault turns any extraction failure of r (not-found, ambiguous,
// format) into the given default. The failure is swallowed deliberately;
// use it only where absence is a tolerated state of the site.
func WithDefault(r Rule, def any) Rule {
	return RuleFunc(func(s Scope) (any, error) {
		v, err := r.Eval(s)
		if err != nil {
			var fe *FormatError
			if errors.Is(err, document.ErrNotFound) || errors.Is(err, document.ErrAmbiguous) || errors.As(err, &fe) {
				return def, nil
			}
			return nil, err
		}
		if capabilities.IsEmpty(v) {
			return def, nil
		}
		return v, nil
	})
}
