// Package elements maps document nodes to typed records through declarative
// attribute rules. An element is a table of (attribute, rule, assign)
// entries built imperatively; one explicit engine evaluates the rules in a
// dependency-respecting order, so a rule may read a sibling attribute
// through filters.Field regardless of declaration order.
package elements

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/pageforge/pageforge/pkg/document"
)

// ErrSkipItem, returned (or wrapped) by a rule or assign function, drops the
// current item from a listing without failing the listing.
var ErrSkipItem = errors.New("elements: skip item")

// AttributeError reports the failure of one required attribute rule. The
// element aborts as a whole: a record missing a required field is worse than
// no record.
type AttributeError struct {
	Attr string
	Err  error
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("attribute %q: %v", e.Attr, e.Err)
}

func (e *AttributeError) Unwrap() error { return e.Err }

// DuplicateError reports two listed records sharing an ID.
type DuplicateError struct {
	ID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("two records share the ID %q", e.ID)
}

// Identifiable is implemented by records with a stable ID; listings use it
// to detect duplicates.
type Identifiable interface {
	RecordID() string
}

// Option configures one extraction call.
type Option func(*config)

type config struct {
	node document.Node
	base *url.URL
	env  map[string]any
}

// WithNode reroots extraction at the given node instead of the document
// root.
func WithNode(n document.Node) Option {
	return func(c *config) { c.node = n }
}

// WithBaseURL sets the page URL used to absolutize links.
func WithBaseURL(u *url.URL) Option {
	return func(c *config) { c.base = u }
}

// WithEnv seeds the element environment. The map is copied; rules see a
// private environment per extraction.
func WithEnv(env map[string]any) Option {
	return func(c *config) {
		for k, v := range env {
			c.env[k] = v
		}
	}
}

func buildConfig(doc document.Document, opts []Option) config {
	c := config{env: map[string]any{}}
	for _, opt := range opts {
		opt(&c)
	}
	if c.node == nil && doc != nil {
		c.node = doc.Root()
	}
	return c
}

// evalResult memoizes one attribute evaluation, error included, so that a
// sibling read through filters.Field sees exactly what the engine saw.
type evalResult struct {
	v   any
	err error
}

// scope implements filters.Scope for one item extraction.
type scope struct {
	node document.Node
	base *url.URL
	env  map[string]any

	resolve func(name string) (any, error)

	// Table context, nil outside table rows.
	columns map[string]int
	cells   []document.Node
}

func (s *scope) Node() document.Node { return s.node }

func (s *scope) BaseURL() *url.URL { return s.base }

func (s *scope) Sibling(name string) (any, error) {
	if s.resolve == nil {
		return nil, fmt.Errorf("elements: no sibling attributes in this scope")
	}
	return s.resolve(name)
}

func (s *scope) EnvValue(key string) (any, bool) {
	v, ok := s.env[key]
	return v, ok
}

func (s *scope) Cell(column string) (document.Node, error) {
	if s.columns == nil {
		return nil, fmt.Errorf("elements: column %q read outside a table row", column)
	}
	idx, ok := s.columns[column]
	if !ok {
		return nil, fmt.Errorf("%w: column %q", document.ErrNotFound, column)
	}
	if idx >= len(s.cells) {
		return nil, fmt.Errorf("%w: row has %d cells, column %q is at %d",
			document.ErrNotFound, len(s.cells), column, idx)
	}
	return s.cells[idx], nil
}
