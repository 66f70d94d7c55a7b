package elements

import (
	"github.com/pageforge/pageforge/internal/logger"
	"github.com/pageforge/pageforge/pkg/document"
	"github.com/pageforge/pageforge/pkg/filters"
)

// Seq is a lazy, finite sequence of extracted records, iterated rows-style:
//
//	seq := list.Extract(page.Doc())
//	for seq.Next() {
//	    use(seq.Item())
//	}
//	if err := seq.Err(); err != nil { ... }
type Seq[T any] struct {
	next func() (T, bool, error)
	cur  T
	err  error
	done bool
}

// NewSeq builds a sequence from a pull function. The function returns false
// when exhausted; an error terminates the sequence.
func NewSeq[T any](next func() (T, bool, error)) *Seq[T] {
	return &Seq[T]{next: next}
}

// SeqError returns a sequence that fails immediately.
func SeqError[T any](err error) *Seq[T] {
	return &Seq[T]{err: err, done: true}
}

// SeqOf returns a sequence over a fixed slice.
func SeqOf[T any](items []T) *Seq[T] {
	i := 0
	return NewSeq(func() (T, bool, error) {
		if i >= len(items) {
			var zero T
			return zero, false, nil
		}
		it := items[i]
		i++
		return it, true, nil
	})
}

// Next advances the sequence. It returns false at the end or on error.
func (s *Seq[T]) Next() bool {
	if s.done {
		return false
	}
	item, ok, err := s.next()
	if err != nil {
		s.err = err
		s.done = true
		return false
	}
	if !ok {
		s.done = true
		return false
	}
	s.cur = item
	return true
}

// Item returns the record at the current position.
func (s *Seq[T]) Item() T { return s.cur }

// Err returns the error that terminated iteration, if any.
func (s *Seq[T]) Err() error { return s.err }

// Collect drains the sequence into a slice.
func (s *Seq[T]) Collect() ([]T, error) {
	var out []T
	for s.Next() {
		out = append(out, s.Item())
	}
	return out, s.Err()
}

// List iterates a source node's children into a lazy sequence of records.
type List[T any] struct {
	// Items selects the item nodes. When nil the element's own node is
	// the single item.
	Items document.Selector
	// Empty optionally marks a legitimate empty listing ("no operations"
	// label); when no item matches and Empty does not either, a warning
	// is logged since the selector is probably stale.
	Empty document.Selector
	// Condition, when false, yields an empty sequence.
	Condition func(filters.Scope) bool
	// Item extracts one record per item node.
	Item Item[T]
	// IgnoreDuplicates logs and drops records repeating an ID instead of
	// failing the listing.
	IgnoreDuplicates bool
}

// Extract lazily runs the element. Errors surface through Seq.Err.
func (l *List[T]) Extract(doc document.Document, opts ...Option) *Seq[T] {
	c := buildConfig(doc, opts)

	if l.Condition != nil {
		sc := &scope{node: c.node, base: c.base, env: c.env}
		if !l.Condition(sc) {
			return SeqOf[T](nil)
		}
	}

	var nodes []document.Node
	if l.Items == nil {
		nodes = []document.Node{c.node}
	} else {
		var err error
		nodes, err = document.All(l.Items, c.node)
		if err != nil {
			return SeqError[T](err)
		}
		if len(nodes) == 0 && l.Empty != nil && !document.Exists(l.Empty, c.node) {
			logger.Warn("no item matched and the empty marker is missing",
				"selector", l.Items.String())
		}
	}

	return newItemSeq(nodes, c, &l.Item, l.IgnoreDuplicates, nil, nil)
}

// newItemSeq drives Item extraction over a node list, with duplicate-ID
// bookkeeping shared by List, Table and Dict.
func newItemSeq[T any](nodes []document.Node, c config, item *Item[T], ignoreDup bool, columns map[string]int, cellsOf func(document.Node) []document.Node) *Seq[T] {
	i := 0
	seen := map[string]bool{}
	return NewSeq(func() (T, bool, error) {
		var zero T
		for i < len(nodes) {
			node := nodes[i]
			i++

			env := make(map[string]any, len(c.env))
			for k, v := range c.env {
				env[k] = v
			}
			var cells []document.Node
			if cellsOf != nil {
				cells = cellsOf(node)
			}
			rec, ok, err := item.extract(node, env, c.base, columns, cells)
			if err != nil {
				return zero, false, err
			}
			if !ok {
				continue
			}
			if id, ok := any(rec).(Identifiable); ok && id.RecordID() != "" {
				if seen[id.RecordID()] {
					if ignoreDup {
						logger.Warn("duplicate record id in listing", "id", id.RecordID())
						continue
					}
					return zero, false, &DuplicateError{ID: id.RecordID()}
				}
				seen[id.RecordID()] = true
			}
			return rec, true, nil
		}
		return zero, false, nil
	})
}
