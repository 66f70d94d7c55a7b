package elements

import (
	"github.com/pageforge/pageforge/pkg/document"
	"github.com/pageforge/pageforge/pkg/filters"
)

// Dict iterates the entries of a JSON container into records: array entries
// in order, object values by sorted key. The container is located by a
// slash-separated path; "*" fans out over intermediate containers.
type Dict[T any] struct {
	// Path locates the container(s). Empty selects the document root.
	Path string
	// Condition, when false, yields an empty sequence.
	Condition func(filters.Scope) bool
	// Item extracts one record per entry.
	Item Item[T]
	// IgnoreDuplicates logs and drops records repeating an ID.
	IgnoreDuplicates bool
}

// Extract lazily runs the element against a JSON document.
func (d *Dict[T]) Extract(doc document.Document, opts ...Option) *Seq[T] {
	c := buildConfig(doc, opts)

	if d.Condition != nil {
		sc := &scope{node: c.node, base: c.base, env: c.env}
		if !d.Condition(sc) {
			return SeqOf[T](nil)
		}
	}

	bases, err := document.All(document.Path(d.Path), c.node)
	if err != nil {
		return SeqError[T](err)
	}

	var nodes []document.Node
	for _, b := range bases {
		if children, ok := document.JSONChildren(b); ok {
			nodes = append(nodes, children...)
		} else {
			// A scalar at the path is treated as a single item.
			nodes = append(nodes, b)
		}
	}

	return newItemSeq(nodes, c, &d.Item, d.IgnoreDuplicates, nil, nil)
}
