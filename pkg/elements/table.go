package elements

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pageforge/pageforge/pkg/document"
	"github.com/pageforge/pageforge/pkg/filters"
)

// Column declares one table column of interest. A column is identified by
// its header text, not its position, so reordered site tables keep working.
type Column struct {
	// Name is the key used by filters.Cell.
	Name string
	// Titles are accepted header texts, compared case-insensitively after
	// whitespace cleaning.
	Titles []string
	// Pattern alternatively matches the header text by regexp.
	Pattern *regexp.Regexp
	// Optional tolerates a missing header; Cell then reports not-found
	// for this column. A missing non-optional column fails the table
	// loudly before any row is extracted.
	Optional bool
}

var defaultCells = document.XPath("./td | ./th")

// Table extracts records from tabular markup. Header cells are matched once
// per table against the declared columns; row cells are then located by the
// resolved column index.
type Table[T any] struct {
	// Head selects the header cells, in column order.
	Head document.Selector
	// Rows selects the data row nodes.
	Rows document.Selector
	// Cells selects the cell nodes of one row; defaults to "./td | ./th".
	Cells document.Selector
	// Columns declares the columns referenced by the item's Cell rules.
	Columns []Column
	// Condition, when false, yields an empty sequence.
	Condition func(filters.Scope) bool
	// Item extracts one record per row.
	Item Item[T]
	// IgnoreDuplicates logs and drops records repeating an ID.
	IgnoreDuplicates bool
}

// Extract resolves the table's columns and lazily extracts its rows.
func (t *Table[T]) Extract(doc document.Document, opts ...Option) *Seq[T] {
	c := buildConfig(doc, opts)

	if t.Condition != nil {
		sc := &scope{node: c.node, base: c.base, env: c.env}
		if !t.Condition(sc) {
			return SeqOf[T](nil)
		}
	}

	columns, err := t.resolveColumns(c.node)
	if err != nil {
		return SeqError[T](err)
	}

	rows, err := document.All(t.Rows, c.node)
	if err != nil {
		return SeqError[T](err)
	}

	cellsSel := t.Cells
	if cellsSel == nil {
		cellsSel = defaultCells
	}
	cellsOf := func(row document.Node) []document.Node {
		cells, err := document.All(cellsSel, row)
		if err != nil {
			return nil
		}
		return cells
	}

	return newItemSeq(rows, c, &t.Item, t.IgnoreDuplicates, columns, cellsOf)
}

// resolveColumns matches header cell text against the declared columns and
// returns the name-to-index mapping, honoring colspan.
func (t *Table[T]) resolveColumns(root document.Node) (map[string]int, error) {
	headers, err := document.All(t.Head, root)
	if err != nil {
		return nil, err
	}

	resolved := map[string]int{}
	index := 0
	for _, h := range headers {
		title := cleanTitle(h.Text())
		for _, col := range t.Columns {
			if _, done := resolved[col.Name]; done {
				continue
			}
			if col.matches(title) {
				resolved[col.Name] = index
			}
		}
		index += colspan(h)
	}

	for _, col := range t.Columns {
		if _, ok := resolved[col.Name]; !ok && !col.Optional {
			return nil, fmt.Errorf("%w: table column %q (header not matched)",
				document.ErrNotFound, col.Name)
		}
	}
	return resolved, nil
}

func (c *Column) matches(title string) bool {
	for _, t := range c.Titles {
		if strings.EqualFold(cleanTitle(t), title) {
			return true
		}
	}
	return c.Pattern != nil && c.Pattern.MatchString(title)
}

var titleSpaceRe = regexp.MustCompile(`[\s\x{00a0}\x{202f}]+`)

func cleanTitle(s string) string {
	return strings.TrimSpace(titleSpaceRe.ReplaceAllString(s, " "))
}

func colspan(n document.Node) int {
	if v, ok := n.Attr("colspan"); ok {
		if span, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && span > 0 {
			return span
		}
	}
	return 1
}
