package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/pageforge/pageforge/internal/logger"
	"github.com/pageforge/pageforge/pkg/capabilities"
	"github.com/pageforge/pageforge/pkg/document"
	"github.com/pageforge/pageforge/pkg/elements"
	"github.com/pageforge/pageforge/pkg/filters"
)

// Paginated walks a result list split across pages. Extract pulls the items
// of one page; Next locates the link to the following page, evaluated
// against the page document. A Next that finds nothing, or that resolves to
// an already visited URL, ends the walk cleanly.
type Paginated[T any] struct {
	Extract func(p *Page) *elements.Seq[T]
	Next    filters.Rule
}

// Paginate yields the items of every page starting at first, fetching each
// following page only once the previous one's items are consumed.
func Paginate[T any](ctx context.Context, b *Browser, first *Page, pg Paginated[T]) *elements.Seq[T] {
	if first == nil {
		return elements.SeqError[T](errors.New("pagination needs a starting page"))
	}
	if pg.Extract == nil {
		return elements.SeqError[T](errors.New("pagination needs an item extractor"))
	}

	visited := map[string]bool{first.URL().String(): true}
	page := first
	items := pg.Extract(first)

	return elements.NewSeq(func() (T, bool, error) {
		var zero T
		for {
			if items.Next() {
				return items.Item(), true, nil
			}
			if err := items.Err(); err != nil {
				return zero, false, err
			}

			next, err := nextTarget(page, pg.Next)
			if err != nil {
				return zero, false, err
			}
			if next == "" {
				return zero, false, nil
			}
			if visited[next] {
				logger.Warn("pagination revisits a page, stopping", "url", next)
				return zero, false, nil
			}
			visited[next] = true

			page, err = b.Location(ctx, next)
			if err != nil {
				return zero, false, fmt.Errorf("fetching next page %s: %w", next, err)
			}
			items = pg.Extract(page)
		}
	})
}

// nextTarget evaluates the next-page rule on the page and resolves the
// result to an absolute URL. An absent link means the last page.
func nextTarget(p *Page, next filters.Rule) (string, error) {
	if next == nil {
		return "", nil
	}
	v, err := next.Eval(&pageScope{page: p})
	if errors.Is(err, document.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("locating next page: %w", err)
	}
	if v == nil || capabilities.IsEmpty(v) {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("next page rule produced %T, want string", v)
	}
	if s == "" {
		return "", nil
	}
	ref, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("next page link %q: %w", s, err)
	}
	return p.URL().ResolveReference(ref).String(), nil
}

// pageScope evaluates rules against a whole page, outside any element.
type pageScope struct {
	page *Page
}

func (s *pageScope) Node() document.Node { return s.page.doc.Root() }

func (s *pageScope) BaseURL() *url.URL { return s.page.url }

func (s *pageScope) Sibling(name string) (any, error) {
	return nil, fmt.Errorf("no field %q outside an item", name)
}

func (s *pageScope) EnvValue(key string) (any, bool) { return nil, false }

func (s *pageScope) Cell(column string) (document.Node, error) {
	return nil, fmt.Errorf("no column %q outside a table row", column)
}
