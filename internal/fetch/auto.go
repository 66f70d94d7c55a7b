package fetch

import (
	"context"
	"strings"

	"github.com/pageforge/pageforge/internal/logger"
)

// Auto fetches statically and falls back to the headless browser when the
// page looks like an unrendered script application.
type Auto struct {
	static  *Static
	dynamic *Dynamic
}

func NewAuto(cfg Config) (*Auto, error) {
	dynamic, err := NewDynamic(cfg)
	if err != nil {
		return nil, err
	}
	return &Auto{static: NewStatic(cfg), dynamic: dynamic}, nil
}

func (f *Auto) Fetch(ctx context.Context, target string, opts Options) (Result, error) {
	result, err := f.static.Fetch(ctx, target, opts)
	if err != nil {
		logger.Debug("static fetch failed, rendering instead", "url", target, "error", err)
		return f.dynamic.Fetch(ctx, target, opts)
	}
	if needsRendering(result) {
		logger.Debug("page looks script-rendered, fetching again with browser", "url", target)
		return f.dynamic.Fetch(ctx, target, opts)
	}
	return result, nil
}

// needsRendering spots the empty mount points of script-driven frontends.
func needsRendering(r Result) bool {
	if !strings.Contains(r.ContentType, "html") {
		return false
	}
	html := strings.ToLower(string(r.Body))

	markers := []string{
		`<div id="root"></div>`,
		`<div id="app"></div>`,
		`<app-root></app-root>`,
		`<div id="__next"></div>`,
		`<div id="__nuxt"></div>`,
		`<div data-reactroot`,
	}
	for _, m := range markers {
		if strings.Contains(html, m) {
			return true
		}
	}

	if i := strings.Index(html, "<noscript>"); i >= 0 {
		j := strings.Index(html[i:], "</noscript>")
		if j > 0 {
			inner := html[i+len("<noscript>") : i+j]
			if strings.Contains(inner, "javascript") || strings.Contains(inner, "enable") {
				return true
			}
		}
	}
	return false
}

func (f *Auto) Close() error {
	return f.dynamic.Close()
}
