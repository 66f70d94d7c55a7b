package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

// Static fetches over plain HTTP, no script execution.
type Static struct {
	config Config
}

func NewStatic(cfg Config) *Static {
	return &Static{config: cfg.withDefaults()}
}

func (f *Static) Fetch(ctx context.Context, target string, opts Options) (Result, error) {
	result := Result{URL: target, FetchedAt: time.Now()}

	c := colly.NewCollector(
		colly.UserAgent(f.config.UserAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(f.config.Timeout)

	if len(opts.Headers) > 0 {
		c.OnRequest(func(r *colly.Request) {
			for k, v := range opts.Headers {
				r.Headers.Set(k, v)
			}
		})
	}

	var fetchErr error
	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.ContentType = r.Headers.Get("Content-Type")
		result.Body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetching %s: %w", target, err)
	})

	if err := c.Visit(target); err != nil {
		return result, fmt.Errorf("fetching %s: %w", target, err)
	}
	if fetchErr != nil {
		return result, fetchErr
	}
	return result, nil
}

func (f *Static) Close() error { return nil }
