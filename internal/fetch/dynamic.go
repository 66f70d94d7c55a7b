package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/pageforge/pageforge/internal/logger"
)

// Dynamic renders pages in a headless browser before extraction. One
// browser process is shared across fetches; each fetch gets its own tab.
type Dynamic struct {
	config   Config
	allocCtx context.Context
	cancel   context.CancelFunc
}

func NewDynamic(cfg Config) (*Dynamic, error) {
	cfg = cfg.withDefaults()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	logger.Debug("headless browser allocator created", "user_agent", cfg.UserAgent)

	return &Dynamic{config: cfg, allocCtx: allocCtx, cancel: cancel}, nil
}

func (f *Dynamic) Fetch(ctx context.Context, target string, opts Options) (Result, error) {
	result := Result{URL: target, FetchedAt: time.Now()}

	tabCtx, cancelTab := chromedp.NewContext(f.allocCtx)
	defer cancelTab()
	runCtx, cancelTimeout := context.WithTimeout(tabCtx, f.config.Timeout)
	defer cancelTimeout()

	// Honor caller cancellation alongside the fetch timeout.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	wait := "body"
	if opts.WaitFor != "" {
		wait = opts.WaitFor
	}

	var html string
	actions := []chromedp.Action{
		chromedp.Navigate(target),
		chromedp.WaitVisible(wait),
	}
	if opts.WaitExtra > 0 {
		actions = append(actions, chromedp.Sleep(opts.WaitExtra))
	}
	actions = append(actions, chromedp.OuterHTML("html", &html))

	logger.Debug("rendering page", "url", target, "wait_for", wait)
	if err := chromedp.Run(runCtx, actions...); err != nil {
		return result, fmt.Errorf("rendering %s: %w", target, err)
	}

	result.Body = []byte(html)
	result.ContentType = "text/html; charset=utf-8"
	// The devtools protocol does not surface the navigation status here.
	result.StatusCode = http.StatusOK
	return result, nil
}

func (f *Dynamic) Close() error {
	if f.cancel != nil {
		f.cancel()
	}
	return nil
}
