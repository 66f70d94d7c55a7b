// Package fetch retrieves single pages for the one-shot extraction path,
// outside any stateful browser session. It fetches statically, through a
// headless browser for script-rendered sites, or detects which one a page
// needs.
package fetch

import (
	"context"
	"fmt"
	"time"
)

// Result is one fetched page, ready for document parsing.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
	FetchedAt   time.Time
}

// Options tweaks a single fetch.
type Options struct {
	Headers map[string]string
	// WaitFor is a CSS selector the dynamic fetcher waits for before
	// snapshotting the page.
	WaitFor string
	// WaitExtra sleeps after load, for pages that render in bursts.
	WaitExtra time.Duration
}

// Config holds the settings shared by all fetchers.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = "pageforge/1.0"
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}

// Fetcher retrieves one page per call.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts Options) (Result, error)
	// Close releases held resources, like a headless browser.
	Close() error
}

// Mode selects the fetching strategy.
type Mode string

const (
	ModeAuto    Mode = "auto"
	ModeStatic  Mode = "static"
	ModeDynamic Mode = "dynamic"
)

// New builds the fetcher for a mode.
func New(mode Mode, cfg Config) (Fetcher, error) {
	switch mode {
	case ModeStatic:
		return NewStatic(cfg), nil
	case ModeDynamic:
		return NewDynamic(cfg)
	case ModeAuto, "":
		return NewAuto(cfg)
	default:
		return nil, fmt.Errorf("unknown fetch mode %q", mode)
	}
}
