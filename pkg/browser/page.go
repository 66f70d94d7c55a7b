package browser

import (
	"net/url"

	"github.com/go-resty/resty/v2"

	"github.com/pageforge/pageforge/pkg/document"
	"github.com/pageforge/pageforge/pkg/elements"
)

// Page is a fetched response routed to a URL, with its body already parsed
// into a document.
type Page struct {
	browser *Browser
	route   *URL
	resp    *resty.Response
	doc     document.Document
	url     *url.URL
	params  Args
}

// Doc returns the parsed response document.
func (p *Page) Doc() document.Document { return p.doc }

// URL returns the final response URL, after redirects.
func (p *Page) URL() *url.URL { return p.url }

// Params returns the named groups captured by the matching URL pattern.
func (p *Page) Params() Args { return p.params }

// Response exposes the underlying HTTP response.
func (p *Page) Response() *resty.Response { return p.resp }

// Route returns the URL this page was routed to, or nil when no registered
// URL matched.
func (p *Page) Route() *URL { return p.route }

// Is reports whether the page was routed to u.
func (p *Page) Is(u *URL) bool { return p.route != nil && p.route == u }

// Logged reports whether the page belongs to the authenticated area of the
// site.
func (p *Page) Logged() bool { return p.route != nil && p.route.Logged }

// ExtractOpts returns the extraction options every element run on this page
// should carry: the page URL as link resolution base.
func (p *Page) ExtractOpts(extra ...elements.Option) []elements.Option {
	opts := []elements.Option{elements.WithBaseURL(p.url)}
	return append(opts, extra...)
}
