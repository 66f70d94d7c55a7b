// Package browser drives stateful navigation on a scraped site: a cookie
// session, URL pattern routing to typed pages, bounded retries, rate
// limiting and session export for reuse across runs.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/pageforge/pageforge/internal/logger"
	"github.com/pageforge/pageforge/pkg/document"
)

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

// Config carries the per-site browser settings.
type Config struct {
	// BaseURL is the site root; relative URL patterns and links resolve
	// against it.
	BaseURL string
	// UserAgent overrides the default browser identification.
	UserAgent string
	// Timeout bounds each HTTP request. Zero means 30s.
	Timeout time.Duration
	// Retry overrides the default retry policy.
	Retry *RetryPolicy
	// RequestsPerSecond throttles fetches. Zero means no throttle.
	RequestsPerSecond float64
	// Transport substitutes the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// Browser is a stateful HTTP session over one site. Its URL routes are
// fixed at construction; their order is the routing precedence.
type Browser struct {
	client  *resty.Client
	base    *url.URL
	routes  []*URL
	page    *Page
	retry   RetryPolicy
	limiter *rate.Limiter

	// state is an open blob for adapter tokens that must survive session
	// export, like API bearer tokens obtained during login.
	state map[string]string

	// cookies tracks every cookie the site set, keyed so export can
	// reproduce the jar. http.CookieJar has no enumeration API.
	cookies map[string]SessionCookie
}

// New builds a browser for the given site with its URL routes in routing
// order.
func New(cfg Config, routes ...*URL) (*Browser, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", cfg.BaseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	client := resty.New().
		SetCookieJar(jar).
		SetTimeout(timeout).
		SetHeader("User-Agent", ua).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	if cfg.Transport != nil {
		client.SetTransport(cfg.Transport)
	}

	retry := DefaultRetryPolicy()
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}

	b := &Browser{
		client:  client,
		base:    base,
		routes:  routes,
		retry:   retry,
		state:   map[string]string{},
		cookies: map[string]SessionCookie{},
	}
	if cfg.RequestsPerSecond > 0 {
		b.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	for _, u := range routes {
		if err := u.attach(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Browser) baseURL() string { return b.base.String() }

// Page returns the current page, nil before the first Location.
func (b *Browser) Page() *Page { return b.page }

// Client exposes the underlying HTTP client for requests outside the page
// routing, like raw file downloads.
func (b *Browser) Client() *resty.Client { return b.client }

// AbsURL resolves ref against the current page URL, falling back to the
// base URL when there is no current page.
func (b *Browser) AbsURL(ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	origin := b.base
	if b.page != nil {
		origin = b.page.url
	}
	return origin.ResolveReference(parsed).String()
}

// Home navigates to the base URL.
func (b *Browser) Home(ctx context.Context) (*Page, error) {
	return b.Location(ctx, b.base.String())
}

// Location fetches the URL, routes the response, makes the result the
// current page and runs its OnLoad hook.
func (b *Browser) Location(ctx context.Context, target string, opts ...RequestOption) (*Page, error) {
	page, err := b.do(ctx, target, opts)
	if page != nil {
		b.page = page
	}
	if err != nil {
		return page, err
	}
	if page.route != nil && page.route.OnLoad != nil {
		if err := page.route.OnLoad(page); err != nil {
			return page, err
		}
	}
	return page, nil
}

// Open fetches and routes like Location but leaves the current page alone
// and does not run OnLoad. Use it for side lookups while iterating a page.
func (b *Browser) Open(ctx context.Context, target string, opts ...RequestOption) (*Page, error) {
	return b.do(ctx, target, opts)
}

func (b *Browser) do(ctx context.Context, target string, opts []RequestOption) (*Page, error) {
	spec := buildSpec(opts)
	abs := b.AbsURL(target)

	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var resp *resty.Response
	err := b.retry.run(ctx, spec.method, func() error {
		var err error
		resp, err = b.send(ctx, spec, abs)
		return err
	})
	if resp == nil {
		return nil, err
	}

	b.recordCookies(resp)
	page, perr := b.buildPage(resp)
	if err != nil {
		return page, err
	}
	return page, perr
}

func (b *Browser) send(ctx context.Context, spec requestSpec, abs string) (*resty.Response, error) {
	req := b.client.R().SetContext(ctx)
	for k, v := range spec.headers {
		req.SetHeader(k, v)
	}
	if spec.query != nil {
		req.SetQueryParamsFromValues(spec.query)
	}
	switch {
	case spec.form != nil:
		req.SetFormDataFromValues(spec.form)
	case spec.json != nil:
		req.SetBody(spec.json)
		req.SetHeader("Content-Type", "application/json")
	case spec.body != nil:
		req.SetBody(spec.body)
	}

	logger.Debug("fetching", "method", spec.method, "url", abs)
	resp, err := req.Execute(spec.method, abs)
	if err != nil {
		return nil, classifyNetErr(err)
	}
	if resp.StatusCode() >= 400 && !spec.allowErrorStatus {
		return resp, &HTTPError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			URL:        finalURL(resp).String(),
		}
	}
	return resp, nil
}

// classifyNetErr marks timeouts and connection resets transient so the
// retry policy picks them up.
func classifyNetErr(err error) error {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &TransientError{Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Err: err}
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Temporary() {
		return &TransientError{Err: err}
	}
	return err
}

func finalURL(resp *resty.Response) *url.URL {
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		return raw.Request.URL
	}
	u, _ := url.Parse(resp.Request.URL)
	return u
}

// buildPage parses the body and routes the response to the first URL whose
// pattern matches and whose IsHere does not veto.
func (b *Browser) buildPage(resp *resty.Response) (*Page, error) {
	final := finalURL(resp)
	doc, err := document.Parse(resp.Body(), resp.Header().Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", final, err)
	}

	page := &Page{browser: b, resp: resp, doc: doc, url: final}
	for _, route := range b.routes {
		args, ok := route.Match(final.String())
		if !ok {
			continue
		}
		if route.IsHere != nil {
			page.route, page.params = route, args
			if !route.IsHere(page) {
				page.route, page.params = nil, nil
				continue
			}
		}
		page.route, page.params = route, args
		return page, nil
	}
	logger.Debug("no route matched", "url", final.String())
	return page, nil
}

// SetState stores an adapter token under key; it travels with the exported
// session.
func (b *Browser) SetState(key, value string) { b.state[key] = value }

// State returns the stored token for key.
func (b *Browser) State(key string) (string, bool) {
	v, ok := b.state[key]
	return v, ok
}

// Session is a portable snapshot of the browser session: cookies, adapter
// state and the last location.
type Session struct {
	Cookies []SessionCookie  `json:"cookies" yaml:"cookies"`
	State   map[string]string `json:"state,omitempty" yaml:"state,omitempty"`
	URL     string            `json:"url,omitempty" yaml:"url,omitempty"`
}

// SessionCookie is one cookie of a Session snapshot, in a form embedders
// can construct and serialize directly.
type SessionCookie struct {
	Name    string    `json:"name" yaml:"name"`
	Value   string    `json:"value" yaml:"value"`
	Domain  string    `json:"domain" yaml:"domain"`
	Path    string    `json:"path" yaml:"path"`
	Expires time.Time `json:"expires,omitempty" yaml:"expires,omitempty"`
	Secure  bool      `json:"secure,omitempty" yaml:"secure,omitempty"`
}

func (b *Browser) recordCookies(resp *resty.Response) {
	final := finalURL(resp)
	for _, c := range resp.Cookies() {
		domain := c.Domain
		if domain == "" {
			domain = final.Hostname()
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		key := domain + "\x00" + path + "\x00" + c.Name
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(b.cookies, key)
			continue
		}
		b.cookies[key] = SessionCookie{
			Name:    c.Name,
			Value:   c.Value,
			Domain:  domain,
			Path:    path,
			Expires: c.Expires,
			Secure:  c.Secure,
		}
	}
}

// ExportSession snapshots the session for storage between runs.
func (b *Browser) ExportSession() *Session {
	s := &Session{State: map[string]string{}}
	for _, c := range b.cookies {
		s.Cookies = append(s.Cookies, c)
	}
	for k, v := range b.state {
		s.State[k] = v
	}
	if b.page != nil {
		s.URL = b.page.url.String()
	}
	return s
}

// ImportSession loads a snapshot into the browser, replacing the current
// cookies and state. Expired cookies are dropped.
func (b *Browser) ImportSession(s *Session) error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return err
	}
	b.cookies = map[string]SessionCookie{}
	now := time.Now()
	for _, c := range s.Cookies {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		scheme := "https"
		if !c.Secure {
			scheme = b.base.Scheme
		}
		u := &url.URL{Scheme: scheme, Host: c.Domain, Path: c.Path}
		jar.SetCookies(u, []*http.Cookie{{
			Name:    c.Name,
			Value:   c.Value,
			Domain:  c.Domain,
			Path:    c.Path,
			Expires: c.Expires,
			Secure:  c.Secure,
		}})
		key := c.Domain + "\x00" + c.Path + "\x00" + c.Name
		b.cookies[key] = c
	}
	b.client.SetCookieJar(jar)
	b.state = map[string]string{}
	for k, v := range s.State {
		b.state[k] = v
	}
	return nil
}

// requestSpec is the accumulated request shape.
type requestSpec struct {
	method           string
	headers          map[string]string
	query            url.Values
	form             url.Values
	json             any
	body             []byte
	allowErrorStatus bool
}

// RequestOption tweaks one request.
type RequestOption func(*requestSpec)

func buildSpec(opts []RequestOption) requestSpec {
	spec := requestSpec{headers: map[string]string{}}
	for _, o := range opts {
		o(&spec)
	}
	if spec.method == "" {
		if spec.form != nil || spec.json != nil || spec.body != nil {
			spec.method = http.MethodPost
		} else {
			spec.method = http.MethodGet
		}
	}
	spec.method = strings.ToUpper(spec.method)
	return spec
}

// WithMethod overrides the HTTP method.
func WithMethod(method string) RequestOption {
	return func(s *requestSpec) { s.method = method }
}

// WithHeader adds a request header.
func WithHeader(key, value string) RequestOption {
	return func(s *requestSpec) { s.headers[key] = value }
}

// WithQuery adds a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(s *requestSpec) {
		if s.query == nil {
			s.query = url.Values{}
		}
		s.query.Add(key, value)
	}
}

// WithForm sends values as a form body; the method defaults to POST.
func WithForm(form url.Values) RequestOption {
	return func(s *requestSpec) { s.form = form }
}

// WithJSON sends v as a JSON body; the method defaults to POST.
func WithJSON(v any) RequestOption {
	return func(s *requestSpec) { s.json = v }
}

// WithBody sends a raw body.
func WithBody(body []byte) RequestOption {
	return func(s *requestSpec) { s.body = body }
}

// AllowErrorStatus keeps 4xx/5xx responses from becoming HTTPError, so the
// page can be examined for a site-level error message.
func AllowErrorStatus() RequestOption {
	return func(s *requestSpec) { s.allowErrorStatus = true }
}
