package browser

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Args carries named URL pattern arguments, for building URLs from patterns
// and reading match groups back out of them.
type Args map[string]string

// URL describes one location on the scraped site: the URL patterns that
// reach it and the behavior of the page served there. Registration order is
// the routing order — the first registered URL whose pattern matches a
// response claims it, so adapters disambiguate overlapping patterns simply
// by declaring the more specific one first.
type URL struct {
	// Patterns are URL regexps, absolute or relative to the browser base
	// URL. Named groups become page params and Build substitutions.
	Patterns []string
	// IsHere, when set, can veto a pattern match after looking at the
	// parsed response; routing then falls through to later URLs.
	IsHere func(p *Page) bool
	// Logged marks a page only reachable with an authenticated session.
	Logged bool
	// OnLoad runs after the page becomes the browser's current page,
	// typically to turn site error markup into typed errors.
	OnLoad func(p *Page) error

	browser  *Browser
	compiled []*regexp.Regexp
}

// UnresolvableURLError means Build could not produce a concrete URL from the
// given arguments.
type UnresolvableURLError struct {
	Pattern string
	Reason  string
}

func (e *UnresolvableURLError) Error() string {
	return fmt.Sprintf("cannot resolve URL pattern %q: %s", e.Pattern, e.Reason)
}

// attach compiles the URL's patterns against the browser base.
func (u *URL) attach(b *Browser) error {
	u.browser = b
	u.compiled = u.compiled[:0]
	for _, p := range u.Patterns {
		re, err := compilePattern(p, b.baseURL())
		if err != nil {
			return fmt.Errorf("pattern %q: %w", p, err)
		}
		u.compiled = append(u.compiled, re)
	}
	return nil
}

func compilePattern(pattern, base string) (*regexp.Regexp, error) {
	if !isAbsolutePattern(pattern) {
		pattern = regexp.QuoteMeta(strings.TrimRight(base, "/")) + "/" + strings.TrimLeft(pattern, "/")
	}
	if !strings.HasPrefix(pattern, "^") {
		pattern = "^" + pattern
	}
	return regexp.Compile(pattern)
}

var absolutePatternRe = regexp.MustCompile(`^\^?[a-zA-Z][\w+.-]*://`)

func isAbsolutePattern(p string) bool {
	return absolutePatternRe.MatchString(p)
}

// Match tests an absolute URL against the patterns, in order, and returns
// the named group values of the first match.
func (u *URL) Match(absURL string) (Args, bool) {
	for _, re := range u.compiled {
		m := re.FindStringSubmatch(absURL)
		if m == nil {
			continue
		}
		args := Args{}
		for i, name := range re.SubexpNames() {
			if name != "" && i < len(m) {
				args[name] = m[i]
			}
		}
		return args, true
	}
	return nil, false
}

// Build produces a concrete URL from the first pattern whose named groups
// are all satisfied by args, with every arg used. Patterns meant for Build
// should be literal apart from their named groups.
func (u *URL) Build(args Args) (string, error) {
	var lastErr error
	for _, pattern := range u.Patterns {
		built, err := substitutePattern(pattern, args)
		if err != nil {
			lastErr = err
			continue
		}
		if !isAbsolutePattern(built) && u.browser != nil {
			built = u.browser.AbsURL(built)
		}
		return built, nil
	}
	if lastErr == nil {
		lastErr = &UnresolvableURLError{Pattern: strings.Join(u.Patterns, ", "), Reason: "no pattern"}
	}
	return "", lastErr
}

// substitutePattern replaces each (?P<name>...) group with its argument and
// unescapes the remaining regexp literals.
func substitutePattern(pattern string, args Args) (string, error) {
	used := map[string]bool{}
	var b strings.Builder

	i := 0
	for i < len(pattern) {
		if strings.HasPrefix(pattern[i:], "(?P<") {
			end := strings.Index(pattern[i:], ">")
			if end < 0 {
				return "", &UnresolvableURLError{Pattern: pattern, Reason: "malformed named group"}
			}
			name := pattern[i+4 : i+end]
			close, err := matchingParen(pattern, i)
			if err != nil {
				return "", &UnresolvableURLError{Pattern: pattern, Reason: err.Error()}
			}
			v, ok := args[name]
			if !ok {
				return "", &UnresolvableURLError{Pattern: pattern, Reason: "missing argument " + name}
			}
			b.WriteString(v)
			used[name] = true
			i = close + 1
			continue
		}
		switch pattern[i] {
		case '\\':
			if i+1 < len(pattern) {
				b.WriteByte(pattern[i+1])
				i += 2
				continue
			}
			i++
		case '^', '$':
			i++
		case '(', ')', '?', '*', '+', '[', ']':
			return "", &UnresolvableURLError{Pattern: pattern, Reason: "pattern is not literal enough to build"}
		default:
			b.WriteByte(pattern[i])
			i++
		}
	}

	for name := range args {
		if !used[name] {
			return "", &UnresolvableURLError{Pattern: pattern, Reason: "unused argument " + name}
		}
	}
	return b.String(), nil
}

// matchingParen finds the index of the parenthesis closing the group opened
// at start.
func matchingParen(pattern string, start int) (int, error) {
	depth := 0
	for i := start; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unbalanced group")
}

// IsCurrent reports whether the browser's current page was routed here.
func (u *URL) IsCurrent() bool {
	return u.browser != nil && u.browser.page != nil && u.browser.page.route == u
}

// Go builds the URL from args and navigates there.
func (u *URL) Go(ctx context.Context, args Args, opts ...RequestOption) (*Page, error) {
	target, err := u.Build(args)
	if err != nil {
		return nil, err
	}
	return u.browser.Location(ctx, target, opts...)
}

// StayOrGo navigates only when the browser is not already here.
func (u *URL) StayOrGo(ctx context.Context, args Args, opts ...RequestOption) (*Page, error) {
	if u.IsCurrent() {
		return u.browser.page, nil
	}
	return u.Go(ctx, args, opts...)
}

// Open fetches the URL without making the result the current page.
func (u *URL) Open(ctx context.Context, args Args, opts ...RequestOption) (*Page, error) {
	target, err := u.Build(args)
	if err != nil {
		return nil, err
	}
	return u.browser.Open(ctx, target, opts...)
}
