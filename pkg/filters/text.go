package filters

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pageforge/pageforge/pkg/capabilities"
	"github.com/pageforge/pageforge/pkg/document"
)

var whitespaceRe = regexp.MustCompile(`[\s\x{00a0}\x{202f}]+`)

// CleanText extracts the text content of its input, collapses every
// whitespace run (including non-breaking spaces) to a single space and trims
// the ends. Any symbols given are removed. Whitespace-only input resolves to
// the Absent sentinel, it is never passed on for parsing.
func CleanText(symbols ...string) Filter {
	return Func(func(v any) (any, error) {
		s, err := text(v)
		if err != nil {
			return nil, err
		}
		for _, sym := range symbols {
			s = strings.ReplaceAll(s, sym, "")
		}
		s = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
		if s == "" {
			return capabilities.Absent, nil
		}
		return s, nil
	})
}

// Replace substitutes every occurrence of old with new.
func Replace(old, new string) Filter {
	return Func(func(v any) (any, error) {
		s, err := text(v)
		if err != nil {
			return nil, err
		}
		return strings.ReplaceAll(s, old, new), nil
	})
}

// Lower lower-cases its input.
func Lower() Filter {
	return Func(func(v any) (any, error) {
		s, err := text(v)
		if err != nil {
			return nil, err
		}
		return strings.ToLower(s), nil
	})
}

// Upper upper-cases its input.
func Upper() Filter {
	return Func(func(v any) (any, error) {
		s, err := text(v)
		if err != nil {
			return nil, err
		}
		return strings.ToUpper(s), nil
	})
}

// Capitalize title-cases the first letter of each word.
func Capitalize() Filter {
	return Func(func(v any) (any, error) {
		s, err := text(v)
		if err != nil {
			return nil, err
		}
		words := strings.Fields(strings.ToLower(s))
		for i, w := range words {
			r, size := utf8.DecodeRuneInString(w)
			words[i] = string(unicode.ToUpper(r)) + w[size:]
		}
		return strings.Join(words, " "), nil
	})
}

// Regexp matches pattern against its input and expands template ("$1",
// "${name}") with the first match's groups. An empty template keeps the
// whole match. No match is a FormatError.
func Regexp(pattern, template string) Filter {
	re := regexp.MustCompile(pattern)
	return Func(func(v any) (any, error) {
		s, err := text(v)
		if err != nil {
			return nil, err
		}
		m := re.FindStringSubmatchIndex(s)
		if m == nil {
			return nil, formatErr("regexp", s, fmt.Sprintf("no match for %q", pattern))
		}
		if template == "" {
			return s[m[0]:m[1]], nil
		}
		return string(re.ExpandString(nil, template, s, m)), nil
	})
}

// MapValues translates its input through a lookup table. Unknown input is a
// FormatError, so unexpected site values fail loudly instead of leaking
// through untyped.
func MapValues[T any](table map[string]T) Filter {
	return Func(func(v any) (any, error) {
		s, err := text(v)
		if err != nil {
			return nil, err
		}
		out, ok := table[s]
		if !ok {
			return nil, formatErr("map", s, "value not in table")
		}
		return out, nil
	})
}

// Join concatenates a selection of nodes' text with sep.
func Join(sep string) Filter {
	return Func(func(v any) (any, error) {
		items, ok := v.([]any)
		if !ok {
			return text(v)
		}
		parts := make([]string, 0, len(items))
		for _, it := range items {
			s, err := text(it)
			if err != nil {
				return nil, err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, sep), nil
	})
}

// Text extracts the text content of a node. Plain strings pass through.
func Text() Filter {
	return Func(func(v any) (any, error) {
		return text(v)
	})
}

// Attr reads a markup attribute of a node. A missing attribute is reported
// as a not-found error so it can be defaulted per attribute rule.
func Attr(name string) Filter {
	return Func(func(v any) (any, error) {
		n, ok := v.(document.Node)
		if !ok {
			return nil, fmt.Errorf("filters: attr %q on %T", name, v)
		}
		val, ok := n.Attr(name)
		if !ok {
			return nil, fmt.Errorf("%w: attribute %q", document.ErrNotFound, name)
		}
		return val, nil
	})
}
