package filters

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// NumberFormat is an explicit locale profile for numeric parsing. There is
// no auto-detection: "1.234" is 1.234 under the US profile and 1234 under
// the French one, and an implicit guess would silently corrupt amounts.
type NumberFormat struct {
	Name string
	// DecimalSep separates the integer and fractional parts.
	DecimalSep rune
	// GroupSeps are the accepted digit-grouping separators.
	GroupSeps string
}

var (
	// USNumber: dot decimal, comma or space grouping ("1,234.56").
	USNumber = NumberFormat{Name: "us", DecimalSep: '.', GroupSeps: ",   "}
	// FrenchNumber: comma decimal, dot or space grouping ("1 234,56").
	FrenchNumber = NumberFormat{Name: "fr", DecimalSep: ',', GroupSeps: ".   '"}
)

// Decimal parses an exact decimal amount under the given profile. Currency
// symbols and other non-numeric noise around the number are ignored;
// malformed grouping or several decimal separators are a FormatError, as is
// input with no digits at all.
func Decimal(format NumberFormat) Filter {
	return Func(func(v any) (any, error) {
		s, err := text(v)
		if err != nil {
			return nil, err
		}
		normalized, err := normalizeNumber(s, format)
		if err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(normalized)
		if err != nil {
			return nil, formatErr("decimal("+format.Name+")", s, err.Error())
		}
		return d, nil
	})
}

// Int parses a base-10 integer, ignoring grouping separators of the US and
// French profiles.
func Int() Filter {
	return Func(func(v any) (any, error) {
		s, err := text(v)
		if err != nil {
			return nil, err
		}
		cleaned := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' || r == '-' || r == '+' {
				return r
			}
			if strings.ContainsRune("   ,.", r) {
				return -1
			}
			return r
		}, strings.TrimSpace(s))
		n, err := strconv.ParseInt(cleaned, 10, 64)
		if err != nil {
			return nil, formatErr("int", s, "not an integer")
		}
		return n, nil
	})
}

// normalizeNumber extracts the numeric substring of s and rewrites it with
// "." as decimal separator and no grouping.
func normalizeNumber(s string, format NumberFormat) (string, error) {
	name := "decimal(" + format.Name + ")"

	// Keep the run of numeric runes around the first digit; text like
	// "EUR" or "€" before or after the number is dropped.
	runes := []rune(s)
	first := -1
	for i, r := range runes {
		if r >= '0' && r <= '9' {
			first = i
			break
		}
	}
	if first < 0 {
		return "", formatErr(name, s, "no digits")
	}
	last := first
	for last < len(runes) {
		r := runes[last]
		if r >= '0' && r <= '9' || r == format.DecimalSep || strings.ContainsRune(format.GroupSeps, r) {
			last++
			continue
		}
		break
	}
	// The sign may be separated from the digits by whitespace, as in the
	// "- 1 234,56" rendering some sites use for debits.
	negative := false
	for i := first - 1; i >= 0; i-- {
		r := runes[i]
		if unicode.IsSpace(r) {
			continue
		}
		negative = r == '-'
		break
	}
	num := strings.TrimRight(string(runes[first:last]), string(format.DecimalSep)+format.GroupSeps)

	var b strings.Builder
	if negative {
		b.WriteRune('-')
	}
	var sawDecimal bool
	intGroups := []int{0}
	for _, r := range num {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			if !sawDecimal {
				intGroups[len(intGroups)-1]++
			}
		case r == format.DecimalSep:
			if sawDecimal {
				return "", formatErr(name, s, "several decimal separators")
			}
			sawDecimal = true
			b.WriteRune('.')
		case strings.ContainsRune(format.GroupSeps, r):
			if sawDecimal {
				return "", formatErr(name, s, "grouping after decimal separator")
			}
			intGroups = append(intGroups, 0)
		}
	}

	// With grouping present, every group after the first must have exactly
	// three digits, and the first between one and three. Anything else is
	// ambiguous input and must not be guessed at.
	if len(intGroups) > 1 {
		if intGroups[0] < 1 || intGroups[0] > 3 {
			return "", formatErr(name, s, "inconsistent digit grouping")
		}
		for _, g := range intGroups[1:] {
			if g != 3 {
				return "", formatErr(name, s, "inconsistent digit grouping")
			}
		}
	}

	return b.String(), nil
}
