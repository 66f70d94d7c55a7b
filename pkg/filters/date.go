package filters

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Common layouts for the Date filter. A module declares the layout its site
// uses; nothing is inferred from the values themselves.
const (
	LayoutISO        = "2006-01-02"
	LayoutISOTime    = time.RFC3339
	LayoutDayFirst   = "02/01/2006"
	LayoutMonthFirst = "01/02/2006"
)

// Date parses a date or timestamp under the given layouts, tried in order.
// Input matching no layout is a FormatError.
func Date(layouts ...string) Filter {
	return Func(func(v any) (any, error) {
		s, err := text(v)
		if err != nil {
			return nil, err
		}
		s = strings.TrimSpace(s)
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, formatErr("date", s, "no declared layout matched")
	})
}

// FuzzyDate parses loosely formatted dates with dateparse. The day-first
// flag must still be declared by the caller: "03/04/2023" is ambiguous and
// is never resolved by guessing.
func FuzzyDate(dayFirst bool) Filter {
	return Func(func(v any) (any, error) {
		s, err := text(v)
		if err != nil {
			return nil, err
		}
		t, err := dateparse.ParseAny(strings.TrimSpace(s), dateparse.PreferMonthFirst(!dayFirst))
		if err != nil {
			return nil, formatErr("fuzzydate", s, err.Error())
		}
		return t, nil
	})
}

// UnixDate interprets a numeric value as a Unix timestamp in seconds.
func UnixDate() Filter {
	return Func(func(v any) (any, error) {
		s, err := text(v)
		if err != nil {
			return nil, err
		}
		secs, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, formatErr("unixdate", s, "not a timestamp")
		}
		return time.Unix(secs, 0).UTC(), nil
	})
}

// Duration parses "mm:ss" or "hh:mm:ss" video durations.
func Duration() Filter {
	return Func(func(v any) (any, error) {
		s, err := text(v)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(strings.TrimSpace(s), ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, formatErr("duration", s, "want mm:ss or hh:mm:ss")
		}
		var total time.Duration
		for _, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil || n < 0 {
				return nil, formatErr("duration", s, "non-numeric component")
			}
			total = total*60 + time.Duration(n)*time.Second
		}
		return total, nil
	})
}
