package capabilities

import "strings"

// currencySymbols maps common symbols and spellings to ISO 4217 codes.
var currencySymbols = map[string]string{
	"€":   "EUR",
	"$":   "USD",
	"US$": "USD",
	"£":   "GBP",
	"¥":   "JPY",
	"CHF": "CHF",
	"KR":  "SEK",
	"ZŁ":  "PLN",
}

// Currency normalizes a currency symbol or code found in scraped text to an
// ISO 4217 code. It returns "" when nothing recognizable is present.
func Currency(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	upper := strings.ToUpper(text)
	if code, ok := currencySymbols[upper]; ok {
		return code
	}
	// A plain three-letter code passes through.
	if len(upper) == 3 {
		for _, r := range upper {
			if r < 'A' || r > 'Z' {
				return ""
			}
		}
		return upper
	}
	// Last resort: find a known symbol anywhere in the text ("1 234,56 €").
	for sym, code := range currencySymbols {
		if strings.Contains(upper, sym) {
			return code
		}
	}
	return ""
}
