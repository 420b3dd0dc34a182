package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

// pricePatterns match a price with an attached currency marker.
// Ordered from most to least specific, first match wins.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(USD|EUR|GBP|SAR)\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`([$£€])\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(ر\.س|ريال)\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`([\d,]+\.?\d*)\s*(ر\.س|ريال)`),
	regexp.MustCompile(`([٠-٩]+)`),
}

// currencyMarkers in fixed scan order, so identical input text always
// resolves to the same currency.
var currencyMarkers = []struct {
	marker string
	code   string
}{
	{"ر.س", "SAR"},
	{"ريال", "SAR"},
	{"SAR", "SAR"},
	{"USD", "USD"},
	{"EUR", "EUR"},
	{"GBP", "GBP"},
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
}

var currencyByMarker = map[string]string{
	"$":    "USD",
	"USD":  "USD",
	"€":    "EUR",
	"EUR":  "EUR",
	"£":    "GBP",
	"GBP":  "GBP",
	"ر.س":  "SAR",
	"ريال": "SAR",
	"SAR":  "SAR",
}

var arabicDigits = strings.NewReplacer(
	"٠", "0",
	"١", "1",
	"٢", "2",
	"٣", "3",
	"٤", "4",
	"٥", "5",
	"٦", "6",
	"٧", "7",
	"٨", "8",
	"٩", "9",
	"٫", ".",
)

// findPrice scans free text for the first price-looking token with a
// currency marker and returns amount and ISO currency code.
// Bare Arabic-Indic numerals are treated as SAR amounts, matching how
// Saudi storefronts render prices without a symbol.
func findPrice(text string) (float64, string, bool) {
	for _, pattern := range pricePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		marker, number := splitMatch(match)
		amount, ok := parseAmount(number)
		if !ok {
			continue
		}

		currency, ok := resolveCurrency(marker)
		if !ok {
			currency = "SAR"
		}

		return amount, currency, true
	}

	return 0, "", false
}

// parsePriceText parses an explicit price string, e.g. the text of a
// price element or a structured-data price attribute.
func parsePriceText(text string) (float64, string, bool) {
	currency, _ := detectCurrency(text)

	cleaned := text
	for _, cm := range currencyMarkers {
		cleaned = strings.ReplaceAll(cleaned, cm.marker, "")
	}

	amount, ok := parseAmount(cleaned)
	if !ok {
		return 0, "", false
	}

	return amount, currency, true
}

// parseAmount extracts a non-negative numeric amount from text.
// Arabic-Indic digits are translated first; thousands separators are
// dropped and extra decimal points collapsed into one.
func parseAmount(text string) (float64, bool) {
	normalized := arabicDigits.Replace(text)

	digits := strings.Builder{}
	for _, r := range normalized {
		if (r >= '0' && r <= '9') || r == '.' {
			digits.WriteRune(r)
		}
	}

	cleaned := digits.String()
	if dots := strings.Count(cleaned, "."); dots > 1 {
		cleaned = strings.Replace(cleaned, ".", "", dots-1)
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || amount < 0 {
		return 0, false
	}

	return amount, true
}

// detectCurrency finds the known currency marker occurring earliest in
// text. When markers of two currencies share a position, the fixed
// currencyMarkers order breaks the tie.
func detectCurrency(text string) (string, bool) {
	upper := strings.ToUpper(text)

	earliest := -1
	code := ""
	for _, cm := range currencyMarkers {
		ix := strings.Index(text, cm.marker)
		if ix < 0 {
			ix = strings.Index(upper, cm.marker)
		}
		if ix >= 0 && (earliest < 0 || ix < earliest) {
			earliest = ix
			code = cm.code
		}
	}

	return code, earliest >= 0
}

// resolveCurrency maps a currency symbol or code to its ISO code.
func resolveCurrency(marker string) (string, bool) {
	code, ok := currencyByMarker[strings.ToUpper(strings.TrimSpace(marker))]
	if ok {
		return code, true
	}
	code, ok = currencyByMarker[strings.TrimSpace(marker)]
	return code, ok
}

// splitMatch decides which submatch is the currency marker and which is
// the number, for patterns with marker before or after the amount.
func splitMatch(match []string) (marker, number string) {
	if len(match) < 3 {
		return "", match[1]
	}
	if _, ok := resolveCurrency(match[1]); ok {
		return match[1], match[2]
	}
	return match[2], match[1]
}

// hasPriceMarker reports whether text carries any known currency marker
// or Arabic-Indic digits.
func hasPriceMarker(text string) bool {
	if _, ok := detectCurrency(text); ok {
		return true
	}
	return strings.ContainsAny(text, "٠١٢٣٤٥٦٧٨٩")
}
