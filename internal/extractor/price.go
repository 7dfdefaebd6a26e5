package extractor

import (
	"strconv"
	"strings"
	"unicode"
)

// NormalizePrice turns raw price text such as "₹1,299.00" into a number. Every character
// that is not a digit or a decimal point is dropped and the longest numeric prefix is
// parsed; text without digits yields 0. A point that ends a word before the first digit
// ("Rs. 99") is an abbreviation and is dropped too, so ".99" still reads as 0.99.
func NormalizePrice(raw string) float64 {
	var b strings.Builder
	seenDigit := false
	prev := ' '
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			b.WriteRune(r)
		case r == '.' && (seenDigit || !unicode.IsLetter(prev)):
			b.WriteRune(r)
		}
		prev = r
	}

	cleaned := b.String()
	// "1.299.00" parses as 1.299, matching a prefix parse.
	if first := strings.IndexByte(cleaned, '.'); first >= 0 {
		if second := strings.IndexByte(cleaned[first+1:], '.'); second >= 0 {
			cleaned = cleaned[:first+1+second]
		}
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return price
}
