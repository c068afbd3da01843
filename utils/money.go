package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders a decimal amount as "$1,234.50". Negative
// amounts render as "-$320.00".
func FormatCurrency(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	// Insert thousands separators into the integer part.
	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "$" + b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// FormatQuantity trims trailing zeros so "24.00" shows as "24" but
// "2.50" shows as "2.5".
func FormatQuantity(d decimal.Decimal) string {
	s := d.Round(2).String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}
