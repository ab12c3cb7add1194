// Package currencyutils provides locale-tolerant parsing of monetary
// amounts into exact decimal values.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a string representation of an amount into a decimal.
// It accepts "1,234.56", "1.234,56", "1234,56", "$1 234.56" and similar
// currency formatting. The empty string is an error; amounts are required
// wherever this is called.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("no numeric content in amount %q", amountStr)
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount reduces a currency string to a form decimal.NewFromString
// accepts. Every character that is not a digit, sign, decimal point or comma
// is stripped first; the comma is then resolved as either a decimal or a
// thousands separator.
func StandardizeAmount(amountStr string) string {
	var b strings.Builder
	b.Grow(len(amountStr))
	for _, r := range amountStr {
		switch {
		case r >= '0' && r <= '9', r == '+', r == '-', r == '.', r == ',':
			b.WriteRune(r)
		}
	}
	s := b.String()

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ".") < strings.LastIndex(s, ",") {
			// European style: 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// Anglo style: 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		parts := strings.Split(s, ",")
		if len(parts[len(parts)-1]) <= 2 {
			// Comma as decimal separator: 1234,56
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// Comma as thousands separator: 1,234
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	return s
}

// FormatAmount renders a decimal with two fractional digits, the way
// canonical records are serialized.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
