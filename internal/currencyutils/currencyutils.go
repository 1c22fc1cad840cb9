// Package currencyutils turns statement amount strings into decimals.
package currencyutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoDigits is returned when nothing numeric survives stripping.
var ErrNoDigits = errors.New("amount has no numeric content")

// StripAmount drops every character other than ASCII digits, '.' and '-'.
// Currency symbols, thousands separators, spaces and quotes disappear, so
// "$1,234.56" becomes "1234.56". Comma decimal separators are not
// interpreted: "1.234,56" becomes "1.23456".
func StripAmount(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseAmount strips raw and parses the remainder as a decimal. Unlike a
// prefix parser it rejects leftovers such as "1-2" or "1.2.3" instead of
// silently keeping the leading number.
func ParseAmount(raw string) (decimal.Decimal, error) {
	stripped := StripAmount(raw)
	if strings.Trim(stripped, ".-") == "" {
		return decimal.Zero, fmt.Errorf("%q: %w", raw, ErrNoDigits)
	}
	amount, err := decimal.NewFromString(stripped)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", raw, err)
	}
	return amount, nil
}

// FormatAmount renders amount with two decimals and no grouping.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
