// Package currencyutils parses and formats amounts and converts them between
// currencies using a rate table relative to a fixed base currency.
package currencyutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned for blank amount text.
var ErrEmptyAmount = errors.New("empty amount")

var symbolsAndSpaces = regexp.MustCompile(`[€$£¥₹\s]`)

// ParseAmount parses a signed amount such as "-50", "1234.56", "$1,234.56"
// or "1.234,56". Text that is not a number is an error, never zero.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	standardized := StandardizeAmount(amountStr)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount strips currency symbols and thousands separators so the
// result can be read by decimal.NewFromString.
func StandardizeAmount(amountStr string) string {
	amountStr = symbolsAndSpaces.ReplaceAllString(amountStr, "")

	// (12.50) marks a debit in some bank exports.
	if strings.HasPrefix(amountStr, "(") && strings.HasSuffix(amountStr, ")") {
		amountStr = "-" + strings.TrimSuffix(strings.TrimPrefix(amountStr, "("), ")")
	}

	if strings.Contains(amountStr, ",") && strings.Contains(amountStr, ".") {
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// 1.234,56
			whole := amountStr[:strings.LastIndex(amountStr, ",")]
			if !thousandsGrouped(whole, ".") {
				return amountStr
			}
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// 1,234.56
			whole := amountStr[:strings.LastIndex(amountStr, ".")]
			if !thousandsGrouped(whole, ",") {
				return amountStr
			}
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	} else if strings.Contains(amountStr, ",") {
		parts := strings.Split(amountStr, ",")
		switch {
		case len(parts) == 2 && len(parts[1]) <= 2:
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		case thousandsGrouped(amountStr, ","):
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		default:
			// Left as is so decimal parsing rejects it.
			return amountStr
		}
	}

	return strings.ReplaceAll(amountStr, "'", "")
}

// thousandsGrouped reports whether every group after the first separator in
// s has exactly three digits, as in "1,234,567".
func thousandsGrouped(s, sep string) bool {
	groups := strings.Split(s, sep)
	if len(groups) < 2 || groups[0] == "" || groups[0] == "-" || groups[0] == "+" {
		return len(groups) == 1
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || strings.Trim(g, "0123456789") != "" {
			return false
		}
	}
	return true
}
