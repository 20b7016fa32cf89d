package currencyutils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the currency every rate in a RateTable is relative to.
const BaseCurrency = "USD"

// zeroDecimal lists currencies displayed without minor units.
var zeroDecimal = map[string]bool{
	"JPY": true,
}

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"CAD": "C$",
	"AUD": "A$",
	"CHF": "CHF ",
}

// Symbol returns the display prefix for code, or the code followed by a space.
func Symbol(code string) string {
	code = strings.ToUpper(code)
	if s, ok := symbols[code]; ok {
		return s
	}
	return code + " "
}

// Places returns the number of decimals shown for code.
func Places(code string) int32 {
	if zeroDecimal[strings.ToUpper(code)] {
		return 0
	}
	return 2
}

// Format renders |amount| with the currency prefix. The sign is never printed;
// callers negate amounts whose sign should be flipped for display.
func Format(amount decimal.Decimal, currency string) string {
	places := Places(currency)
	return Symbol(currency) + amount.Abs().Round(places).StringFixed(places)
}

// SupportedCurrencies lists the codes with a dedicated symbol, base first.
func SupportedCurrencies() []string {
	return []string{"USD", "EUR", "GBP", "JPY", "INR", "CAD", "AUD", "CHF"}
}
