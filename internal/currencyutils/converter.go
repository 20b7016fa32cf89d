package currencyutils

import (
	"strings"

	"fjacquet/finance-dashboard/internal/logging"

	"github.com/shopspring/decimal"
)

// RateTable maps an ISO currency code to its multiplier against BaseCurrency.
type RateTable map[string]decimal.Decimal

// Rate returns the multiplier for code and whether one is known.
func (r RateTable) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := r[strings.ToUpper(code)]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, false
	}
	return rate, true
}

// Converter rescales base-currency amounts. A missing rate leaves the amount
// unchanged and logs a warning.
type Converter struct {
	base   string
	rates  RateTable
	logger logging.Logger
}

// NewConverter creates a Converter. A nil table behaves as an empty one.
func NewConverter(base string, rates RateTable, logger logging.Logger) *Converter {
	if base == "" {
		base = BaseCurrency
	}
	if rates == nil {
		rates = RateTable{}
	}
	return &Converter{
		base:   strings.ToUpper(base),
		rates:  rates,
		logger: logging.OrDefault(logger),
	}
}

// Base returns the base currency code.
func (c *Converter) Base() string {
	return c.base
}

// Convert returns amount expressed in target.
func (c *Converter) Convert(amount decimal.Decimal, target string) decimal.Decimal {
	converted, _ := c.TryConvert(amount, target)
	return converted
}

// TryConvert is Convert that also reports whether a rate was applied.
func (c *Converter) TryConvert(amount decimal.Decimal, target string) (decimal.Decimal, bool) {
	target = strings.ToUpper(target)
	if target == "" || target == c.base {
		return amount, true
	}
	rate, ok := c.rates.Rate(target)
	if !ok {
		c.logger.Warn("No exchange rate available, showing unconverted amount",
			logging.Field{Key: logging.FieldCurrency, Value: target})
		return amount, false
	}
	return amount.Mul(rate), true
}

// Available reports whether target can be converted to.
func (c *Converter) Available(target string) bool {
	target = strings.ToUpper(target)
	if target == c.base {
		return true
	}
	_, ok := c.rates.Rate(target)
	return ok
}
