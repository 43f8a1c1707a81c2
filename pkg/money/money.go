// Package money provides currency display helpers on top of go-money and
// shopspring/decimal. Domain amounts are float64 values whose sign carries no
// meaning; formatting converts them to minor units for exact rendering.
package money

import (
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the ISO-4217 code used when no currency is configured.
const DefaultCurrency = "EUR"

// ToMinor converts a major-unit amount to minor units (cents) using decimal
// arithmetic, so 19.99 becomes 1999 and not 1998.
func ToMinor(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Format renders an amount with the currency's symbol and grouping, e.g.
// "€1,234.56".
func Format(amount float64) string {
	return FormatIn(amount, DefaultCurrency)
}

// FormatIn renders an amount in the given ISO-4217 currency. Unknown codes
// fall back to the default currency.
func FormatIn(amount float64, currencyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if gomoney.GetCurrency(code) == nil {
		code = DefaultCurrency
	}
	return gomoney.New(ToMinor(amount), code).Display()
}

// FormatFixed renders an amount as a plain two-decimal string without any
// currency symbol, e.g. "1234.56".
func FormatFixed(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// Round2 rounds an amount to two decimal places.
func Round2(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}
