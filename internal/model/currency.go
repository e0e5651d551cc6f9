package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyCode is an ISO 4217 code supported for display.
type CurrencyCode string

// Supported currencies.
const (
	CurrencyUSD CurrencyCode = "USD"
	CurrencyEUR CurrencyCode = "EUR"
	CurrencyGBP CurrencyCode = "GBP"
	CurrencyINR CurrencyCode = "INR"
	CurrencyJPY CurrencyCode = "JPY"
	CurrencyCAD CurrencyCode = "CAD"
	CurrencyAUD CurrencyCode = "AUD"
)

var currencySymbols = map[CurrencyCode]string{
	CurrencyUSD: "$",
	CurrencyEUR: "€",
	CurrencyGBP: "£",
	CurrencyINR: "₹",
	CurrencyJPY: "¥",
	CurrencyCAD: "CA$",
	CurrencyAUD: "A$",
}

// Valid reports whether c is a supported currency.
func (c CurrencyCode) Valid() bool {
	_, ok := currencySymbols[c]
	return ok
}

// Symbol returns the display symbol, falling back to "$".
func (c CurrencyCode) Symbol() string {
	if s, ok := currencySymbols[c]; ok {
		return s
	}
	return "$"
}

// Format renders amount with the currency symbol, two decimals and
// thousands separators, e.g. -$1,234.50.
func (c CurrencyCode) Format(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + c.Symbol() + groupThousands(whole) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
