// Package currency names the currencies order totals are kept in. Only INR is accepted today.
package currency

import (
	"database/sql/driver"
	"errors"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyINR Currency = "INR"

	// Default applies to rows stored without a currency code.
	Default = CurrencyINR
)

var ErrInvalidCurrency = errors.New("invalid currency")

var symbols = map[Currency]string{
	CurrencyINR: "₹",
}

func (c Currency) String() string {
	return string(c)
}

func (c Currency) Value() (driver.Value, error) {
	return c.String(), nil
}

// Symbol returns the display symbol, falling back to the code.
func (c Currency) Symbol() string {
	if s, ok := symbols[c]; ok {
		return s
	}

	return c.String() + " "
}

// Format renders amount with two fractional digits, e.g. ₹724.50.
func (c Currency) Format(amount decimal.Decimal) string {
	return c.Symbol() + amount.StringFixed(2)
}

// ParseCurrency parses a currency code. An empty string means Default.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case "":
		return Default, nil
	case CurrencyINR:
		return CurrencyINR, nil
	default:
		return "", ErrInvalidCurrency
	}
}
