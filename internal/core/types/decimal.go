// Package types holds the register's numeric types and their flat-file
// rendering.
package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a price or line total.
type Money = decimal.Decimal

// Amount is a quantity or weight on a receipt line.
type Amount = decimal.Decimal

// NewMoneyFromString parses s, ignoring surrounding whitespace.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// MustMoney is NewMoneyFromString for literals; it panics on bad input.
func MustMoney(s string) Money {
	m, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero is the zero price.
func Zero() Money { return decimal.Zero }

// One is the default amount of a catalog record.
func One() Amount { return decimal.NewFromInt(1) }

// FormatDecimal renders d the way the flat files store fractional numbers:
// shortest form with at least one fractional digit ("10.0", "12.5", "0.125").
func FormatDecimal(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.StringFixed(1)
	}
	return d.String()
}

// FormatInteger renders d truncated towards zero with no fractional part.
func FormatInteger(d decimal.Decimal) string {
	return d.Truncate(0).StringFixed(0)
}
