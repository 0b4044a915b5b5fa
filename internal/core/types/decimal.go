// Package types holds the numeric types shared by pricing, storage and PDF output.
package types

import (
	"github.com/shopspring/decimal"
)

// Money is an amount in rupees at full precision.
type Money = decimal.Decimal

// Quantity is a measured amount (quintals, kilograms, bags). Same precision rules as Money.
type Quantity = decimal.Decimal

var hundred = decimal.NewFromInt(100)

// Percent returns rate percent of base (base * rate / 100).
func Percent(base Money, rate decimal.Decimal) Money {
	return base.Mul(rate).Div(hundred)
}

// RoundRupees rounds to whole rupees, half away from zero.
func RoundRupees(m Money) Money {
	return m.Round(0)
}

// RoundPaise rounds to two fractional digits.
func RoundPaise(m Money) Money {
	return m.Round(2)
}
