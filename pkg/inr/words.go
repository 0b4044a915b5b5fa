// Package inr renders rupee amounts the way Indian tax invoices print them:
// words in the Indian numbering system (crore, lakh, thousand) and digits
// grouped 12,34,567.00.
package inr

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	crore    = 10_000_000
	lakh     = 100_000
	thousand = 1_000
)

var (
	units = [...]string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	teens = [...]string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tens  = [...]string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// NumberToWords spells the integer part of amount, e.g.
// 100000 -> "One Lakh Rupees Only". The fraction is truncated, not rounded;
// callers round grand totals first. Zero gives "Zero Rupees".
func NumberToWords(amount decimal.Decimal) string {
	n := amount.Abs().Truncate(0).IntPart()
	if n == 0 {
		return "Zero Rupees"
	}
	return convert(n) + " Rupees Only"
}

// IntToWords is NumberToWords for whole numbers.
func IntToWords(n int64) string {
	return NumberToWords(decimal.NewFromInt(n))
}

func convert(n int64) string {
	if n == 0 {
		return ""
	}

	parts := make([]string, 0, 4)
	if n >= crore {
		// crore count may itself need lakh/thousand grouping
		parts = append(parts, convert(n/crore)+" Crore")
		n %= crore
	}
	if n >= lakh {
		parts = append(parts, belowThousand(n/lakh)+" Lakh")
		n %= lakh
	}
	if n >= thousand {
		parts = append(parts, belowThousand(n/thousand)+" Thousand")
		n %= thousand
	}
	if n > 0 {
		parts = append(parts, belowThousand(n))
	}
	return strings.Join(parts, " ")
}

func belowThousand(n int64) string {
	switch {
	case n == 0:
		return ""
	case n < 10:
		return units[n]
	case n < 20:
		return teens[n-10]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + " " + units[n%10]
	}
	if n%100 == 0 {
		return units[n/100] + " Hundred"
	}
	return units[n/100] + " Hundred " + belowThousand(n%100)
}
