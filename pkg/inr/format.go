package inr

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders d with places fraction digits and Indian digit
// grouping: the last three integer digits form one group, the rest are
// grouped in pairs (1234567.5 -> "12,34,567.50").
func FormatAmount(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if sign != "" && strings.Trim(intPart+frac, "0.") == "" {
		// -0.00 prints as 0.00
		sign = ""
	}
	return sign + groupIndian(intPart) + frac
}

// FormatMoney is FormatAmount with two fraction digits.
func FormatMoney(d decimal.Decimal) string {
	return FormatAmount(d, 2)
}

// FormatNumber rounds to at most maxPlaces fraction digits, drops trailing
// zeros and groups the digits (1234.500 -> "1,234.5").
func FormatNumber(d decimal.Decimal, maxPlaces int32) string {
	r := d.Round(maxPlaces)
	places := int32(0)
	if exp := r.Exponent(); exp < 0 {
		places = -exp
	}
	s := FormatAmount(r, places)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

// FormatRounded rounds to whole rupees and groups the digits.
func FormatRounded(d decimal.Decimal) string {
	return FormatAmount(d.Round(0), 0)
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/2)

	first := len(head) % 2
	if first > 0 {
		b.WriteString(head[:first])
	}
	for i := first; i < len(head); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)
	return b.String()
}
