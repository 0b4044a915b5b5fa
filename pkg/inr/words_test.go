package inr

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumberToWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "Zero Rupees"},
		{"0.75", "Zero Rupees"},
		{"1", "One Rupees Only"},
		{"15", "Fifteen Rupees Only"},
		{"40", "Forty Rupees Only"},
		{"99", "Ninety Nine Rupees Only"},
		{"100", "One Hundred Rupees Only"},
		{"118", "One Hundred Eighteen Rupees Only"},
		{"1000", "One Thousand Rupees Only"},
		{"100000", "One Lakh Rupees Only"},
		{"1234567", "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Rupees Only"},
		{"1234567.99", "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Rupees Only"},
		{"10000000", "One Crore Rupees Only"},
		{"2500000000", "Two Hundred Fifty Crore Rupees Only"},
		{"123456789012", "Twelve Thousand Three Hundred Forty Five Crore Sixty Seven Lakh Eighty Nine Thousand Twelve Rupees Only"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NumberToWords(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestNumberToWords_NegativeUsesMagnitude(t *testing.T) {
	assert.Equal(t, "Five Hundred Rupees Only", NumberToWords(decimal.NewFromInt(-500)))
}

func TestIntToWords(t *testing.T) {
	assert.Equal(t, "Twenty One Thousand Rupees Only", IntToWords(21000))
}
