package inr

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"5", "5.00"},
		{"999.5", "999.50"},
		{"1000", "1,000.00"},
		{"12345.678", "12,345.68"},
		{"100000", "1,00,000.00"},
		{"1234567.5", "12,34,567.50"},
		{"123456789", "12,34,56,789.00"},
		{"-1234.5", "-1,234.50"},
		{"-0.001", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatRounded(t *testing.T) {
	assert.Equal(t, "1,18,000", FormatRounded(decimal.RequireFromString("117999.5")))
	assert.Equal(t, "1,17,999", FormatRounded(decimal.RequireFromString("117999.49")))
	assert.Equal(t, "0", FormatRounded(decimal.Zero))
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1000", "1,000"},
		{"1234.500", "1,234.5"},
		{"250000", "2,50,000"},
		{"0.1234", "0.123"},
		{"12.0005", "12.001"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(decimal.RequireFromString(tt.in), 3))
		})
	}
}
