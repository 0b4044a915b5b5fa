package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	got := Percent(decimal.RequireFromString("1234.50"), decimal.NewFromInt(18))
	assert.Equal(t, "222.21", got.StringFixed(2))
}

func TestRounding(t *testing.T) {
	tests := []struct {
		in     string
		rupees string
		paise  string
	}{
		{"1049.50", "1050", "1049.50"},
		{"1049.49", "1049", "1049.49"},
		{"0.005", "0", "0.01"},
		{"-2.5", "-3", "-2.50"},
	}
	for _, tt := range tests {
		d := decimal.RequireFromString(tt.in)
		assert.Equal(t, tt.rupees, RoundRupees(d).String(), tt.in)
		assert.Equal(t, tt.paise, RoundPaise(d).StringFixed(2), tt.in)
	}
}
