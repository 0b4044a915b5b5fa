package pdf

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsFromValues_Defaults(t *testing.T) {
	assert.Equal(t, DefaultSettings(), SettingsFromValues(nil))
}

func TestSettingsFromValues(t *testing.T) {
	s := SettingsFromValues(map[string]any{
		KeyFontSizeCompany:       float64(30),
		KeyFontSizeHeader:        "12",
		KeyFontSizeContentHeader: "",
		KeyFontSizeRegular:       nil,
		KeyMarginLeft:            "abc",
		KeyMarginRight:           math.NaN(),
		KeyMarginTop:             json.Number("20"),
		KeyMarginBottom:          0,
		KeyFontCompany:           "  Poppins ",
		KeyFontBody:              "",
	})

	assert.Equal(t, 30.0, s.CompanySize)
	assert.Equal(t, 12.0, s.HeaderSize)
	assert.Equal(t, 10.0, s.ContentHeaderSize)
	assert.Equal(t, 9.0, s.RegularSize)
	assert.Equal(t, 14.0, s.MarginLeft)
	assert.Equal(t, 14.0, s.MarginRight)
	assert.Equal(t, 20.0, s.MarginTop)
	// zero is a number, not a missing value
	assert.Equal(t, 0.0, s.MarginBottom)
	assert.Equal(t, "Poppins", s.FontCompany)
	assert.Equal(t, DefaultFamily, s.FontBody)
}
