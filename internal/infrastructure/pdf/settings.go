// Package pdf renders tax invoices to A4 PDF documents.
//
// Rendering is two-pass: PlanFooter measures the variable-height footer blocks
// and anchors them to the bottom margin, then Render draws header, table and
// footer using that plan.
package pdf

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Setting keys as stored in the settings table.
const (
	KeyFontSizeCompany       = "pdfFontSizeCompany"
	KeyFontSizeHeader        = "pdfFontSizeHeader"
	KeyFontSizeContentHeader = "pdfFontSizeContentHeader"
	KeyFontSizeRegular       = "pdfFontSizeRegular"
	KeyMarginLeft            = "pdfMarginLeft"
	KeyMarginRight           = "pdfMarginRight"
	KeyMarginTop             = "pdfMarginTop"
	KeyMarginBottom          = "pdfMarginBottom"
	KeyFontCompany           = "pdfFontCompany"
	KeyFontBody              = "pdfFontBody"
)

// DefaultFamily is the built-in face used when no custom font is selected
// or a custom font cannot be loaded.
const DefaultFamily = "helvetica"

// Settings are the layout parameters of a rendered invoice.
// Font sizes are in points, margins in millimetres.
type Settings struct {
	CompanySize       float64 `json:"company"`
	HeaderSize        float64 `json:"header"`
	ContentHeaderSize float64 `json:"contentHeader"`
	RegularSize       float64 `json:"regular"`

	MarginLeft   float64 `json:"marginLeft"`
	MarginRight  float64 `json:"marginRight"`
	MarginTop    float64 `json:"marginTop"`
	MarginBottom float64 `json:"marginBottom"`

	FontCompany string `json:"fontCompany"`
	FontBody    string `json:"fontBody"`
}

// DefaultSettings returns the stock layout.
func DefaultSettings() Settings {
	return Settings{
		CompanySize:       26,
		HeaderSize:        10,
		ContentHeaderSize: 10,
		RegularSize:       9,
		MarginLeft:        14,
		MarginRight:       14,
		MarginTop:         15,
		MarginBottom:      15,
		FontCompany:       DefaultFamily,
		FontBody:          DefaultFamily,
	}
}

// SettingsFromValues builds Settings from a raw key/value bag.
// A value that is missing, null, empty or not a number keeps the default.
func SettingsFromValues(values map[string]any) Settings {
	s := DefaultSettings()

	s.CompanySize = number(values[KeyFontSizeCompany], s.CompanySize)
	s.HeaderSize = number(values[KeyFontSizeHeader], s.HeaderSize)
	s.ContentHeaderSize = number(values[KeyFontSizeContentHeader], s.ContentHeaderSize)
	s.RegularSize = number(values[KeyFontSizeRegular], s.RegularSize)
	s.MarginLeft = number(values[KeyMarginLeft], s.MarginLeft)
	s.MarginRight = number(values[KeyMarginRight], s.MarginRight)
	s.MarginTop = number(values[KeyMarginTop], s.MarginTop)
	s.MarginBottom = number(values[KeyMarginBottom], s.MarginBottom)

	if v, ok := values[KeyFontCompany].(string); ok && strings.TrimSpace(v) != "" {
		s.FontCompany = strings.TrimSpace(v)
	}
	if v, ok := values[KeyFontBody].(string); ok && strings.TrimSpace(v) != "" {
		s.FontBody = strings.TrimSpace(v)
	}
	return s
}

func number(v any, def float64) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return def
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return def
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return def
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return def
		}
		f = parsed
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}
