package pdf

import (
	"github.com/shopspring/decimal"

	"oflo/pkg/inr"
)

// TotalRow is one label/value line of the totals box.
type TotalRow struct {
	Label string
	Value string
}

var two = decimal.NewFromInt(2)

// TotalRows lists the totals box: subtotal, then either one IGST line or
// equal CGST and SGST halves. No tax at all prints a single "Tax 0.00" line.
func TotalRows(v *View) []TotalRow {
	rows := []TotalRow{{Label: "Subtotal", Value: amount(v.SubTotal)}}

	if !v.TotalTax.IsPositive() {
		return append(rows, TotalRow{Label: "Tax", Value: "0.00"})
	}

	rate := v.TaxRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(18)
	}

	if v.TaxType.IsInterState() {
		return append(rows, TotalRow{
			Label: "IGST " + rate.String() + "%",
			Value: amount(v.TotalTax),
		})
	}

	half := v.TotalTax.Div(two)
	halfRate := rate.Div(two).String() + "%"
	return append(rows,
		TotalRow{Label: "CGST " + halfRate, Value: amount(half)},
		TotalRow{Label: "SGST " + halfRate, Value: amount(half)},
	)
}

// amount prints at least two and at most three fraction digits.
func amount(d decimal.Decimal) string {
	r := d.Round(3)
	if r.Equal(r.Round(2)) {
		return inr.FormatAmount(r, 2)
	}
	return inr.FormatAmount(r, 3)
}
