package pdf

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedMeasurer wraps at a fixed number of characters per millimetre.
type fixedMeasurer struct {
	charW float64
}

func (m fixedMeasurer) SplitLines(_ Face, text string, width float64) []string {
	perLine := int(width / m.charW)
	if perLine < 1 {
		perLine = 1
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		r := []rune(para)
		if len(r) == 0 {
			out = append(out, "")
			continue
		}
		for len(r) > perLine {
			out = append(out, string(r[:perLine]))
			r = r[perLine:]
		}
		out = append(out, string(r))
	}
	return out
}

func sampleView(lines int) View {
	v := View{
		InvoiceNumber: "INV-001",
		Seller:        Seller{Name: "Acme Mills"},
		Buyer:         Buyer{Name: "Client"},
		SubTotal:      decimal.NewFromInt(100),
		TotalTax:      decimal.NewFromInt(18),
		GrandTotal:    decimal.NewFromInt(118),
		TaxRate:       decimal.NewFromInt(18),
	}
	for i := 0; i < lines; i++ {
		v.Lines = append(v.Lines, Line{
			Description:  "Rice",
			NumberOfBags: decimal.NewFromInt(4),
			Quantity:     decimal.NewFromInt(100),
			UnitPrice:    decimal.NewFromInt(1),
			Taxable:      decimal.NewFromInt(100),
		})
	}
	return v
}

func TestPlanFooter_DefaultTermsAndSingleWordsLine(t *testing.T) {
	v := sampleView(1)
	p := PlanFooter(&v, DefaultSettings(), fixedMeasurer{charW: 0.1})

	require.Len(t, p.WordsLines, 1)
	assert.Equal(t, DefaultTerms, p.TermLines)

	// both boxes are at their minimum heights
	assert.InDelta(t, 15.0, p.Words.H, 1e-9)
	assert.InDelta(t, 35.0, p.Terms.H, 1e-9)
	assert.InDelta(t, 35+2+15+2+35, p.Height, 1e-9)
	assert.InDelta(t, 297-15-p.Height, p.Top, 1e-9)

	// terms end on the bottom margin
	assert.InDelta(t, 297-15, p.Terms.Bottom(), 1e-9)
}

func TestPlanFooter_TermsHeightGrowsWithLines(t *testing.T) {
	s := DefaultSettings()
	v := sampleView(1)
	v.Seller.Terms = strings.Repeat("term\n", 9) + "term"

	p := PlanFooter(&v, s, fixedMeasurer{charW: 0.1})

	require.Len(t, p.TermLines, 10)
	th := s.ContentHeaderSize * ptToMm
	headH := s.HeaderSize * ptToMm
	want := 5 + headH + 5 + 10*th*1.5 + 5
	assert.InDelta(t, want, p.Terms.H, 1e-9)
	assert.Greater(t, p.Terms.H, minTermsHeight)
}

func TestPlanFooter_WrappedWords(t *testing.T) {
	s := DefaultSettings()
	v := sampleView(1)
	v.GrandTotal = decimal.RequireFromString("987654321")

	// about 20 characters per line
	p := PlanFooter(&v, s, fixedMeasurer{charW: 4})

	require.Greater(t, len(p.WordsLines), 1)
	lineH := s.RegularSize * ptToMm
	wantH := max(15, float64(len(p.WordsLines))*lineH*1.5+6)
	assert.InDelta(t, wantH, p.Words.H, 1e-9)
	assert.InDelta(t, p.Words.Y+4+lineH, p.WordsBaseline(), 1e-9)
}

func TestPlanFooter_SingleLineWordsCentred(t *testing.T) {
	v := sampleView(1)
	p := PlanFooter(&v, DefaultSettings(), fixedMeasurer{charW: 0.1})

	want := p.Words.Y + p.Words.H/2 + p.WordsLineH/3
	assert.InDelta(t, want, p.WordsBaseline(), 1e-9)
}

func TestPlanFooter_IndependentOfTable(t *testing.T) {
	s := DefaultSettings()
	short := sampleView(1)
	long := sampleView(40)

	a := PlanFooter(&short, s, fixedMeasurer{charW: 1})
	b := PlanFooter(&long, s, fixedMeasurer{charW: 1})

	assert.Equal(t, a.Top, b.Top)
	assert.Equal(t, a.Height, b.Height)
}

func TestPlanFooter_BlockPositions(t *testing.T) {
	s := DefaultSettings()
	v := sampleView(1)
	p := PlanFooter(&v, s, fixedMeasurer{charW: 0.1})

	contentW := 210 - s.MarginLeft - s.MarginRight
	assert.InDelta(t, contentW*0.6-2, p.Bank.W, 1e-9)
	assert.InDelta(t, contentW*0.4-2, p.Totals.W, 1e-9)
	assert.InDelta(t, s.MarginLeft+p.Bank.W+4, p.Totals.X, 1e-9)

	assert.Equal(t, p.Top, p.Bank.Y)
	assert.InDelta(t, p.Bank.Bottom()+2, p.Words.Y, 1e-9)
	assert.InDelta(t, p.Words.Bottom()+2, p.Terms.Y, 1e-9)
	assert.Equal(t, p.Words.Y, p.GrandTotal.Y)
	assert.Equal(t, contentW, p.Terms.W)
}

func TestPlanFooter_MarginsMoveFooter(t *testing.T) {
	s := DefaultSettings()
	s.MarginBottom = 30
	v := sampleView(1)

	p := PlanFooter(&v, s, fixedMeasurer{charW: 0.1})
	assert.InDelta(t, 297-30, p.Terms.Bottom(), 1e-9)
}

func TestExtendTable(t *testing.T) {
	bottom, ok := ExtendTable(100, 193)
	assert.True(t, ok)
	assert.InDelta(t, 191.0, bottom, 1e-9)

	bottom, ok = ExtendTable(190, 193)
	assert.False(t, ok)
	assert.Equal(t, 190.0, bottom)

	// exactly at the threshold is not extended
	_, ok = ExtendTable(188, 193)
	assert.False(t, ok)
}

func TestColumnWidths(t *testing.T) {
	widths := ColumnWidths(182)
	require.Len(t, widths, 7)
	assert.Equal(t, 52.0, widths[1])

	sum := 0.0
	for _, w := range widths {
		sum += w
	}
	assert.Equal(t, 182.0, sum)
}
