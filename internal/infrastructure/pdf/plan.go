package pdf

import (
	"math"

	"oflo/pkg/inr"
)

// A4 portrait in millimetres.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
)

const (
	ptToMm    = 0.352778
	lineWidth = 0.3
	radius    = 3.0

	bankBoxHeight = 35.0
	blockGap      = 2.0

	minWordsHeight = 15.0
	minTermsHeight = 35.0
	wordsLabelW    = 20.0

	// Gap required between table end and footer before column lines are extended.
	extendThreshold = 5.0
)

// DefaultTerms are printed when the seller has none.
var DefaultTerms = []string{
	"1. Payment due within 90 days",
	"2. Interest @18% p.a. will be charged on delayed payments",
	"3. Subject to local jurisdiction only",
}

// Measurer wraps text into lines no wider than width millimetres.
// Hard line breaks in text always start a new line.
type Measurer interface {
	SplitLines(face Face, text string, width float64) []string
}

// Rect is a box in page coordinates (mm, origin top-left).
type Rect struct {
	X, Y, W, H float64
}

// Bottom is Y+H.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// geometry is the page frame derived from margins.
type geometry struct {
	left, right, top, bottom float64

	contentW  float64
	leftBoxW  float64
	rightBoxW float64
	rightBoxX float64
}

func newGeometry(s Settings) geometry {
	contentW := pageWidth - (s.MarginLeft + s.MarginRight)
	leftBoxW := contentW*0.6 - 2
	return geometry{
		left:      s.MarginLeft,
		right:     pageWidth - s.MarginRight,
		top:       s.MarginTop,
		bottom:    pageHeight - s.MarginBottom,
		contentW:  contentW,
		leftBoxW:  leftBoxW,
		rightBoxW: contentW*0.4 - 2,
		rightBoxX: s.MarginLeft + leftBoxW + 4,
	}
}

// FooterPlan is the result of the measuring pass. The footer is anchored so
// that Terms ends exactly at the bottom margin.
type FooterPlan struct {
	Top    float64
	Height float64

	Bank       Rect
	Totals     Rect
	Words      Rect
	GrandTotal Rect
	Terms      Rect

	// Words holds the amount in words, wrapped to the words box.
	WordsLines []string
	WordsLineH float64

	TermLines []string
	TermLineH float64
	HeadH     float64
}

// PlanFooter measures the footer blocks for v. It depends only on the
// settings and the measured text, never on the table above it.
func PlanFooter(v *View, s Settings, m Measurer) FooterPlan {
	g := newGeometry(s)
	body := Face{Family: s.FontBody, Size: s.RegularSize}

	p := FooterPlan{
		WordsLineH: s.RegularSize * ptToMm,
		TermLineH:  s.ContentHeaderSize * ptToMm,
		HeadH:      s.HeaderSize * ptToMm,
	}

	wordsW := g.leftBoxW - (3 + wordsLabelW + 3) - 2
	p.WordsLines = m.SplitLines(body, inr.NumberToWords(v.GrandTotal), wordsW)
	wordsH := math.Max(minWordsHeight, float64(len(p.WordsLines))*p.WordsLineH*1.5+6)

	if v.Seller.Terms != "" {
		termsFace := Face{Family: s.FontBody, Size: s.ContentHeaderSize}
		p.TermLines = m.SplitLines(termsFace, v.Seller.Terms, g.leftBoxW-6)
	} else {
		p.TermLines = append([]string(nil), DefaultTerms...)
	}
	termsH := math.Max(minTermsHeight,
		5+p.HeadH+5+float64(len(p.TermLines))*p.TermLineH*1.5+5)

	p.Height = bankBoxHeight + blockGap + wordsH + blockGap + termsH
	p.Top = g.bottom - p.Height

	p.Bank = Rect{X: g.left, Y: p.Top, W: g.leftBoxW, H: bankBoxHeight}
	p.Totals = Rect{X: g.rightBoxX, Y: p.Top, W: g.rightBoxW, H: bankBoxHeight}

	wordsY := p.Top + bankBoxHeight + blockGap
	p.Words = Rect{X: g.left, Y: wordsY, W: g.leftBoxW, H: wordsH}
	p.GrandTotal = Rect{X: g.rightBoxX, Y: wordsY, W: g.rightBoxW, H: wordsH}

	termsY := wordsY + wordsH + blockGap
	p.Terms = Rect{X: g.left, Y: termsY, W: g.contentW, H: termsH}
	return p
}

// WordsBaseline is the baseline of the first words line: near the top when
// the text wraps, vertically centred when it fits on one line.
func (p FooterPlan) WordsBaseline() float64 {
	if len(p.WordsLines) > 1 {
		return p.Words.Y + 4 + p.WordsLineH
	}
	return p.Words.Y + p.Words.H/2 + p.WordsLineH/3
}

// ColumnWidths are the item table columns for a content width.
// The description column takes what the fixed columns leave.
func ColumnWidths(contentW float64) []float64 {
	return []float64{10, contentW - 130, 20, 20, 20, 25, 35}
}

// ExtendTable reports how far the table column lines should be drawn.
// When the footer starts more than a small gap below the table, lines run to
// just above the footer; otherwise the table ends where it is.
func ExtendTable(tableEnd, footerTop float64) (bottom float64, extended bool) {
	if footerTop > tableEnd+extendThreshold {
		return footerTop - blockGap, true
	}
	return tableEnd, false
}
