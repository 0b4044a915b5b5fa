package pdf

import (
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"oflo/pkg/inr"
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// Table styling.
const (
	cellPadTop    = 3.0
	cellPadBottom = 3.0
	cellPadX      = 2.0

	// Multi-line text advances by 1.15 times the font size.
	textLineScale = 1.15
)

var tableHead = []string{"#", "Description", "H.S.N.\nCode", "No. of\nBags", "Qty", "Price\nper Kg", "Taxable\nin Rs."}

var columnAlign = []align{alignCenter, alignCenter, alignCenter, alignCenter, alignCenter, alignCenter, alignRight}

// renderer draws one invoice onto an open document.
type renderer struct {
	pdf   *fpdf.Fpdf
	faces *faces
	s     Settings
	g     geometry
	view  *View
	plan  FooterPlan
}

func (r *renderer) body(style string, size float64) Face {
	return Face{Family: r.s.FontBody, Style: style, Size: size}
}

func (r *renderer) company(style string, size float64) Face {
	return Face{Family: r.s.FontCompany, Style: style, Size: size}
}

// text draws UTF-8 s at baseline y.
func (r *renderer) text(face Face, x, y float64, s string, a align) {
	r.raw(face, x, y, r.faces.encode(face, s), a)
}

// raw draws an already encoded string.
func (r *renderer) raw(face Face, x, y float64, s string, a align) {
	r.faces.use(face)
	switch a {
	case alignCenter:
		x -= r.pdf.GetStringWidth(s) / 2
	case alignRight:
		x -= r.pdf.GetStringWidth(s)
	}
	r.pdf.Text(x, y, s)
}

func (r *renderer) box(x, y, w, h float64) {
	r.pdf.SetLineWidth(lineWidth)
	r.pdf.RoundedRect(x, y, w, h, radius, "1234", "D")
}

func (r *renderer) line(x1, y1, x2, y2 float64) {
	r.pdf.SetDrawColor(0, 0, 0)
	r.pdf.SetLineWidth(lineWidth)
	r.pdf.Line(x1, y1, x2, y2)
}

func (r *renderer) draw() {
	r.pdf.AddPage()
	y := r.header(r.g.top)
	y = r.sellerBox(y)
	y = r.buyerBox(y)
	y = r.table(y)
	r.extend(y)
	r.footer()
}

func (r *renderer) header(y float64) float64 {
	v := r.view
	center := pageWidth / 2

	headerH := r.s.HeaderSize * ptToMm
	r.text(r.body("B", r.s.HeaderSize), center, y+headerH, "TAX INVOICE", alignCenter)
	if v.Seller.Phone != "" {
		r.text(r.body("", r.s.RegularSize), r.g.right, y+headerH, "M: "+v.Seller.Phone, alignRight)
	}
	y += headerH + 2

	companyH := r.s.CompanySize * ptToMm
	name := v.Seller.Name
	if name == "" {
		name = "Company Name"
	}
	r.text(r.company("B", r.s.CompanySize), center, y+companyH, name, alignCenter)
	y += companyH + 3

	if v.Seller.Tagline != "" {
		taglineH := r.s.ContentHeaderSize * ptToMm
		r.text(r.company("I", r.s.ContentHeaderSize), center, y+taglineH, v.Seller.Tagline, alignCenter)
		y += taglineH + 2
	} else {
		y += 2
	}
	return y + 1
}

const (
	boxPad        = 4.0
	sellerLabelW  = 22.0
	metaLabelW    = 25.0
	buyerLabelW   = 32.0
	bankLabelW    = 22.0
	totalsLabelW  = 22.0
	lineSpacing   = 1.4
	footerSpacing = 1.5
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// sellerBox draws the seller address block with invoice metadata on the right.
func (r *renderer) sellerBox(start float64) float64 {
	v := r.view
	face := r.body("", r.s.RegularSize)
	lineH := r.s.RegularSize * ptToMm * lineSpacing

	leftX := r.g.left + boxPad
	contentX := leftX + sellerLabelW + 3
	addrW := r.g.contentW - (sellerLabelW + 3) - 5

	y := start + boxPad + r.s.RegularSize*ptToMm
	r.text(face, leftX, y, "ADDRESS", alignLeft)
	r.text(face, leftX+sellerLabelW, y, ":", alignLeft)

	leftY := y
	for i, l := range r.faces.SplitLines(face, v.Seller.Address, addrW) {
		if i > 0 {
			leftY += lineH
		}
		r.raw(face, contentX, leftY, l, alignLeft)
	}

	leftY += lineH
	rightY := leftY

	r.text(face, leftX, leftY, "GST No.", alignLeft)
	r.text(face, leftX+sellerLabelW, leftY, ":", alignLeft)
	r.text(face, contentX, leftY, orDash(v.Seller.GSTIN), alignLeft)

	leftY += lineH
	r.text(face, leftX, leftY, "Email", alignLeft)
	r.text(face, leftX+sellerLabelW, leftY, ":", alignLeft)
	r.text(face, contentX, leftY, orDash(v.Seller.Email), alignLeft)

	metaX := r.g.left + r.g.contentW*0.6
	valX := metaX + metaLabelW + 3
	maxValW := (r.g.left + r.g.contentW) - valX - 2
	meta := func(label, value string) {
		r.text(face, metaX, rightY, label, alignLeft)
		r.text(face, metaX+metaLabelW, rightY, ":", alignLeft)
		lines := r.faces.SplitLines(face, value, maxValW)
		for i, l := range lines {
			r.raw(face, valX, rightY+float64(i)*r.s.RegularSize*ptToMm*textLineScale, l, alignLeft)
		}
		rightY += lineH
		if len(lines) > 1 {
			rightY += float64(len(lines)-1) * lineH
		}
	}

	meta("Invoice No", orDash(v.InvoiceNumber))
	date := "-"
	if !v.Date.IsZero() {
		date = v.Date.Format("02/01/2006")
	}
	meta("Date", date)
	if v.VehicleNumber != "" {
		meta("Vehicle No", v.VehicleNumber)
	}

	h := max(leftY, rightY) - start + 2
	r.box(r.g.left, start, r.g.contentW, h)
	return start + h + 2
}

// buyerBox draws the client address and GSTIN.
func (r *renderer) buyerBox(start float64) float64 {
	v := r.view
	face := r.body("", r.s.RegularSize)
	lineH := r.s.RegularSize * ptToMm * lineSpacing

	leftX := r.g.left + boxPad
	clientX := leftX + buyerLabelW + 3

	y := start + boxPad + r.s.RegularSize*ptToMm
	r.text(face, leftX, y, "Client Address", alignLeft)
	r.text(face, leftX+buyerLabelW, y, ":", alignLeft)

	client := v.Buyer.Name + ", " + v.Buyer.Address
	for i, l := range r.faces.SplitLines(face, client, r.g.contentW-buyerLabelW-15) {
		if i > 0 {
			y += lineH
		}
		r.raw(face, clientX, y, l, alignLeft)
	}

	y += lineH
	gst := r.body("", r.s.HeaderSize)
	r.text(gst, leftX, y, "Client GST", alignLeft)
	r.text(gst, leftX+buyerLabelW, y, ":", alignLeft)
	r.text(gst, clientX, y, orDash(v.Buyer.GSTIN), alignLeft)

	h := y - start + boxPad
	r.box(r.g.left, start, r.g.contentW, h)
	return start + h + 2
}

// row is one measured table row; cells are encoded lines.
type row struct {
	cells  [][]string
	height float64
}

func (r *renderer) measureRow(face Face, texts []string, widths []float64) row {
	out := row{cells: make([][]string, len(texts))}
	lineH := face.Size * ptToMm * textLineScale
	for i, t := range texts {
		out.cells[i] = r.faces.SplitLines(face, t, widths[i]-2*cellPadX)
		if len(out.cells[i]) == 0 {
			out.cells[i] = []string{""}
		}
		h := float64(len(out.cells[i]))*lineH + cellPadTop + cellPadBottom
		out.height = max(out.height, h)
	}
	return out
}

func (r *renderer) drawRow(face Face, rw row, widths []float64, y float64, boxed bool) {
	lineH := face.Size * ptToMm * textLineScale
	x := r.g.left
	for i, lines := range rw.cells {
		w := widths[i]
		if boxed {
			r.pdf.SetLineWidth(lineWidth)
			r.pdf.Rect(x, y, w, rw.height, "D")
		} else {
			if i == 0 {
				r.line(x, y, x, y+rw.height)
			}
			r.line(x+w, y, x+w, y+rw.height)
		}

		// vertically centred block; baseline sits near the bottom of each line box
		blockH := float64(len(lines)) * lineH
		ty := y + (rw.height-blockH)/2 + face.Size*ptToMm
		a := alignCenter
		if !boxed {
			a = columnAlign[i]
		}
		for _, l := range lines {
			switch a {
			case alignRight:
				r.raw(face, x+w-cellPadX, ty, l, alignRight)
			case alignCenter:
				r.raw(face, x+w/2, ty, l, alignCenter)
			default:
				r.raw(face, x+cellPadX, ty, l, alignLeft)
			}
			ty += lineH
		}
		x += w
	}
}

func bags(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

func (r *renderer) lineCells(i int, l Line) []string {
	return []string{
		strconv.Itoa(i + 1),
		l.Description + "\n" + bags(l.NumberOfBags) + " Bags of 25 Kg",
		l.HSN,
		bags(l.NumberOfBags),
		inr.FormatNumber(l.Quantity, 3),
		l.UnitPrice.StringFixed(1),
		inr.FormatMoney(l.Taxable),
	}
}

// table draws the items. Rows that would run into the footer on the last
// page move to a new page; the header row repeats on every page.
func (r *renderer) table(y float64) float64 {
	widths := ColumnWidths(r.g.contentW)
	headFace := r.body("B", r.s.RegularSize)
	bodyFace := r.body("", r.s.RegularSize)

	head := r.measureRow(headFace, tableHead, widths)
	rows := make([]row, len(r.view.Lines))
	for i, l := range r.view.Lines {
		rows[i] = r.measureRow(bodyFace, r.lineCells(i, l), widths)
	}

	footerLimit := r.plan.Top - blockGap
	remaining := 0.0
	for _, rw := range rows {
		remaining += rw.height
	}

	r.drawRow(headFace, head, widths, y, true)
	y += head.height

	for i, rw := range rows {
		last := i == len(rows)-1
		fitsAll := y+remaining <= footerLimit
		fitsPage := y+rw.height <= r.g.bottom && (!last || y+rw.height <= footerLimit)

		if !fitsAll && !fitsPage && y > r.g.top+head.height {
			r.line(r.g.left, y, r.g.right, y)
			r.pdf.AddPage()
			y = r.g.top
			r.drawRow(headFace, head, widths, y, true)
			y += head.height
		}

		r.drawRow(bodyFace, rw, widths, y, false)
		y += rw.height
		remaining -= rw.height
	}
	return y
}

// extend runs the column lines down to the footer and closes the table.
func (r *renderer) extend(tableEnd float64) {
	bottom, extended := ExtendTable(tableEnd, r.plan.Top)
	if extended {
		x := r.g.left
		r.line(x, tableEnd, x, bottom)
		for _, w := range ColumnWidths(r.g.contentW) {
			x += w
			r.line(x, tableEnd, x, bottom)
		}
	}
	r.line(r.g.left, bottom, r.g.right, bottom)
}

func (r *renderer) footer() {
	p := r.plan
	v := r.view
	regular := r.body("", r.s.RegularSize)
	h := r.s.RegularSize * ptToMm

	// bank
	r.box(p.Bank.X, p.Bank.Y, p.Bank.W, p.Bank.H)
	bankY := p.Bank.Y + 5 + p.HeadH
	r.text(r.body("B", r.s.HeaderSize), p.Bank.X+3, bankY, "Bank Details", alignLeft)
	bankY += 5
	if v.Seller.BankName != "" {
		for _, kv := range [][2]string{
			{"Bank Name", v.Seller.BankName},
			{"A/c No.", orDash(v.Seller.AccountNumber)},
			{"IFSC Code", orDash(v.Seller.IFSCCode)},
		} {
			r.text(regular, p.Bank.X+3, bankY, kv[0], alignLeft)
			r.text(regular, p.Bank.X+3+bankLabelW, bankY, ":", alignLeft)
			r.text(regular, p.Bank.X+3+bankLabelW+3, bankY, kv[1], alignLeft)
			bankY += h * footerSpacing
		}
	}

	// totals
	r.box(p.Totals.X, p.Totals.Y, p.Totals.W, p.Totals.H)
	valX := r.g.right - 3
	ty := p.Totals.Y + 5 + p.HeadH + 3
	for _, tr := range TotalRows(v) {
		r.text(regular, p.Totals.X+3, ty, tr.Label, alignLeft)
		r.text(regular, p.Totals.X+3+totalsLabelW, ty, ":", alignLeft)
		r.text(regular, valX, ty, tr.Value, alignRight)
		ty += h*footerSpacing + 1
	}

	// amount in words
	r.box(p.Words.X, p.Words.Y, p.Words.W, p.Words.H)
	wy := p.WordsBaseline()
	r.text(regular, p.Words.X+3, wy, "In Words", alignLeft)
	r.text(regular, p.Words.X+3+wordsLabelW, wy, ":", alignLeft)
	for _, l := range p.WordsLines {
		r.raw(regular, p.Words.X+3+wordsLabelW+3, wy, l, alignLeft)
		wy += p.WordsLineH * textLineScale
	}

	// grand total
	r.box(p.GrandTotal.X, p.GrandTotal.Y, p.GrandTotal.W, p.GrandTotal.H)
	gtY := p.GrandTotal.Y + p.GrandTotal.H/2 + 2
	bold := r.body("B", r.s.HeaderSize)
	r.text(bold, p.GrandTotal.X+3, gtY, "Grand Total Rs.", alignLeft)
	r.text(bold, valX, gtY, inr.FormatRounded(v.GrandTotal), alignRight)

	// terms
	r.box(p.Terms.X, p.Terms.Y, p.Terms.W, p.Terms.H)
	headY := p.Terms.Y + 5 + p.HeadH
	r.text(bold, p.Terms.X+3, headY, "TERMS & CONDITIONS", alignLeft)
	termFace := r.body("", r.s.ContentHeaderSize)
	termY := headY + 5
	for _, l := range p.TermLines {
		r.raw(termFace, p.Terms.X+3, termY, l, alignLeft)
		termY += p.TermLineH * footerSpacing
	}

	// signatory
	signY := p.Terms.Bottom() - 8
	signX := r.g.right - 30
	r.line(signX-25, signY-5, r.g.right-5, signY-5)
	r.text(termFace, signX, signY, "Authorized Signatory", alignCenter)
	r.text(r.body("B", r.s.ContentHeaderSize), signX, signY+4, v.Seller.Name, alignCenter)
}

var _ Measurer = (*faces)(nil)
