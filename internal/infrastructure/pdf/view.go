package pdf

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"oflo/internal/domain/documents/invoice"
)

// Seller is the issuing company as printed.
type Seller struct {
	Name          string
	Tagline       string
	Address       string
	GSTIN         string
	Phone         string
	Email         string
	BankName      string
	AccountNumber string
	IFSCCode      string
	Terms         string
}

// Buyer is the billed customer as printed.
type Buyer struct {
	Name    string
	Address string
	GSTIN   string
}

// Line is one row of the items table.
type Line struct {
	Description  string
	HSN          string
	NumberOfBags decimal.Decimal
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal

	// Taxable is the amount printed in the last column.
	Taxable decimal.Decimal
}

// View is everything the renderer prints, flattened from a stored version.
type View struct {
	InvoiceNumber   string
	ReferenceNumber string
	Date            time.Time
	VehicleNumber   string

	Seller Seller
	Buyer  Buyer
	Lines  []Line

	SubTotal   decimal.Decimal
	TotalTax   decimal.Decimal
	GrandTotal decimal.Decimal
	TaxType    invoice.TaxType
	TaxRate    decimal.Decimal
}

// ViewOptions controls how a version is flattened.
type ViewOptions struct {
	// Consolidated prints the summary row instead of individual items.
	Consolidated bool
}

// FromVersion flattens inv and one of its versions. The invoice number comes
// from inv; everything else from the version snapshot.
func FromVersion(inv *invoice.Invoice, v *invoice.Version, opts ViewOptions) View {
	seller := v.Seller
	view := View{
		InvoiceNumber:   inv.InvoiceNumber,
		ReferenceNumber: v.ReferenceNumber,
		Date:            v.Date,
		VehicleNumber:   v.VehicleNumber,
		Seller: Seller{
			Name:          seller.Name,
			Tagline:       seller.Tagline,
			Address:       seller.Address,
			GSTIN:         seller.GSTIN,
			Phone:         seller.Phone,
			Email:         seller.Email,
			BankName:      seller.BankName,
			AccountNumber: seller.AccountNumber,
			IFSCCode:      seller.IFSCCode,
			Terms:         normalizeNewlines(seller.Terms),
		},
		Buyer: Buyer{
			Name:    v.Buyer.Name,
			Address: v.Buyer.Address,
			GSTIN:   v.Buyer.GSTIN,
		},
		SubTotal:   v.SubTotal,
		TotalTax:   v.TotalTax,
		GrandTotal: v.GrandTotal,
		TaxType:    v.TaxType,
		TaxRate:    v.HeadlineTaxRate(),
	}

	if opts.Consolidated && v.SummaryItem != nil {
		s := v.SummaryItem
		view.Lines = []Line{{
			Description:  s.Description,
			HSN:          s.HSN,
			NumberOfBags: s.NumberOfBags,
			Quantity:     s.Quantity,
			UnitPrice:    s.UnitPrice,
			Taxable:      s.Taxable(),
		}}
		return view
	}

	view.Lines = make([]Line, 0, len(v.Items))
	for i := range v.Items {
		it := &v.Items[i]
		view.Lines = append(view.Lines, Line{
			Description:  it.DisplayName(),
			HSN:          it.HSN,
			NumberOfBags: it.NumberOfBags,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			Taxable:      it.Taxable(),
		})
	}
	return view
}

// FileName is "Invoice_<reference>.pdf", using the invoice number when the
// version has no reference.
func (v *View) FileName() string {
	ref := v.ReferenceNumber
	if ref == "" {
		ref = v.InvoiceNumber
	}
	return "Invoice_" + ref + ".pdf"
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
