// Package invoice implements invoice numbering and versioning.
//
// An Invoice is the stable, addressable record: its number never changes and
// it points at the newest Version. A Version is an immutable snapshot of
// seller, buyer, items and totals; every edit appends one.
package invoice

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"oflo/internal/core/apperror"
	"oflo/internal/core/entity"
	"oflo/internal/core/id"
	"oflo/internal/core/types"
	"oflo/internal/domain/catalogs/company"
	"oflo/internal/domain/catalogs/customer"
)

// Status of an invoice version.
type Status string

const (
	StatusDraft Status = "draft"
	StatusFinal Status = "final"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusFinal
}

// TaxType selects how the tax total is printed.
type TaxType string

const (
	// TaxIGST is inter-state supply: one IGST line at the full rate.
	TaxIGST TaxType = "IGST"
	// TaxCGSTSGST is intra-state supply: tax split into equal CGST and SGST halves.
	TaxCGSTSGST TaxType = "CGST_SGST"
)

// IsInterState is true only for IGST. Unknown or empty types print as a split.
func (t TaxType) IsInterState() bool {
	return strings.EqualFold(strings.TrimSpace(string(t)), string(TaxIGST))
}

// Invoice is the mutable pointer record.
type Invoice struct {
	entity.BaseEntity

	InvoiceNumber string    `db:"invoice_number" json:"invoiceNumber"`
	CompanyID     id.ID     `db:"company_id" json:"companyId"`
	CustomerID    id.ID     `db:"customer_id" json:"customerId"`
	Date          time.Time `db:"date" json:"date"`
	VehicleNumber string    `db:"vehicle_number" json:"vehicleNumber,omitempty"`

	// CurrentVersionID is nil only inside the creating transaction.
	CurrentVersionID *id.ID `db:"current_version_id" json:"currentVersionId,omitempty"`

	// GrandTotal caches the current version's total for listings.
	GrandTotal types.Money `db:"grand_total" json:"grandTotal"`
	Status     Status      `db:"status" json:"status"`
}

// Item is one invoice line, copied from the product at creation time.
type Item struct {
	ProductID    id.ID           `json:"productId"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	HSN          string          `json:"hsn"`
	NumberOfBags decimal.Decimal `json:"numberOfBags"`
	Quantity     types.Quantity  `json:"quantity"`
	UnitPrice    types.Money     `json:"unitPrice"`
	TaxRate      decimal.Decimal `json:"taxRate"`

	ProducerID   *id.ID `json:"producerId,omitempty"`
	ProducerName string `json:"producerName,omitempty"`

	TaxAmount   types.Money `json:"taxAmount"`
	TotalAmount types.Money `json:"totalAmount"`
}

// Taxable is quantity times unit price.
func (i *Item) Taxable() types.Money {
	return i.Quantity.Mul(i.UnitPrice)
}

// DisplayName is the description, or the product name when there is none.
func (i *Item) DisplayName() string {
	if strings.TrimSpace(i.Description) != "" {
		return i.Description
	}
	return i.Name
}

// SummaryItem is the single consolidated row printed instead of itemised lines.
type SummaryItem struct {
	Description  string          `json:"description"`
	HSN          string          `json:"hsn"`
	NumberOfBags decimal.Decimal `json:"numberOfBags"`
	Quantity     types.Quantity  `json:"quantity"`
	UnitPrice    types.Money     `json:"unitPrice"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	TaxAmount    types.Money     `json:"taxAmount"`
	TotalAmount  types.Money     `json:"totalAmount"`
}

// Taxable is the total without tax.
func (s *SummaryItem) Taxable() types.Money {
	return s.TotalAmount.Sub(s.TaxAmount)
}

// Financials are the computed totals of a version.
type Financials struct {
	SubTotal   types.Money `json:"subTotal"`
	TotalTax   types.Money `json:"totalTax"`
	GrandTotal types.Money `json:"grandTotal"`
	TaxType    TaxType     `json:"taxType,omitempty"`
	RoundOff   types.Money `json:"roundOff"`
}

// Version is an immutable snapshot of an invoice.
type Version struct {
	ID        id.ID `json:"id"`
	InvoiceID id.ID `json:"invoiceId"`
	Version   int   `json:"version"`

	Date          time.Time `json:"date"`
	VehicleNumber string    `json:"vehicleNumber,omitempty"`

	Seller      company.Company   `json:"sellerDetails"`
	Buyer       customer.Customer `json:"buyerDetails"`
	Items       []Item            `json:"items"`
	SummaryItem *SummaryItem      `json:"summaryItem,omitempty"`

	ReferenceNumber string `json:"referenceNumber"`

	Financials

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks version invariants that do not need storage.
func (v *Version) Validate(ctx context.Context) error {
	if len(v.Items) == 0 {
		return apperror.NewBusinessRule(apperror.CodeEmptyInvoice, "invoice must have at least one item")
	}
	if id.IsNil(v.Seller.ID) {
		return apperror.NewValidation("company is required").WithDetail("field", "companyId")
	}
	if id.IsNil(v.Buyer.ID) {
		return apperror.NewValidation("customer is required").WithDetail("field", "customerId")
	}
	if v.Date.IsZero() {
		return apperror.NewValidation("date is required").WithDetail("field", "date")
	}
	if !v.Status.Valid() {
		return apperror.NewValidation("status must be draft or final").WithDetail("field", "status")
	}
	for i := range v.Items {
		it := &v.Items[i]
		if it.Quantity.IsNegative() || it.NumberOfBags.IsNegative() || it.UnitPrice.IsNegative() {
			return apperror.NewValidation("quantities and prices must not be negative").
				WithDetail("line", i+1)
		}
		if it.TaxRate.IsNegative() {
			return apperror.NewValidation("tax rate must not be negative").
				WithDetail("line", i+1)
		}
	}
	return nil
}

// HeadlineTaxRate is the rate printed on tax lines: the first item's rate,
// or 18 when it is zero or there are no items.
func (v *Version) HeadlineTaxRate() decimal.Decimal {
	if len(v.Items) > 0 && !v.Items[0].TaxRate.IsZero() {
		return v.Items[0].TaxRate
	}
	return defaultTaxRate
}

var defaultTaxRate = decimal.NewFromInt(18)

// Detail is an invoice with its current version.
type Detail struct {
	Invoice *Invoice `json:"invoice"`
	Current *Version `json:"currentVersion"`
}
