package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"oflo/internal/core/apperror"
	"oflo/internal/core/id"
	"oflo/internal/core/types"
	"oflo/internal/domain/documents/invoice"
)

// dateLayouts are accepted for invoice dates, most specific last.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// InvoiceItemRequest is one line. Empty fields are filled from the product.
type InvoiceItemRequest struct {
	ProductID    id.ID            `json:"productId"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	HSN          string           `json:"hsn"`
	NumberOfBags decimal.Decimal  `json:"numberOfBags"`
	Quantity     types.Quantity   `json:"quantity"`
	UnitPrice    *types.Money     `json:"unitPrice"`
	TaxRate      *decimal.Decimal `json:"taxRate"`
	ProducerID   *id.ID           `json:"producerId"`
	ProducerName string           `json:"producerName"`
}

// FinancialsRequest carries totals computed by the client.
type FinancialsRequest struct {
	SubTotal   types.Money     `json:"subTotal"`
	TotalTax   types.Money     `json:"totalTax"`
	GrandTotal types.Money     `json:"grandTotal"`
	TaxType    invoice.TaxType `json:"taxType"`
	RoundOff   types.Money     `json:"roundOff"`
}

// ToFinancials converts r.
func (r *FinancialsRequest) ToFinancials() invoice.Financials {
	return invoice.Financials{
		SubTotal:   r.SubTotal,
		TotalTax:   r.TotalTax,
		GrandTotal: r.GrandTotal,
		TaxType:    r.TaxType,
		RoundOff:   r.RoundOff,
	}
}

// InvoiceRequest creates an invoice or, with BaseVersion, revises one.
// When Financials is omitted the server prices the items.
type InvoiceRequest struct {
	CompanyID     id.ID                `json:"companyId" binding:"required"`
	CustomerID    id.ID                `json:"customerId" binding:"required"`
	Date          string               `json:"date" binding:"required"`
	VehicleNumber string               `json:"vehicleNumber"`
	Items         []InvoiceItemRequest `json:"items"`
	SummaryItem   *invoice.SummaryItem `json:"summaryItem"`
	Financials    *FinancialsRequest   `json:"financials"`
	Status        invoice.Status       `json:"status"`

	// BaseVersion is honoured by revise only.
	BaseVersion int `json:"baseVersion"`
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 and returns a UTC calendar date.
func (r InvoiceRequest) ParseDate() (time.Time, error) {
	s := strings.TrimSpace(r.Date)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, apperror.NewInvalidInput("date", "expected YYYY-MM-DD")
}

// InvoiceListItem is a row of the invoice list.
type InvoiceListItem struct {
	ID               id.ID          `json:"id"`
	InvoiceNumber    string         `json:"invoiceNumber"`
	CompanyID        id.ID          `json:"companyId"`
	CustomerID       id.ID          `json:"customerId"`
	Date             string         `json:"date"`
	VehicleNumber    string         `json:"vehicleNumber,omitempty"`
	CurrentVersionID *id.ID         `json:"currentVersionId,omitempty"`
	GrandTotal       types.Money    `json:"grandTotal"`
	Status           invoice.Status `json:"status"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// FromInvoice maps the pointer record for listings.
func FromInvoice(inv *invoice.Invoice) InvoiceListItem {
	return InvoiceListItem{
		ID:               inv.ID,
		InvoiceNumber:    inv.InvoiceNumber,
		CompanyID:        inv.CompanyID,
		CustomerID:       inv.CustomerID,
		Date:             inv.Date.Format("2006-01-02"),
		VehicleNumber:    inv.VehicleNumber,
		CurrentVersionID: inv.CurrentVersionID,
		GrandTotal:       inv.GrandTotal,
		Status:           inv.Status,
		UpdatedAt:        inv.UpdatedAt,
	}
}

// VersionListItem is one entry of an invoice's history.
type VersionListItem struct {
	ID              id.ID          `json:"id"`
	Version         int            `json:"version"`
	ReferenceNumber string         `json:"referenceNumber"`
	Date            string         `json:"date"`
	GrandTotal      types.Money    `json:"grandTotal"`
	Status          invoice.Status `json:"status"`
	Current         bool           `json:"current"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// FromVersions maps a history; current marks the head version.
func FromVersions(versions []*invoice.Version, current id.ID) []VersionListItem {
	out := make([]VersionListItem, 0, len(versions))
	for _, v := range versions {
		out = append(out, VersionListItem{
			ID:              v.ID,
			Version:         v.Version,
			ReferenceNumber: v.ReferenceNumber,
			Date:            v.Date.Format("2006-01-02"),
			GrandTotal:      v.GrandTotal,
			Status:          v.Status,
			Current:         v.ID == current,
			CreatedAt:       v.CreatedAt,
		})
	}
	return out
}

// NextNumberResponse previews the next invoice number.
type NextNumberResponse struct {
	CompanyID     id.ID  `json:"companyId"`
	InvoiceNumber string `json:"invoiceNumber"`
}
