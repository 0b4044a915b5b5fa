// Package product provides the product catalog. Invoices copy product values
// at creation time and never read them back.
package product

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"oflo/internal/core/apperror"
	"oflo/internal/core/entity"
	"oflo/internal/core/types"
	"oflo/pkg/gstin"
)

var maxTaxRate = decimal.NewFromInt(100)

// Product is a catalog item.
type Product struct {
	entity.BaseEntity

	Name        string          `db:"name" json:"name"`
	SKU         string          `db:"sku" json:"sku,omitempty"`
	Description string          `db:"description" json:"description"`
	HSN         string          `db:"hsn" json:"hsn"`
	UnitPrice   types.Money     `db:"unit_price" json:"unitPrice"`
	TaxRate     decimal.Decimal `db:"tax_rate" json:"taxRate"`
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if err := gstin.ValidateHSN(p.HSN); err != nil {
		return apperror.NewValidation(err.Error()).
			WithDetail("field", "hsn")
	}
	if p.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price must not be negative").
			WithDetail("field", "unitPrice")
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(maxTaxRate) {
		return apperror.NewValidation("tax rate must be between 0 and 100").
			WithDetail("field", "taxRate")
	}
	return nil
}
