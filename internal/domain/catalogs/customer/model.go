// Package customer provides the buyer catalog.
package customer

import (
	"context"
	"regexp"
	"strings"

	"oflo/internal/core/apperror"
	"oflo/internal/core/entity"
	"oflo/pkg/gstin"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Customer is the buyer on an invoice.
type Customer struct {
	entity.BaseEntity

	Name            string `db:"name" json:"name"`
	GSTIN           string `db:"gstin" json:"gstin"`
	Address         string `db:"address" json:"address"`
	DeliveryAddress string `db:"delivery_address" json:"deliveryAddress,omitempty"`
	Phone           string `db:"phone" json:"phone"`
	Email           string `db:"email" json:"email"`

	// PlaceOfSupply is a two-digit GST state code.
	PlaceOfSupply string `db:"place_of_supply" json:"placeOfSupply,omitempty"`
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if err := gstin.Validate(c.GSTIN); err != nil {
		return apperror.NewValidation(err.Error()).
			WithDetail("field", "gstin")
	}
	if c.PlaceOfSupply != "" && !gstin.IsValidStateCode(c.PlaceOfSupply) {
		return apperror.NewValidation("place of supply must be a state code 01-38").
			WithDetail("field", "placeOfSupply")
	}
	if c.Email != "" && !emailRE.MatchString(c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}
	return nil
}

// ShippingAddress returns the delivery address, or the billing address when none is set.
func (c *Customer) ShippingAddress() string {
	if c.DeliveryAddress != "" {
		return c.DeliveryAddress
	}
	return c.Address
}

// Clone returns an independent copy.
func (c *Customer) Clone() Customer {
	return *c
}
