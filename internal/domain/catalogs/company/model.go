// Package company provides the seller profile catalog.
// A company owns the invoice prefix, bank details and terms printed on its invoices.
package company

import (
	"context"
	"regexp"
	"strings"

	"oflo/internal/core/apperror"
	"oflo/internal/core/entity"
	"oflo/pkg/gstin"
)

var (
	emailRE  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	ifscRE   = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	prefixRE = regexp.MustCompile(`^[A-Za-z0-9/_.]*$`)
)

// Company is the seller on an invoice.
type Company struct {
	entity.BaseEntity

	Name          string `db:"name" json:"name"`
	GSTIN         string `db:"gstin" json:"gstin"`
	Tagline       string `db:"tagline" json:"tagline,omitempty"`
	Address       string `db:"address" json:"address"`
	Phone         string `db:"phone" json:"phone"`
	Email         string `db:"email" json:"email"`
	InvoicePrefix string `db:"invoice_prefix" json:"invoicePrefix"`

	BankName      string `db:"bank_name" json:"bankName,omitempty"`
	AccountNumber string `db:"account_number" json:"accountNumber,omitempty"`
	IFSCCode      string `db:"ifsc_code" json:"ifscCode,omitempty"`

	// Terms is free text, one condition per line.
	Terms string `db:"terms" json:"terms,omitempty"`
}

// Validate implements entity.Validatable interface.
func (c *Company) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if err := gstin.Validate(c.GSTIN); err != nil {
		return apperror.NewValidation(err.Error()).
			WithDetail("field", "gstin")
	}
	if c.Email != "" && !emailRE.MatchString(c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}
	if c.IFSCCode != "" && !ifscRE.MatchString(c.IFSCCode) {
		return apperror.NewValidation("invalid IFSC code").
			WithDetail("field", "ifscCode")
	}
	if !prefixRE.MatchString(c.InvoicePrefix) {
		return apperror.NewValidation("invoice prefix may contain letters, digits, '/', '_' and '.' only").
			WithDetail("field", "invoicePrefix")
	}
	return nil
}

// HasBankDetails reports whether any bank field is filled.
func (c *Company) HasBankDetails() bool {
	return c.BankName != "" || c.AccountNumber != "" || c.IFSCCode != ""
}

// TermLines splits Terms into non-empty lines.
func (c *Company) TermLines() []string {
	var lines []string
	for _, l := range strings.Split(c.Terms, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// Clone returns an independent copy.
func (c *Company) Clone() Company {
	return *c
}
