package dto

import (
	"github.com/shopspring/decimal"

	"oflo/internal/core/types"
	"oflo/internal/domain/catalogs/company"
	"oflo/internal/domain/catalogs/customer"
	"oflo/internal/domain/catalogs/product"
)

// CompanyRequest creates or replaces a company.
type CompanyRequest struct {
	Name          string `json:"name" binding:"required"`
	GSTIN         string `json:"gstin"`
	Tagline       string `json:"tagline"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	InvoicePrefix string `json:"invoicePrefix"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode"`
	Terms         string `json:"terms"`
}

func (r CompanyRequest) ToEntity() *company.Company {
	c := &company.Company{}
	r.ApplyTo(c)
	return c
}

func (r CompanyRequest) ApplyTo(c *company.Company) {
	c.Name = r.Name
	c.GSTIN = r.GSTIN
	c.Tagline = r.Tagline
	c.Address = r.Address
	c.Phone = r.Phone
	c.Email = r.Email
	c.InvoicePrefix = r.InvoicePrefix
	c.BankName = r.BankName
	c.AccountNumber = r.AccountNumber
	c.IFSCCode = r.IFSCCode
	c.Terms = r.Terms
}

// CustomerRequest creates or replaces a customer.
type CustomerRequest struct {
	Name            string `json:"name" binding:"required"`
	GSTIN           string `json:"gstin"`
	Address         string `json:"address"`
	DeliveryAddress string `json:"deliveryAddress"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	PlaceOfSupply   string `json:"placeOfSupply"`
}

func (r CustomerRequest) ToEntity() *customer.Customer {
	c := &customer.Customer{}
	r.ApplyTo(c)
	return c
}

func (r CustomerRequest) ApplyTo(c *customer.Customer) {
	c.Name = r.Name
	c.GSTIN = r.GSTIN
	c.Address = r.Address
	c.DeliveryAddress = r.DeliveryAddress
	c.Phone = r.Phone
	c.Email = r.Email
	c.PlaceOfSupply = r.PlaceOfSupply
}

// ProductRequest creates or replaces a product.
type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	HSN         string          `json:"hsn"`
	UnitPrice   types.Money     `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
}

func (r ProductRequest) ToEntity() *product.Product {
	p := &product.Product{}
	r.ApplyTo(p)
	return p
}

func (r ProductRequest) ApplyTo(p *product.Product) {
	p.Name = r.Name
	p.SKU = r.SKU
	p.Description = r.Description
	p.HSN = r.HSN
	p.UnitPrice = r.UnitPrice
	p.TaxRate = r.TaxRate
}
