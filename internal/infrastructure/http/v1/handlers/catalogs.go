package handlers

import (
	"oflo/internal/domain/catalogs/company"
	"oflo/internal/domain/catalogs/customer"
	"oflo/internal/domain/catalogs/product"
	"oflo/internal/infrastructure/http/v1/dto"
)

// NewCompanyHandler creates the handler for /catalog/companies.
func NewCompanyHandler(base *BaseHandler, svc *company.Service) *CatalogHandler[*company.Company, dto.CompanyRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*company.Company, dto.CompanyRequest]{
		Service:   svc.CatalogService,
		MapCreate: dto.CompanyRequest.ToEntity,
		MapUpdate: dto.CompanyRequest.ApplyTo,
	})
}

// NewCustomerHandler creates the handler for /catalog/customers.
func NewCustomerHandler(base *BaseHandler, svc *customer.Service) *CatalogHandler[*customer.Customer, dto.CustomerRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*customer.Customer, dto.CustomerRequest]{
		Service:   svc.CatalogService,
		MapCreate: dto.CustomerRequest.ToEntity,
		MapUpdate: dto.CustomerRequest.ApplyTo,
	})
}

// NewProductHandler creates the handler for /catalog/products.
func NewProductHandler(base *BaseHandler, svc *product.Service) *CatalogHandler[*product.Product, dto.ProductRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*product.Product, dto.ProductRequest]{
		Service:   svc.CatalogService,
		MapCreate: dto.ProductRequest.ToEntity,
		MapUpdate: dto.ProductRequest.ApplyTo,
	})
}
