package catalog_repo

import (
	"oflo/internal/domain/catalogs/customer"
	"oflo/internal/infrastructure/storage/columns"
	"oflo/internal/infrastructure/storage/postgres"
)

const customerTable = "customers"

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

var _ customer.Repository = (*CustomerRepo)(nil)

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txm *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			customerTable,
			"customer",
			columns.Extract[customer.Customer](),
			[]string{"name", "gstin", "phone"},
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}
