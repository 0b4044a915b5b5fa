package catalog_repo

import (
	"oflo/internal/domain/catalogs/product"
	"oflo/internal/infrastructure/storage/columns"
	"oflo/internal/infrastructure/storage/postgres"
)

const productTable = "products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			productTable,
			"product",
			columns.Extract[product.Product](),
			[]string{"name", "sku", "hsn"},
			func() *product.Product { return &product.Product{} },
		),
	}
}
