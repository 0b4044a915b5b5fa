package catalog_repo

import (
	"oflo/internal/domain/catalogs/company"
	"oflo/internal/infrastructure/storage/columns"
	"oflo/internal/infrastructure/storage/postgres"
)

const companyTable = "companies"

// CompanyRepo implements company.Repository.
type CompanyRepo struct {
	*BaseCatalogRepo[*company.Company]
}

var _ company.Repository = (*CompanyRepo)(nil)

// NewCompanyRepo creates a new company repository.
func NewCompanyRepo(txm *postgres.TxManager) *CompanyRepo {
	return &CompanyRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			companyTable,
			"company",
			columns.Extract[company.Company](),
			[]string{"name", "gstin", "email"},
			func() *company.Company { return &company.Company{} },
		),
	}
}
