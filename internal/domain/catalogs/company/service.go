package company

import (
	"context"
	"strings"

	"oflo/internal/core/tx"
	"oflo/internal/domain"
	"oflo/pkg/gstin"
)

// Service provides business logic for the Company catalog.
type Service struct {
	*domain.CatalogService[*Company]
}

// NewService creates a new Company service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Company]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "company",
	})
	base.Hooks().OnBeforeSave(normalize)

	return &Service{CatalogService: base}
}

func normalize(ctx context.Context, c *Company) error {
	c.Name = strings.TrimSpace(c.Name)
	c.GSTIN = gstin.Normalize(c.GSTIN)
	c.InvoicePrefix = strings.TrimSpace(c.InvoicePrefix)
	c.IFSCCode = strings.ToUpper(strings.TrimSpace(c.IFSCCode))
	return nil
}
