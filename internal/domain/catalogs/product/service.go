package product

import (
	"context"
	"strings"

	"oflo/internal/core/tx"
	"oflo/internal/domain"
)

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[*Product]
}

// NewService creates a new Product service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})
	base.Hooks().OnBeforeSave(func(ctx context.Context, p *Product) error {
		p.Name = strings.TrimSpace(p.Name)
		p.HSN = strings.TrimSpace(p.HSN)
		p.SKU = strings.TrimSpace(p.SKU)
		return nil
	})

	return &Service{CatalogService: base}
}
