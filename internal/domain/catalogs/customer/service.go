package customer

import (
	"context"
	"strings"

	"oflo/internal/core/tx"
	"oflo/internal/domain"
	"oflo/pkg/gstin"
)

// Service provides business logic for the Customer catalog.
type Service struct {
	*domain.CatalogService[*Customer]
}

// NewService creates a new Customer service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "customer",
	})
	base.Hooks().OnBeforeSave(prepare)

	return &Service{CatalogService: base}
}

// prepare normalises identifiers and fills the place of supply from the GSTIN.
func prepare(ctx context.Context, c *Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	c.GSTIN = gstin.Normalize(c.GSTIN)
	c.PlaceOfSupply = strings.TrimSpace(c.PlaceOfSupply)
	if c.PlaceOfSupply == "" {
		c.PlaceOfSupply = gstin.StateCode(c.GSTIN)
	}
	return nil
}
