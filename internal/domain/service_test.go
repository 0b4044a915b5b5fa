package domain_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oflo/internal/core/apperror"
	"oflo/internal/domain"
	"oflo/internal/domain/catalogs/company"
	"oflo/internal/domain/catalogs/product"
	"oflo/internal/infrastructure/storage/memory"
	"oflo/pkg/logger"
)

func testCtx(t *testing.T) context.Context {
	return logger.WithLogger(context.Background(), logger.NewForTest(t))
}

func TestCatalogService_CreateNormalizes(t *testing.T) {
	ctx := testCtx(t)
	store := memory.New()
	svc := company.NewService(store.Companies(), store)

	c := &company.Company{
		Name:          "  Shree Traders ",
		GSTIN:         "27aapfu0939f1zv",
		InvoicePrefix: " ST ",
		IFSCCode:      "sbin0000001",
	}
	require.NoError(t, svc.Create(ctx, c))
	assert.NotZero(t, c.ID)

	got, err := svc.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shree Traders", got.Name)
	assert.Equal(t, "27AAPFU0939F1ZV", got.GSTIN)
	assert.Equal(t, "ST", got.InvoicePrefix)
	assert.Equal(t, "SBIN0000001", got.IFSCCode)
}

func TestCatalogService_Validation(t *testing.T) {
	ctx := testCtx(t)
	store := memory.New()
	svc := product.NewService(store.Products(), store)

	err := svc.Create(ctx, &product.Product{Name: "Rice", HSN: "1006", TaxRate: decimal.NewFromInt(120)})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "taxRate", appErr.Details["field"])

	list, err := svc.List(ctx, domain.DefaultListFilter())
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
}

func TestCatalogService_UpdateAndDelete(t *testing.T) {
	ctx := testCtx(t)
	store := memory.New()
	svc := product.NewService(store.Products(), store)

	p := &product.Product{Name: "Rice", HSN: "1006", UnitPrice: decimal.NewFromInt(80), TaxRate: decimal.NewFromInt(5)}
	require.NoError(t, svc.Create(ctx, p))

	p.UnitPrice = decimal.NewFromInt(85)
	require.NoError(t, svc.Update(ctx, p))
	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.UnitPrice.Equal(decimal.NewFromInt(85)))

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.GetByID(ctx, p.ID)
	assert.True(t, apperror.IsNotFound(err))

	err = svc.Delete(ctx, p.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCatalogService_UpdateMissing(t *testing.T) {
	ctx := testCtx(t)
	store := memory.New()
	svc := company.NewService(store.Companies(), store)

	c := &company.Company{Name: "Ghost"}
	c.ID = 42
	err := svc.Update(ctx, c)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
