package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oflo/internal/config"
	"oflo/internal/domain/catalogs/company"
	"oflo/internal/domain/catalogs/customer"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		DB:      config.DBConfig{MaxConns: 4, MinConns: 1, MaxConnLifetime: time.Minute},
	}
}

func TestNew_Memory(t *testing.T) {
	ctx := context.Background()

	a, err := New(ctx, memoryConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, config.DriverMemory, a.Driver)
	assert.Nil(t, a.DB)

	seller := &company.Company{Name: "Shree Traders", GSTIN: "27AAPFU0939F1ZV", InvoicePrefix: "ST"}
	require.NoError(t, a.Companies.Create(ctx, seller))
	buyer := &customer.Customer{Name: "Mehta & Sons"}
	require.NoError(t, a.Customers.Create(ctx, buyer))

	next, err := a.Invoices.NextInvoiceNumber(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, "ST-001", next)

	report, err := a.Upgrader.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.SummariesBuilt)
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Driver = "sqlite"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestPoolConfig(t *testing.T) {
	pc := poolConfig(memoryConfig())
	assert.EqualValues(t, 4, pc.MaxConns)
	assert.EqualValues(t, 1, pc.MinConns)
	assert.Equal(t, time.Minute, pc.MaxConnLifetime)
}
