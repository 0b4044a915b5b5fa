// Package app wires storage and domain services from configuration.
// cmd/server, cmd/migrate and cmd/seed share it.
package app

import (
	"context"
	"fmt"

	"oflo/internal/config"
	"oflo/internal/core/tx"
	"oflo/internal/domain/catalogs/company"
	"oflo/internal/domain/catalogs/customer"
	"oflo/internal/domain/catalogs/product"
	"oflo/internal/domain/documents/invoice"
	"oflo/internal/domain/settings"
	"oflo/internal/infrastructure/numerator"
	"oflo/internal/infrastructure/storage/memory"
	"oflo/internal/infrastructure/storage/postgres"
	"oflo/internal/infrastructure/storage/postgres/catalog_repo"
	"oflo/internal/infrastructure/storage/postgres/document_repo"
	"oflo/internal/infrastructure/storage/postgres/migrations"
	"oflo/internal/infrastructure/storage/postgres/settings_repo"
	"oflo/pkg/logger"
)

// Pinger reports storage reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App holds the services of one process.
type App struct {
	Companies *company.Service
	Customers *customer.Service
	Products  *product.Service
	Invoices  *invoice.Service
	Settings  *settings.Service
	Upgrader  *invoice.Upgrader

	// DB is nil for the memory driver.
	DB     Pinger
	Driver string

	closers []func()
}

type repos struct {
	companies company.Repository
	customers customer.Repository
	products  product.Repository
	invoices  interface {
		invoice.Repository
		invoice.UpgradeStore
		numerator.Store
	}
	settings settings.Repository
	fonts    settings.FontRepository
	txm      tx.Manager
}

// New opens storage for cfg.Storage.Driver and builds every service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Driver: cfg.Storage.Driver}

	var r repos
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store := memory.New()
		r = repos{
			companies: store.Companies(),
			customers: store.Customers(),
			products:  store.Products(),
			invoices:  store.Invoices(),
			settings:  store.Settings(),
			fonts:     store.Fonts(),
			txm:       store,
		}
		logger.Warn(ctx, "using in-memory storage, data is lost on exit")

	case config.DriverPostgres:
		if cfg.Storage.AutoMigrate {
			if err := Migrate(ctx, cfg.DB.DSN()); err != nil {
				return nil, err
			}
		}

		pool, err := postgres.NewPool(ctx, poolConfig(cfg))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { pool.Shutdown(context.WithoutCancel(ctx)) })
		a.DB = pool

		txm := postgres.NewTxManager(pool)
		fonts, err := settings_repo.NewFontRepo(txm)
		if err != nil {
			a.Close()
			return nil, err
		}
		r = repos{
			companies: catalog_repo.NewCompanyRepo(txm),
			customers: catalog_repo.NewCustomerRepo(txm),
			products:  catalog_repo.NewProductRepo(txm),
			invoices:  document_repo.NewInvoiceRepo(txm),
			settings:  settings_repo.NewSettingsRepo(txm),
			fonts:     fonts,
			txm:       txm,
		}

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	a.Companies = company.NewService(r.companies, r.txm)
	a.Customers = customer.NewService(r.customers, r.txm)
	a.Products = product.NewService(r.products, r.txm)
	a.Invoices = invoice.NewService(r.invoices, a.Companies, numerator.New(r.invoices), r.txm)
	a.Settings = settings.NewService(r.settings, r.fonts, r.txm)
	a.Upgrader = invoice.NewUpgrader(r.invoices, r.txm)

	return a, nil
}

// Migrate applies pending schema migrations.
func Migrate(ctx context.Context, dsn string) error {
	m, err := migrations.New(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	changed, err := m.Up()
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	version, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("migration version: %w", err)
	}
	logger.Info(ctx, "schema ready", "version", version, "changed", changed)
	return nil
}

func poolConfig(cfg *config.Config) postgres.PoolConfig {
	pc := postgres.DefaultPoolConfig(cfg.DB.DSN())
	if cfg.DB.MaxConns > 0 {
		pc.MaxConns = cfg.DB.MaxConns
	}
	if cfg.DB.MinConns > 0 {
		pc.MinConns = cfg.DB.MinConns
	}
	if cfg.DB.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.DB.MaxConnLifetime
	}
	return pc
}

// Close releases storage handles.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
