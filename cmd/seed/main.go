// Package main seeds a store with a demo company, its customers and products,
// and one priced invoice.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"oflo/internal/app"
	"oflo/internal/config"
	"oflo/internal/domain"
	"oflo/internal/domain/catalogs/company"
	"oflo/internal/domain/catalogs/customer"
	"oflo/internal/domain/catalogs/product"
	"oflo/internal/domain/documents/invoice"
	"oflo/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	log = log.WithComponent("seed")
	logger.SetDefault(log)

	ctx := context.Background()

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer a.Close()

	existing, err := a.Companies.List(ctx, domain.ListFilter{Limit: 1})
	if err != nil {
		log.Fatalw("failed to list companies", "error", err)
	}
	if existing.TotalCount > 0 && os.Getenv("SEED_FORCE") != "true" {
		log.Infow("store already has companies, skipping seed", "companies", existing.TotalCount)
		return
	}

	if err := seed(ctx, a); err != nil {
		log.Fatalw("seed failed", "error", err)
	}
	log.Info("seed completed")
}

func seed(ctx context.Context, a *app.App) error {
	seller := &company.Company{
		Name:          "Shree Traders",
		GSTIN:         "27AAPFU0939F1ZV",
		Tagline:       "Wholesale grain merchants",
		Address:       "12 Market Yard, Pune, Maharashtra 411037",
		Phone:         "+91 20 2426 0000",
		Email:         "accounts@shreetraders.example",
		InvoicePrefix: "ST",
		BankName:      "State Bank of India",
		AccountNumber: "00000012345678901",
		IFSCCode:      "SBIN0000001",
		Terms:         "Goods once sold will not be taken back.\nInterest at 18% p.a. on overdue bills.\nSubject to Pune jurisdiction.",
	}
	if err := a.Companies.Create(ctx, seller); err != nil {
		return fmt.Errorf("company: %w", err)
	}
	logger.Info(ctx, "seeded company", "id", seller.ID, "name", seller.Name)

	local := &customer.Customer{
		Name:          "Mahalaxmi Stores",
		GSTIN:         "27AAACM1234A1Z5",
		Address:       "45 Laxmi Road, Pune, Maharashtra 411030",
		Phone:         "+91 98220 00000",
		PlaceOfSupply: "27",
	}
	remote := &customer.Customer{
		Name:            "Prakash Agro Foods",
		GSTIN:           "29AAACP1234A1Z5",
		Address:         "8 APMC Yard, Yeshwanthpur, Bengaluru 560022",
		DeliveryAddress: "Godown 3, Dasanapura, Bengaluru 562123",
		PlaceOfSupply:   "29",
	}
	for _, c := range []*customer.Customer{local, remote} {
		if err := a.Customers.Create(ctx, c); err != nil {
			return fmt.Errorf("customer %s: %w", c.Name, err)
		}
	}
	logger.Info(ctx, "seeded customers", "count", 2)

	products := []*product.Product{
		{Name: "Wheat (Sharbati)", SKU: "WHT-SH", HSN: "1001", UnitPrice: decimal.NewFromInt(3200), TaxRate: decimal.Zero},
		{Name: "Basmati Rice", SKU: "RIC-BS", HSN: "1006", UnitPrice: decimal.NewFromInt(8500), TaxRate: decimal.NewFromInt(5)},
		{Name: "Toor Dal", SKU: "DAL-TR", HSN: "0713", UnitPrice: decimal.NewFromInt(11000), TaxRate: decimal.NewFromInt(5)},
	}
	for _, p := range products {
		if err := a.Products.Create(ctx, p); err != nil {
			return fmt.Errorf("product %s: %w", p.Name, err)
		}
	}
	logger.Info(ctx, "seeded products", "count", len(products))

	items := []invoice.Item{
		line(products[1], 20, decimal.NewFromFloat(12.5)),
		line(products[2], 10, decimal.NewFromInt(5)),
	}
	taxType := invoice.DetermineTaxType(seller.GSTIN, remote.GSTIN, remote.PlaceOfSupply)

	detail, err := a.Invoices.Create(ctx, invoice.Draft{
		Company:       seller,
		Customer:      remote,
		Date:          time.Now().UTC().Truncate(24 * time.Hour),
		VehicleNumber: "MH12AB1234",
		Items:         items,
		Financials:    invoice.Calculate(items, taxType),
	})
	if err != nil {
		return fmt.Errorf("invoice: %w", err)
	}
	logger.Info(ctx, "seeded invoice",
		"invoice_number", detail.Invoice.InvoiceNumber,
		"grand_total", detail.Current.GrandTotal.StringFixed(2),
		"tax_type", taxType)
	return nil
}

func line(p *product.Product, bags int64, quintals decimal.Decimal) invoice.Item {
	return invoice.Item{
		ProductID:    p.ID,
		Name:         p.Name,
		HSN:          p.HSN,
		NumberOfBags: decimal.NewFromInt(bags),
		Quantity:     quintals,
		UnitPrice:    p.UnitPrice,
		TaxRate:      p.TaxRate,
	}
}
