package invoice_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oflo/internal/core/apperror"
	corenumerator "oflo/internal/core/numerator"
	"oflo/internal/domain"
	"oflo/internal/domain/catalogs/company"
	"oflo/internal/domain/catalogs/customer"
	"oflo/internal/domain/documents/invoice"
	"oflo/internal/infrastructure/numerator"
	"oflo/internal/infrastructure/storage/memory"
	"oflo/pkg/logger"
)

type fixture struct {
	store  *memory.Store
	repo   *memory.InvoiceRepo
	svc    *invoice.Service
	seller *company.Company
	buyer  *customer.Customer
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := logger.WithLogger(context.Background(), logger.NewForTest(t))

	store := memory.New()
	repo := store.Invoices()

	seller := &company.Company{Name: "Shree Traders", GSTIN: "27AAPFU0939F1ZV", InvoicePrefix: "ST"}
	require.NoError(t, store.Companies().Create(ctx, seller))
	buyer := &customer.Customer{Name: "Mehta & Sons", GSTIN: "27AAACM1234A1Z5"}
	require.NoError(t, store.Customers().Create(ctx, buyer))

	return &fixture{
		store:  store,
		repo:   repo,
		svc:    invoice.NewService(repo, store.Companies(), numerator.New(repo), store),
		seller: seller,
		buyer:  buyer,
		ctx:    ctx,
	}
}

func (f *fixture) draft(qty string) invoice.Draft {
	items := []invoice.Item{{
		Name:         "Cotton bales",
		HSN:          "5201",
		NumberOfBags: decimal.NewFromInt(10),
		Quantity:     decimal.RequireFromString(qty),
		UnitPrice:    decimal.NewFromInt(100),
		TaxRate:      decimal.NewFromInt(5),
	}}
	return invoice.Draft{
		Company:       f.seller,
		Customer:      f.buyer,
		Date:          time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		VehicleNumber: "MH12AB1234",
		Items:         items,
		Financials:    invoice.Calculate(items, invoice.TaxCGSTSGST),
	}
}

func TestService_Create(t *testing.T) {
	f := newFixture(t)

	d, err := f.svc.Create(f.ctx, f.draft("10"))
	require.NoError(t, err)

	assert.Equal(t, "ST-001", d.Invoice.InvoiceNumber)
	assert.Equal(t, 1, d.Current.Version)
	assert.Equal(t, "ST-001", d.Current.ReferenceNumber)
	assert.Equal(t, invoice.StatusFinal, d.Current.Status)
	require.NotNil(t, d.Invoice.CurrentVersionID)
	assert.Equal(t, d.Current.ID, *d.Invoice.CurrentVersionID)
	require.NotNil(t, d.Current.SummaryItem, "summary row is derived when not given")
	assert.True(t, d.Current.GrandTotal.Equal(decimal.NewFromInt(1050)))

	second, err := f.svc.Create(f.ctx, f.draft("1"))
	require.NoError(t, err)
	assert.Equal(t, "ST-002", second.Invoice.InvoiceNumber)
}

func TestService_Create_RejectsEmptyItems(t *testing.T) {
	f := newFixture(t)
	d := f.draft("1")
	d.Items = nil

	_, err := f.svc.Create(f.ctx, d)
	require.Error(t, err)
	assert.True(t, apperror.IsAppError(err))

	list, err := f.svc.List(f.ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
}

func TestService_Create_IsAtomic(t *testing.T) {
	f := newFixture(t)
	f.repo.FailInsertVersion = errors.New("disk full")

	_, err := f.svc.Create(f.ctx, f.draft("1"))
	require.Error(t, err)

	list, err := f.svc.List(f.ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount, "invoice row must be rolled back with the version")

	f.repo.FailInsertVersion = nil
	d, err := f.svc.Create(f.ctx, f.draft("1"))
	require.NoError(t, err)
	assert.Equal(t, "ST-001", d.Invoice.InvoiceNumber, "failed attempt must not consume a number")
}

func TestService_Create_NumberingFails(t *testing.T) {
	f := newFixture(t)
	gen := &corenumerator.MockGenerator{
		NextNumberFunc: func(ctx context.Context, prefix string) (string, error) {
			return "", errors.New("sequence unavailable")
		},
	}
	svc := invoice.NewService(f.repo, f.store.Companies(), gen, f.store)

	_, err := svc.Create(f.ctx, f.draft("1"))
	require.Error(t, err)

	list, err := f.svc.List(f.ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
}

func TestService_Create_DuplicateNumber(t *testing.T) {
	f := newFixture(t)
	svc := invoice.NewService(f.repo, f.store.Companies(), &corenumerator.MockGenerator{}, f.store)

	d, err := svc.Create(f.ctx, f.draft("1"))
	require.NoError(t, err)
	assert.Equal(t, "ST-001", d.Invoice.InvoiceNumber)

	_, err = svc.Create(f.ctx, f.draft("1"))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestService_Create_Concurrent(t *testing.T) {
	f := newFixture(t)

	const n = 20
	numbers := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := f.svc.Create(f.ctx, f.draft("1"))
			if assert.NoError(t, err) {
				numbers <- d.Invoice.InvoiceNumber
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for num := range numbers {
		assert.False(t, seen[num], "duplicate number %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
	assert.True(t, seen["ST-020"])
}

func TestService_Create_BlankPrefixUsesDefault(t *testing.T) {
	f := newFixture(t)
	f.seller.InvoicePrefix = "  "

	d, err := f.svc.Create(f.ctx, f.draft("1"))
	require.NoError(t, err)
	assert.Equal(t, "INV-001", d.Invoice.InvoiceNumber)
}

func TestService_Revise(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(f.ctx, f.draft("10"))
	require.NoError(t, err)
	invID := created.Invoice.ID

	var last *invoice.Detail
	for i := 0; i < 3; i++ {
		in := invoice.ReviseInput{Draft: f.draft("20")}
		last, err = f.svc.Revise(f.ctx, invID, in)
		require.NoError(t, err)
	}

	assert.Equal(t, 4, last.Current.Version)
	assert.Equal(t, "ST-001-R3", last.Current.ReferenceNumber)
	assert.Equal(t, "ST-001", last.Invoice.InvoiceNumber, "number never changes")

	got, err := f.svc.Get(f.ctx, invID)
	require.NoError(t, err)
	assert.Equal(t, last.Current.ID, got.Current.ID)
	assert.True(t, got.Invoice.GrandTotal.Equal(decimal.NewFromInt(2100)))

	versions, err := f.svc.ListVersions(f.ctx, invID)
	require.NoError(t, err)
	require.Len(t, versions, 4)
	for i, v := range versions {
		assert.Equal(t, i+1, v.Version)
	}
	assert.True(t, versions[0].GrandTotal.Equal(decimal.NewFromInt(1050)), "first version is untouched")
	assert.Equal(t, "ST-001", versions[0].ReferenceNumber)
	assert.Equal(t, "ST-001-R1", versions[1].ReferenceNumber)

	old, err := f.svc.GetVersion(f.ctx, versions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, old.Current.Version)
	assert.Equal(t, invID, old.Invoice.ID)
}

func TestService_Revise_StaleBaseVersion(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(f.ctx, f.draft("10"))
	require.NoError(t, err)

	_, err = f.svc.Revise(f.ctx, created.Invoice.ID, invoice.ReviseInput{Draft: f.draft("2"), BaseVersion: 1})
	require.NoError(t, err)

	_, err = f.svc.Revise(f.ctx, created.Invoice.ID, invoice.ReviseInput{Draft: f.draft("3"), BaseVersion: 1})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeVersionConflict, appErr.Code)

	versions, err := f.svc.ListVersions(f.ctx, created.Invoice.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestService_Revise_CannotChangeParties(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(f.ctx, f.draft("10"))
	require.NoError(t, err)

	other := &customer.Customer{Name: "Other", GSTIN: "29AAACO1234A1Z5"}
	require.NoError(t, f.store.Customers().Create(f.ctx, other))

	d := f.draft("1")
	d.Customer = other
	_, err = f.svc.Revise(f.ctx, created.Invoice.ID, invoice.ReviseInput{Draft: d})
	require.Error(t, err)
	assert.True(t, apperror.IsAppError(err))
}

func TestService_Revise_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Revise(f.ctx, 999, invoice.ReviseInput{Draft: f.draft("1")})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_SnapshotIsolation(t *testing.T) {
	f := newFixture(t)
	d := f.draft("10")
	created, err := f.svc.Create(f.ctx, d)
	require.NoError(t, err)

	f.seller.Name = "Renamed Traders"
	f.seller.Address = "New address"
	require.NoError(t, f.store.Companies().Update(f.ctx, f.seller))
	f.buyer.Name = "Renamed Buyer"
	d.Items[0].Name = "Mutated"

	got, err := f.svc.Get(f.ctx, created.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shree Traders", got.Current.Seller.Name)
	assert.Equal(t, "Mehta & Sons", got.Current.Buyer.Name)
	assert.Equal(t, "Cotton bales", got.Current.Items[0].Name)

	got.Current.Items[0].Name = "Mutated via read"
	again, err := f.svc.Get(f.ctx, created.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cotton bales", again.Current.Items[0].Name)
}

func TestService_NextInvoiceNumber(t *testing.T) {
	f := newFixture(t)

	num, err := f.svc.NextInvoiceNumber(f.ctx, f.seller.ID)
	require.NoError(t, err)
	assert.Equal(t, "ST-001", num)

	_, err = f.svc.Create(f.ctx, f.draft("1"))
	require.NoError(t, err)

	num, err = f.svc.NextInvoiceNumber(f.ctx, f.seller.ID)
	require.NoError(t, err)
	assert.Equal(t, "ST-002", num)

	num, err = f.svc.NextInvoiceNumber(f.ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, "INV-001", num, "unknown company falls back to the default prefix")
}

func TestService_Delete(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(f.ctx, f.draft("1"))
	require.NoError(t, err)
	_, err = f.svc.Revise(f.ctx, created.Invoice.ID, invoice.ReviseInput{Draft: f.draft("2")})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.ctx, created.Invoice.ID))

	_, err = f.svc.Get(f.ctx, created.Invoice.ID)
	assert.True(t, apperror.IsNotFound(err))
	_, err = f.svc.GetVersion(f.ctx, *created.Invoice.CurrentVersionID)
	assert.True(t, apperror.IsNotFound(err), "versions are removed with the invoice")

	err = f.svc.Delete(f.ctx, created.Invoice.ID)
	assert.True(t, apperror.IsNotFound(err))

	require.NoError(t, f.store.Companies().Delete(f.ctx, f.seller.ID), "company is free once its invoices are gone")
}

func TestService_List(t *testing.T) {
	f := newFixture(t)
	for _, q := range []string{"1", "2", "3"} {
		_, err := f.svc.Create(f.ctx, f.draft(q))
		require.NoError(t, err)
	}

	res, err := f.svc.List(f.ctx, domain.ListFilter{Search: "st-002"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "ST-002", res.Items[0].InvoiceNumber)

	res, err = f.svc.List(f.ctx, domain.ListFilter{OrderBy: "-invoice_number", Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.TotalCount)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "ST-003", res.Items[0].InvoiceNumber)

	_, err = f.svc.List(f.ctx, domain.ListFilter{OrderBy: "secret"})
	assert.Error(t, err)
}

func TestReferenceNumber(t *testing.T) {
	assert.Equal(t, "INV-001", invoice.ReferenceNumber("INV-001", 1))
	assert.Equal(t, "INV-001", invoice.ReferenceNumber("INV-001", 0))
	assert.Equal(t, "INV-001-R1", invoice.ReferenceNumber("INV-001", 2))
	assert.Equal(t, "INV-001-R9", invoice.ReferenceNumber("INV-001", 10))
}
