package invoice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oflo/internal/domain/documents/invoice"
)

func TestUpgrader_Run(t *testing.T) {
	f := newFixture(t)

	legacy := &invoice.Invoice{InvoiceNumber: "OLD-001", CompanyID: f.seller.ID, CustomerID: f.buyer.ID}
	require.NoError(t, f.repo.CreateInvoice(f.ctx, legacy))

	items := f.draft("4").Items
	invoice.PriceItems(items)
	withItems := &invoice.Version{InvoiceID: legacy.ID, Version: 1, Items: items}
	require.NoError(t, f.repo.PutLegacyVersion(f.ctx, withItems))
	empty := &invoice.Version{InvoiceID: legacy.ID, Version: 2, Status: invoice.StatusDraft}
	require.NoError(t, f.repo.PutLegacyVersion(f.ctx, empty))

	current, err := f.svc.Create(f.ctx, f.draft("1"))
	require.NoError(t, err)

	u := invoice.NewUpgrader(f.repo, f.store)

	report, err := u.Run(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.SummariesBuilt, "versions without items stay without a summary")
	assert.EqualValues(t, 2, report.StatusesChanged, "legacy invoice and its first version")

	v, err := f.repo.GetVersion(f.ctx, withItems.ID)
	require.NoError(t, err)
	require.NotNil(t, v.SummaryItem)
	assert.True(t, v.SummaryItem.Quantity.Equal(dec("4")))
	assert.Equal(t, invoice.StatusFinal, v.Status)

	v, err = f.repo.GetVersion(f.ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusDraft, v.Status, "valid statuses are kept")

	inv, err := f.repo.GetInvoice(f.ctx, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusFinal, inv.Status)

	untouched, err := f.repo.GetVersion(f.ctx, current.Current.ID)
	require.NoError(t, err)
	assert.Equal(t, current.Current.SummaryItem, untouched.SummaryItem)

	again, err := u.Run(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, again.SummariesBuilt)
	assert.Zero(t, again.StatusesChanged)
}
