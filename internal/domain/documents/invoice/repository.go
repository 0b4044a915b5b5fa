package invoice

import (
	"context"
	"time"

	"oflo/internal/core/id"
	"oflo/internal/core/types"
	"oflo/internal/domain"
)

// Repository persists invoices and their versions.
//
// Versions are append-only: there is no update or delete for a single
// version. The only mutation of an Invoice after insert is UpdateHead.
type Repository interface {
	// CreateInvoice inserts the pointer record and sets its ID.
	CreateInvoice(ctx context.Context, inv *Invoice) error

	// GetInvoice retrieves invoice by ID.
	GetInvoice(ctx context.Context, invoiceID id.ID) (*Invoice, error)

	// GetInvoiceForUpdate retrieves invoice with a row lock held until the transaction ends.
	GetInvoiceForUpdate(ctx context.Context, invoiceID id.ID) (*Invoice, error)

	// UpdateHead repoints the invoice at versionID and refreshes cached columns.
	UpdateHead(ctx context.Context, invoiceID id.ID, head Head) error

	// DeleteInvoice removes the invoice and all of its versions.
	DeleteInvoice(ctx context.Context, invoiceID id.ID) error

	// ListInvoices retrieves invoices with filtering and pagination.
	ListInvoices(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Invoice], error)

	// InsertVersion appends a version and sets its ID.
	InsertVersion(ctx context.Context, v *Version) error

	// GetVersion retrieves a single version by its own ID.
	GetVersion(ctx context.Context, versionID id.ID) (*Version, error)

	// ListVersions returns all versions of an invoice ordered by version number.
	ListVersions(ctx context.Context, invoiceID id.ID) ([]*Version, error)

	// LatestVersionNumber returns the highest version number, 0 when none exist.
	LatestVersionNumber(ctx context.Context, invoiceID id.ID) (int, error)

	// LockInvoicePrefix serialises number assignment for prefix until the transaction ends.
	LockInvoicePrefix(ctx context.Context, prefix string) error

	// InvoiceNumbersWithPrefix returns every stored number starting with "<prefix>-".
	InvoiceNumbersWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// Head is the set of Invoice columns refreshed when a version is appended.
type Head struct {
	CurrentVersionID id.ID
	Date             time.Time
	VehicleNumber    string
	GrandTotal       types.Money
	Status           Status
}

// HeadOf returns the head columns for v.
func HeadOf(v *Version) Head {
	return Head{
		CurrentVersionID: v.ID,
		Date:             v.Date,
		VehicleNumber:    v.VehicleNumber,
		GrandTotal:       v.GrandTotal,
		Status:           v.Status,
	}
}
