package invoice

import (
	"context"
	"fmt"
	"time"

	"oflo/internal/core/apperror"
	"oflo/internal/core/entity"
	"oflo/internal/core/id"
	"oflo/internal/core/numerator"
	"oflo/internal/core/tx"
	"oflo/internal/domain"
	"oflo/internal/domain/catalogs/company"
	"oflo/internal/domain/catalogs/customer"
	"oflo/pkg/logger"
	pkgnumerator "oflo/pkg/numerator"
)

// CompanyReader resolves the seller for number previews.
type CompanyReader interface {
	GetByID(ctx context.Context, id id.ID) (*company.Company, error)
}

// Service provides invoice numbering and versioning.
type Service struct {
	repo      Repository
	companies CompanyReader
	numerator numerator.Generator
	txManager tx.Manager
	now       func() time.Time
}

// NewService creates a new invoice service.
func NewService(
	repo Repository,
	companies CompanyReader,
	numerator numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		companies: companies,
		numerator: numerator,
		txManager: txManager,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Draft is the content of one version as supplied by the caller.
// Financials are taken as given; see Calculate for deriving them.
type Draft struct {
	Company       *company.Company
	Customer      *customer.Customer
	Date          time.Time
	VehicleNumber string
	Items         []Item

	// SummaryItem defaults to BuildSummary(Items).
	SummaryItem *SummaryItem
	Financials  Financials

	// Status defaults to final.
	Status Status
}

// ReviseInput is a Draft plus an optional optimistic check.
type ReviseInput struct {
	Draft

	// BaseVersion, when non-zero, must equal the current version number.
	BaseVersion int
}

// ReferenceNumber is the human-facing id of one version:
// the invoice number for the first version, "<number>-R<n>" for the n-th revision.
func ReferenceNumber(invoiceNumber string, version int) string {
	if version <= 1 {
		return invoiceNumber
	}
	return fmt.Sprintf("%s-R%d", invoiceNumber, version-1)
}

// snapshot builds an unsaved version from d. Every reference in d is copied.
func (s *Service) snapshot(d Draft) *Version {
	status := d.Status
	if status == "" {
		status = StatusFinal
	}

	v := &Version{
		Date:          d.Date,
		VehicleNumber: d.VehicleNumber,
		Seller:        CloneCompany(d.Company),
		Buyer:         CloneCustomer(d.Customer),
		Items:         CloneItems(d.Items),
		SummaryItem:   CloneSummary(d.SummaryItem),
		Financials:    d.Financials,
		Status:        status,
	}
	if v.SummaryItem == nil {
		v.SummaryItem = BuildSummary(v.Items)
	}
	return v
}

// NextInvoiceNumber previews the number the next invoice of companyID would get.
// An unknown company falls back to the default prefix.
func (s *Service) NextInvoiceNumber(ctx context.Context, companyID id.ID) (string, error) {
	prefix := pkgnumerator.DefaultPrefix

	c, err := s.companies.GetByID(ctx, companyID)
	switch {
	case err == nil:
		prefix = pkgnumerator.ResolvePrefix(c.InvoicePrefix)
	case apperror.IsNotFound(err):
		logger.Debug(ctx, "company not found, using default prefix", "company_id", companyID)
	default:
		return "", err
	}

	return s.numerator.Peek(ctx, prefix)
}

// Create assigns the next number, stores the invoice and its first version,
// and points the invoice at that version, all in one transaction.
func (s *Service) Create(ctx context.Context, d Draft) (*Detail, error) {
	v := s.snapshot(d)
	v.Version = 1
	if err := v.Validate(ctx); err != nil {
		return nil, err
	}

	prefix := pkgnumerator.ResolvePrefix(v.Seller.InvoicePrefix)
	var inv *Invoice

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.NextNumber(ctx, prefix)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}

		inv = &Invoice{
			BaseEntity:    entity.NewBaseEntity(),
			InvoiceNumber: number,
			CompanyID:     v.Seller.ID,
			CustomerID:    v.Buyer.ID,
			Date:          v.Date,
			VehicleNumber: v.VehicleNumber,
			GrandTotal:    v.GrandTotal,
			Status:        v.Status,
		}
		if err := s.repo.CreateInvoice(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		v.InvoiceID = inv.ID
		v.ReferenceNumber = ReferenceNumber(number, v.Version)
		v.CreatedAt = s.now()
		if err := s.repo.InsertVersion(ctx, v); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}

		if err := s.repo.UpdateHead(ctx, inv.ID, HeadOf(v)); err != nil {
			return fmt.Errorf("set current version: %w", err)
		}
		inv.CurrentVersionID = idPtr(v.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice created",
		"id", inv.ID,
		"number", inv.InvoiceNumber,
		"version_id", v.ID,
		"grand_total", v.GrandTotal.String())

	return &Detail{Invoice: inv, Current: v.Clone()}, nil
}

// Revise appends version N+1 to an existing invoice and repoints it.
// Company and customer cannot change: the number belongs to the seller's
// sequence and the invoice row records the buyer.
func (s *Service) Revise(ctx context.Context, invoiceID id.ID, in ReviseInput) (*Detail, error) {
	v := s.snapshot(in.Draft)
	if err := v.Validate(ctx); err != nil {
		return nil, err
	}

	var inv *Invoice
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.repo.GetInvoiceForUpdate(ctx, invoiceID)
		if err != nil {
			return s.normalizeGetErr(err, "invoice", invoiceID)
		}
		if inv.CompanyID != v.Seller.ID {
			return apperror.NewValidation("an invoice cannot move to another company").
				WithDetail("field", "companyId")
		}
		if inv.CustomerID != v.Buyer.ID {
			return apperror.NewValidation("an invoice cannot move to another customer").
				WithDetail("field", "customerId")
		}

		latest, err := s.repo.LatestVersionNumber(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("latest version: %w", err)
		}
		if in.BaseVersion != 0 && in.BaseVersion != latest {
			return apperror.NewVersionConflict(invoiceID, in.BaseVersion, latest)
		}

		v.InvoiceID = inv.ID
		v.Version = latest + 1
		v.ReferenceNumber = ReferenceNumber(inv.InvoiceNumber, v.Version)
		v.CreatedAt = s.now()
		if err := s.repo.InsertVersion(ctx, v); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}

		if err := s.repo.UpdateHead(ctx, inv.ID, HeadOf(v)); err != nil {
			return fmt.Errorf("set current version: %w", err)
		}
		inv.CurrentVersionID = idPtr(v.ID)
		inv.Date = v.Date
		inv.VehicleNumber = v.VehicleNumber
		inv.GrandTotal = v.GrandTotal
		inv.Status = v.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice revised",
		"id", inv.ID,
		"number", inv.InvoiceNumber,
		"version", v.Version,
		"reference", v.ReferenceNumber)

	return &Detail{Invoice: inv, Current: v.Clone()}, nil
}

// Get returns the invoice with its current version.
func (s *Service) Get(ctx context.Context, invoiceID id.ID) (*Detail, error) {
	var d *Detail
	err := tx.ReadOnly(ctx, s.txManager, func(ctx context.Context) error {
		inv, err := s.repo.GetInvoice(ctx, invoiceID)
		if err != nil {
			return s.normalizeGetErr(err, "invoice", invoiceID)
		}
		if inv.CurrentVersionID == nil {
			return apperror.NewInternal(fmt.Errorf("invoice %d has no current version", invoiceID))
		}

		v, err := s.repo.GetVersion(ctx, *inv.CurrentVersionID)
		if err != nil {
			return s.normalizeGetErr(err, "invoice version", *inv.CurrentVersionID)
		}
		d = &Detail{Invoice: inv, Current: v}
		return nil
	})
	return d, err
}

// GetVersion returns one version by its own ID together with its invoice.
func (s *Service) GetVersion(ctx context.Context, versionID id.ID) (*Detail, error) {
	var d *Detail
	err := tx.ReadOnly(ctx, s.txManager, func(ctx context.Context) error {
		v, err := s.repo.GetVersion(ctx, versionID)
		if err != nil {
			return s.normalizeGetErr(err, "invoice version", versionID)
		}
		inv, err := s.repo.GetInvoice(ctx, v.InvoiceID)
		if err != nil {
			return s.normalizeGetErr(err, "invoice", v.InvoiceID)
		}
		d = &Detail{Invoice: inv, Current: v}
		return nil
	})
	return d, err
}

// ListVersions returns the full history of an invoice, oldest first.
func (s *Service) ListVersions(ctx context.Context, invoiceID id.ID) ([]*Version, error) {
	if _, err := s.repo.GetInvoice(ctx, invoiceID); err != nil {
		return nil, s.normalizeGetErr(err, "invoice", invoiceID)
	}
	return s.repo.ListVersions(ctx, invoiceID)
}

// List retrieves invoices with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.ListInvoices(ctx, filter)
}

// Delete removes the invoice and its whole history.
func (s *Service) Delete(ctx context.Context, invoiceID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteInvoice(ctx, invoiceID); err != nil {
			return s.normalizeGetErr(err, "invoice", invoiceID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "invoice deleted", "id", invoiceID)
	return nil
}

func (s *Service) normalizeGetErr(err error, entityName string, entityID id.ID) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(entityName, entityID)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return fmt.Errorf("get %s %d: %w", entityName, entityID, err)
}
