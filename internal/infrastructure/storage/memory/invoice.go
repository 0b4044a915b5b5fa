package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"oflo/internal/core/apperror"
	"oflo/internal/core/id"
	"oflo/internal/domain"
	"oflo/internal/domain/documents/invoice"
	"oflo/internal/infrastructure/storage/columns"
)

var (
	_ invoice.Repository   = (*InvoiceRepo)(nil)
	_ invoice.UpgradeStore = (*InvoiceRepo)(nil)
)

var invoiceListSpec = listSpec[*invoice.Invoice]{
	allowed: columns.NewSet(columns.Extract[invoice.Invoice]()...),
	search:  []string{"invoice_number", "vehicle_number"},
	order:   columns.Order{Field: "date", Desc: true},
	row:     func(v *invoice.Invoice) map[string]any { return columns.ToMap(v) },
}

// InvoiceRepo stores invoices and their versions.
type InvoiceRepo struct {
	store *Store

	// FailInsertVersion, when set, is returned by InsertVersion. Tests use it
	// to break a unit of work half way.
	FailInsertVersion error
}

func (r *InvoiceRepo) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	return r.store.do(ctx, func(st *state) error {
		for _, other := range st.invoices {
			if other.InvoiceNumber == inv.InvoiceNumber {
				return apperror.NewDuplicate("invoice", "invoice_number", inv.InvoiceNumber)
			}
		}
		inv.ID = st.nextID()
		inv.Stamp()
		st.invoices[inv.ID] = inv.Clone()
		return nil
	})
}

func (r *InvoiceRepo) GetInvoice(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	var out *invoice.Invoice
	err := r.store.do(ctx, func(st *state) error {
		inv, ok := st.invoices[invoiceID]
		if !ok {
			return apperror.NewNotFound("invoice", invoiceID)
		}
		out = inv.Clone()
		return nil
	})
	return out, err
}

// GetInvoiceForUpdate is GetInvoice: holding the store lock already excludes writers.
func (r *InvoiceRepo) GetInvoiceForUpdate(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	return r.GetInvoice(ctx, invoiceID)
}

func (r *InvoiceRepo) UpdateHead(ctx context.Context, invoiceID id.ID, head invoice.Head) error {
	return r.store.do(ctx, func(st *state) error {
		inv, ok := st.invoices[invoiceID]
		if !ok {
			return apperror.NewNotFound("invoice", invoiceID)
		}
		v, ok := st.versions[head.CurrentVersionID]
		if !ok || v.InvoiceID != invoiceID {
			return apperror.NewConflict("current version does not belong to invoice").
				WithDetail("invoice_id", invoiceID).
				WithDetail("version_id", head.CurrentVersionID)
		}
		vid := head.CurrentVersionID
		inv.CurrentVersionID = &vid
		inv.Date = head.Date
		inv.VehicleNumber = head.VehicleNumber
		inv.GrandTotal = head.GrandTotal
		inv.Status = head.Status
		inv.Touch()
		return nil
	})
}

func (r *InvoiceRepo) DeleteInvoice(ctx context.Context, invoiceID id.ID) error {
	return r.store.do(ctx, func(st *state) error {
		if _, ok := st.invoices[invoiceID]; !ok {
			return apperror.NewNotFound("invoice", invoiceID)
		}
		for vid, v := range st.versions {
			if v.InvoiceID == invoiceID {
				delete(st.versions, vid)
			}
		}
		delete(st.invoices, invoiceID)
		return nil
	})
}

func (r *InvoiceRepo) ListInvoices(ctx context.Context, f domain.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	var result domain.ListResult[*invoice.Invoice]
	err := r.store.do(ctx, func(st *state) error {
		rows := make([]*invoice.Invoice, 0, len(st.invoices))
		for _, inv := range st.invoices {
			rows = append(rows, inv.Clone())
		}
		var err error
		result, err = list(rows, f, invoiceListSpec)
		return err
	})
	return result, err
}

func (r *InvoiceRepo) InsertVersion(ctx context.Context, v *invoice.Version) error {
	if r.FailInsertVersion != nil {
		return r.FailInsertVersion
	}
	return r.store.do(ctx, func(st *state) error {
		if _, ok := st.invoices[v.InvoiceID]; !ok {
			return apperror.NewNotFound("invoice", v.InvoiceID)
		}
		for _, other := range st.versions {
			if other.InvoiceID == v.InvoiceID && other.Version == v.Version {
				return apperror.NewVersionConflict(v.InvoiceID, v.Version, other.Version)
			}
		}
		v.ID = st.nextID()
		if v.CreatedAt.IsZero() {
			v.CreatedAt = time.Now().UTC()
		}
		st.versions[v.ID] = v.Clone()
		return nil
	})
}

func (r *InvoiceRepo) GetVersion(ctx context.Context, versionID id.ID) (*invoice.Version, error) {
	var out *invoice.Version
	err := r.store.do(ctx, func(st *state) error {
		v, ok := st.versions[versionID]
		if !ok {
			return apperror.NewNotFound("invoice version", versionID)
		}
		out = v.Clone()
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) ListVersions(ctx context.Context, invoiceID id.ID) ([]*invoice.Version, error) {
	var out []*invoice.Version
	err := r.store.do(ctx, func(st *state) error {
		for _, v := range st.versions {
			if v.InvoiceID == invoiceID {
				out = append(out, v.Clone())
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) LatestVersionNumber(ctx context.Context, invoiceID id.ID) (int, error) {
	latest := 0
	err := r.store.do(ctx, func(st *state) error {
		for _, v := range st.versions {
			if v.InvoiceID == invoiceID && v.Version > latest {
				latest = v.Version
			}
		}
		return nil
	})
	return latest, err
}

// LockInvoicePrefix is a no-op: numbering always runs inside a transaction,
// which holds the store lock.
func (r *InvoiceRepo) LockInvoicePrefix(ctx context.Context, prefix string) error {
	return nil
}

func (r *InvoiceRepo) InvoiceNumbersWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	err := r.store.do(ctx, func(st *state) error {
		for _, inv := range st.invoices {
			if strings.HasPrefix(inv.InvoiceNumber, prefix+"-") {
				out = append(out, inv.InvoiceNumber)
			}
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) VersionsWithoutSummary(ctx context.Context) ([]*invoice.Version, error) {
	var out []*invoice.Version
	err := r.store.do(ctx, func(st *state) error {
		for _, v := range st.versions {
			if v.SummaryItem == nil {
				out = append(out, v.Clone())
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) SetVersionSummary(ctx context.Context, versionID id.ID, s *invoice.SummaryItem) error {
	return r.store.do(ctx, func(st *state) error {
		v, ok := st.versions[versionID]
		if !ok {
			return apperror.NewNotFound("invoice version", versionID)
		}
		if v.SummaryItem == nil {
			v.SummaryItem = invoice.CloneSummary(s)
		}
		return nil
	})
}

func (r *InvoiceRepo) NormalizeStatus(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.do(ctx, func(st *state) error {
		for _, inv := range st.invoices {
			if !inv.Status.Valid() {
				inv.Status = invoice.StatusFinal
				n++
			}
		}
		for _, v := range st.versions {
			if !v.Status.Valid() {
				v.Status = invoice.StatusFinal
				n++
			}
		}
		return nil
	})
	return n, err
}

// PutLegacyVersion stores v as-is, bypassing validation. Used to load rows
// written by older releases.
func (r *InvoiceRepo) PutLegacyVersion(ctx context.Context, v *invoice.Version) error {
	return r.store.do(ctx, func(st *state) error {
		v.ID = st.nextID()
		st.versions[v.ID] = v.Clone()
		return nil
	})
}
