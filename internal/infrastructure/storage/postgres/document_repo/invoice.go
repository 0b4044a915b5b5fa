package document_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"oflo/internal/core/apperror"
	"oflo/internal/core/id"
	"oflo/internal/domain"
	"oflo/internal/domain/documents/invoice"
	"oflo/internal/infrastructure/storage/columns"
	"oflo/internal/infrastructure/storage/postgres"
)

const (
	invoicesTable = "invoices"
	versionsTable = "invoice_versions"
)

var versionCols = []string{
	"id", "invoice_id", "version", "date", "vehicle_number",
	"seller_details", "buyer_details", "items", "summary_item",
	"reference_number", "sub_total", "total_tax", "grand_total",
	"tax_type", "round_off", "status", "created_at",
}

// InvoiceRepo implements invoice.Repository and invoice.UpgradeStore.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
}

var (
	_ invoice.Repository   = (*InvoiceRepo)(nil)
	_ invoice.UpgradeStore = (*InvoiceRepo)(nil)
)

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txm *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			invoicesTable,
			"invoice",
			columns.Extract[invoice.Invoice](),
			[]string{"invoice_number", "vehicle_number"},
			func() *invoice.Invoice { return &invoice.Invoice{} },
		),
	}
}

// CreateInvoice inserts the pointer record. current_version_id stays NULL
// until UpdateHead.
func (r *InvoiceRepo) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	inv.Stamp()
	q := r.Builder().
		Insert(invoicesTable).
		SetMap(map[string]any{
			"invoice_number": inv.InvoiceNumber,
			"company_id":     inv.CompanyID,
			"customer_id":    inv.CustomerID,
			"date":           inv.Date,
			"vehicle_number": inv.VehicleNumber,
			"grand_total":    inv.GrandTotal,
			"status":         string(inv.Status),
			"created_at":     inv.CreatedAt,
			"updated_at":     inv.UpdatedAt,
		}).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&inv.ID); err != nil {
		if _, ok := postgres.IsUniqueViolation(err); ok {
			return apperror.NewDuplicate("invoice", "invoice_number", inv.InvoiceNumber).WithCause(err)
		}
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewValidation("company or customer does not exist").WithCause(err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetInvoice(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	return r.GetByID(ctx, invoiceID)
}

func (r *InvoiceRepo) GetInvoiceForUpdate(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	return r.GetForUpdate(ctx, invoiceID)
}

func (r *InvoiceRepo) ListInvoices(ctx context.Context, f domain.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	return r.List(ctx, f)
}

func (r *InvoiceRepo) DeleteInvoice(ctx context.Context, invoiceID id.ID) error {
	return r.Delete(ctx, invoiceID)
}

// UpdateHead repoints the invoice and refreshes its cached columns.
func (r *InvoiceRepo) UpdateHead(ctx context.Context, invoiceID id.ID, head invoice.Head) error {
	q := r.Builder().
		Update(invoicesTable).
		Set("current_version_id", head.CurrentVersionID).
		Set("date", head.Date).
		Set("vehicle_number", head.VehicleNumber).
		Set("grand_total", head.GrandTotal).
		Set("status", string(head.Status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": invoiceID}).
		Where(squirrel.Expr("EXISTS (SELECT 1 FROM "+versionsTable+" v WHERE v.id = ? AND v.invoice_id = ?)",
			head.CurrentVersionID, invoiceID))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update invoice head: %w", err)
	}
	if result.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, invoiceID); err != nil {
			return err
		}
		return apperror.NewConflict("current version does not belong to invoice").
			WithDetail("invoice_id", invoiceID).
			WithDetail("version_id", head.CurrentVersionID)
	}
	return nil
}

// LockInvoicePrefix takes a transaction-scoped advisory lock keyed by prefix.
// It serialises numbering only under read committed, where the following
// scan gets a snapshot taken after the lock was granted.
func (r *InvoiceRepo) LockInvoicePrefix(ctx context.Context, prefix string) error {
	if r.txm.GetTx(ctx) == nil {
		return errors.New("lock invoice prefix: no transaction in context")
	}
	if _, err := r.querier(ctx).Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", prefix); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *InvoiceRepo) InvoiceNumbersWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	q := r.Builder().
		Select("invoice_number").
		From(invoicesTable).
		Where(squirrel.Like{"invoice_number": likeEscaper.Replace(prefix) + "-%"})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var numbers []string
	if err := pgxscan.Select(ctx, r.querier(ctx), &numbers, sql, args...); err != nil {
		return nil, fmt.Errorf("list invoice numbers: %w", err)
	}
	return numbers, nil
}

// versionRow is the stored shape of a version: snapshots are JSONB.
type versionRow struct {
	ID              id.ID           `db:"id"`
	InvoiceID       id.ID           `db:"invoice_id"`
	Version         int             `db:"version"`
	Date            time.Time       `db:"date"`
	VehicleNumber   string          `db:"vehicle_number"`
	SellerDetails   []byte          `db:"seller_details"`
	BuyerDetails    []byte          `db:"buyer_details"`
	Items           []byte          `db:"items"`
	SummaryItem     []byte          `db:"summary_item"`
	ReferenceNumber string          `db:"reference_number"`
	SubTotal        decimal.Decimal `db:"sub_total"`
	TotalTax        decimal.Decimal `db:"total_tax"`
	GrandTotal      decimal.Decimal `db:"grand_total"`
	TaxType         string          `db:"tax_type"`
	RoundOff        decimal.Decimal `db:"round_off"`
	Status          string          `db:"status"`
	CreatedAt       time.Time       `db:"created_at"`
}

func toVersionRow(v *invoice.Version) (*versionRow, error) {
	seller, err := json.Marshal(v.Seller)
	if err != nil {
		return nil, fmt.Errorf("encode seller: %w", err)
	}
	buyer, err := json.Marshal(v.Buyer)
	if err != nil {
		return nil, fmt.Errorf("encode buyer: %w", err)
	}
	items := v.Items
	if items == nil {
		items = []invoice.Item{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	var summary []byte
	if v.SummaryItem != nil {
		if summary, err = json.Marshal(v.SummaryItem); err != nil {
			return nil, fmt.Errorf("encode summary: %w", err)
		}
	}

	return &versionRow{
		InvoiceID:       v.InvoiceID,
		Version:         v.Version,
		Date:            v.Date,
		VehicleNumber:   v.VehicleNumber,
		SellerDetails:   seller,
		BuyerDetails:    buyer,
		Items:           itemsJSON,
		SummaryItem:     summary,
		ReferenceNumber: v.ReferenceNumber,
		SubTotal:        v.SubTotal,
		TotalTax:        v.TotalTax,
		GrandTotal:      v.GrandTotal,
		TaxType:         string(v.TaxType),
		RoundOff:        v.RoundOff,
		Status:          string(v.Status),
		CreatedAt:       v.CreatedAt,
	}, nil
}

func (row *versionRow) toVersion() (*invoice.Version, error) {
	v := &invoice.Version{
		ID:              row.ID,
		InvoiceID:       row.InvoiceID,
		Version:         row.Version,
		Date:            row.Date,
		VehicleNumber:   row.VehicleNumber,
		ReferenceNumber: row.ReferenceNumber,
		Financials: invoice.Financials{
			SubTotal:   row.SubTotal,
			TotalTax:   row.TotalTax,
			GrandTotal: row.GrandTotal,
			TaxType:    invoice.TaxType(row.TaxType),
			RoundOff:   row.RoundOff,
		},
		Status:    invoice.Status(row.Status),
		CreatedAt: row.CreatedAt,
	}
	if err := json.Unmarshal(row.SellerDetails, &v.Seller); err != nil {
		return nil, fmt.Errorf("decode seller of version %d: %w", row.ID, err)
	}
	if err := json.Unmarshal(row.BuyerDetails, &v.Buyer); err != nil {
		return nil, fmt.Errorf("decode buyer of version %d: %w", row.ID, err)
	}
	if err := json.Unmarshal(row.Items, &v.Items); err != nil {
		return nil, fmt.Errorf("decode items of version %d: %w", row.ID, err)
	}
	if len(row.SummaryItem) > 0 && string(row.SummaryItem) != "null" {
		v.SummaryItem = &invoice.SummaryItem{}
		if err := json.Unmarshal(row.SummaryItem, v.SummaryItem); err != nil {
			return nil, fmt.Errorf("decode summary of version %d: %w", row.ID, err)
		}
	}
	return v, nil
}

// jsonb passes nil slices as SQL NULL.
func jsonb(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}

func (r *InvoiceRepo) InsertVersion(ctx context.Context, v *invoice.Version) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	row, err := toVersionRow(v)
	if err != nil {
		return err
	}

	q := r.Builder().
		Insert(versionsTable).
		SetMap(map[string]any{
			"invoice_id":       row.InvoiceID,
			"version":          row.Version,
			"date":             row.Date,
			"vehicle_number":   row.VehicleNumber,
			"seller_details":   jsonb(row.SellerDetails),
			"buyer_details":    jsonb(row.BuyerDetails),
			"items":            jsonb(row.Items),
			"summary_item":     jsonb(row.SummaryItem),
			"reference_number": row.ReferenceNumber,
			"sub_total":        row.SubTotal,
			"total_tax":        row.TotalTax,
			"grand_total":      row.GrandTotal,
			"tax_type":         row.TaxType,
			"round_off":        row.RoundOff,
			"status":           row.Status,
			"created_at":       row.CreatedAt,
		}).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&v.ID); err != nil {
		if _, ok := postgres.IsUniqueViolation(err); ok {
			return apperror.NewVersionConflict(v.InvoiceID, v.Version-1, v.Version).WithCause(err)
		}
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewNotFound("invoice", v.InvoiceID)
		}
		return fmt.Errorf("insert invoice version: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) selectVersions(ctx context.Context, q squirrel.SelectBuilder) ([]*invoice.Version, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*versionRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select versions: %w", err)
	}

	out := make([]*invoice.Version, 0, len(rows))
	for _, row := range rows {
		v, err := row.toVersion()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *InvoiceRepo) GetVersion(ctx context.Context, versionID id.ID) (*invoice.Version, error) {
	versions, err := r.selectVersions(ctx, r.Builder().
		Select(versionCols...).
		From(versionsTable).
		Where(squirrel.Eq{"id": versionID}))
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, apperror.NewNotFound("invoice version", versionID)
	}
	return versions[0], nil
}

func (r *InvoiceRepo) ListVersions(ctx context.Context, invoiceID id.ID) ([]*invoice.Version, error) {
	return r.selectVersions(ctx, r.Builder().
		Select(versionCols...).
		From(versionsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("version ASC"))
}

func (r *InvoiceRepo) LatestVersionNumber(ctx context.Context, invoiceID id.ID) (int, error) {
	var latest int
	err := r.querier(ctx).QueryRow(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM "+versionsTable+" WHERE invoice_id = $1",
		invoiceID).Scan(&latest)
	if err != nil {
		return 0, fmt.Errorf("latest version: %w", err)
	}
	return latest, nil
}

func (r *InvoiceRepo) VersionsWithoutSummary(ctx context.Context) ([]*invoice.Version, error) {
	return r.selectVersions(ctx, r.Builder().
		Select(versionCols...).
		From(versionsTable).
		Where(squirrel.Or{
			squirrel.Eq{"summary_item": nil},
			squirrel.Expr("summary_item = 'null'::jsonb"),
		}).
		OrderBy("id ASC"))
}

func (r *InvoiceRepo) SetVersionSummary(ctx context.Context, versionID id.ID, s *invoice.SummaryItem) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	_, err = r.querier(ctx).Exec(ctx,
		"UPDATE "+versionsTable+" SET summary_item = $1 WHERE id = $2 AND (summary_item IS NULL OR summary_item = 'null'::jsonb)",
		string(b), versionID)
	if err != nil {
		return fmt.Errorf("set summary: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) NormalizeStatus(ctx context.Context) (int64, error) {
	var total int64
	for _, table := range []string{invoicesTable, versionsTable} {
		tag, err := r.querier(ctx).Exec(ctx,
			"UPDATE "+table+" SET status = 'final' WHERE status IS NULL OR status NOT IN ('draft', 'final')")
		if err != nil {
			return total, fmt.Errorf("normalize %s status: %w", table, err)
		}
		total += tag.RowsAffected()
	}
	return total, nil
}
