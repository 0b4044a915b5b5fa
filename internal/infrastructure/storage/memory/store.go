// Package memory is an in-process storage backend. It implements the same
// repository interfaces as the postgres backend and is used by tests and by
// storage.driver=memory.
//
// Transactions are serialised by a single mutex. The state is copied when a
// transaction begins and restored if it fails, so a failed unit of work
// leaves no trace.
package memory

import (
	"context"
	"sync"

	"oflo/internal/core/id"
	"oflo/internal/core/tx"
	"oflo/internal/domain/catalogs/company"
	"oflo/internal/domain/catalogs/customer"
	"oflo/internal/domain/catalogs/product"
	"oflo/internal/domain/documents/invoice"
	"oflo/internal/domain/settings"
)

var (
	_ tx.Manager         = (*Store)(nil)
	_ tx.ReadOnlyManager = (*Store)(nil)
)

// Store holds all tables.
type Store struct {
	mu    sync.Mutex
	state *state
}

type state struct {
	seq int64

	companies map[id.ID]*company.Company
	customers map[id.ID]*customer.Customer
	products  map[id.ID]*product.Product
	invoices  map[id.ID]*invoice.Invoice
	versions  map[id.ID]*invoice.Version
	settings  map[string]settings.Setting
	fonts     map[id.ID]*settings.Font
}

// New creates an empty store.
func New() *Store {
	return &Store{state: newState()}
}

func newState() *state {
	return &state{
		companies: make(map[id.ID]*company.Company),
		customers: make(map[id.ID]*customer.Customer),
		products:  make(map[id.ID]*product.Product),
		invoices:  make(map[id.ID]*invoice.Invoice),
		versions:  make(map[id.ID]*invoice.Version),
		settings:  make(map[string]settings.Setting),
		fonts:     make(map[id.ID]*settings.Font),
	}
}

func (s *state) nextID() id.ID {
	s.seq++
	return s.seq
}

func (s *state) clone() *state {
	cp := newState()
	cp.seq = s.seq
	for k, v := range s.companies {
		c := v.Clone()
		cp.companies[k] = &c
	}
	for k, v := range s.customers {
		c := v.Clone()
		cp.customers[k] = &c
	}
	for k, v := range s.products {
		p := *v
		cp.products[k] = &p
	}
	for k, v := range s.invoices {
		cp.invoices[k] = v.Clone()
	}
	for k, v := range s.versions {
		cp.versions[k] = v.Clone()
	}
	for k, v := range s.settings {
		v.Value = append([]byte(nil), v.Value...)
		cp.settings[k] = v
	}
	for k, v := range s.fonts {
		cp.fonts[k] = v.Clone()
	}
	return cp
}

// txKey marks a context that already holds the store lock.
type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// RunInTransaction executes fn with the store locked. Nested calls reuse the
// outer transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.state.clone()
	committed := false
	defer func() {
		if !committed {
			s.state = backup
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}

// ReadOnly executes fn with the store locked. Nothing is backed up: fn is
// trusted not to write.
func (s *Store) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, s))
}

// do runs fn against the live state, taking the lock unless ctx is already
// inside a transaction of this store.
func (s *Store) do(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		return fn(s.state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// Companies returns the company repository.
func (s *Store) Companies() company.Repository {
	return newCatalogRepo(s, "company",
		func(st *state) map[id.ID]*company.Company { return st.companies },
		func(c *company.Company) *company.Company { cp := c.Clone(); return &cp },
		[]string{"name", "gstin", "email"},
		func(st *state, cid id.ID) bool {
			for _, inv := range st.invoices {
				if inv.CompanyID == cid {
					return true
				}
			}
			return false
		},
	)
}

// Customers returns the customer repository.
func (s *Store) Customers() customer.Repository {
	return newCatalogRepo(s, "customer",
		func(st *state) map[id.ID]*customer.Customer { return st.customers },
		func(c *customer.Customer) *customer.Customer { cp := c.Clone(); return &cp },
		[]string{"name", "gstin", "phone"},
		func(st *state, cid id.ID) bool {
			for _, inv := range st.invoices {
				if inv.CustomerID == cid {
					return true
				}
			}
			return false
		},
	)
}

// Products returns the product repository.
func (s *Store) Products() product.Repository {
	return newCatalogRepo(s, "product",
		func(st *state) map[id.ID]*product.Product { return st.products },
		func(p *product.Product) *product.Product { cp := *p; return &cp },
		[]string{"name", "sku", "hsn"},
		nil,
	)
}

// Invoices returns the invoice repository.
func (s *Store) Invoices() *InvoiceRepo {
	return &InvoiceRepo{store: s}
}

// Settings returns the settings repository.
func (s *Store) Settings() *SettingsRepo {
	return &SettingsRepo{store: s}
}

// Fonts returns the font repository.
func (s *Store) Fonts() *FontRepo {
	return &FontRepo{store: s}
}
