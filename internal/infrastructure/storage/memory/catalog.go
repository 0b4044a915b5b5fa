package memory

import (
	"context"

	"oflo/internal/core/apperror"
	"oflo/internal/core/entity"
	"oflo/internal/core/id"
	"oflo/internal/domain"
	"oflo/internal/infrastructure/storage/columns"
)

// catalogRepo implements domain.CatalogRepository over one map of the state.
type catalogRepo[T entity.Identifiable] struct {
	store  *Store
	entity string
	table  func(*state) map[id.ID]T
	clone  func(T) T
	spec   listSpec[T]

	// inUse reports whether other rows reference the entity.
	inUse func(*state, id.ID) bool
}

func newCatalogRepo[T entity.Identifiable](
	store *Store,
	entityName string,
	table func(*state) map[id.ID]T,
	clone func(T) T,
	search []string,
	inUse func(*state, id.ID) bool,
) *catalogRepo[T] {
	return &catalogRepo[T]{
		store:  store,
		entity: entityName,
		table:  table,
		clone:  clone,
		inUse:  inUse,
		spec: listSpec[T]{
			allowed: columns.NewSet(columns.Extract[T]()...),
			search:  search,
			order:   columns.Order{Field: "name"},
			row:     func(v T) map[string]any { return columns.ToMap(v) },
		},
	}
}

func (r *catalogRepo[T]) Create(ctx context.Context, e T) error {
	return r.store.do(ctx, func(st *state) error {
		e.SetID(st.nextID())
		if s, ok := any(e).(entity.Stamper); ok {
			s.Stamp()
		}
		r.table(st)[e.GetID()] = r.clone(e)
		return nil
	})
}

func (r *catalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	var out T
	err := r.store.do(ctx, func(st *state) error {
		v, ok := r.table(st)[entityID]
		if !ok {
			return apperror.NewNotFound(r.entity, entityID)
		}
		out = r.clone(v)
		return nil
	})
	return out, err
}

func (r *catalogRepo[T]) Update(ctx context.Context, e T) error {
	return r.store.do(ctx, func(st *state) error {
		t := r.table(st)
		prev, ok := t[e.GetID()]
		if !ok {
			return apperror.NewNotFound(r.entity, e.GetID())
		}
		if s, ok := any(e).(entity.Stamper); ok {
			if p, ok := any(prev).(entity.Stamper); ok {
				s.Base().CreatedAt = p.Base().CreatedAt
			}
			s.Stamp()
		}
		t[e.GetID()] = r.clone(e)
		return nil
	})
}

func (r *catalogRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	return r.store.do(ctx, func(st *state) error {
		t := r.table(st)
		if _, ok := t[entityID]; !ok {
			return apperror.NewNotFound(r.entity, entityID)
		}
		if r.inUse != nil && r.inUse(st, entityID) {
			return apperror.NewConflict("cannot delete: referenced by invoices").
				WithDetail("entity", r.entity).
				WithDetail("id", entityID)
		}
		delete(t, entityID)
		return nil
	})
}

func (r *catalogRepo[T]) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[T], error) {
	var result domain.ListResult[T]
	err := r.store.do(ctx, func(st *state) error {
		rows := make([]T, 0, len(r.table(st)))
		for _, v := range r.table(st) {
			rows = append(rows, r.clone(v))
		}
		var err error
		result, err = list(rows, f, r.spec)
		return err
	})
	return result, err
}

func (r *catalogRepo[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	var ok bool
	err := r.store.do(ctx, func(st *state) error {
		_, ok = r.table(st)[entityID]
		return nil
	})
	return ok, err
}
