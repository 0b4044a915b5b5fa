// Package domain holds what the catalog services share: list filtering,
// the generic repository contract and save hooks.
package domain

import (
	"context"

	"oflo/internal/core/entity"
	"oflo/internal/core/id"
	"oflo/internal/domain/filter"
)

const defaultPageSize = 50

// ListFilter narrows a catalog or invoice listing. Every set field must
// match. Search is a case-insensitive substring over the repository's
// searchable columns. OrderBy is a column name, "-" prefixed for descending.
type ListFilter struct {
	Search          string
	IDs             []id.ID
	AdvancedFilters []filter.Item
	OrderBy         string
	Limit           int
	Offset          int
}

func DefaultListFilter() ListFilter {
	return ListFilter{Limit: defaultPageSize, OrderBy: "name"}
}

// ListResult is one page; TotalCount ignores Limit and Offset.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// CatalogRepository stores companies, customers and products. Both storage
// drivers implement it; NotFound, Duplicate and Conflict come back as
// apperror values.
type CatalogRepository[T entity.Identifiable] interface {
	// Create assigns the id.
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, id id.ID) (T, error)
	Update(ctx context.Context, entity T) error
	// Delete fails with Conflict while invoices still reference the row.
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)
	Exists(ctx context.Context, id id.ID) (bool, error)
}

type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	BeforeUpdate HookEvent = "before_update"
)

// Hook normalizes or validates an entity before it is written.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry runs hooks in registration order and stops at the first error.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{hooks: map[HookEvent][]Hook[T]{}}
}

func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// OnBeforeSave registers hook for both create and update.
func (r *HookRegistry[T]) OnBeforeSave(hook Hook[T]) {
	for _, ev := range []HookEvent{BeforeCreate, BeforeUpdate} {
		r.On(ev, hook)
	}
}

func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, h := range r.hooks[event] {
		if err := h(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}
