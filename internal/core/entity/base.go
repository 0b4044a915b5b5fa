package entity

import (
	"context"
	"time"

	"oflo/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// BaseEntity contains common fields for stored entities.
type BaseEntity struct {
	// ID is the surrogate primary key, assigned by storage on insert.
	ID id.ID `db:"id" json:"id"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBaseEntity creates a BaseEntity stamped with the current time.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetID returns the primary key.
func (b *BaseEntity) GetID() id.ID {
	return b.ID
}

// SetID is called by repositories after insert.
func (b *BaseEntity) SetID(v id.ID) {
	b.ID = v
}

// Touch updates the UpdatedAt timestamp.
func (b *BaseEntity) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// Stamp sets CreatedAt on first save and refreshes UpdatedAt.
func (b *BaseEntity) Stamp() {
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Base exposes the embedded BaseEntity.
func (b *BaseEntity) Base() *BaseEntity {
	return b
}

// Stamper is implemented by entities embedding BaseEntity.
type Stamper interface {
	Stamp()
	Base() *BaseEntity
}
