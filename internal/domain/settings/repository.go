package settings

import (
	"context"
	"encoding/json"

	"oflo/internal/core/id"
)

// Repository persists settings.
type Repository interface {
	// All returns every stored setting.
	All(ctx context.Context) ([]Setting, error)

	// Put inserts or replaces the value of key.
	Put(ctx context.Context, key string, value json.RawMessage) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// FontRepository persists uploaded fonts.
type FontRepository interface {
	// CreateFont inserts a font and sets its ID.
	CreateFont(ctx context.Context, f *Font) error

	// GetFont retrieves a font with its data.
	GetFont(ctx context.Context, fontID id.ID) (*Font, error)

	// ListFonts returns all fonts. Data is loaded only when withData is set.
	ListFonts(ctx context.Context, withData bool) ([]*Font, error)

	// DeleteFont removes a font.
	DeleteFont(ctx context.Context, fontID id.ID) error
}
