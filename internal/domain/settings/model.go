// Package settings stores layout preferences and uploaded fonts.
package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"oflo/internal/core/apperror"
	"oflo/internal/core/entity"
)

// Setting is one key with a JSON value.
type Setting struct {
	Key       string          `db:"key" json:"key"`
	Value     json.RawMessage `db:"value" json:"value"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

// MaxFontSize bounds an uploaded font file.
const MaxFontSize = 10 << 20

// TrueType and OpenType-with-TrueType-outlines signatures.
var fontMagic = [][]byte{
	{0x00, 0x01, 0x00, 0x00},
	[]byte("true"),
}

// Font is an uploaded TrueType face, referenced by name from the
// pdfFontCompany and pdfFontBody settings.
type Font struct {
	entity.BaseEntity

	Name string `db:"name" json:"name"`
	Data []byte `db:"data" json:"-"`
	Size int    `db:"-" json:"size"`
}

// Validate implements entity.Validatable interface.
func (f *Font) Validate(ctx context.Context) error {
	if strings.TrimSpace(f.Name) == "" {
		return apperror.NewValidation("font name is required").
			WithDetail("field", "name")
	}
	if len(f.Data) == 0 {
		return apperror.NewValidation("font file is empty").
			WithDetail("field", "data")
	}
	if len(f.Data) > MaxFontSize {
		return apperror.NewValidation("font file is too large").
			WithDetail("field", "data").
			WithDetail("max_bytes", MaxFontSize)
	}
	if !isTrueType(f.Data) {
		return apperror.NewValidation("only TrueType fonts are supported").
			WithDetail("field", "data")
	}
	return nil
}

func isTrueType(b []byte) bool {
	for _, m := range fontMagic {
		if bytes.HasPrefix(b, m) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (f *Font) Clone() *Font {
	cp := *f
	cp.Data = bytes.Clone(f.Data)
	return &cp
}
