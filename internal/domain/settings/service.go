package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"oflo/internal/core/apperror"
	"oflo/internal/core/entity"
	"oflo/internal/core/id"
	"oflo/internal/core/tx"
	"oflo/pkg/logger"
)

// Service manages settings and fonts.
type Service struct {
	repo      Repository
	fonts     FontRepository
	txManager tx.Manager
}

// NewService creates a new settings service.
func NewService(repo Repository, fonts FontRepository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		fonts:     fonts,
		txManager: txManager,
	}
}

// All returns every setting as key to raw JSON value.
func (s *Service) All(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	out := make(map[string]json.RawMessage, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

// Update writes values in one transaction. A JSON null removes the key.
func (s *Service) Update(ctx context.Context, values map[string]json.RawMessage) error {
	for key, raw := range values {
		if strings.TrimSpace(key) == "" {
			return apperror.NewValidation("setting key is required")
		}
		if !json.Valid(raw) {
			return apperror.NewInvalidInput(key, "value is not valid JSON")
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for key, raw := range values {
			if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
				if err := s.repo.Delete(ctx, key); err != nil {
					return fmt.Errorf("delete setting %s: %w", key, err)
				}
				continue
			}
			if err := s.repo.Put(ctx, key, raw); err != nil {
				return fmt.Errorf("put setting %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "settings updated", "keys", len(values))
	return nil
}

// Values decodes every setting. Values that are not valid JSON are skipped.
func (s *Service) Values(ctx context.Context) (map[string]any, error) {
	raw, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	values := make(map[string]any, len(raw))
	for key, r := range raw {
		dec := json.NewDecoder(bytes.NewReader(r))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			logger.Warn(ctx, "skipping undecodable setting", "key", key, "error", err)
			continue
		}
		values[key] = v
	}
	return values, nil
}

// FontsNamed loads the payloads of the stored fonts matching names, compared
// trimmed and case-insensitively. Fonts are optional to rendering, so a
// storage or decode failure is logged and whatever did load is returned.
func (s *Service) FontsNamed(ctx context.Context, names ...string) []*Font {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		if n = normalizeFontName(n); n != "" {
			wanted[n] = true
		}
	}
	if len(wanted) == 0 {
		return nil
	}

	stored, err := s.fonts.ListFonts(ctx, true)
	if err != nil {
		logger.Warn(ctx, "some fonts could not be loaded", "error", err, "loaded", len(stored))
	}

	var out []*Font
	for _, f := range stored {
		if f != nil && len(f.Data) > 0 && wanted[normalizeFontName(f.Name)] {
			out = append(out, f)
		}
	}
	return out
}

func normalizeFontName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AddFont validates and stores a font.
func (s *Service) AddFont(ctx context.Context, f *Font) error {
	f.Name = strings.TrimSpace(f.Name)
	if err := f.Validate(ctx); err != nil {
		return err
	}
	if f.BaseEntity.CreatedAt.IsZero() {
		f.BaseEntity = entity.NewBaseEntity()
	}
	f.Size = len(f.Data)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.fonts.CreateFont(ctx, f); err != nil {
			return fmt.Errorf("create font: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "font added", "id", f.ID, "name", f.Name, "bytes", f.Size)
	return nil
}

// ListFonts returns font metadata without payloads.
func (s *Service) ListFonts(ctx context.Context) ([]*Font, error) {
	return s.fonts.ListFonts(ctx, false)
}

// DeleteFont removes a font. Settings naming it fall back to the default face.
func (s *Service) DeleteFont(ctx context.Context, fontID id.ID) error {
	if err := s.fonts.DeleteFont(ctx, fontID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("font", fontID)
		}
		return fmt.Errorf("delete font: %w", err)
	}
	logger.Info(ctx, "font deleted", "id", fontID)
	return nil
}
