package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"oflo/internal/core/apperror"
	"oflo/internal/core/id"
	"oflo/internal/domain/settings"
)

var (
	_ settings.Repository     = (*SettingsRepo)(nil)
	_ settings.FontRepository = (*FontRepo)(nil)
)

// SettingsRepo stores key/value settings.
type SettingsRepo struct {
	store *Store
}

func (r *SettingsRepo) All(ctx context.Context) ([]settings.Setting, error) {
	out := []settings.Setting{}
	err := r.store.do(ctx, func(st *state) error {
		for _, s := range st.settings {
			s.Value = bytes.Clone(s.Value)
			out = append(out, s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, err
}

func (r *SettingsRepo) Put(ctx context.Context, key string, value json.RawMessage) error {
	return r.store.do(ctx, func(st *state) error {
		st.settings[key] = settings.Setting{
			Key:       key,
			Value:     bytes.Clone(value),
			UpdatedAt: time.Now().UTC(),
		}
		return nil
	})
}

func (r *SettingsRepo) Delete(ctx context.Context, key string) error {
	return r.store.do(ctx, func(st *state) error {
		delete(st.settings, key)
		return nil
	})
}

// FontRepo stores uploaded fonts.
type FontRepo struct {
	store *Store
}

func (r *FontRepo) CreateFont(ctx context.Context, f *settings.Font) error {
	return r.store.do(ctx, func(st *state) error {
		for _, other := range st.fonts {
			if strings.EqualFold(other.Name, f.Name) {
				return apperror.NewDuplicate("font", "name", f.Name)
			}
		}
		f.ID = st.nextID()
		f.Stamp()
		f.Size = len(f.Data)
		st.fonts[f.ID] = f.Clone()
		return nil
	})
}

func (r *FontRepo) GetFont(ctx context.Context, fontID id.ID) (*settings.Font, error) {
	var out *settings.Font
	err := r.store.do(ctx, func(st *state) error {
		f, ok := st.fonts[fontID]
		if !ok {
			return apperror.NewNotFound("font", fontID)
		}
		out = f.Clone()
		return nil
	})
	return out, err
}

func (r *FontRepo) ListFonts(ctx context.Context, withData bool) ([]*settings.Font, error) {
	out := []*settings.Font{}
	err := r.store.do(ctx, func(st *state) error {
		for _, f := range st.fonts {
			cp := f.Clone()
			if !withData {
				cp.Data = nil
			}
			out = append(out, cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *FontRepo) DeleteFont(ctx context.Context, fontID id.ID) error {
	return r.store.do(ctx, func(st *state) error {
		if _, ok := st.fonts[fontID]; !ok {
			return apperror.NewNotFound("font", fontID)
		}
		delete(st.fonts, fontID)
		return nil
	})
}
