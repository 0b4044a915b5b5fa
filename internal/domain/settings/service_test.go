package settings_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oflo/internal/core/apperror"
	"oflo/internal/domain/settings"
	"oflo/internal/infrastructure/storage/memory"
)

func newService() *settings.Service {
	s := memory.New()
	return settings.NewService(s.Settings(), s.Fonts(), s)
}

func ttf(n int) []byte {
	b := make([]byte, n)
	copy(b, []byte{0, 1, 0, 0})
	return b
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	err := svc.Update(ctx, map[string]json.RawMessage{
		"pdfFontSizeCompany": json.RawMessage(`22`),
		"pdfFontBody":        json.RawMessage(`"Noto Sans"`),
	})
	require.NoError(t, err)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `22`, string(all["pdfFontSizeCompany"]))

	require.NoError(t, svc.Update(ctx, map[string]json.RawMessage{"pdfFontBody": json.RawMessage(`null`)}))
	all, err = svc.All(ctx)
	require.NoError(t, err)
	assert.NotContains(t, all, "pdfFontBody")
	assert.Len(t, all, 1)
}

func TestService_Update_RejectsInvalidJSON(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	err := svc.Update(ctx, map[string]json.RawMessage{
		"ok":  json.RawMessage(`1`),
		"bad": json.RawMessage(`{`),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsAppError(err))

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "nothing is written when one value is invalid")
}

func TestService_FontsNamed(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	assert.Empty(t, svc.FontsNamed(ctx, "Noto Sans"))

	require.NoError(t, svc.AddFont(ctx, &settings.Font{Name: " Noto Sans ", Data: ttf(64)}))
	require.NoError(t, svc.AddFont(ctx, &settings.Font{Name: "Unused", Data: ttf(32)}))

	fonts := svc.FontsNamed(ctx, "noto sans", " ", "")
	require.Len(t, fonts, 1, "only the named fonts are returned")
	assert.Equal(t, "Noto Sans", fonts[0].Name)
	assert.Len(t, fonts[0].Data, 64)

	assert.Nil(t, svc.FontsNamed(ctx))
}

// partialFonts lists what the wrapped repository holds but also reports a
// row that failed to decode.
type partialFonts struct {
	settings.FontRepository
}

func (p partialFonts) ListFonts(ctx context.Context, withData bool) ([]*settings.Font, error) {
	fonts, err := p.FontRepository.ListFonts(ctx, withData)
	if err != nil {
		return nil, err
	}
	return fonts, errors.Join(errors.New(`font "Broken": decompress font: magic number mismatch`))
}

func TestService_FontsNamed_KeepsDecodedFonts(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	svc := settings.NewService(s.Settings(), partialFonts{s.Fonts()}, s)

	require.NoError(t, svc.AddFont(ctx, &settings.Font{Name: "Mukta", Data: ttf(48)}))

	fonts := svc.FontsNamed(ctx, "Mukta", "Broken")
	require.Len(t, fonts, 1)
	assert.Equal(t, "Mukta", fonts[0].Name)
}

func TestService_AddFont(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	tests := []struct {
		name string
		font settings.Font
	}{
		{"missing name", settings.Font{Data: ttf(8)}},
		{"empty data", settings.Font{Name: "X"}},
		{"not truetype", settings.Font{Name: "X", Data: []byte("wOFF....")}},
		{"too large", settings.Font{Name: "X", Data: ttf(settings.MaxFontSize + 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.font
			err := svc.AddFont(ctx, &f)
			require.Error(t, err)
			assert.True(t, apperror.IsAppError(err))
		})
	}

	f := &settings.Font{Name: "Mukta", Data: ttf(16)}
	require.NoError(t, svc.AddFont(ctx, f))
	assert.NotZero(t, f.ID)

	list, err := svc.ListFonts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Data)
	assert.Equal(t, 16, list[0].Size)

	require.NoError(t, svc.DeleteFont(ctx, f.ID))
	assert.True(t, apperror.IsNotFound(svc.DeleteFont(ctx, f.ID)))
}
