package handlers

import (
	"context"
	"strings"

	"oflo/internal/domain/settings"
	"oflo/internal/infrastructure/pdf"
)

// pdfLayout reads the settings once and loads only the uploaded fonts the
// layout names. The built-in family is never looked up in storage.
func pdfLayout(ctx context.Context, svc *settings.Service) (pdf.Settings, []pdf.Font, error) {
	values, err := svc.Values(ctx)
	if err != nil {
		return pdf.Settings{}, nil, err
	}
	layout := pdf.SettingsFromValues(values)

	var names []string
	for _, n := range []string{layout.FontCompany, layout.FontBody} {
		if !strings.EqualFold(strings.TrimSpace(n), pdf.DefaultFamily) {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return layout, nil, nil
	}

	stored := svc.FontsNamed(ctx, names...)
	fonts := make([]pdf.Font, 0, len(stored))
	for _, f := range stored {
		fonts = append(fonts, pdf.Font{Name: f.Name, Data: f.Data})
	}
	return layout, fonts, nil
}
