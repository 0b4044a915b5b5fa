package handlers

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"oflo/internal/core/apperror"
	"oflo/internal/domain/settings"
)

// SettingsHandler serves the settings bag and uploaded fonts.
type SettingsHandler struct {
	*BaseHandler
	service *settings.Service
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(base *BaseHandler, service *settings.Service) *SettingsHandler {
	return &SettingsHandler{BaseHandler: base, service: service}
}

// Get handles GET /settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	all, err := h.service.All(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, all)
}

// Update handles PUT /settings. Keys with a null value are removed.
func (h *SettingsHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var values map[string]json.RawMessage
	if !h.BindJSON(c, &values) {
		return
	}
	if err := h.service.Update(ctx, values); err != nil {
		h.Error(c, err)
		return
	}

	all, err := h.service.All(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, all)
}

// ListFonts handles GET /fonts. Payloads are not included.
func (h *SettingsHandler) ListFonts(c *gin.Context) {
	fonts, err := h.service.ListFonts(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": fonts})
}

// UploadFont handles POST /fonts as multipart form with "name" and "file".
// The name defaults to the file name without extension.
func (h *SettingsHandler) UploadFont(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewInvalidInput("file", "font file is required"))
		return
	}
	if fh.Size > settings.MaxFontSize {
		h.Error(c, apperror.NewValidation("font file is too large").
			WithDetail("max_bytes", settings.MaxFontSize))
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, settings.MaxFontSize+1))
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = fontName(fh.Filename)
	}

	font := &settings.Font{Name: name, Data: data}
	if err := h.service.AddFont(c.Request.Context(), font); err != nil {
		h.Error(c, err)
		return
	}
	font.Data = nil
	h.Created(c, font)
}

// DeleteFont handles DELETE /fonts/:id.
func (h *SettingsHandler) DeleteFont(c *gin.Context) {
	fontID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteFont(c.Request.Context(), fontID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

func fontName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
