package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"oflo/pkg/logger"
)

// Font is a user-supplied TrueType face. The same file is used for the
// regular, bold and italic styles.
type Font struct {
	Name string
	Data []byte
}

// Face selects a family, style ("", "B", "I") and size in points.
type Face struct {
	Family string
	Style  string
	Size   float64
}

var coreFamilies = map[string]bool{
	"helvetica": true,
	"arial":     true,
	"times":     true,
	"courier":   true,
}

// faces tracks which families a document can use and encodes text for them.
// Core families take cp1252 bytes; custom families take UTF-8.
type faces struct {
	pdf    *fpdf.Fpdf
	custom map[string]bool
	cp1252 func(string) string
}

func newFaces(doc *fpdf.Fpdf) *faces {
	return &faces{
		pdf:    doc,
		custom: make(map[string]bool),
		cp1252: doc.UnicodeTranslatorFromDescriptor(""),
	}
}

// register loads every font. A font that fails to load is logged and skipped;
// text set in it falls back to DefaultFamily.
func (fs *faces) register(ctx context.Context, fonts []Font) {
	for _, f := range fonts {
		family := familyKey(f.Name)
		if family == "" || coreFamilies[family] {
			continue
		}
		if err := fs.load(family, f.Data); err != nil {
			logger.Warn(ctx, "font could not be loaded, using fallback",
				"font", f.Name,
				"fallback", DefaultFamily,
				"error", err)
			continue
		}
		fs.custom[family] = true
	}
}

func (fs *faces) load(family string, data []byte) (err error) {
	if len(data) == 0 {
		return fmt.Errorf("empty font file")
	}
	// fpdf panics on some malformed font files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse font: %v", r)
		}
	}()

	for _, style := range []string{"", "B", "I"} {
		fs.pdf.AddUTF8FontFromBytes(family, style, data)
	}
	fs.pdf.SetFont(family, "", 10)
	if fs.pdf.Err() {
		err = fs.pdf.Error()
		fs.pdf.ClearError()
		return err
	}
	return nil
}

// resolve maps a configured family to one the document can draw with.
func (fs *faces) resolve(family string) string {
	key := familyKey(family)
	if coreFamilies[key] || fs.custom[key] {
		return key
	}
	return DefaultFamily
}

func (fs *faces) unicode(family string) bool {
	return fs.custom[fs.resolve(family)]
}

// use selects face on the document.
func (fs *faces) use(face Face) {
	fs.pdf.SetFont(fs.resolve(face.Family), face.Style, face.Size)
	if fs.pdf.Err() {
		fs.pdf.ClearError()
		fs.pdf.SetFont(DefaultFamily, face.Style, face.Size)
	}
}

// encode converts UTF-8 text to the byte form the face expects.
func (fs *faces) encode(face Face, s string) string {
	if fs.unicode(face.Family) {
		return strings.Map(func(r rune) rune {
			if r > 0xFFFF {
				return '?'
			}
			return r
		}, s)
	}
	return fs.cp1252(s)
}

// SplitLines implements Measurer. Lines come back encoded for face.
func (fs *faces) SplitLines(face Face, text string, width float64) []string {
	fs.use(face)
	enc := fs.encode(face, text)
	if fs.unicode(face.Family) {
		return fs.pdf.SplitText(enc, width)
	}

	// SplitText works on runes; carry each cp1252 byte as one rune.
	runes := make([]rune, len(enc))
	for i := 0; i < len(enc); i++ {
		runes[i] = rune(enc[i])
	}
	lines := fs.pdf.SplitText(string(runes), width)
	for i, line := range lines {
		b := make([]byte, 0, len(line))
		for _, r := range line {
			b = append(b, byte(r))
		}
		lines[i] = string(b)
	}
	return lines
}

func familyKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
