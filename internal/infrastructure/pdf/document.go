package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"oflo/pkg/logger"
)

// RenderOptions control document output.
type RenderOptions struct {
	// AutoPrint opens the print dialog when the document is opened.
	AutoPrint bool

	// Compress deflates page streams.
	Compress bool

	// Creator is written into the document properties.
	Creator string
}

// Document is a rendered invoice ready to be written out.
type Document struct {
	pdf      *fpdf.Fpdf
	fileName string
	pages    int
}

// Render lays out view with s and fonts. Fonts that fail to load fall back
// to the built-in face; only drawing errors are returned.
func Render(ctx context.Context, view View, s Settings, fonts []Font, opts RenderOptions) (*Document, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCellMargin(0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(s.MarginLeft, s.MarginTop, s.MarginRight)
	doc.SetCompression(opts.Compress)
	doc.SetTitle("Tax Invoice "+view.InvoiceNumber, true)
	if opts.Creator != "" {
		doc.SetCreator(opts.Creator, true)
	}

	fs := newFaces(doc)
	fs.register(ctx, fonts)

	r := &renderer{
		pdf:   doc,
		faces: fs,
		s:     s,
		g:     newGeometry(s),
		view:  &view,
	}
	r.plan = PlanFooter(&view, s, fs)
	r.draw()

	if opts.AutoPrint {
		doc.SetJavascript("print(true);")
	}
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", view.InvoiceNumber, err)
	}

	logger.Debug(ctx, "invoice rendered",
		"number", view.InvoiceNumber,
		"pages", doc.PageNo(),
		"footer_top", r.plan.Top)

	return &Document{pdf: doc, fileName: view.FileName(), pages: doc.PageNo()}, nil
}

// FileName is the suggested download name.
func (d *Document) FileName() string {
	return d.fileName
}

// Pages is the number of pages drawn.
func (d *Document) Pages() int {
	return d.pages
}

// Write streams the PDF to w. A Document can be written once.
func (d *Document) Write(w io.Writer) error {
	return d.pdf.Output(w)
}

// Bytes renders the PDF into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
