package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"oflo/internal/core/apperror"
	"oflo/internal/core/id"
	"oflo/internal/domain/catalogs/company"
	"oflo/internal/domain/catalogs/customer"
	"oflo/internal/domain/catalogs/product"
	"oflo/internal/domain/documents/invoice"
	"oflo/internal/domain/settings"
	"oflo/internal/infrastructure/http/v1/dto"
	"oflo/internal/infrastructure/pdf"
	"oflo/pkg/logger"
)

// InvoiceHandler serves invoices, their history and printable documents.
type InvoiceHandler struct {
	*BaseHandler
	invoices  *invoice.Service
	companies *company.Service
	customers *customer.Service
	products  *product.Service
	settings  *settings.Service
	render    pdf.RenderOptions
}

// InvoiceHandlerConfig configures the invoice handler.
type InvoiceHandlerConfig struct {
	Invoices  *invoice.Service
	Companies *company.Service
	Customers *customer.Service
	Products  *product.Service
	Settings  *settings.Service
	Render    pdf.RenderOptions
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, cfg InvoiceHandlerConfig) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		invoices:    cfg.Invoices,
		companies:   cfg.Companies,
		customers:   cfg.Customers,
		products:    cfg.Products,
		settings:    cfg.Settings,
		render:      cfg.Render,
	}
}

// List handles GET /document/invoices.
func (h *InvoiceHandler) List(c *gin.Context) {
	filter, ok := h.ListFilter(c, "-date")
	if !ok {
		return
	}

	result, err := h.invoices.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	List(h.BaseHandler, c, result, func(inv *invoice.Invoice) any { return dto.FromInvoice(inv) })
}

// Get handles GET /document/invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoiceID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.invoices.Get(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, detail)
}

// Create handles POST /document/invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.InvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	draft, err := h.draft(ctx, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	detail, err := h.invoices.Create(ctx, draft)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, detail)
}

// Revise handles PUT /document/invoices/:id by appending a version.
func (h *InvoiceHandler) Revise(c *gin.Context) {
	ctx := c.Request.Context()

	invoiceID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.InvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	draft, err := h.draft(ctx, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	detail, err := h.invoices.Revise(ctx, invoiceID, invoice.ReviseInput{
		Draft:       draft,
		BaseVersion: req.BaseVersion,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, detail)
}

// Delete handles DELETE /document/invoices/:id.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	invoiceID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.invoices.Delete(c.Request.Context(), invoiceID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Versions handles GET /document/invoices/:id/versions.
func (h *InvoiceHandler) Versions(c *gin.Context) {
	ctx := c.Request.Context()

	invoiceID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.invoices.Get(ctx, invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	versions, err := h.invoices.ListVersions(ctx, invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": dto.FromVersions(versions, detail.Current.ID)})
}

// GetVersion handles GET /document/invoice-versions/:versionId.
func (h *InvoiceHandler) GetVersion(c *gin.Context) {
	versionID, ok := h.ParseID(c, "versionId")
	if !ok {
		return
	}

	detail, err := h.invoices.GetVersion(c.Request.Context(), versionID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, detail)
}

// NextNumber handles GET /document/invoices/next-number?companyId=.
// A missing or malformed companyId is an unknown company and gets the
// default prefix.
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	companyID, err := id.Parse(c.Query("companyId"))
	if err != nil {
		companyID = 0
	}

	number, err := h.invoices.NextInvoiceNumber(c.Request.Context(), companyID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NextNumberResponse{CompanyID: companyID, InvoiceNumber: number})
}

// PDF handles GET /document/invoices/:id/pdf for the current version.
func (h *InvoiceHandler) PDF(c *gin.Context) {
	invoiceID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.invoices.Get(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.writePDF(c, detail)
}

// VersionPDF handles GET /document/invoice-versions/:versionId/pdf.
func (h *InvoiceHandler) VersionPDF(c *gin.Context) {
	versionID, ok := h.ParseID(c, "versionId")
	if !ok {
		return
	}

	detail, err := h.invoices.GetVersion(c.Request.Context(), versionID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.writePDF(c, detail)
}

// writePDF renders detail. ?print=1 embeds a print action and serves inline;
// ?consolidated=1 prints the summary row instead of items.
func (h *InvoiceHandler) writePDF(c *gin.Context, detail *invoice.Detail) {
	ctx := c.Request.Context()

	layout, fonts, err := pdfLayout(ctx, h.settings)
	if err != nil {
		h.Error(c, err)
		return
	}

	opts := h.render
	opts.AutoPrint = queryFlag(c, "print")
	view := pdf.FromVersion(detail.Invoice, detail.Current, pdf.ViewOptions{
		Consolidated: queryFlag(c, "consolidated"),
	})

	doc, err := pdf.Render(ctx, view, layout, fonts, opts)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	body, err := doc.Bytes()
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	disposition := "attachment"
	if opts.AutoPrint {
		disposition = "inline"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, doc.FileName()))
	c.Data(http.StatusOK, "application/pdf", body)

	logger.Debug(ctx, "invoice pdf served",
		"reference", detail.Current.ReferenceNumber,
		"pages", doc.Pages(),
		"bytes", len(body))
}

func queryFlag(c *gin.Context, key string) bool {
	switch strings.ToLower(c.Query(key)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// draft resolves the parties and products referenced by req and prices the
// items unless the client sent its own financials.
func (h *InvoiceHandler) draft(ctx context.Context, req dto.InvoiceRequest) (invoice.Draft, error) {
	date, err := req.ParseDate()
	if err != nil {
		return invoice.Draft{}, err
	}

	seller, err := h.companies.GetByID(ctx, req.CompanyID)
	if err != nil {
		return invoice.Draft{}, err
	}
	buyer, err := h.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return invoice.Draft{}, err
	}

	items, err := h.items(ctx, req.Items)
	if err != nil {
		return invoice.Draft{}, err
	}

	taxType := invoice.DetermineTaxType(seller.GSTIN, buyer.GSTIN, buyer.PlaceOfSupply)
	var fin invoice.Financials
	if req.Financials != nil {
		invoice.PriceItems(items)
		fin = req.Financials.ToFinancials()
		if fin.TaxType == "" {
			fin.TaxType = taxType
		}
	} else {
		fin = invoice.Calculate(items, taxType)
	}

	return invoice.Draft{
		Company:       seller,
		Customer:      buyer,
		Date:          date,
		VehicleNumber: strings.TrimSpace(req.VehicleNumber),
		Items:         items,
		SummaryItem:   req.SummaryItem,
		Financials:    fin,
		Status:        req.Status,
	}, nil
}

func (h *InvoiceHandler) items(ctx context.Context, lines []dto.InvoiceItemRequest) ([]invoice.Item, error) {
	cache := make(map[id.ID]*product.Product)
	out := make([]invoice.Item, 0, len(lines))

	for i, l := range lines {
		it := invoice.Item{
			ProductID:    l.ProductID,
			Name:         strings.TrimSpace(l.Name),
			Description:  l.Description,
			HSN:          strings.TrimSpace(l.HSN),
			NumberOfBags: l.NumberOfBags,
			Quantity:     l.Quantity,
			ProducerID:   l.ProducerID,
			ProducerName: l.ProducerName,
		}
		if l.UnitPrice != nil {
			it.UnitPrice = *l.UnitPrice
		}
		if l.TaxRate != nil {
			it.TaxRate = *l.TaxRate
		}

		if !id.IsNil(l.ProductID) {
			p, ok := cache[l.ProductID]
			if !ok {
				var err error
				if p, err = h.products.GetByID(ctx, l.ProductID); err != nil {
					return nil, err
				}
				cache[l.ProductID] = p
			}
			if it.Name == "" {
				it.Name = p.Name
			}
			if it.Description == "" {
				it.Description = p.Description
			}
			if it.HSN == "" {
				it.HSN = p.HSN
			}
			if l.UnitPrice == nil {
				it.UnitPrice = p.UnitPrice
			}
			if l.TaxRate == nil {
				it.TaxRate = p.TaxRate
			}
		}

		if it.Name == "" && strings.TrimSpace(it.Description) == "" {
			return nil, apperror.NewValidation("item needs a product or a name").
				WithDetail("line", i+1)
		}
		out = append(out, it)
	}
	return out, nil
}
