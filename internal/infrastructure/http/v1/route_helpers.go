package v1

import (
	"github.com/gin-gonic/gin"
)

// CatalogRouteHandler defines the interface for catalog handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// InvoiceRouteHandler defines the invoice endpoints.
type InvoiceRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Delete(c *gin.Context)
	Revise(c *gin.Context)
	Versions(c *gin.Context)
	NextNumber(c *gin.Context)
	PDF(c *gin.Context)
	GetVersion(c *gin.Context)
	VersionPDF(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
//
// Usage:
//
//	handler := handlers.NewCustomerHandler(baseHandler, service)
//	RegisterCatalogRoutes(catalogs.Group("/customers"), handler)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
}

// RegisterInvoiceRoutes registers invoices and the version endpoints.
// PUT on an invoice appends a version rather than editing in place.
func RegisterInvoiceRoutes(invoices, versions *gin.RouterGroup, handler InvoiceRouteHandler) {
	invoices.GET("", handler.List)
	invoices.POST("", handler.Create)
	invoices.GET("/next-number", handler.NextNumber)
	invoices.GET("/:id", handler.Get)
	invoices.PUT("/:id", handler.Revise)
	invoices.DELETE("/:id", handler.Delete)
	invoices.GET("/:id/versions", handler.Versions)
	invoices.GET("/:id/pdf", handler.PDF)

	versions.GET("/:versionId", handler.GetVersion)
	versions.GET("/:versionId/pdf", handler.VersionPDF)
}
