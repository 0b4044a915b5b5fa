// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"oflo/internal/app"
	"oflo/internal/infrastructure/http/v1/handlers"
	"oflo/internal/infrastructure/http/v1/middleware"
	"oflo/internal/infrastructure/pdf"
	"oflo/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	App *app.App

	// Logger for request logging
	Logger *logger.Logger

	// Render holds document switches that are not user settings.
	Render pdf.RenderOptions

	// Version is reported by /health/info.
	Version string

	// Development enables gin debug mode.
	Development bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Recovery sits inside ErrorHandler so a recovered panic still gets a JSON body.
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(cfg.App.DB, cfg.App.Driver, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	api := router.Group("/api/v1")
	{
		registerCatalogRoutes(api, cfg)
		registerDocumentRoutes(api, cfg)
		registerSettingsRoutes(api, cfg)
	}

	return router
}

// registerCatalogRoutes registers companies, customers and products.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	base := handlers.NewBaseHandler()

	RegisterCatalogRoutes(catalogs.Group("/companies"), handlers.NewCompanyHandler(base, cfg.App.Companies))
	RegisterCatalogRoutes(catalogs.Group("/customers"), handlers.NewCustomerHandler(base, cfg.App.Customers))
	RegisterCatalogRoutes(catalogs.Group("/products"), handlers.NewProductHandler(base, cfg.App.Products))
}

// registerDocumentRoutes registers invoices and their versions.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	docs := rg.Group("/document")
	handler := handlers.NewInvoiceHandler(handlers.NewBaseHandler(), handlers.InvoiceHandlerConfig{
		Invoices:  cfg.App.Invoices,
		Companies: cfg.App.Companies,
		Customers: cfg.App.Customers,
		Products:  cfg.App.Products,
		Settings:  cfg.App.Settings,
		Render:    cfg.Render,
	})

	RegisterInvoiceRoutes(docs.Group("/invoices"), docs.Group("/invoice-versions"), handler)
}

// registerSettingsRoutes registers the settings bag and fonts.
func registerSettingsRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	handler := handlers.NewSettingsHandler(handlers.NewBaseHandler(), cfg.App.Settings)

	rg.GET("/settings", handler.Get)
	rg.PUT("/settings", handler.Update)

	fonts := rg.Group("/fonts")
	fonts.GET("", handler.ListFonts)
	fonts.POST("", handler.UploadFont)
	fonts.DELETE("/:id", handler.DeleteFont)
}
