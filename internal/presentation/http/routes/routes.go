package routes

import (
	"time"

	"github.com/condorsoft/facturador-api/internal/config"
	"github.com/condorsoft/facturador-api/internal/presentation/http/handler"
	"github.com/condorsoft/facturador-api/internal/presentation/http/middleware"
	"github.com/condorsoft/facturador-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Invoice *handler.InvoiceHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Per-client rate limiter, shared by public and protected routes so
	// the export endpoints cannot be hammered anonymously.
	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
		BurstSize:         deps.Cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(rateLimiter.Middleware())
	{
		// Public routes. The export token is a capability: knowing it
		// grants access to that document and nothing else.
		v1.GET("/invoices/:token/export", h.Invoice.Export)
		v1.GET("/invoices/test-preview", h.Invoice.TestPreview)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		registerInvoiceRoutes(protected, h)
	}

	return router
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers) {
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/details", h.Invoice.GetByNumber)
		invoices.GET("/:token", h.Invoice.Get)
		invoices.GET("/:token/details", h.Invoice.GetDetails)
		invoices.POST("/preview/export", h.Invoice.ExportPreview)
	}
}
