package main

import (
	"log"
	"os"

	"github.com/condorsoft/facturador-api/internal/application/render"
	"github.com/condorsoft/facturador-api/internal/application/service"
	"github.com/condorsoft/facturador-api/internal/config"
	"github.com/condorsoft/facturador-api/internal/infrastructure/database"
	"github.com/condorsoft/facturador-api/internal/infrastructure/repository"
	"github.com/condorsoft/facturador-api/internal/presentation/http/handler"
	"github.com/condorsoft/facturador-api/internal/presentation/http/routes"
	"github.com/condorsoft/facturador-api/pkg/afip"
	"github.com/condorsoft/facturador-api/pkg/padron"
	"github.com/condorsoft/facturador-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the configured issuer
	if err := database.SeedDefaultIssuer(db); err != nil {
		log.Printf("Warning: Failed to seed default issuer: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	invoiceRepo := repository.NewInvoiceRepository(db)
	issuerRepo := repository.NewIssuerRepository(db)

	// Taxpayer registry lookup for recipients captured without identity
	lookup, err := padron.NewLookupFromConfig(cfg.AFIP.PadronLookup, cfg.AFIP.PadronURL, cfg.AFIP.PadronTimeout)
	if err != nil {
		log.Printf("Warning: Failed to initialize registry lookup: %v", err)
		lookup = padron.NewNullLookup()
	}

	resolver := &render.RecipientResolver{
		Lookup:     lookup,
		Production: cfg.IsProduction(),
	}

	// Initialize services
	invoiceService := service.NewInvoiceService(
		invoiceRepo,
		issuerRepo,
		resolver,
		afip.NewStaticTables(),
		cfg.AFIP.QRBaseURL,
		cfg.Storage.LogoDir,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Invoice: handler.NewInvoiceHandler(invoiceService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
