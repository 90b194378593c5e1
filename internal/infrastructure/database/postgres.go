package database

import (
	"fmt"
	"log"
	"time"

	"github.com/condorsoft/facturador-api/internal/config"
	"github.com/condorsoft/facturador-api/internal/domain/entity"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.Issuer{},
		&entity.Invoice{},
		&entity.Recipient{},
		&entity.InvoiceItem{},
		&entity.AssociatedInvoice{},
		&entity.InvoiceTax{},
		&entity.InvoiceIvaDetail{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultIssuer creates the issuer configured via environment
// variables if it does not exist yet. Single-issuer deployments rely on
// this; multi-issuer deployments create issuers through provisioning.
func SeedDefaultIssuer(db *gorm.DB) error {
	cuit := viper.GetString("ISSUER_CUIT")
	name := viper.GetString("ISSUER_NAME")

	if cuit == "" || name == "" {
		return nil
	}

	var existing entity.Issuer
	if err := db.Where("cuit = ?", cuit).First(&existing).Error; err == nil {
		log.Printf("Default issuer already exists: %s", cuit)
		return nil
	}

	issuer := entity.Issuer{
		Name:              name,
		CUIT:              cuit,
		GrossIncomeNumber: viper.GetString("ISSUER_GROSS_INCOME"),
		Address:           viper.GetString("ISSUER_ADDRESS"),
		City:              viper.GetString("ISSUER_CITY"),
		State:             viper.GetString("ISSUER_STATE"),
		Zipcode:           viper.GetString("ISSUER_ZIPCODE"),
		IvaCondition:      viper.GetString("ISSUER_IVA_CONDITION"),
		LogoPath:          viper.GetString("ISSUER_LOGO_PATH"),
	}

	if start := viper.GetString("ISSUER_ACTIVITY_START"); start != "" {
		if t, err := time.Parse("2006-01-02", start); err == nil {
			issuer.ActivityStartDate = &t
		} else {
			log.Printf("Warning: invalid ISSUER_ACTIVITY_START %q: %v", start, err)
		}
	}

	if err := db.Create(&issuer).Error; err != nil {
		return fmt.Errorf("failed to seed default issuer: %w", err)
	}

	log.Printf("Default issuer created: %s (%s)", name, cuit)
	return nil
}
