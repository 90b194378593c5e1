package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Issuer represents the business emitting invoices: the fiscal identity
// printed on the left side of every document header.
type Issuer struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name               string         `gorm:"size:255;not null" json:"name"`
	CUIT               string         `gorm:"size:13;uniqueIndex;not null" json:"cuit"`
	GrossIncomeNumber  string         `gorm:"size:20" json:"gross_income_number"`
	ActivityStartDate  *time.Time     `gorm:"type:date" json:"activity_start_date,omitempty"`
	Address            string         `gorm:"size:255" json:"address"`
	City               string         `gorm:"size:100" json:"city"`
	State              string         `gorm:"size:100" json:"state"`
	Zipcode            string         `gorm:"size:10" json:"zipcode"`
	IvaCondition       string         `gorm:"size:100" json:"iva_condition"`
	LogoPath           string         `gorm:"size:255" json:"logo_path,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new issuer
func (i *Issuer) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Issuer model
func (Issuer) TableName() string {
	return "issuers"
}

// FullAddress returns the issuer address as printed on documents.
func (i *Issuer) FullAddress() string {
	addr := i.Address
	if i.City != "" {
		addr += " " + i.City
	}
	if i.State != "" {
		addr += ", " + i.State
	}
	return addr
}
