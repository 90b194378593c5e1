package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipient holds the counterpart identity captured when the invoice was
// created. It may be empty for invoices issued against a bare tax id,
// in which case the identity is resolved at print time.
type Recipient struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"invoice_id"`
	Name        string    `gorm:"size:255" json:"name"`
	Address     string    `gorm:"size:255" json:"address"`
	City        string    `gorm:"size:100" json:"city"`
	State       string    `gorm:"size:100" json:"state"`
	Zipcode     string    `gorm:"size:10" json:"zipcode"`
	IvaCategory string    `gorm:"size:100" json:"iva_category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new recipient
func (r *Recipient) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Recipient model
func (Recipient) TableName() string {
	return "recipients"
}

// Blank reports whether no usable identity was captured.
func (r *Recipient) Blank() bool {
	return r == nil || (r.Name == "" && r.IvaCategory == "")
}

// FullAddress returns the recipient address as printed on documents.
func (r *Recipient) FullAddress() string {
	addr := r.Address
	if r.City != "" {
		addr += " " + r.City
	}
	if r.State != "" {
		addr += ", " + r.State
	}
	return addr
}
