package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice represents an authorized electronic invoice as received from
// the tax authority workflow, together with everything needed to print it.
type Invoice struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Token           uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"token"`
	IssuerID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"issuer_id"`
	BillTypeID      int             `gorm:"not null" json:"bill_type_id"`
	SalePointID     int             `gorm:"not null" json:"sale_point_id"`
	BillNumber      int             `gorm:"not null" json:"bill_number"`
	ConceptID       int             `gorm:"default:1" json:"concept_id"`
	BillDate        time.Time       `gorm:"type:date;not null" json:"bill_date"`
	DueDate         *time.Time      `gorm:"type:date" json:"due_date,omitempty"`
	ServiceFrom     *time.Time      `gorm:"type:date" json:"service_from,omitempty"`
	ServiceTo       *time.Time      `gorm:"type:date" json:"service_to,omitempty"`
	SaleCondition   string          `gorm:"size:100" json:"sale_condition"`
	RecipientTypeID string          `gorm:"size:10" json:"recipient_type_id"`
	RecipientNumber string          `gorm:"size:20" json:"recipient_number"`
	NetAmount       decimal.Decimal `gorm:"type:numeric(15,2)" json:"net_amount"`
	IvaAmount       decimal.Decimal `gorm:"type:numeric(15,2)" json:"iva_amount"`
	UntaxedAmount   decimal.Decimal `gorm:"type:numeric(15,2)" json:"untaxed_amount"`
	ExemptAmount    decimal.Decimal `gorm:"type:numeric(15,2)" json:"exempt_amount"`
	TaxAmount       decimal.Decimal `gorm:"type:numeric(15,2)" json:"tax_amount"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(15,2)" json:"total_amount"`
	Note            string          `gorm:"type:text" json:"note,omitempty"`
	CAE             string          `gorm:"size:20" json:"cae,omitempty"`
	CAEExpiry       *time.Time      `gorm:"type:date" json:"cae_expiry,omitempty"`
	EmissionType    string          `gorm:"size:10;default:CAE" json:"emission_type"`
	CBU             string          `gorm:"size:30" json:"cbu,omitempty"`
	Alias           string          `gorm:"size:50" json:"alias,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Issuer             Issuer              `gorm:"foreignKey:IssuerID" json:"-"`
	Recipient          *Recipient          `gorm:"foreignKey:InvoiceID" json:"recipient,omitempty"`
	Items              []InvoiceItem       `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	AssociatedInvoices []AssociatedInvoice `gorm:"foreignKey:InvoiceID" json:"associated_invoices,omitempty"`
	Taxes              []InvoiceTax        `gorm:"foreignKey:InvoiceID" json:"taxes,omitempty"`
	IvaDetails         []InvoiceIvaDetail  `gorm:"foreignKey:InvoiceID" json:"iva_details,omitempty"`
}

// BeforeCreate generates identifiers before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Token == uuid.Nil {
		i.Token = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// Reference returns the fiscal document number, sale point and bill
// number zero-padded the way the tax authority prints them.
func (i *Invoice) Reference() string {
	return fmt.Sprintf("%04d-%08d", i.SalePointID, i.BillNumber)
}

// Authorized reports whether the invoice carries an authorization code.
// Unauthorized invoices are printed without the CAE block and QR code.
func (i *Invoice) Authorized() bool {
	return i.CAE != ""
}

// InvoiceItem represents a line item of an invoice
type InvoiceItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Position        int             `gorm:"not null;default:0" json:"position"`
	Code            string          `gorm:"size:50" json:"code"`
	Description     string          `gorm:"size:255;not null" json:"description"`
	Quantity        decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"quantity"`
	MetricUnit      string          `gorm:"size:30" json:"metric_unit"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(15,6);not null" json:"unit_price"`
	IvaAmount       decimal.Decimal `gorm:"type:numeric(15,6)" json:"iva_amount"`
	BonusPercentage decimal.Decimal `gorm:"type:numeric(5,2)" json:"bonus_percentage"`
	AliquotID       int             `gorm:"not null;default:5" json:"aliquot_id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// AssociatedInvoice links a credit or debit note to the invoice it
// amends.
type AssociatedInvoice struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	BillTypeID  int       `gorm:"not null" json:"bill_type_id"`
	SalePointID int       `gorm:"not null" json:"sale_point_id"`
	BillNumber  int       `gorm:"not null" json:"bill_number"`
	CreatedAt   time.Time `json:"created_at"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new association
func (a *AssociatedInvoice) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AssociatedInvoice model
func (AssociatedInvoice) TableName() string {
	return "associated_invoices"
}

// Reference returns the amended document's number, zero-padded.
func (a *AssociatedInvoice) Reference() string {
	return fmt.Sprintf("%04d-%08d", a.SalePointID, a.BillNumber)
}

// InvoiceTax represents a non-IVA tax applied to the invoice
// (perceptions, municipal and provincial taxes).
type InvoiceTax struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	TaxTypeID   int             `gorm:"not null" json:"tax_type_id"`
	Description string          `gorm:"size:100" json:"description"`
	BaseAmount  decimal.Decimal `gorm:"type:numeric(15,2)" json:"base_amount"`
	Rate        decimal.Decimal `gorm:"type:numeric(8,4)" json:"rate"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(15,2)" json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice tax
func (t *InvoiceTax) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceTax model
func (InvoiceTax) TableName() string {
	return "invoice_taxes"
}

// InvoiceIvaDetail is the per-aliquot IVA breakdown reported to the tax
// authority when the invoice was authorized.
type InvoiceIvaDetail struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	AliquotID  int             `gorm:"not null" json:"aliquot_id"`
	BaseAmount decimal.Decimal `gorm:"type:numeric(15,2)" json:"base_amount"`
	Amount     decimal.Decimal `gorm:"type:numeric(15,2)" json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new IVA detail
func (d *InvoiceIvaDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceIvaDetail model
func (InvoiceIvaDetail) TableName() string {
	return "invoice_iva_details"
}
