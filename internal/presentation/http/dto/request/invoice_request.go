package request

import "github.com/shopspring/decimal"

// PreviewItemRequest is one line item of a preview export
type PreviewItemRequest struct {
	Code            string          `json:"code"`
	Description     string          `json:"description" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	MetricUnit      string          `json:"metric_unit"`
	UnitPrice       decimal.Decimal `json:"unit_price" binding:"required"`
	IvaAmount       decimal.Decimal `json:"iva_amount"`
	BonusPercentage decimal.Decimal `json:"bonus_percentage"`
	AliquotID       int             `json:"aliquot_id"`
}

// PreviewTaxRequest is one non-IVA tribute of a preview export
type PreviewTaxRequest struct {
	TaxTypeID   int             `json:"tax_type_id"`
	Description string          `json:"description"`
	BaseAmount  decimal.Decimal `json:"base_amount"`
	Rate        decimal.Decimal `json:"rate"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PreviewExportRequest renders an unsaved document as a PDF
type PreviewExportRequest struct {
	BillTypeID      int                  `json:"bill_type_id" binding:"required"`
	SalePointID     int                  `json:"sale_point_id" binding:"required"`
	BillNumber      int                  `json:"bill_number"`
	BillDate        string               `json:"bill_date"` // YYYY-MM-DD, defaults to today
	SaleCondition   string               `json:"sale_condition"`
	RecipientTypeID string               `json:"recipient_type_id"`
	RecipientNumber string               `json:"recipient_number"`
	Note            string               `json:"note"`
	Items           []PreviewItemRequest `json:"items" binding:"required,min=1,dive"`
	Taxes           []PreviewTaxRequest  `json:"taxes" binding:"dive"`
}
