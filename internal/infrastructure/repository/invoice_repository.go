package repository

import (
	"context"
	"errors"

	"github.com/condorsoft/facturador-api/internal/domain/entity"
	domainRepo "github.com/condorsoft/facturador-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) GetByToken(ctx context.Context, token uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Issuer").
		Preload("Recipient").
		First(&invoice, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, issuerID uuid.UUID, billTypeID, salePointID, billNumber int) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Where("issuer_id = ? AND bill_type_id = ? AND sale_point_id = ? AND bill_number = ?",
			issuerID, billTypeID, salePointID, billNumber).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetWithDetails(ctx context.Context, token uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Issuer").
		Preload("Recipient").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("invoice_items.position ASC")
		}).
		Preload("AssociatedInvoices").
		Preload("Taxes").
		Preload("IvaDetails").
		First(&invoice, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) List(ctx context.Context, issuerID uuid.UUID, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{})
	if issuerID != uuid.Nil {
		query = query.Where("issuer_id = ?", issuerID)
	}

	if params.BillTypeID != nil {
		query = query.Where("bill_type_id = ?", *params.BillTypeID)
	}

	if params.SalePointID != nil {
		query = query.Where("sale_point_id = ?", *params.SalePointID)
	}

	if params.StartDate != nil {
		query = query.Where("bill_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("bill_date <= ?", *params.EndDate)
	}

	if params.Search != "" {
		query = query.Where("recipient_number ILIKE ? OR cae ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "bill_date"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order(sortBy + " " + sortOrder + ", bill_number DESC").
		Find(&invoices).Error

	return invoices, total, err
}
