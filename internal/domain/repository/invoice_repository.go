package repository

import (
	"context"
	"time"

	"github.com/condorsoft/facturador-api/internal/domain/entity"
	"github.com/condorsoft/facturador-api/pkg/pagination"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByToken(ctx context.Context, token uuid.UUID) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, issuerID uuid.UUID, billTypeID, salePointID, billNumber int) (*entity.Invoice, error)
	GetWithDetails(ctx context.Context, token uuid.UUID) (*entity.Invoice, error)
	List(ctx context.Context, issuerID uuid.UUID, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination  *pagination.PaginationParams
	BillTypeID  *int
	SalePointID *int
	StartDate   *time.Time
	EndDate     *time.Time
	Search      string
	SortBy      string
	SortOrder   string
}
