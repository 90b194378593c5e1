package repository

import (
	"context"

	"github.com/condorsoft/facturador-api/internal/domain/entity"
	"github.com/google/uuid"
)

// IssuerRepository defines the interface for issuer data operations
type IssuerRepository interface {
	Create(ctx context.Context, issuer *entity.Issuer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Issuer, error)
	GetByCUIT(ctx context.Context, cuit string) (*entity.Issuer, error)
}
