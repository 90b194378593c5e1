package repository

import (
	"context"
	"errors"

	"github.com/condorsoft/facturador-api/internal/domain/entity"
	domainRepo "github.com/condorsoft/facturador-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type issuerRepository struct {
	db *gorm.DB
}

// NewIssuerRepository creates a new issuer repository
func NewIssuerRepository(db *gorm.DB) domainRepo.IssuerRepository {
	return &issuerRepository{db: db}
}

func (r *issuerRepository) Create(ctx context.Context, issuer *entity.Issuer) error {
	return r.db.WithContext(ctx).Create(issuer).Error
}

func (r *issuerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Issuer, error) {
	var issuer entity.Issuer
	err := r.db.WithContext(ctx).First(&issuer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &issuer, err
}

func (r *issuerRepository) GetByCUIT(ctx context.Context, cuit string) (*entity.Issuer, error) {
	var issuer entity.Issuer
	err := r.db.WithContext(ctx).First(&issuer, "cuit = ?", cuit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &issuer, err
}
