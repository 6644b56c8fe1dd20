package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
)

type FotoRepository struct {
	db *gorm.DB
}

func NewFotoRepository(db *gorm.DB) *FotoRepository {
	return &FotoRepository{db: db}
}

func (r *FotoRepository) Create(ctx context.Context, foto *domain.Foto) error {
	return r.db.WithContext(ctx).Create(foto).Error
}

func (r *FotoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Foto, error) {
	var foto domain.Foto
	err := r.db.WithContext(ctx).First(&foto, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &foto, nil
}

func (r *FotoRepository) ListByFicha(ctx context.Context, fichaID uuid.UUID) ([]domain.Foto, error) {
	var fotos []domain.Foto
	err := r.db.WithContext(ctx).
		Where("ficha_id = ?", fichaID).
		Order("created_at ASC").
		Find(&fotos).Error
	return fotos, err
}

func (r *FotoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Foto{}, "id = ?", id).Error
}
