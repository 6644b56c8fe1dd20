package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
)

type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

func (r *MaterialRepository) Create(ctx context.Context, material *domain.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *MaterialRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Material, error) {
	var material domain.Material
	err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *MaterialRepository) Update(ctx context.Context, material *domain.Material) error {
	return r.db.WithContext(ctx).Save(material).Error
}

func (r *MaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Material{}, "id = ?", id).Error
}

func (r *MaterialRepository) ListByFicha(ctx context.Context, fichaID uuid.UUID) ([]domain.Material, error) {
	var materiais []domain.Material
	err := r.db.WithContext(ctx).
		Where("ficha_id = ?", fichaID).
		Order("ordem ASC").
		Find(&materiais).Error
	return materiais, err
}

// ReplaceForFicha swaps the full material list of a ficha in one transaction.
// The drafting screen always submits the whole grid.
func (r *MaterialRepository) ReplaceForFicha(ctx context.Context, fichaID uuid.UUID, materiais []domain.Material) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.Material{}, "ficha_id = ?", fichaID).Error; err != nil {
			return err
		}
		for i := range materiais {
			materiais[i].FichaID = fichaID
			if err := tx.Create(&materiais[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
