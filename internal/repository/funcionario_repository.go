package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
)

type FuncionarioRepository struct {
	db *gorm.DB
}

func NewFuncionarioRepository(db *gorm.DB) *FuncionarioRepository {
	return &FuncionarioRepository{db: db}
}

func (r *FuncionarioRepository) Create(ctx context.Context, funcionario *domain.Funcionario) error {
	return r.db.WithContext(ctx).Create(funcionario).Error
}

func (r *FuncionarioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Funcionario, error) {
	var funcionario domain.Funcionario
	err := r.db.WithContext(ctx).First(&funcionario, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &funcionario, nil
}

func (r *FuncionarioRepository) Update(ctx context.Context, funcionario *domain.Funcionario) error {
	return r.db.WithContext(ctx).Save(funcionario).Error
}

// ListActive returns all active workers ordered by current load, lightest
// first. Qualification filtering happens in the allocation service since
// the process list is a flat CSV column.
func (r *FuncionarioRepository) ListActive(ctx context.Context) ([]domain.Funcionario, error) {
	var funcionarios []domain.Funcionario
	err := r.db.WithContext(ctx).
		Where("ativo = ?", true).
		Order("ordens_ativas ASC, nome ASC").
		Find(&funcionarios).Error
	return funcionarios, err
}

// IncrementOrdensAtivas adjusts the active order count of a worker by delta.
func (r *FuncionarioRepository) IncrementOrdensAtivas(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&domain.Funcionario{}).
		Where("id = ?", id).
		Update("ordens_ativas", gorm.Expr("ordens_ativas + ?", delta)).Error
}
