package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
)

type StatusHistoryRepository struct {
	db *gorm.DB
}

func NewStatusHistoryRepository(db *gorm.DB) *StatusHistoryRepository {
	return &StatusHistoryRepository{db: db}
}

// Create records a new status transition
func (r *StatusHistoryRepository) Create(ctx context.Context, history *domain.FichaStatusHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// RecordTransition builds and stores a transition entry for a ficha
func (r *StatusHistoryRepository) RecordTransition(ctx context.Context, fichaID uuid.UUID, from *domain.StatusFicha, to domain.StatusFicha, changedByID, changedByName, justificativa string) error {
	return r.Create(ctx, &domain.FichaStatusHistory{
		FichaID:       fichaID,
		FromStatus:    from,
		ToStatus:      to,
		ChangedByID:   changedByID,
		ChangedByName: changedByName,
		Justificativa: justificativa,
		ChangedAt:     time.Now().UTC(),
	})
}

// GetByFichaID returns all transitions of a ficha, newest first
func (r *StatusHistoryRepository) GetByFichaID(ctx context.Context, fichaID uuid.UUID) ([]domain.FichaStatusHistory, error) {
	var history []domain.FichaStatusHistory
	err := r.db.WithContext(ctx).
		Where("ficha_id = ?", fichaID).
		Order("changed_at DESC").
		Find(&history).Error
	return history, err
}

// GetLatestByFichaID returns the most recent transition of a ficha
func (r *StatusHistoryRepository) GetLatestByFichaID(ctx context.Context, fichaID uuid.UUID) (*domain.FichaStatusHistory, error) {
	var history domain.FichaStatusHistory
	err := r.db.WithContext(ctx).
		Where("ficha_id = ?", fichaID).
		Order("changed_at DESC").
		First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

// GetTransitionsToStatus returns all transitions into a status within a date range
func (r *StatusHistoryRepository) GetTransitionsToStatus(ctx context.Context, status domain.StatusFicha, from, to time.Time) ([]domain.FichaStatusHistory, error) {
	var history []domain.FichaStatusHistory
	err := r.db.WithContext(ctx).
		Where("to_status = ?", status).
		Where("changed_at >= ? AND changed_at <= ?", from, to).
		Order("changed_at DESC").
		Find(&history).Error
	return history, err
}
