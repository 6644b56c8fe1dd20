package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
)

// ErrStaleVersion is returned by the versioned update methods when the stored
// row no longer carries the expected version.
var ErrStaleVersion = errors.New("stale version")

type FichaRepository struct {
	db *gorm.DB
}

func NewFichaRepository(db *gorm.DB) *FichaRepository {
	return &FichaRepository{db: db}
}

func (r *FichaRepository) Create(ctx context.Context, ficha *domain.Ficha) error {
	return r.db.WithContext(ctx).Create(ficha).Error
}

func (r *FichaRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ficha, error) {
	var ficha domain.Ficha
	err := r.db.WithContext(ctx).
		Preload("Materiais", func(db *gorm.DB) *gorm.DB {
			return db.Order("ordem ASC")
		}).
		Preload("Fotos").
		First(&ficha, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ficha, nil
}

// UpdateWithVersion saves the ficha conditionally on the expected version,
// incrementing it in the same statement. Returns ErrStaleVersion when the
// row has moved on since the caller loaded it.
func (r *FichaRepository) UpdateWithVersion(ctx context.Context, ficha *domain.Ficha, expectedVersion int) error {
	ficha.Version = expectedVersion + 1
	result := r.db.WithContext(ctx).
		Model(&domain.Ficha{}).
		Where("id = ? AND version = ?", ficha.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at", "Materiais", "Fotos").
		Updates(ficha)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}

// UpdateStatus moves the ficha to a new status under the same version guard.
func (r *FichaRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StatusFicha, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Ficha{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"status":     status,
			"version":    expectedVersion + 1,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}

func (r *FichaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Ficha{}, "id = ?", id).Error
}

func (r *FichaRepository) List(ctx context.Context, page, pageSize int, status *domain.StatusFicha, cliente string) ([]domain.Ficha, int64, error) {
	var fichas []domain.Ficha
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Ficha{}).Preload("Materiais")

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if cliente != "" {
		query = query.Where("LOWER(cliente) LIKE ?", "%"+strings.ToLower(cliente)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&fichas).Error

	return fichas, total, err
}

func (r *FichaRepository) ListByStatus(ctx context.Context, status domain.StatusFicha) ([]domain.Ficha, error) {
	var fichas []domain.Ficha
	err := r.db.WithContext(ctx).
		Preload("Materiais").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&fichas).Error
	return fichas, err
}

// ListStaleSentQuotes returns fichas whose quote was sent to the client and
// has been waiting for an answer longer than the cutoff.
func (r *FichaRepository) ListStaleSentQuotes(ctx context.Context, cutoff time.Time) ([]domain.Ficha, error) {
	var fichas []domain.Ficha
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", domain.StatusOrcamentoEnviadoCliente, cutoff).
		Order("updated_at ASC").
		Find(&fichas).Error
	return fichas, err
}

func (r *FichaRepository) Search(ctx context.Context, searchQuery string, limit int) ([]domain.Ficha, error) {
	var fichas []domain.Ficha
	pattern := "%" + strings.ToLower(searchQuery) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(cliente) LIKE ? OR LOWER(nome_peca) LIKE ? OR LOWER(numero_orcamento) LIKE ?", pattern, pattern, pattern).
		Limit(limit).
		Order("created_at DESC").
		Find(&fichas).Error
	return fichas, err
}

func (r *FichaRepository) CountByStatus(ctx context.Context) (map[domain.StatusFicha]int64, error) {
	type result struct {
		Status domain.StatusFicha
		Count  int64
	}
	var results []result

	err := r.db.WithContext(ctx).Model(&domain.Ficha{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.StatusFicha]int64)
	for _, res := range results {
		counts[res.Status] = res.Count
	}
	return counts, nil
}
