package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
)

// NumberSequenceRepository handles database operations for quote number
// sequences. One counter exists per calendar year.
type NumberSequenceRepository struct {
	db *gorm.DB
}

// NewNumberSequenceRepository creates a new NumberSequenceRepository
func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

// GetNextNumber atomically retrieves and increments the sequence for a year.
// The increment runs as a single UPDATE statement so concurrent quote
// generation never produces duplicate numbers. If no sequence exists for the
// year one is created starting at 1; the unique index on year arbitrates
// concurrent creations.
func (r *NumberSequenceRepository) GetNextNumber(ctx context.Context, year int) (int, error) {
	var next int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.NumberSequence{}).
			Where("year = ?", year).
			Updates(map[string]interface{}{
				"last_value": gorm.Expr("last_value + 1"),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update number sequence: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			seq := domain.NumberSequence{
				Year:      year,
				LastValue: 1,
				UpdatedAt: time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create number sequence: %w", err)
			}
			next = 1
			return nil
		}

		var seq domain.NumberSequence
		if err := tx.Where("year = ?", year).First(&seq).Error; err != nil {
			return fmt.Errorf("failed to get number sequence: %w", err)
		}
		next = seq.LastValue
		return nil
	})

	if err != nil {
		return 0, err
	}

	return next, nil
}

// GetCurrentValue retrieves the current sequence value without incrementing.
// Returns 0 if no sequence exists for the year.
func (r *NumberSequenceRepository) GetCurrentValue(ctx context.Context, year int) (int, error) {
	var seq domain.NumberSequence
	result := r.db.WithContext(ctx).
		Where("year = ?", year).
		First(&seq)

	if result.Error == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if result.Error != nil {
		return 0, fmt.Errorf("failed to get number sequence: %w", result.Error)
	}

	return seq.LastValue, nil
}
