package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hmc-usinagem/ftc-api/internal/repository"
)

// NumberSequenceService generates unique, formatted quote numbers.
// One counter exists per calendar year.
//
// Format: FTC-{YEAR}-{SEQUENCE}
// Example: FTC-2025-001
type NumberSequenceService struct {
	repo   *repository.NumberSequenceRepository
	logger *zap.Logger
}

// NewNumberSequenceService creates a new NumberSequenceService
func NewNumberSequenceService(
	repo *repository.NumberSequenceRepository,
	logger *zap.Logger,
) *NumberSequenceService {
	return &NumberSequenceService{
		repo:   repo,
		logger: logger,
	}
}

// NextQuoteNumber generates the next quote number for the current year.
// Called when a ficha enters the commercial stage; the sequence increment
// is atomic so concurrent fichas never share a number.
func (s *NumberSequenceService) NextQuoteNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()

	next, err := s.repo.GetNextNumber(ctx, year)
	if err != nil {
		s.logger.Error("failed to get next sequence number",
			zap.Int("year", year),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate quote number: %w", err)
	}

	// Zero-padded to 3 digits; years with more than 999 quotes widen naturally
	number := fmt.Sprintf("FTC-%d-%03d", year, next)

	s.logger.Info("número de orçamento gerado",
		zap.String("numero", number),
		zap.Int("year", year),
		zap.Int("sequence", next))

	return number, nil
}
