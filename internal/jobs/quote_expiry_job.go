package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
	"github.com/hmc-usinagem/ftc-api/internal/repository"
	"github.com/hmc-usinagem/ftc-api/internal/service"
)

// QuoteExpiryJob sweeps fichas whose quote was sent to the client and has
// sat unanswered past the configured number of days, nudging the commercial
// team once per sweep.
type QuoteExpiryJob struct {
	fichaRepo           *repository.FichaRepository
	notificationService *service.NotificationService
	expiryDays          int
	logger              *zap.Logger
}

// NewQuoteExpiryJob creates a new quote expiry job
func NewQuoteExpiryJob(
	fichaRepo *repository.FichaRepository,
	notificationService *service.NotificationService,
	expiryDays int,
	logger *zap.Logger,
) *QuoteExpiryJob {
	if expiryDays <= 0 {
		expiryDays = 7
	}
	return &QuoteExpiryJob{
		fichaRepo:           fichaRepo,
		notificationService: notificationService,
		expiryDays:          expiryDays,
		logger:              logger,
	}
}

// Run executes one sweep
func (j *QuoteExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -j.expiryDays)

	fichas, err := j.fichaRepo.ListStaleSentQuotes(ctx, cutoff)
	if err != nil {
		j.logger.Error("quote expiry sweep failed", zap.Error(err))
		return
	}

	if len(fichas) == 0 {
		j.logger.Debug("quote expiry sweep found nothing")
		return
	}

	for i := range fichas {
		j.notificationService.NotifyDepartamento(ctx, domain.DepartamentoComercial,
			domain.NotificationTypeOrcamentoExpirando, &fichas[i])
	}

	j.logger.Info("quote expiry sweep completed",
		zap.Int("stale_quotes", len(fichas)),
		zap.Int("expiry_days", j.expiryDays),
	)
}
