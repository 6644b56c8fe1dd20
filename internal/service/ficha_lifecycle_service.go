package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hmc-usinagem/ftc-api/internal/auth"
	"github.com/hmc-usinagem/ftc-api/internal/domain"
	"github.com/hmc-usinagem/ftc-api/internal/mapper"
	"github.com/hmc-usinagem/ftc-api/internal/repository"
)

// ValidationFailedError carries the field findings that blocked a transition
type ValidationFailedError struct {
	Findings []domain.ValidationError
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("ficha validation failed with %d errors", len(e.Findings))
}

func (e *ValidationFailedError) Unwrap() error {
	return ErrValidationFailed
}

// FichaLifecycleService owns every status change of a ficha. The status
// column is never written anywhere else. Forward movement in the quoting
// stages goes through Advance; the post-approval stages move through the
// explicit operations below.
type FichaLifecycleService struct {
	fichaRepo           *repository.FichaRepository
	historyRepo         *repository.StatusHistoryRepository
	notificationService *NotificationService
	numberSeqService    *NumberSequenceService
	logger              *zap.Logger
}

func NewFichaLifecycleService(
	fichaRepo *repository.FichaRepository,
	historyRepo *repository.StatusHistoryRepository,
	notificationService *NotificationService,
	numberSeqService *NumberSequenceService,
	logger *zap.Logger,
) *FichaLifecycleService {
	return &FichaLifecycleService{
		fichaRepo:           fichaRepo,
		historyRepo:         historyRepo,
		notificationService: notificationService,
		numberSeqService:    numberSeqService,
		logger:              logger,
	}
}

// Advance evaluates a forward transition for the ficha. A refused guard is
// not an error: the response carries the unchanged ficha and the refusal
// reason. Choice "continue" always leaves the status untouched.
func (s *FichaLifecycleService) Advance(ctx context.Context, id uuid.UUID, req *domain.AdvanceFichaRequest) (*domain.AdvanceFichaResponse, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	ficha, err := s.loadFicha(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := domain.ComputeNextStatus(ficha, req.Choice)
	if !decision.Advanced {
		dto := mapper.ToFichaDTO(ficha)
		return &domain.AdvanceFichaResponse{Ficha: &dto, Decision: decision}, nil
	}

	// Leaving rascunho requires the draft-stage fields to be complete;
	// sending the quote requires the full profile including control numbers.
	if ficha.Status == domain.StatusRascunho {
		if errs := domain.ErrorsOnly(domain.ValidateFicha(ficha, domain.StatusRascunho)); len(errs) > 0 {
			return nil, &ValidationFailedError{Findings: errs}
		}
	}

	fromStatus := ficha.Status

	// A quote number is stamped on entry to the commercial stage so the
	// guard into orcamento_enviado_cliente can rely on it.
	if decision.NextStatus == domain.StatusAguardandoOrcamentoComercial && ficha.NumeroOrcamento == "" {
		numero, err := s.numberSeqService.NextQuoteNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to generate quote number: %w", err)
		}
		ficha.NumeroOrcamento = numero
	}

	if decision.NextStatus == domain.StatusOrcamentoEnviadoCliente {
		if errs := domain.ErrorsOnly(domain.ValidateFicha(ficha, decision.NextStatus)); len(errs) > 0 {
			return nil, &ValidationFailedError{Findings: errs}
		}
	}

	ficha.Status = decision.NextStatus
	if err := s.fichaRepo.UpdateWithVersion(ctx, ficha, req.Version); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to advance ficha: %w", err)
	}

	s.recordTransition(ctx, ficha.ID, fromStatus, decision.NextStatus, userCtx, "")

	switch decision.Notify {
	case domain.NotifyCompras:
		s.notificationService.NotifyDepartamento(ctx, domain.DepartamentoCompras,
			domain.NotificationTypeFichaParaCompras, ficha)
	case domain.NotifyComercial:
		s.notificationService.NotifyDepartamento(ctx, domain.DepartamentoComercial,
			domain.NotificationTypeFichaParaComercial, ficha)
	}

	s.logger.Info("ficha avançou de etapa",
		zap.String("ficha_id", ficha.ID.String()),
		zap.String("de", string(fromStatus)),
		zap.String("para", string(decision.NextStatus)),
		zap.String("por", userCtx.Nome),
	)

	ficha, err = s.loadFicha(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToFichaDTO(ficha)
	return &domain.AdvanceFichaResponse{Ficha: &dto, Decision: decision}, nil
}

// Revert rolls the ficha back one stage. The justification is mandatory,
// persisted on the history entry, and the department losing the record is
// told what the rollback undoes.
func (s *FichaLifecycleService) Revert(ctx context.Context, id uuid.UUID, req *domain.RevertFichaRequest) (*domain.RevertFichaResponse, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if len(strings.TrimSpace(req.Justificativa)) < 10 {
		return nil, ErrJustificativaTooShort
	}

	ficha, err := s.loadFicha(ctx, id)
	if err != nil {
		return nil, err
	}

	previous, ok := domain.PreviousStatus(ficha.Status)
	if !ok {
		return nil, ErrNoPreviousStatus
	}

	fromStatus := ficha.Status
	impact := domain.DescribeReversalImpact(fromStatus, previous)

	if err := s.fichaRepo.UpdateStatus(ctx, id, previous, req.Version); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to revert ficha: %w", err)
	}

	s.recordTransition(ctx, id, fromStatus, previous, userCtx, req.Justificativa)

	s.notificationService.NotifyReversal(ctx, ficha, previous, req.Justificativa)

	s.logger.Info("ficha revertida",
		zap.String("ficha_id", id.String()),
		zap.String("de", string(fromStatus)),
		zap.String("para", string(previous)),
		zap.String("por", userCtx.Nome),
		zap.String("justificativa", req.Justificativa),
	)

	ficha, err = s.loadFicha(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToFichaDTO(ficha)
	return &domain.RevertFichaResponse{Ficha: &dto, Impact: impact}, nil
}

// RespondAsClient records the client's answer to a sent quote. Approval
// moves the ficha forward; rejection returns it to the commercial stage for
// revision, keeping the answer on the history trail.
func (s *FichaLifecycleService) RespondAsClient(ctx context.Context, id uuid.UUID, req *domain.ClientResponseRequest) (*domain.FichaDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	ficha, err := s.loadFicha(ctx, id)
	if err != nil {
		return nil, err
	}

	if ficha.Status != domain.StatusOrcamentoEnviadoCliente {
		return nil, ErrFichaNotSent
	}

	fromStatus := ficha.Status

	var toStatus domain.StatusFicha
	var notifType domain.NotificationType
	justificativa := req.Observacao

	if req.Aprovado {
		toStatus = domain.StatusOrcamentoAprovadoCliente
		notifType = domain.NotificationTypeOrcamentoAprovado
		now := time.Now().UTC()
		ficha.AprovadoPor = req.Respondente
		ficha.DataAprovacao = &now
	} else {
		toStatus = domain.StatusAguardandoOrcamentoComercial
		notifType = domain.NotificationTypeOrcamentoRejeitado
		if justificativa == "" {
			justificativa = fmt.Sprintf("Orçamento recusado por %s", req.Respondente)
		}
	}

	ficha.Status = toStatus
	if err := s.fichaRepo.UpdateWithVersion(ctx, ficha, req.Version); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to record client response: %w", err)
	}

	s.recordTransition(ctx, id, fromStatus, toStatus, userCtx, justificativa)
	s.notificationService.NotifyDepartamento(ctx, domain.DepartamentoComercial, notifType, ficha)

	s.logger.Info("resposta do cliente registrada",
		zap.String("ficha_id", id.String()),
		zap.Bool("aprovado", req.Aprovado),
		zap.String("respondente", req.Respondente),
	)

	ficha, err = s.loadFicha(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToFichaDTO(ficha)
	return &dto, nil
}

// StartPurchasing moves an approved ficha into em_compras
func (s *FichaLifecycleService) StartPurchasing(ctx context.Context, id uuid.UUID, version int) (*domain.FichaDTO, error) {
	return s.explicitStep(ctx, id, version, domain.StatusOrcamentoAprovadoCliente, domain.StatusEmCompras, ErrFichaNotApproved)
}

// StartProduction moves a ficha from em_compras into em_producao
func (s *FichaLifecycleService) StartProduction(ctx context.Context, id uuid.UUID, version int) (*domain.FichaDTO, error) {
	return s.explicitStep(ctx, id, version, domain.StatusEmCompras, domain.StatusEmProducao, ErrFichaNotInPurchasing)
}

// Finish closes a ficha that completed production
func (s *FichaLifecycleService) Finish(ctx context.Context, id uuid.UUID, version int) (*domain.FichaDTO, error) {
	return s.explicitStep(ctx, id, version, domain.StatusEmProducao, domain.StatusFinalizada, ErrFichaNotInProduction)
}

// explicitStep performs a guarded single-stage advance outside the quoting
// sub-machine.
func (s *FichaLifecycleService) explicitStep(ctx context.Context, id uuid.UUID, version int, from, to domain.StatusFicha, guardErr error) (*domain.FichaDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	ficha, err := s.loadFicha(ctx, id)
	if err != nil {
		return nil, err
	}

	if ficha.Status != from {
		return nil, guardErr
	}

	if err := s.fichaRepo.UpdateStatus(ctx, id, to, version); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to update ficha status: %w", err)
	}

	s.recordTransition(ctx, id, from, to, userCtx, "")

	s.logger.Info("ficha avançou de etapa",
		zap.String("ficha_id", id.String()),
		zap.String("de", string(from)),
		zap.String("para", string(to)),
		zap.String("por", userCtx.Nome),
	)

	ficha, err = s.loadFicha(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToFichaDTO(ficha)
	return &dto, nil
}

func (s *FichaLifecycleService) loadFicha(ctx context.Context, id uuid.UUID) (*domain.Ficha, error) {
	ficha, err := s.fichaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFichaNotFound
		}
		return nil, fmt.Errorf("failed to get ficha: %w", err)
	}
	return ficha, nil
}

func (s *FichaLifecycleService) recordTransition(ctx context.Context, fichaID uuid.UUID, from, to domain.StatusFicha, userCtx *auth.UserContext, justificativa string) {
	if err := s.historyRepo.RecordTransition(ctx, fichaID, &from, to,
		userCtx.UserID.String(), userCtx.Nome, justificativa); err != nil {
		s.logger.Warn("failed to record status history",
			zap.String("ficha_id", fichaID.String()),
			zap.Error(err),
		)
	}
}
