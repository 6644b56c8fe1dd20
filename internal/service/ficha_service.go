package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hmc-usinagem/ftc-api/internal/auth"
	"github.com/hmc-usinagem/ftc-api/internal/domain"
	"github.com/hmc-usinagem/ftc-api/internal/mapper"
	"github.com/hmc-usinagem/ftc-api/internal/repository"
)

// FichaService handles CRUD for fichas and their material grids.
// Status transitions live in FichaLifecycleService.
type FichaService struct {
	fichaRepo    *repository.FichaRepository
	materialRepo *repository.MaterialRepository
	historyRepo  *repository.StatusHistoryRepository
	logger       *zap.Logger
}

func NewFichaService(
	fichaRepo *repository.FichaRepository,
	materialRepo *repository.MaterialRepository,
	historyRepo *repository.StatusHistoryRepository,
	logger *zap.Logger,
) *FichaService {
	return &FichaService{
		fichaRepo:    fichaRepo,
		materialRepo: materialRepo,
		historyRepo:  historyRepo,
		logger:       logger,
	}
}

// Create creates a new ficha in rascunho
func (s *FichaService) Create(ctx context.Context, req *domain.CreateFichaRequest) (*domain.FichaDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	ficha := &domain.Ficha{
		Status:        domain.StatusRascunho,
		Version:       1,
		CriadoPorID:   userCtx.UserID.String(),
		CriadoPorNome: userCtx.Nome,
	}
	if err := mapper.ApplyCreateRequest(ficha, req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	for _, m := range req.Materiais {
		material := mapper.ToMaterial(uuid.Nil, &m)
		ficha.Materiais = append(ficha.Materiais, material)
	}

	if err := s.fichaRepo.Create(ctx, ficha); err != nil {
		return nil, fmt.Errorf("failed to create ficha: %w", err)
	}

	// The opening history entry has no from-status
	if err := s.historyRepo.RecordTransition(ctx, ficha.ID, nil, domain.StatusRascunho,
		userCtx.UserID.String(), userCtx.Nome, ""); err != nil {
		s.logger.Warn("failed to record initial status history", zap.Error(err))
	}

	s.logger.Info("ficha criada",
		zap.String("ficha_id", ficha.ID.String()),
		zap.String("cliente", ficha.Cliente),
		zap.String("criado_por", userCtx.Nome),
	)

	dto := mapper.ToFichaDTO(ficha)
	return &dto, nil
}

// GetByID returns a ficha with its materials and photos
func (s *FichaService) GetByID(ctx context.Context, id uuid.UUID) (*domain.FichaDTO, error) {
	ficha, err := s.fichaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFichaNotFound
		}
		return nil, fmt.Errorf("failed to get ficha: %w", err)
	}

	dto := mapper.ToFichaDTO(ficha)
	return &dto, nil
}

// Update saves the editable fields of a ficha. The save is conditional on
// the request's version matching the stored record; a mismatch returns
// ErrVersionConflict and the caller must reload and retry.
func (s *FichaService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateFichaRequest) (*domain.FichaDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	ficha, err := s.fichaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFichaNotFound
		}
		return nil, fmt.Errorf("failed to get ficha: %w", err)
	}

	if err := mapper.ApplyCreateRequest(ficha, &req.CreateFichaRequest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	ficha.NumeroOS = req.NumeroOS
	ficha.NumeroNFRemessa = req.NumeroNFRemessa

	if err := s.fichaRepo.UpdateWithVersion(ctx, ficha, req.Version); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to update ficha: %w", err)
	}

	// The grid is replaced wholesale; totals are recomputed on the way in
	materiais := make([]domain.Material, len(req.Materiais))
	for i, m := range req.Materiais {
		materiais[i] = mapper.ToMaterial(id, &m)
	}
	if err := s.materialRepo.ReplaceForFicha(ctx, id, materiais); err != nil {
		return nil, fmt.Errorf("failed to replace materials: %w", err)
	}

	ficha, err = s.fichaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload ficha: %w", err)
	}

	s.logger.Info("ficha atualizada",
		zap.String("ficha_id", id.String()),
		zap.Int("version", ficha.Version),
		zap.String("atualizado_por", userCtx.Nome),
	)

	dto := mapper.ToFichaDTO(ficha)
	return &dto, nil
}

// Delete removes a ficha and its materials
func (s *FichaService) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.fichaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFichaNotFound
		}
		return fmt.Errorf("failed to get ficha: %w", err)
	}

	if err := s.fichaRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete ficha: %w", err)
	}

	s.logger.Info("ficha removida", zap.String("ficha_id", id.String()))
	return nil
}

// List returns a paginated list of fichas, optionally filtered
func (s *FichaService) List(ctx context.Context, page, pageSize int, status *domain.StatusFicha, cliente string) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	fichas, total, err := s.fichaRepo.List(ctx, page, pageSize, status, cliente)
	if err != nil {
		return nil, fmt.Errorf("failed to list fichas: %w", err)
	}

	dtos := make([]domain.FichaDTO, len(fichas))
	for i := range fichas {
		dtos[i] = mapper.ToFichaDTO(&fichas[i])
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Items:      dtos,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// Search finds fichas by client, part name or quote number
func (s *FichaService) Search(ctx context.Context, query string, limit int) ([]domain.FichaDTO, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}

	fichas, err := s.fichaRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search fichas: %w", err)
	}

	dtos := make([]domain.FichaDTO, len(fichas))
	for i := range fichas {
		dtos[i] = mapper.ToFichaDTO(&fichas[i])
	}
	return dtos, nil
}

// Validate runs the field rules against the ficha for its current status
// and returns the findings grouped for display.
func (s *FichaService) Validate(ctx context.Context, id uuid.UUID) (*domain.ValidateFichaResponse, error) {
	ficha, err := s.fichaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFichaNotFound
		}
		return nil, fmt.Errorf("failed to get ficha: %w", err)
	}

	findings := domain.ValidateFicha(ficha, ficha.Status)
	errs := domain.ErrorsOnly(findings)

	resp := &domain.ValidateFichaResponse{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: domain.WarningsOnly(findings),
		Sections: domain.GroupBySection(findings),
	}
	if resp.Errors == nil {
		resp.Errors = []domain.ValidationError{}
	}
	if resp.Warnings == nil {
		resp.Warnings = []domain.ValidationError{}
	}
	return resp, nil
}

// GetHistory returns the status transition history of a ficha
func (s *FichaService) GetHistory(ctx context.Context, id uuid.UUID) ([]domain.FichaStatusHistoryDTO, error) {
	if _, err := s.fichaRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFichaNotFound
		}
		return nil, fmt.Errorf("failed to get ficha: %w", err)
	}

	history, err := s.historyRepo.GetByFichaID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get status history: %w", err)
	}

	dtos := make([]domain.FichaStatusHistoryDTO, len(history))
	for i := range history {
		dtos[i] = mapper.ToStatusHistoryDTO(&history[i])
	}
	return dtos, nil
}

// CountByStatus returns the dashboard counters per workflow stage
func (s *FichaService) CountByStatus(ctx context.Context) (map[domain.StatusFicha]int64, error) {
	return s.fichaRepo.CountByStatus(ctx)
}

// WhatsAppLink builds the prefilled wa.me follow-up link for the ficha's
// contact. Returns an empty string when the ficha has no phone on record.
func (s *FichaService) WhatsAppLink(ctx context.Context, id uuid.UUID) (string, error) {
	ficha, err := s.fichaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrFichaNotFound
		}
		return "", fmt.Errorf("failed to get ficha: %w", err)
	}
	return WhatsAppLink(ficha), nil
}
