package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
	"github.com/hmc-usinagem/ftc-api/internal/mapper"
	"github.com/hmc-usinagem/ftc-api/internal/repository"
)

// AllocationService suggests which shop-floor worker should take a process
// step. The rule is greedy least-loaded: among active workers qualified for
// the process, pick the one with the fewest active orders.
type AllocationService struct {
	funcionarioRepo *repository.FuncionarioRepository
	logger          *zap.Logger
}

func NewAllocationService(
	funcionarioRepo *repository.FuncionarioRepository,
	logger *zap.Logger,
) *AllocationService {
	return &AllocationService{
		funcionarioRepo: funcionarioRepo,
		logger:          logger,
	}
}

// Suggest returns the least-loaded qualified worker for the process, plus
// the remaining qualified alternatives in load order. An empty suggestion
// with no error means nobody is qualified.
func (s *AllocationService) Suggest(ctx context.Context, processo string) (*domain.SuggestAllocationResponse, error) {
	funcionarios, err := s.funcionarioRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list funcionarios: %w", err)
	}

	// The repository already orders by load; keep the first qualified hit
	// as the suggestion and the rest as alternatives.
	var qualified []domain.FuncionarioDTO
	for i := range funcionarios {
		if funcionarios[i].DominaProcesso(processo) {
			qualified = append(qualified, mapper.ToFuncionarioDTO(&funcionarios[i]))
		}
	}

	resp := &domain.SuggestAllocationResponse{Processo: processo}
	if len(qualified) == 0 {
		s.logger.Warn("nenhum funcionário qualificado para o processo",
			zap.String("processo", processo),
		)
		return resp, nil
	}

	resp.Sugerido = &qualified[0]
	if len(qualified) > 1 {
		resp.Alternativos = qualified[1:]
	}

	s.logger.Info("alocação sugerida",
		zap.String("processo", processo),
		zap.String("funcionario", resp.Sugerido.Nome),
		zap.Int("ordens_ativas", resp.Sugerido.OrdensAtivas),
	)

	return resp, nil
}

// ListFuncionarios returns every active worker for the PCP screens
func (s *AllocationService) ListFuncionarios(ctx context.Context) ([]domain.FuncionarioDTO, error) {
	funcionarios, err := s.funcionarioRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list funcionarios: %w", err)
	}

	dtos := make([]domain.FuncionarioDTO, len(funcionarios))
	for i := range funcionarios {
		dtos[i] = mapper.ToFuncionarioDTO(&funcionarios[i])
	}
	return dtos, nil
}
