package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
)

func TestComputeNextStatus_ContinueNeverMoves(t *testing.T) {
	for _, status := range domain.StatusOrder() {
		f := &domain.Ficha{Status: status}
		decision := domain.ComputeNextStatus(f, domain.TransitionContinue)

		assert.Equal(t, status, decision.NextStatus)
		assert.False(t, decision.Advanced)
		assert.Empty(t, decision.Reason)
		assert.Equal(t, domain.NotifyNone, decision.Notify)
	}
}

func TestComputeNextStatus_RascunhoAdvancesWithoutGuard(t *testing.T) {
	f := &domain.Ficha{Status: domain.StatusRascunho}

	decision := domain.ComputeNextStatus(f, domain.TransitionFinished)

	assert.True(t, decision.Advanced)
	assert.Equal(t, domain.StatusAguardandoCotacaoCompras, decision.NextStatus)
	assert.Equal(t, domain.NotifyCompras, decision.Notify)
}

func TestComputeNextStatus_ComprasGuard(t *testing.T) {
	tests := []struct {
		name      string
		materiais []domain.Material
		advanced  bool
	}{
		{
			"no materials at all passes vacuously",
			nil,
			true,
		},
		{
			"only blank rows passes",
			[]domain.Material{
				{Descricao: "", Quantidade: 0},
				{Descricao: "   ", Quantidade: 5},
			},
			true,
		},
		{
			"filled row without price blocks",
			[]domain.Material{
				{Descricao: "Aço 1045", Quantidade: 3, PrecoUnitario: 0},
			},
			false,
		},
		{
			"filled row with price but zero total blocks",
			[]domain.Material{
				{Descricao: "Aço 1045", Quantidade: 3, PrecoUnitario: 50, Total: 0},
			},
			false,
		},
		{
			"every filled row priced passes",
			[]domain.Material{
				{Descricao: "Aço 1045", Quantidade: 3, PrecoUnitario: 50, Total: 150},
				{Descricao: "", Quantidade: 0},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &domain.Ficha{
				Status:    domain.StatusAguardandoCotacaoCompras,
				Materiais: tt.materiais,
			}

			decision := domain.ComputeNextStatus(f, domain.TransitionFinished)

			if tt.advanced {
				assert.True(t, decision.Advanced)
				assert.Equal(t, domain.StatusAguardandoOrcamentoComercial, decision.NextStatus)
				assert.Equal(t, domain.NotifyComercial, decision.Notify)
				assert.Empty(t, decision.Reason)
			} else {
				assert.False(t, decision.Advanced)
				assert.Equal(t, domain.StatusAguardandoCotacaoCompras, decision.NextStatus)
				assert.NotEmpty(t, decision.Reason)
				assert.Equal(t, domain.NotifyNone, decision.Notify)
			}
		})
	}
}

func TestComputeNextStatus_ComercialGuard(t *testing.T) {
	f := &domain.Ficha{Status: domain.StatusAguardandoOrcamentoComercial}

	// Without a quote number the transition is refused.
	decision := domain.ComputeNextStatus(f, domain.TransitionFinished)
	assert.False(t, decision.Advanced)
	assert.Equal(t, domain.StatusAguardandoOrcamentoComercial, decision.NextStatus)
	assert.NotEmpty(t, decision.Reason)

	f.NumeroOrcamento = "FTC-2026-001"
	decision = domain.ComputeNextStatus(f, domain.TransitionFinished)
	assert.True(t, decision.Advanced)
	assert.Equal(t, domain.StatusOrcamentoEnviadoCliente, decision.NextStatus)
	assert.Equal(t, domain.NotifyNone, decision.Notify)
}

func TestComputeNextStatus_LaterStagesStayPut(t *testing.T) {
	laterStages := []domain.StatusFicha{
		domain.StatusOrcamentoEnviadoCliente,
		domain.StatusOrcamentoAprovadoCliente,
		domain.StatusEmCompras,
		domain.StatusEmProducao,
		domain.StatusFinalizada,
	}

	for _, status := range laterStages {
		f := &domain.Ficha{Status: status}
		decision := domain.ComputeNextStatus(f, domain.TransitionFinished)

		assert.False(t, decision.Advanced, "status %s must not advance", status)
		assert.Equal(t, status, decision.NextStatus)
	}
}

func TestPreviousStatus(t *testing.T) {
	prev, ok := domain.PreviousStatus(domain.StatusAguardandoCotacaoCompras)
	assert.True(t, ok)
	assert.Equal(t, domain.StatusRascunho, prev)

	_, ok = domain.PreviousStatus(domain.StatusRascunho)
	assert.False(t, ok)
}

func TestDescribeReversalImpact(t *testing.T) {
	tests := []struct {
		name     string
		current  domain.StatusFicha
		previous domain.StatusFicha
		contains string
	}{
		{
			"compras back to rascunho",
			domain.StatusAguardandoCotacaoCompras,
			domain.StatusRascunho,
			"volta ao técnico",
		},
		{
			"comercial back to compras",
			domain.StatusAguardandoOrcamentoComercial,
			domain.StatusAguardandoCotacaoCompras,
			"recotação",
		},
		{
			"enviado back to comercial",
			domain.StatusOrcamentoEnviadoCliente,
			domain.StatusAguardandoOrcamentoComercial,
			"invalidado",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			impact := domain.DescribeReversalImpact(tt.current, tt.previous)
			assert.Contains(t, impact, tt.contains)
		})
	}
}

func TestDescribeReversalImpact_GenericFallback(t *testing.T) {
	impact := domain.DescribeReversalImpact(domain.StatusFinalizada, domain.StatusEmProducao)
	assert.Contains(t, impact, "etapa anterior")

	// Pairs with a specific entry never get the generic message.
	specific := domain.DescribeReversalImpact(domain.StatusOrcamentoEnviadoCliente, domain.StatusAguardandoOrcamentoComercial)
	assert.NotEqual(t, impact, specific)
}
