package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
)

func TestSimNao_Bool(t *testing.T) {
	assert.True(t, domain.Sim.Bool())
	assert.True(t, domain.SimNao("sim").Bool())
	assert.False(t, domain.Nao.Bool())
	assert.False(t, domain.SimNao("").Bool())
	assert.False(t, domain.SimNao("talvez").Bool())
}

func TestDepartamento_IsValid(t *testing.T) {
	valid := []domain.Departamento{
		domain.DepartamentoTecnico,
		domain.DepartamentoCompras,
		domain.DepartamentoComercial,
		domain.DepartamentoPCP,
		domain.DepartamentoProducao,
		domain.DepartamentoAdmin,
	}
	for _, d := range valid {
		assert.True(t, d.IsValid(), "departamento %s", d)
	}

	assert.False(t, domain.Departamento("financeiro").IsValid())
	assert.False(t, domain.Departamento("").IsValid())
}

func TestMaterial_RecalculateTotal(t *testing.T) {
	m := domain.Material{Quantidade: 3, PrecoUnitario: 42.5}
	m.RecalculateTotal()
	assert.InDelta(t, 127.5, m.Total, 0.001)

	m.Quantidade = 0
	m.RecalculateTotal()
	assert.Zero(t, m.Total)
}

func TestMaterial_IsFilled(t *testing.T) {
	tests := []struct {
		name     string
		material domain.Material
		expected bool
	}{
		{"description and quantity", domain.Material{Descricao: "Aço", Quantidade: 1}, true},
		{"blank row", domain.Material{}, false},
		{"description only", domain.Material{Descricao: "Aço"}, false},
		{"quantity only", domain.Material{Quantidade: 2}, false},
		{"whitespace description", domain.Material{Descricao: "   ", Quantidade: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.material.IsFilled())
		})
	}
}

func TestMaterial_IsPriced(t *testing.T) {
	assert.True(t, (&domain.Material{PrecoUnitario: 10, Total: 20}).IsPriced())
	assert.False(t, (&domain.Material{PrecoUnitario: 10, Total: 0}).IsPriced())
	assert.False(t, (&domain.Material{PrecoUnitario: 0, Total: 20}).IsPriced())
	assert.False(t, (&domain.Material{}).IsPriced())
}

func TestFuncionario_DominaProcesso(t *testing.T) {
	f := domain.Funcionario{Processos: "torno_cnc, fresa ,solda"}

	assert.True(t, f.DominaProcesso("torno_cnc"))
	assert.True(t, f.DominaProcesso("fresa"))
	assert.True(t, f.DominaProcesso("SOLDA"))
	assert.False(t, f.DominaProcesso("calandra"))

	empty := domain.Funcionario{}
	assert.False(t, empty.DominaProcesso("torno_cnc"))
}
