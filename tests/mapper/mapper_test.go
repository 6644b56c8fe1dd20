package mapper_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
	"github.com/hmc-usinagem/ftc-api/internal/mapper"
)

func TestToFichaDTO(t *testing.T) {
	entrega := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	aprovacao := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

	ficha := &domain.Ficha{
		Cliente:     "Mineradora Vale Verde",
		Solicitante: "Carlos Pereira",
		NomePeca:    "Eixo de transmissão",
		Quantidade:  2,
		DataEntrega: &entrega,

		HorasTornoCNC: 8,
		HorasFresa:    0,

		NumeroOrcamento: "FTC-2026-001",
		AprovadoPor:     "Carlos Pereira",
		DataAprovacao:   &aprovacao,

		Status:  domain.StatusOrcamentoAprovadoCliente,
		Version: 3,

		Materiais: []domain.Material{
			{Descricao: "Aço 1045", Quantidade: 2, PrecoUnitario: 100, Total: 200},
			{Descricao: "Chapa", Quantidade: 1, PrecoUnitario: 50, Total: 50},
		},
		Fotos: []domain.Foto{{Filename: "peca.jpg"}},
	}
	ficha.CreatedAt = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	ficha.UpdatedAt = time.Date(2026, 8, 2, 11, 0, 0, 0, time.UTC)

	dto := mapper.ToFichaDTO(ficha)

	assert.Equal(t, "Mineradora Vale Verde", dto.Cliente)
	assert.Equal(t, domain.StatusOrcamentoAprovadoCliente, dto.Status)
	assert.Equal(t, "Orçamento Aprovado", dto.StatusLabel)
	assert.Equal(t, 3, dto.Version)

	// Dates come out as strings: date-only for delivery, full timestamp for
	// the approval moment.
	require.NotNil(t, dto.DataEntrega)
	assert.Equal(t, "2026-10-15", *dto.DataEntrega)
	require.NotNil(t, dto.DataAprovacao)
	assert.Equal(t, "2026-09-01T14:30:00Z", *dto.DataAprovacao)
	assert.Nil(t, dto.DataVisita)
	assert.Equal(t, "2026-08-01T10:00:00Z", dto.CreatedAt)

	// Materials carry through with the grand total computed.
	require.Len(t, dto.Materiais, 2)
	assert.InDelta(t, 250, dto.TotalMateriais, 0.001)
	assert.Equal(t, 1, dto.FotosCount)

	// Zero hour columns are omitted from the map.
	assert.Equal(t, map[string]float64{"torno_cnc": 8}, dto.Horas)
}

func TestHorasServico_OmitsZeroEntries(t *testing.T) {
	ficha := &domain.Ficha{
		HorasTornoGrande: 2.5,
		HorasSolda:       1,
	}

	horas := mapper.HorasServico(ficha)

	assert.Equal(t, map[string]float64{
		"torno_grande": 2.5,
		"solda":        1,
	}, horas)

	assert.Empty(t, mapper.HorasServico(&domain.Ficha{}))
}

func TestApplyHorasServico(t *testing.T) {
	ficha := &domain.Ficha{}

	err := mapper.ApplyHorasServico(ficha, map[string]float64{
		"torno_cnc":          8,
		"fresa":              4,
		"controle_qualidade": 1.5,
	})
	require.NoError(t, err)

	assert.Equal(t, 8.0, ficha.HorasTornoCNC)
	assert.Equal(t, 4.0, ficha.HorasFresa)
	assert.Equal(t, 1.5, ficha.HorasControleQualidade)
	assert.Zero(t, ficha.HorasSolda)
}

func TestApplyHorasServico_UnknownProcess(t *testing.T) {
	ficha := &domain.Ficha{}

	err := mapper.ApplyHorasServico(ficha, map[string]float64{"laser": 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "laser")
}

func TestHorasServico_RoundTrip(t *testing.T) {
	original := map[string]float64{
		"torno_pequeno": 3,
		"caldeiraria":   6.5,
		"montagem":      2,
	}

	ficha := &domain.Ficha{}
	require.NoError(t, mapper.ApplyHorasServico(ficha, original))
	assert.Equal(t, original, mapper.HorasServico(ficha))
}

func TestToMaterial_RecomputesTotal(t *testing.T) {
	fichaID := uuid.New()

	material := mapper.ToMaterial(fichaID, &domain.UpsertMaterialRequest{
		Descricao:     "Aço 1045",
		Quantidade:    3,
		Unidade:       "kg",
		PrecoUnitario: 42.5,
		Fornecedor:    "Metalúrgica Sul",
		Ordem:         1,
		// Any client-sent total is ignored; the line total always comes from
		// quantity times unit price.
	})

	assert.Equal(t, fichaID, material.FichaID)
	assert.InDelta(t, 127.5, material.Total, 0.001)
	assert.Equal(t, 1, material.Ordem)
}

func TestApplyCreateRequest_Defaults(t *testing.T) {
	ficha := &domain.Ficha{}

	err := mapper.ApplyCreateRequest(ficha, &domain.CreateFichaRequest{
		Cliente:     "Siderúrgica Aurora",
		Solicitante: "Marina Souza",
		Telefone:    "(31) 98765-4321",
		Email:       "marina@aurora.com.br",
		NomePeca:    "Engrenagem",
		Quantidade:  4,
		Servico:     "Fabricação completa",
	})
	require.NoError(t, err)

	// Unset enum fields land on the form defaults, never empty strings.
	assert.Equal(t, domain.LocalExecucaoHMC, ficha.LocalExecucao)
	assert.Equal(t, domain.OrigemDesenhoHMC, ficha.OrigemDesenho)
	assert.Equal(t, domain.Nao, ficha.VisitaTecnica)
	assert.Equal(t, domain.Nao, ficha.Pintura)
	assert.Equal(t, domain.Nao, ficha.Balanceamento)

	// Status and version are not touched by the request mapper.
	assert.Empty(t, ficha.Status)
	assert.Zero(t, ficha.Version)
}

func TestToStatusHistoryDTO(t *testing.T) {
	from := domain.StatusRascunho
	entry := &domain.FichaStatusHistory{
		ID:            uuid.New(),
		FichaID:       uuid.New(),
		FromStatus:    &from,
		ToStatus:      domain.StatusAguardandoCotacaoCompras,
		ChangedByID:   "user-1",
		ChangedByName: "Marina",
		Justificativa: "",
		ChangedAt:     time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}

	dto := mapper.ToStatusHistoryDTO(entry)

	require.NotNil(t, dto.FromStatus)
	assert.Equal(t, domain.StatusRascunho, *dto.FromStatus)
	assert.Equal(t, domain.StatusAguardandoCotacaoCompras, dto.ToStatus)
	assert.Equal(t, "2026-08-01T09:00:00Z", dto.ChangedAt)
}

func TestToFuncionarioDTO_SplitsProcessos(t *testing.T) {
	f := &domain.Funcionario{
		Nome:      "João",
		Processos: "torno_cnc, fresa ,,solda",
	}

	dto := mapper.ToFuncionarioDTO(f)
	assert.Equal(t, []string{"torno_cnc", "fresa", "solda"}, dto.Processos)

	// No qualifications yields an empty slice, not nil, so the JSON is [].
	empty := mapper.ToFuncionarioDTO(&domain.Funcionario{})
	assert.NotNil(t, empty.Processos)
	assert.Empty(t, empty.Processos)
}
