package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
)

// draftFicha returns a record satisfying the rascunho validation profile.
func draftFicha() *domain.Ficha {
	return &domain.Ficha{
		Cliente:     "Siderúrgica Aurora",
		Solicitante: "Marina Souza",
		Telefone:    "(31) 98765-4321",
		Email:       "marina@aurora.com.br",
		NomePeca:    "Engrenagem cônica",
		Quantidade:  4,
		Servico:     "Fabricação completa conforme amostra",

		VisitaTecnica:     domain.Nao,
		Pintura:           domain.Nao,
		Galvanizacao:      domain.Nao,
		TratamentoTermico: domain.Nao,
		Balanceamento:     domain.Nao,
	}
}

// completeFicha extends the draft profile with everything the later stages
// require.
func completeFicha() *domain.Ficha {
	f := draftFicha()
	entrega := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)
	f.DataEntrega = &entrega
	f.Observacoes = "Entrega combinada com o PCP"
	f.NumeroOrcamento = "FTC-2026-007"
	f.NumeroOS = "OS-4455"
	f.NumeroDesenho = "DES-8899"
	f.NumeroNFRemessa = "NF-1122"
	f.Materiais = []domain.Material{
		{Descricao: "Aço 4340", Quantidade: 10, PrecoUnitario: 42.5, Fornecedor: "Metalúrgica Sul", Total: 425},
	}
	return f
}

func fieldsOf(errs []domain.ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestValidateFicha_DraftComplete(t *testing.T) {
	errs := domain.ValidateFicha(draftFicha(), domain.StatusRascunho)
	assert.Empty(t, errs)
}

func TestValidateFicha_AlwaysRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *domain.Ficha)
		field   string
		section string
	}{
		{"missing cliente", func(f *domain.Ficha) { f.Cliente = "  " }, "cliente", domain.SecaoCliente},
		{"missing solicitante", func(f *domain.Ficha) { f.Solicitante = "" }, "solicitante", domain.SecaoCliente},
		{"missing telefone", func(f *domain.Ficha) { f.Telefone = "" }, "telefone", domain.SecaoCliente},
		{"missing email", func(f *domain.Ficha) { f.Email = "" }, "email", domain.SecaoCliente},
		{"malformed email", func(f *domain.Ficha) { f.Email = "marina@aurora" }, "email", domain.SecaoCliente},
		{"email with spaces", func(f *domain.Ficha) { f.Email = "marina souza@aurora.com.br" }, "email", domain.SecaoCliente},
		{"missing nome_peca", func(f *domain.Ficha) { f.NomePeca = "" }, "nome_peca", domain.SecaoPeca},
		{"zero quantidade", func(f *domain.Ficha) { f.Quantidade = 0 }, "quantidade", domain.SecaoPeca},
		{"negative quantidade", func(f *domain.Ficha) { f.Quantidade = -1 }, "quantidade", domain.SecaoPeca},
		{"missing servico", func(f *domain.Ficha) { f.Servico = "" }, "servico", domain.SecaoPeca},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := draftFicha()
			tt.mutate(f)

			errs := domain.ValidateFicha(f, domain.StatusRascunho)
			assert.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.section, errs[0].Section)
			assert.Equal(t, domain.SeverityError, errs[0].Severity)
		})
	}
}

func TestValidateFicha_PostDraftProfile(t *testing.T) {
	// A complete draft is not enough once the ficha leaves rascunho: the
	// control numbers and delivery data become mandatory.
	errs := domain.ValidateFicha(draftFicha(), domain.StatusAguardandoOrcamentoComercial)

	fields := fieldsOf(errs)
	assert.Contains(t, fields, "data_entrega")
	assert.Contains(t, fields, "observacoes")
	assert.Contains(t, fields, "numero_orcamento")
	assert.Contains(t, fields, "numero_os")
	assert.Contains(t, fields, "numero_desenho")
	assert.Contains(t, fields, "numero_nf_remessa")
}

func TestValidateFicha_CompleteProfilePasses(t *testing.T) {
	errs := domain.ValidateFicha(completeFicha(), domain.StatusOrcamentoEnviadoCliente)
	assert.Empty(t, errs)
}

func TestValidateFicha_MaterialChecksAfterDraft(t *testing.T) {
	f := completeFicha()
	f.Materiais = []domain.Material{
		{Descricao: "Aço 1020", Quantidade: 5, PrecoUnitario: 0, Fornecedor: ""},
		// Blank rows from the drafting form are ignored entirely.
		{Descricao: "", Quantidade: 0},
		{Descricao: "Chapa 1/2\"", Quantidade: 0, PrecoUnitario: 0},
	}

	errs := domain.ValidateFicha(f, domain.StatusAguardandoOrcamentoComercial)

	fields := fieldsOf(errs)
	assert.Contains(t, fields, "materiais[0].preco_unitario")
	assert.Contains(t, fields, "materiais[0].fornecedor")
	assert.Len(t, errs, 2)

	// The same rows raise nothing while the ficha is still a draft.
	assert.Empty(t, domain.ValidateFicha(f, domain.StatusRascunho))
}

func TestValidateFicha_ConditionalRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *domain.Ficha)
		fields []string
	}{
		{
			"pintura requires cor",
			func(f *domain.Ficha) { f.Pintura = domain.Sim },
			[]string{"cor_pintura"},
		},
		{
			"galvanizacao requires peso",
			func(f *domain.Ficha) { f.Galvanizacao = domain.Sim },
			[]string{"peso_galvanizacao"},
		},
		{
			"tratamento termico requires peso and revenimento",
			func(f *domain.Ficha) { f.TratamentoTermico = domain.Sim },
			[]string{"peso_tratamento", "revenimento"},
		},
		{
			"visita tecnica requires horas and data",
			func(f *domain.Ficha) { f.VisitaTecnica = domain.Sim },
			[]string{"horas_visita", "data_visita"},
		},
		{
			"balanceamento requires rotacao",
			func(f *domain.Ficha) { f.Balanceamento = domain.Sim },
			[]string{"rotacao_rpm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := draftFicha()
			tt.mutate(f)

			errs := domain.ValidateFicha(f, domain.StatusRascunho)
			assert.Equal(t, tt.fields, fieldsOf(errs))
		})
	}
}

func TestValidateFicha_ConditionalRulesSatisfied(t *testing.T) {
	f := draftFicha()
	f.Pintura = domain.Sim
	f.CorPintura = "Azul RAL 5015"
	f.Galvanizacao = domain.Sim
	f.PesoGalvanizacao = 12.5
	f.TratamentoTermico = domain.Sim
	f.PesoTratamento = 8
	f.Revenimento = "Revenimento a 200°C"
	f.VisitaTecnica = domain.Sim
	f.HorasVisita = 3
	visita := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	f.DataVisita = &visita
	f.Balanceamento = domain.Sim
	f.RotacaoRPM = "1800"

	assert.Empty(t, domain.ValidateFicha(f, domain.StatusRascunho))
}

func TestValidateFicha_ConditionalRulesApplyInAnyStatus(t *testing.T) {
	f := completeFicha()
	f.Pintura = domain.Sim

	errs := domain.ValidateFicha(f, domain.StatusOrcamentoEnviadoCliente)
	assert.Equal(t, []string{"cor_pintura"}, fieldsOf(errs))
}

func TestErrorsOnly_WarningsOnly(t *testing.T) {
	list := []domain.ValidationError{
		{Field: "a", Severity: domain.SeverityError},
		{Field: "b", Severity: domain.SeverityWarning},
		{Field: "c", Severity: domain.SeverityError},
	}

	errs := domain.ErrorsOnly(list)
	assert.Len(t, errs, 2)
	assert.Equal(t, "a", errs[0].Field)
	assert.Equal(t, "c", errs[1].Field)

	warns := domain.WarningsOnly(list)
	assert.Len(t, warns, 1)
	assert.Equal(t, "b", warns[0].Field)

	assert.Empty(t, domain.ErrorsOnly(nil))
	assert.Empty(t, domain.WarningsOnly(nil))
}

func TestGroupBySection(t *testing.T) {
	list := []domain.ValidationError{
		{Field: "cliente", Section: domain.SecaoCliente},
		{Field: "telefone", Section: domain.SecaoCliente},
		{Field: "nome_peca", Section: domain.SecaoPeca},
	}

	grouped := domain.GroupBySection(list)
	assert.Len(t, grouped, 2)
	assert.Len(t, grouped[domain.SecaoCliente], 2)
	assert.Len(t, grouped[domain.SecaoPeca], 1)
}
