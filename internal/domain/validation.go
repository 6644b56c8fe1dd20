package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Severity classifies a validation finding. Errors block the save or
// transition; warnings are advisory only.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationError describes one problem found on a ficha. It is produced
// fresh on every validation call and never persisted.
type ValidationError struct {
	Field    string   `json:"field"`
	Label    string   `json:"label"`
	Message  string   `json:"message"`
	Section  string   `json:"section"`
	Severity Severity `json:"severity"`
}

// Form sections, used to group findings for display
const (
	SecaoCliente     = "dados_cliente"
	SecaoPeca        = "dados_peca"
	SecaoDetalhes    = "detalhes_tecnicos"
	SecaoControle    = "controle"
	SecaoMateriais   = "materiais"
	SecaoTratamentos = "tratamentos"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateFicha inspects the ficha and returns every rule violation found.
// The required-field set depends on the status the record currently holds:
// control numbers and delivery data only become mandatory once the ficha
// leaves rascunho. The function is pure and never mutates the record.
func ValidateFicha(f *Ficha, status StatusFicha) []ValidationError {
	var errs []ValidationError

	addErr := func(field, label, message, section string) {
		errs = append(errs, ValidationError{
			Field:    field,
			Label:    label,
			Message:  message,
			Section:  section,
			Severity: SeverityError,
		})
	}

	// Campos sempre obrigatórios
	if strings.TrimSpace(f.Cliente) == "" {
		addErr("cliente", "Cliente", "Nome do cliente é obrigatório", SecaoCliente)
	}
	if strings.TrimSpace(f.Solicitante) == "" {
		addErr("solicitante", "Solicitante", "Nome do solicitante é obrigatório", SecaoCliente)
	}
	if strings.TrimSpace(f.Telefone) == "" {
		addErr("telefone", "Telefone", "Telefone é obrigatório", SecaoCliente)
	}
	if strings.TrimSpace(f.Email) == "" {
		addErr("email", "E-mail", "E-mail é obrigatório", SecaoCliente)
	} else if !emailRe.MatchString(strings.TrimSpace(f.Email)) {
		addErr("email", "E-mail", "E-mail inválido", SecaoCliente)
	}
	if strings.TrimSpace(f.NomePeca) == "" {
		addErr("nome_peca", "Nome da Peça", "Nome da peça é obrigatório", SecaoPeca)
	}
	if f.Quantidade <= 0 {
		addErr("quantidade", "Quantidade", "Quantidade deve ser maior que zero", SecaoPeca)
	}
	if strings.TrimSpace(f.Servico) == "" {
		addErr("servico", "Serviço", "Descrição do serviço é obrigatória", SecaoPeca)
	}

	// Campos obrigatórios após o rascunho
	if status != StatusRascunho {
		if f.DataEntrega == nil {
			addErr("data_entrega", "Data de Entrega", "Data de entrega é obrigatória", SecaoCliente)
		}
		if strings.TrimSpace(f.Observacoes) == "" {
			addErr("observacoes", "Observações Adicionais", "Observações adicionais são obrigatórias", SecaoControle)
		}
		if strings.TrimSpace(f.NumeroOrcamento) == "" {
			addErr("numero_orcamento", "Número do Orçamento", "Número do orçamento é obrigatório", SecaoControle)
		}
		if strings.TrimSpace(f.NumeroOS) == "" {
			addErr("numero_os", "Número da OS", "Número da ordem de serviço é obrigatório", SecaoControle)
		}
		if strings.TrimSpace(f.NumeroDesenho) == "" {
			addErr("numero_desenho", "Número do Desenho", "Número do desenho é obrigatório", SecaoControle)
		}
		if strings.TrimSpace(f.NumeroNFRemessa) == "" {
			addErr("numero_nf_remessa", "NF de Remessa", "Número da NF de remessa é obrigatório", SecaoControle)
		}

		for i := range f.Materiais {
			m := &f.Materiais[i]
			if !m.IsFilled() {
				continue
			}
			if m.PrecoUnitario <= 0 {
				addErr(
					fmt.Sprintf("materiais[%d].preco_unitario", i),
					fmt.Sprintf("Material %d - Preço Unitário", i+1),
					fmt.Sprintf("Material '%s' sem preço unitário", m.Descricao),
					SecaoMateriais,
				)
			}
			if strings.TrimSpace(m.Fornecedor) == "" {
				addErr(
					fmt.Sprintf("materiais[%d].fornecedor", i),
					fmt.Sprintf("Material %d - Fornecedor", i+1),
					fmt.Sprintf("Material '%s' sem fornecedor", m.Descricao),
					SecaoMateriais,
				)
			}
		}
	}

	// Regras condicionais, valem em qualquer status
	if f.Pintura.Bool() && strings.TrimSpace(f.CorPintura) == "" {
		addErr("cor_pintura", "Cor da Pintura", "Cor é obrigatória quando pintura = SIM", SecaoTratamentos)
	}
	if f.Galvanizacao.Bool() && f.PesoGalvanizacao <= 0 {
		addErr("peso_galvanizacao", "Peso para Galvanização", "Peso deve ser maior que zero quando galvanização = SIM", SecaoTratamentos)
	}
	if f.TratamentoTermico.Bool() {
		if f.PesoTratamento <= 0 {
			addErr("peso_tratamento", "Peso para Tratamento", "Peso deve ser maior que zero quando tratamento térmico = SIM", SecaoTratamentos)
		}
		if strings.TrimSpace(f.Revenimento) == "" {
			addErr("revenimento", "Revenimento", "Especificação de revenimento é obrigatória quando tratamento térmico = SIM", SecaoTratamentos)
		}
	}
	if f.VisitaTecnica.Bool() {
		if f.HorasVisita <= 0 {
			addErr("horas_visita", "Horas de Visita", "Horas de visita devem ser maiores que zero quando visita técnica = SIM", SecaoDetalhes)
		}
		if f.DataVisita == nil {
			addErr("data_visita", "Data da Visita", "Data da visita é obrigatória quando visita técnica = SIM", SecaoDetalhes)
		}
	}
	if f.Balanceamento.Bool() && strings.TrimSpace(f.RotacaoRPM) == "" {
		addErr("rotacao_rpm", "Rotação (RPM)", "Rotação é obrigatória quando balanceamento = SIM", SecaoTratamentos)
	}

	return errs
}

// ErrorsOnly filters the list down to error-severity findings.
func ErrorsOnly(list []ValidationError) []ValidationError {
	var out []ValidationError
	for _, v := range list {
		if v.Severity == SeverityError {
			out = append(out, v)
		}
	}
	return out
}

// WarningsOnly filters the list down to warning-severity findings.
func WarningsOnly(list []ValidationError) []ValidationError {
	var out []ValidationError
	for _, v := range list {
		if v.Severity == SeverityWarning {
			out = append(out, v)
		}
	}
	return out
}

// GroupBySection groups findings by form section for display.
func GroupBySection(list []ValidationError) map[string][]ValidationError {
	out := make(map[string][]ValidationError)
	for _, v := range list {
		out[v.Section] = append(out[v.Section], v)
	}
	return out
}
