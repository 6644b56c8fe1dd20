package domain

// StatusFicha represents the lifecycle stage of a ficha. The values are
// totally ordered for forward progress; a ficha only ever moves to the next
// adjacent stage, driven by explicit user action.
type StatusFicha string

const (
	StatusRascunho                     StatusFicha = "rascunho"
	StatusAguardandoCotacaoCompras     StatusFicha = "aguardando_cotacao_compras"
	StatusAguardandoOrcamentoComercial StatusFicha = "aguardando_orcamento_comercial"
	StatusOrcamentoEnviadoCliente      StatusFicha = "orcamento_enviado_cliente"
	StatusOrcamentoAprovadoCliente     StatusFicha = "orcamento_aprovado_cliente"
	StatusEmCompras                    StatusFicha = "em_compras"
	StatusEmProducao                   StatusFicha = "em_producao"
	StatusFinalizada                   StatusFicha = "finalizada"
)

// statusOrder is the canonical forward sequence of the workflow.
var statusOrder = []StatusFicha{
	StatusRascunho,
	StatusAguardandoCotacaoCompras,
	StatusAguardandoOrcamentoComercial,
	StatusOrcamentoEnviadoCliente,
	StatusOrcamentoAprovadoCliente,
	StatusEmCompras,
	StatusEmProducao,
	StatusFinalizada,
}

// StatusOrder returns a copy of the canonical forward sequence.
func StatusOrder() []StatusFicha {
	out := make([]StatusFicha, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// IsValid checks if the StatusFicha is one of the eight workflow stages
func (s StatusFicha) IsValid() bool {
	return s.index() >= 0
}

// index returns the position of the status in the canonical order, or -1.
func (s StatusFicha) index() int {
	for i, v := range statusOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// Next returns the immediately following stage in the canonical order.
// The second return value is false for finalizada and unknown values.
func (s StatusFicha) Next() (StatusFicha, bool) {
	i := s.index()
	if i < 0 || i+1 >= len(statusOrder) {
		return "", false
	}
	return statusOrder[i+1], true
}

// Previous returns the immediately preceding stage in the canonical order.
// The second return value is false for rascunho (no reversal possible) and
// unknown values.
func (s StatusFicha) Previous() (StatusFicha, bool) {
	i := s.index()
	if i <= 0 {
		return "", false
	}
	return statusOrder[i-1], true
}

// Before reports whether s comes before other in the canonical order.
func (s StatusFicha) Before(other StatusFicha) bool {
	si, oi := s.index(), other.index()
	return si >= 0 && oi >= 0 && si < oi
}

// StatusInfo holds display metadata for a workflow stage. The workflow
// functions treat status values as opaque; this table exists for handlers
// and notification messages only.
type StatusInfo struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

var statusInfos = map[StatusFicha]StatusInfo{
	StatusRascunho:                     {Label: "Rascunho", Description: "Ficha em elaboração pelo técnico"},
	StatusAguardandoCotacaoCompras:     {Label: "Aguardando Cotação", Description: "Compras deve cotar os materiais"},
	StatusAguardandoOrcamentoComercial: {Label: "Aguardando Orçamento", Description: "Comercial deve precificar e gerar o orçamento"},
	StatusOrcamentoEnviadoCliente:      {Label: "Orçamento Enviado", Description: "Aguardando resposta do cliente"},
	StatusOrcamentoAprovadoCliente:     {Label: "Orçamento Aprovado", Description: "Cliente aprovou o orçamento"},
	StatusEmCompras:                    {Label: "Em Compras", Description: "Materiais em aquisição"},
	StatusEmProducao:                   {Label: "Em Produção", Description: "Peça em fabricação"},
	StatusFinalizada:                   {Label: "Finalizada", Description: "Serviço concluído"},
}

// Info returns the display metadata for the status
func (s StatusFicha) Info() StatusInfo {
	if info, ok := statusInfos[s]; ok {
		return info
	}
	return StatusInfo{Label: string(s)}
}
