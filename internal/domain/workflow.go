package domain

// TransitionChoice is the action the operator picks when closing the form:
// keep working on the current stage, or hand the ficha to the next one.
type TransitionChoice string

const (
	TransitionContinue TransitionChoice = "continue"
	TransitionFinished TransitionChoice = "finished"
)

// NotifyTarget tells the caller which department should be notified after a
// successful advance. The workflow functions never send anything themselves.
type NotifyTarget string

const (
	NotifyNone      NotifyTarget = ""
	NotifyCompras   NotifyTarget = "compras"
	NotifyComercial NotifyTarget = "comercial"
)

// TransitionDecision is the outcome of evaluating a forward transition.
// A refused guard is a business-rule rejection, not an error: the status
// comes back unchanged with Reason explaining why.
type TransitionDecision struct {
	NextStatus StatusFicha  `json:"nextStatus"`
	Advanced   bool         `json:"advanced"`
	Reason     string       `json:"reason,omitempty"`
	Notify     NotifyTarget `json:"notify,omitempty"`
}

// ComputeNextStatus evaluates the forward transition for the ficha's current
// status. TransitionContinue always returns the status unchanged.
// TransitionFinished attempts to advance to the next stage, checking the
// guard for the current one:
//
//	rascunho                        -> aguardando_cotacao_compras (no guard)
//	aguardando_cotacao_compras      -> aguardando_orcamento_comercial
//	                                   (every filled material priced)
//	aguardando_orcamento_comercial  -> orcamento_enviado_cliente
//	                                   (quote number present)
//	orcamento_enviado_cliente       terminal for this sub-machine; later
//	                                   stages advance via the lifecycle
//	                                   service's explicit operations.
//
// The function is pure: it inspects the record and returns a decision.
func ComputeNextStatus(f *Ficha, choice TransitionChoice) TransitionDecision {
	if choice != TransitionFinished {
		return TransitionDecision{NextStatus: f.Status}
	}

	switch f.Status {
	case StatusRascunho:
		return TransitionDecision{
			NextStatus: StatusAguardandoCotacaoCompras,
			Advanced:   true,
			Notify:     NotifyCompras,
		}

	case StatusAguardandoCotacaoCompras:
		if !materiaisCotados(f.Materiais) {
			return TransitionDecision{
				NextStatus: StatusAguardandoCotacaoCompras,
				Reason:     "existem materiais sem preço ou total; conclua a cotação antes de enviar ao comercial",
			}
		}
		return TransitionDecision{
			NextStatus: StatusAguardandoOrcamentoComercial,
			Advanced:   true,
			Notify:     NotifyComercial,
		}

	case StatusAguardandoOrcamentoComercial:
		if f.NumeroOrcamento == "" {
			return TransitionDecision{
				NextStatus: StatusAguardandoOrcamentoComercial,
				Reason:     "número do orçamento ainda não foi gerado",
			}
		}
		return TransitionDecision{
			NextStatus: StatusOrcamentoEnviadoCliente,
			Advanced:   true,
		}

	default:
		// orcamento_enviado_cliente and everything after it is outside this
		// sub-machine; the status stays put.
		return TransitionDecision{NextStatus: f.Status}
	}
}

// materiaisCotados reports whether every filled material row has been priced.
// Blank rows (no description or zero quantity) are ignored.
func materiaisCotados(materiais []Material) bool {
	for i := range materiais {
		m := &materiais[i]
		if m.IsFilled() && !m.IsPriced() {
			return false
		}
	}
	return true
}

// PreviousStatus returns the stage immediately before the current one in the
// canonical order, for an explicit manual rollback. For rascunho the second
// return value is false: there is no previous stage and the caller must not
// offer a revert action. This is a valid answer, not an error.
func PreviousStatus(current StatusFicha) (StatusFicha, bool) {
	return current.Previous()
}

// reversalImpacts maps specific (current -> previous) pairs to an
// operator-facing explanation of what reverting undoes.
var reversalImpacts = map[[2]StatusFicha]string{
	{StatusAguardandoCotacaoCompras, StatusRascunho}: "A ficha volta ao técnico para edição. As cotações de material já lançadas são preservadas, mas Compras perde a ficha da sua fila.",
	{StatusAguardandoOrcamentoComercial, StatusAguardandoCotacaoCompras}: "A ficha retorna ao setor de Compras para recotação dos materiais. O Comercial é notificado e aguarda nova cotação.",
	{StatusOrcamentoEnviadoCliente, StatusAguardandoOrcamentoComercial}:  "O orçamento já enviado ao cliente fica invalidado. O Comercial deve revisar os valores e reenviar um novo orçamento.",
}

const reversalImpactDefault = "A ficha retorna à etapa anterior do fluxo e o setor responsável deve retomá-la."

// DescribeReversalImpact returns the operational impact of reverting from
// current to previous. Pairs without a specific entry get a generic message.
func DescribeReversalImpact(current, previous StatusFicha) string {
	if msg, ok := reversalImpacts[[2]StatusFicha{current, previous}]; ok {
		return msg
	}
	return reversalImpactDefault
}
