package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
)

const timeLayout = "2006-01-02T15:04:05Z"

// ToFichaDTO converts Ficha to FichaDTO
func ToFichaDTO(ficha *domain.Ficha) domain.FichaDTO {
	materiais := make([]domain.MaterialDTO, len(ficha.Materiais))
	total := 0.0
	for i := range ficha.Materiais {
		materiais[i] = ToMaterialDTO(&ficha.Materiais[i])
		total += ficha.Materiais[i].Total
	}

	dto := domain.FichaDTO{
		ID:          ficha.ID,
		Cliente:     ficha.Cliente,
		Solicitante: ficha.Solicitante,
		Telefone:    ficha.Telefone,
		Email:       ficha.Email,

		NomePeca:   ficha.NomePeca,
		Quantidade: ficha.Quantidade,
		Servico:    ficha.Servico,

		LocalExecucao: ficha.LocalExecucao,
		VisitaTecnica: ficha.VisitaTecnica,
		HorasVisita:   ficha.HorasVisita,
		PecaAmostra:   ficha.PecaAmostra,
		OrigemDesenho: ficha.OrigemDesenho,
		DesenhoPeca:   ficha.DesenhoPeca,
		Transporte:    ficha.Transporte,
		PedidoCompra:  ficha.PedidoCompra,

		Pintura:           ficha.Pintura,
		CorPintura:        ficha.CorPintura,
		Galvanizacao:      ficha.Galvanizacao,
		PesoGalvanizacao:  ficha.PesoGalvanizacao,
		TratamentoTermico: ficha.TratamentoTermico,
		PesoTratamento:    ficha.PesoTratamento,
		Revenimento:       ficha.Revenimento,
		Balanceamento:     ficha.Balanceamento,
		RotacaoRPM:        ficha.RotacaoRPM,

		Horas: HorasServico(ficha),

		NumeroOrcamento: ficha.NumeroOrcamento,
		NumeroOS:        ficha.NumeroOS,
		NumeroDesenho:   ficha.NumeroDesenho,
		NumeroNFRemessa: ficha.NumeroNFRemessa,

		Observacoes: ficha.Observacoes,
		AprovadoPor: ficha.AprovadoPor,

		Status:      ficha.Status,
		StatusLabel: ficha.Status.Info().Label,
		Version:     ficha.Version,

		CriadoPorNome: ficha.CriadoPorNome,
		CreatedAt:     ficha.CreatedAt.Format(timeLayout),
		UpdatedAt:     ficha.UpdatedAt.Format(timeLayout),

		Materiais:      materiais,
		TotalMateriais: total,
		FotosCount:     len(ficha.Fotos),
	}

	if ficha.DataVisita != nil {
		dto.DataVisita = formatDatePtr(ficha.DataVisita)
	}
	if ficha.DataEntrega != nil {
		dto.DataEntrega = formatDatePtr(ficha.DataEntrega)
	}
	if ficha.DataAprovacao != nil {
		s := ficha.DataAprovacao.Format(timeLayout)
		dto.DataAprovacao = &s
	}

	return dto
}

func formatDatePtr(t *time.Time) *string {
	s := t.Format("2006-01-02")
	return &s
}

// HorasServico flattens the per-process hour columns into a map keyed by
// process name, omitting zero entries.
func HorasServico(ficha *domain.Ficha) map[string]float64 {
	all := map[string]float64{
		"torno_grande":       ficha.HorasTornoGrande,
		"torno_pequeno":      ficha.HorasTornoPequeno,
		"torno_cnc":          ficha.HorasTornoCNC,
		"centro_usinagem":    ficha.HorasCentroUsinagem,
		"fresa":              ficha.HorasFresa,
		"furadeira":          ficha.HorasFuradeira,
		"plasma_oxicorte":    ficha.HorasPlasmaOxicorte,
		"dobra":              ficha.HorasDobra,
		"calandra":           ficha.HorasCalandra,
		"macarico":           ficha.HorasMacarico,
		"solda":              ficha.HorasSolda,
		"serra":              ficha.HorasSerra,
		"caldeiraria":        ficha.HorasCaldeiraria,
		"desmontagem":        ficha.HorasDesmontagem,
		"montagem":           ficha.HorasMontagem,
		"balanceamento":      ficha.HorasBalanceamento,
		"mandrilhamento":     ficha.HorasMandrilhamento,
		"lavagem":            ficha.HorasLavagem,
		"acabamento":         ficha.HorasAcabamento,
		"programacao_cnc":    ficha.HorasProgramacaoCNC,
		"engenharia":         ficha.HorasEngenharia,
		"controle_qualidade": ficha.HorasControleQualidade,
	}
	out := make(map[string]float64)
	for k, v := range all {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}

// ApplyHorasServico writes the hour map back into the typed columns.
// Unknown keys are reported as an error so typos never vanish silently.
func ApplyHorasServico(ficha *domain.Ficha, horas map[string]float64) error {
	targets := map[string]*float64{
		"torno_grande":       &ficha.HorasTornoGrande,
		"torno_pequeno":      &ficha.HorasTornoPequeno,
		"torno_cnc":          &ficha.HorasTornoCNC,
		"centro_usinagem":    &ficha.HorasCentroUsinagem,
		"fresa":              &ficha.HorasFresa,
		"furadeira":          &ficha.HorasFuradeira,
		"plasma_oxicorte":    &ficha.HorasPlasmaOxicorte,
		"dobra":              &ficha.HorasDobra,
		"calandra":           &ficha.HorasCalandra,
		"macarico":           &ficha.HorasMacarico,
		"solda":              &ficha.HorasSolda,
		"serra":              &ficha.HorasSerra,
		"caldeiraria":        &ficha.HorasCaldeiraria,
		"desmontagem":        &ficha.HorasDesmontagem,
		"montagem":           &ficha.HorasMontagem,
		"balanceamento":      &ficha.HorasBalanceamento,
		"mandrilhamento":     &ficha.HorasMandrilhamento,
		"lavagem":            &ficha.HorasLavagem,
		"acabamento":         &ficha.HorasAcabamento,
		"programacao_cnc":    &ficha.HorasProgramacaoCNC,
		"engenharia":         &ficha.HorasEngenharia,
		"controle_qualidade": &ficha.HorasControleQualidade,
	}
	for k, v := range horas {
		target, ok := targets[k]
		if !ok {
			return fmt.Errorf("processo desconhecido: %s", k)
		}
		*target = v
	}
	return nil
}

// ToMaterialDTO converts Material to MaterialDTO
func ToMaterialDTO(material *domain.Material) domain.MaterialDTO {
	return domain.MaterialDTO{
		ID:            material.ID,
		Descricao:     material.Descricao,
		Quantidade:    material.Quantidade,
		Unidade:       material.Unidade,
		PrecoUnitario: material.PrecoUnitario,
		Fornecedor:    material.Fornecedor,
		Total:         material.Total,
		Ordem:         material.Ordem,
	}
}

// ToStatusHistoryDTO converts FichaStatusHistory to FichaStatusHistoryDTO
func ToStatusHistoryDTO(h *domain.FichaStatusHistory) domain.FichaStatusHistoryDTO {
	return domain.FichaStatusHistoryDTO{
		ID:            h.ID,
		FichaID:       h.FichaID,
		FromStatus:    h.FromStatus,
		ToStatus:      h.ToStatus,
		ChangedByID:   h.ChangedByID,
		ChangedByName: h.ChangedByName,
		Justificativa: h.Justificativa,
		ChangedAt:     h.ChangedAt.Format(timeLayout),
	}
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(notification *domain.Notification) domain.NotificationDTO {
	dto := domain.NotificationDTO{
		ID:         notification.ID,
		Type:       notification.Type,
		Title:      notification.Title,
		Message:    notification.Message,
		Read:       notification.Read,
		EntityID:   notification.EntityID,
		EntityType: notification.EntityType,
		CreatedAt:  notification.CreatedAt.Format(timeLayout),
	}
	if notification.ReadAt != nil {
		s := notification.ReadAt.Format(timeLayout)
		dto.ReadAt = &s
	}
	return dto
}

// ToFuncionarioDTO converts Funcionario to FuncionarioDTO
func ToFuncionarioDTO(f *domain.Funcionario) domain.FuncionarioDTO {
	var processos []string
	for _, p := range strings.Split(f.Processos, ",") {
		if p = strings.TrimSpace(p); p != "" {
			processos = append(processos, p)
		}
	}
	if processos == nil {
		processos = []string{}
	}
	return domain.FuncionarioDTO{
		ID:           f.ID,
		Nome:         f.Nome,
		Departamento: f.Departamento,
		Processos:    processos,
		OrdensAtivas: f.OrdensAtivas,
		Ativo:        f.Ativo,
	}
}

// ApplyCreateRequest copies the request fields into the ficha record.
// Status, version and control numbers owned by later stages are untouched.
func ApplyCreateRequest(ficha *domain.Ficha, req *domain.CreateFichaRequest) error {
	ficha.Cliente = req.Cliente
	ficha.Solicitante = req.Solicitante
	ficha.Telefone = req.Telefone
	ficha.Email = req.Email
	ficha.DataVisita = req.DataVisita
	ficha.DataEntrega = req.DataEntrega

	ficha.NomePeca = req.NomePeca
	ficha.Quantidade = req.Quantidade
	ficha.Servico = req.Servico

	ficha.LocalExecucao = defaultLocal(req.LocalExecucao)
	ficha.VisitaTecnica = defaultSimNao(req.VisitaTecnica)
	ficha.HorasVisita = req.HorasVisita
	ficha.PecaAmostra = defaultSimNao(req.PecaAmostra)
	ficha.OrigemDesenho = defaultOrigem(req.OrigemDesenho)
	ficha.DesenhoPeca = defaultSimNao(req.DesenhoPeca)
	ficha.Transporte = req.Transporte
	ficha.PedidoCompra = req.PedidoCompra

	ficha.Pintura = defaultSimNao(req.Pintura)
	ficha.CorPintura = req.CorPintura
	ficha.Galvanizacao = defaultSimNao(req.Galvanizacao)
	ficha.PesoGalvanizacao = req.PesoGalvanizacao
	ficha.TratamentoTermico = defaultSimNao(req.TratamentoTermico)
	ficha.PesoTratamento = req.PesoTratamento
	ficha.Revenimento = req.Revenimento
	ficha.Balanceamento = defaultSimNao(req.Balanceamento)
	ficha.RotacaoRPM = req.RotacaoRPM

	ficha.NumeroDesenho = req.NumeroDesenho
	ficha.Observacoes = req.Observacoes

	return ApplyHorasServico(ficha, req.Horas)
}

func defaultSimNao(v domain.SimNao) domain.SimNao {
	if v == "" {
		return domain.Nao
	}
	return v
}

func defaultLocal(v domain.LocalExecucao) domain.LocalExecucao {
	if v == "" {
		return domain.LocalExecucaoHMC
	}
	return v
}

func defaultOrigem(v domain.OrigemDesenho) domain.OrigemDesenho {
	if v == "" {
		return domain.OrigemDesenhoHMC
	}
	return v
}

// ToMaterial converts an upsert request into a Material for the given ficha,
// recomputing the line total.
func ToMaterial(fichaID uuid.UUID, req *domain.UpsertMaterialRequest) domain.Material {
	m := domain.Material{
		FichaID:       fichaID,
		Descricao:     req.Descricao,
		Quantidade:    req.Quantidade,
		Unidade:       req.Unidade,
		PrecoUnitario: req.PrecoUnitario,
		Fornecedor:    req.Fornecedor,
		Ordem:         req.Ordem,
	}
	m.RecalculateTotal()
	return m
}

// FormatError creates a formatted error message
func FormatError(entity, operation string, err error) error {
	return fmt.Errorf("failed to %s %s: %w", operation, entity, err)
}
