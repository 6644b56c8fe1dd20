package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaginatedResponse wraps list results with paging metadata
type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalItems int64       `json:"totalItems"`
	TotalPages int         `json:"totalPages"`
}

// FichaDTO is the API representation of a ficha
type FichaDTO struct {
	ID          uuid.UUID `json:"id"`
	Cliente     string    `json:"cliente"`
	Solicitante string    `json:"solicitante"`
	Telefone    string    `json:"telefone"`
	Email       string    `json:"email"`
	DataVisita  *string   `json:"dataVisita,omitempty"`
	DataEntrega *string   `json:"dataEntrega,omitempty"`

	NomePeca   string  `json:"nomePeca"`
	Quantidade float64 `json:"quantidade"`
	Servico    string  `json:"servico"`

	LocalExecucao LocalExecucao `json:"localExecucao"`
	VisitaTecnica SimNao        `json:"visitaTecnica"`
	HorasVisita   float64       `json:"horasVisita,omitempty"`
	PecaAmostra   SimNao        `json:"pecaAmostra"`
	OrigemDesenho OrigemDesenho `json:"origemDesenho"`
	DesenhoPeca   SimNao        `json:"desenhoPeca"`
	Transporte    string        `json:"transporte,omitempty"`
	PedidoCompra  string        `json:"pedidoCompra,omitempty"`

	Pintura           SimNao  `json:"pintura"`
	CorPintura        string  `json:"corPintura,omitempty"`
	Galvanizacao      SimNao  `json:"galvanizacao"`
	PesoGalvanizacao  float64 `json:"pesoGalvanizacao,omitempty"`
	TratamentoTermico SimNao  `json:"tratamentoTermico"`
	PesoTratamento    float64 `json:"pesoTratamento,omitempty"`
	Revenimento       string  `json:"revenimento,omitempty"`
	Balanceamento     SimNao  `json:"balanceamento"`
	RotacaoRPM        string  `json:"rotacaoRPM,omitempty"`

	Horas map[string]float64 `json:"horasServico"`

	NumeroOrcamento string `json:"numeroOrcamento,omitempty"`
	NumeroOS        string `json:"numeroOS,omitempty"`
	NumeroDesenho   string `json:"numeroDesenho,omitempty"`
	NumeroNFRemessa string `json:"numeroNFRemessa,omitempty"`

	Observacoes string `json:"observacoes,omitempty"`

	AprovadoPor   string  `json:"aprovadoPor,omitempty"`
	DataAprovacao *string `json:"dataAprovacao,omitempty"`

	Status      StatusFicha `json:"status"`
	StatusLabel string      `json:"statusLabel"`
	Version     int         `json:"version"`

	CriadoPorNome string `json:"criadoPorNome,omitempty"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`

	Materiais      []MaterialDTO `json:"materiais"`
	TotalMateriais float64       `json:"totalMateriais"`
	FotosCount     int           `json:"fotosCount"`
}

// MaterialDTO is the API representation of a material row
type MaterialDTO struct {
	ID            uuid.UUID `json:"id"`
	Descricao     string    `json:"descricao"`
	Quantidade    float64   `json:"quantidade"`
	Unidade       string    `json:"unidade,omitempty"`
	PrecoUnitario float64   `json:"precoUnitario"`
	Fornecedor    string    `json:"fornecedor,omitempty"`
	Total         float64   `json:"total"`
	Ordem         int       `json:"ordem"`
}

// FichaStatusHistoryDTO is the API representation of a transition record
type FichaStatusHistoryDTO struct {
	ID            uuid.UUID    `json:"id"`
	FichaID       uuid.UUID    `json:"fichaId"`
	FromStatus    *StatusFicha `json:"fromStatus,omitempty"`
	ToStatus      StatusFicha  `json:"toStatus"`
	ChangedByID   string       `json:"changedById"`
	ChangedByName string       `json:"changedByName,omitempty"`
	Justificativa string       `json:"justificativa,omitempty"`
	ChangedAt     string       `json:"changedAt"`
}

// NotificationDTO is the API representation of a notification
type NotificationDTO struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Read       bool       `json:"read"`
	ReadAt     *string    `json:"readAt,omitempty"`
	EntityID   *uuid.UUID `json:"entityId,omitempty"`
	EntityType string     `json:"entityType,omitempty"`
	CreatedAt  string     `json:"createdAt"`
}

// FuncionarioDTO is the API representation of a shop-floor worker
type FuncionarioDTO struct {
	ID           uuid.UUID    `json:"id"`
	Nome         string       `json:"nome"`
	Departamento Departamento `json:"departamento"`
	Processos    []string     `json:"processos"`
	OrdensAtivas int          `json:"ordensAtivas"`
	Ativo        bool         `json:"ativo"`
}

// CreateFichaRequest carries the fields a technician fills when drafting
type CreateFichaRequest struct {
	Cliente     string     `json:"cliente" validate:"required,max=200"`
	Solicitante string     `json:"solicitante" validate:"required,max=200"`
	Telefone    string     `json:"telefone" validate:"required,max=50"`
	Email       string     `json:"email" validate:"required,email,max=255"`
	DataVisita  *time.Time `json:"dataVisita,omitempty"`
	DataEntrega *time.Time `json:"dataEntrega,omitempty"`

	NomePeca   string  `json:"nomePeca" validate:"required,max=200"`
	Quantidade float64 `json:"quantidade" validate:"required,gt=0"`
	Servico    string  `json:"servico" validate:"required"`

	LocalExecucao LocalExecucao `json:"localExecucao,omitempty" validate:"omitempty,oneof=HMC CLIENTE"`
	VisitaTecnica SimNao        `json:"visitaTecnica,omitempty" validate:"omitempty,oneof=SIM NAO"`
	HorasVisita   float64       `json:"horasVisita,omitempty" validate:"gte=0"`
	PecaAmostra   SimNao        `json:"pecaAmostra,omitempty" validate:"omitempty,oneof=SIM NAO"`
	OrigemDesenho OrigemDesenho `json:"origemDesenho,omitempty" validate:"omitempty,oneof=HMC CLIENTE"`
	DesenhoPeca   SimNao        `json:"desenhoPeca,omitempty" validate:"omitempty,oneof=SIM NAO"`
	Transporte    string        `json:"transporte,omitempty" validate:"max=100"`
	PedidoCompra  string        `json:"pedidoCompra,omitempty" validate:"max=100"`

	Pintura           SimNao  `json:"pintura,omitempty" validate:"omitempty,oneof=SIM NAO"`
	CorPintura        string  `json:"corPintura,omitempty" validate:"max=100"`
	Galvanizacao      SimNao  `json:"galvanizacao,omitempty" validate:"omitempty,oneof=SIM NAO"`
	PesoGalvanizacao  float64 `json:"pesoGalvanizacao,omitempty" validate:"gte=0"`
	TratamentoTermico SimNao  `json:"tratamentoTermico,omitempty" validate:"omitempty,oneof=SIM NAO"`
	PesoTratamento    float64 `json:"pesoTratamento,omitempty" validate:"gte=0"`
	Revenimento       string  `json:"revenimento,omitempty" validate:"max=200"`
	Balanceamento     SimNao  `json:"balanceamento,omitempty" validate:"omitempty,oneof=SIM NAO"`
	RotacaoRPM        string  `json:"rotacaoRPM,omitempty" validate:"max=50"`

	Horas map[string]float64 `json:"horasServico,omitempty"`

	NumeroDesenho string `json:"numeroDesenho,omitempty" validate:"max=50"`
	Observacoes   string `json:"observacoes,omitempty"`

	Materiais []UpsertMaterialRequest `json:"materiais,omitempty" validate:"dive"`
}

// UpdateFichaRequest updates draft-editable fields. Version must match the
// stored record or the save is rejected with a conflict.
type UpdateFichaRequest struct {
	CreateFichaRequest
	NumeroOS        string `json:"numeroOS,omitempty" validate:"max=50"`
	NumeroNFRemessa string `json:"numeroNFRemessa,omitempty" validate:"max=50"`
	Version         int    `json:"version" validate:"required,gt=0"`
}

// UpsertMaterialRequest creates or replaces one material row. The total is
// always recomputed server-side from quantity and unit price.
type UpsertMaterialRequest struct {
	Descricao     string  `json:"descricao" validate:"max=500"`
	Quantidade    float64 `json:"quantidade" validate:"gte=0"`
	Unidade       string  `json:"unidade,omitempty" validate:"max=20"`
	PrecoUnitario float64 `json:"precoUnitario" validate:"gte=0"`
	Fornecedor    string  `json:"fornecedor,omitempty" validate:"max=200"`
	Ordem         int     `json:"ordem" validate:"gte=0"`
}

// AdvanceFichaRequest asks the lifecycle service to evaluate a forward
// transition for the ficha's current stage.
type AdvanceFichaRequest struct {
	Choice  TransitionChoice `json:"choice" validate:"required,oneof=continue finished"`
	Version int              `json:"version" validate:"required,gt=0"`
}

// AdvanceFichaResponse reports the evaluated transition
type AdvanceFichaResponse struct {
	Ficha    *FichaDTO          `json:"ficha"`
	Decision TransitionDecision `json:"decision"`
}

// RevertFichaRequest asks for a manual rollback to the previous stage.
// The justification is mandatory and must carry at least 10 characters.
type RevertFichaRequest struct {
	Justificativa string `json:"justificativa" validate:"required,min=10"`
	Version       int    `json:"version" validate:"required,gt=0"`
}

// RevertFichaResponse reports the rollback and its operational impact
type RevertFichaResponse struct {
	Ficha  *FichaDTO `json:"ficha"`
	Impact string    `json:"impact"`
}

// WorkflowStepRequest carries the version check for the explicit
// operational steps after the client approves the quote.
type WorkflowStepRequest struct {
	Version int `json:"version" validate:"required,gt=0"`
}

// ClientResponseRequest records the client's answer to a sent quote
type ClientResponseRequest struct {
	Aprovado    bool   `json:"aprovado"`
	Respondente string `json:"respondente" validate:"required,max=200"`
	Observacao  string `json:"observacao,omitempty" validate:"max=500"`
	Version     int    `json:"version" validate:"required,gt=0"`
}

// ValidateFichaResponse carries the findings of a validation call
type ValidateFichaResponse struct {
	Valid    bool                         `json:"valid"`
	Errors   []ValidationError            `json:"errors"`
	Warnings []ValidationError            `json:"warnings"`
	Sections map[string][]ValidationError `json:"sections"`
}

// SuggestAllocationRequest asks for the least-loaded qualified worker
type SuggestAllocationRequest struct {
	Processo string `json:"processo" validate:"required,max=100"`
}

// SuggestAllocationResponse carries the allocation suggestion
type SuggestAllocationResponse struct {
	Processo     string           `json:"processo"`
	Sugerido     *FuncionarioDTO  `json:"sugerido,omitempty"`
	Alternativos []FuncionarioDTO `json:"alternativos,omitempty"`
}
