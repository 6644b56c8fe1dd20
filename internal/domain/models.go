package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the primary key so the same models work on Postgres
// and on the SQLite databases used by the test suite.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SimNao mirrors the SIM/NAO radio options on the shop's paper forms.
type SimNao string

const (
	Sim SimNao = "SIM"
	Nao SimNao = "NAO"
)

// Bool reports whether the flag is set to SIM.
func (s SimNao) Bool() bool {
	return strings.EqualFold(string(s), string(Sim))
}

// LocalExecucao indicates where the service is performed
type LocalExecucao string

const (
	LocalExecucaoHMC     LocalExecucao = "HMC"
	LocalExecucaoCliente LocalExecucao = "CLIENTE"
)

// OrigemDesenho indicates who supplies the technical drawing
type OrigemDesenho string

const (
	OrigemDesenhoHMC     OrigemDesenho = "HMC"
	OrigemDesenhoCliente OrigemDesenho = "CLIENTE"
)

// Departamento represents a department in the shop's workflow
type Departamento string

const (
	DepartamentoTecnico   Departamento = "tecnico"
	DepartamentoCompras   Departamento = "compras"
	DepartamentoComercial Departamento = "comercial"
	DepartamentoPCP       Departamento = "pcp"
	DepartamentoProducao  Departamento = "producao"
	DepartamentoAdmin     Departamento = "admin"
)

// IsValid checks if the Departamento is a valid enum value
func (d Departamento) IsValid() bool {
	switch d {
	case DepartamentoTecnico, DepartamentoCompras, DepartamentoComercial,
		DepartamentoPCP, DepartamentoProducao, DepartamentoAdmin:
		return true
	}
	return false
}

// Ficha represents a Ficha Técnica de Cotação (technical quote sheet),
// the central record moving through the shop's workflow.
//
// Every attribute is a concrete typed column. The status column is only
// written through the lifecycle service, never by direct field updates,
// and saves are guarded by the Version column (optimistic concurrency).
type Ficha struct {
	BaseModel

	// Dados do cliente
	Cliente     string     `gorm:"type:varchar(200);not null;index"`
	Solicitante string     `gorm:"type:varchar(200);not null"`
	Telefone    string     `gorm:"type:varchar(50);not null"`
	Email       string     `gorm:"type:varchar(255);not null"`
	DataVisita  *time.Time `gorm:"type:date;column:data_visita"`
	DataEntrega *time.Time `gorm:"type:date;column:data_entrega"`

	// Dados da peça
	NomePeca   string  `gorm:"type:varchar(200);not null;column:nome_peca"`
	Quantidade float64 `gorm:"type:decimal(10,2);not null;default:0"`
	Servico    string  `gorm:"type:text"`

	// Execução e detalhes
	LocalExecucao LocalExecucao `gorm:"type:varchar(20);not null;default:'HMC';column:local_execucao"`
	VisitaTecnica SimNao        `gorm:"type:varchar(3);not null;default:'NAO';column:visita_tecnica"`
	HorasVisita   float64       `gorm:"type:decimal(10,2);not null;default:0;column:horas_visita"`
	PecaAmostra   SimNao        `gorm:"type:varchar(3);not null;default:'NAO';column:peca_amostra"`
	OrigemDesenho OrigemDesenho `gorm:"type:varchar(20);not null;default:'HMC';column:origem_desenho"`
	DesenhoPeca   SimNao        `gorm:"type:varchar(3);not null;default:'NAO';column:desenho_peca"`
	Transporte    string        `gorm:"type:varchar(100)"`
	PedidoCompra  string        `gorm:"type:varchar(100);column:pedido_compra"`

	// Tratamentos
	Pintura           SimNao  `gorm:"type:varchar(3);not null;default:'NAO'"`
	CorPintura        string  `gorm:"type:varchar(100);column:cor_pintura"`
	Galvanizacao      SimNao  `gorm:"type:varchar(3);not null;default:'NAO'"`
	PesoGalvanizacao  float64 `gorm:"type:decimal(10,2);not null;default:0;column:peso_galvanizacao"`
	TratamentoTermico SimNao  `gorm:"type:varchar(3);not null;default:'NAO';column:tratamento_termico"`
	PesoTratamento    float64 `gorm:"type:decimal(10,2);not null;default:0;column:peso_tratamento"`
	Revenimento       string  `gorm:"type:varchar(200)"`
	Balanceamento     SimNao  `gorm:"type:varchar(3);not null;default:'NAO'"`
	RotacaoRPM        string  `gorm:"type:varchar(50);column:rotacao_rpm"`

	// Horas de serviço por processo de fabricação
	HorasTornoGrande       float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_torno_grande"`
	HorasTornoPequeno      float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_torno_pequeno"`
	HorasTornoCNC          float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_torno_cnc"`
	HorasCentroUsinagem    float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_centro_usinagem"`
	HorasFresa             float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_fresa"`
	HorasFuradeira         float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_furadeira"`
	HorasPlasmaOxicorte    float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_plasma_oxicorte"`
	HorasDobra             float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_dobra"`
	HorasCalandra          float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_calandra"`
	HorasMacarico          float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_macarico"`
	HorasSolda             float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_solda"`
	HorasSerra             float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_serra"`
	HorasCaldeiraria       float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_caldeiraria"`
	HorasDesmontagem       float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_desmontagem"`
	HorasMontagem          float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_montagem"`
	HorasBalanceamento     float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_balanceamento"`
	HorasMandrilhamento    float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_mandrilhamento"`
	HorasLavagem           float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_lavagem"`
	HorasAcabamento        float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_acabamento"`
	HorasProgramacaoCNC    float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_programacao_cnc"`
	HorasEngenharia        float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_engenharia"`
	HorasControleQualidade float64 `gorm:"type:decimal(10,2);not null;default:0;column:horas_controle_qualidade"`

	// Campos de controle
	NumeroOrcamento string `gorm:"type:varchar(50);column:numero_orcamento;index"`
	NumeroOS        string `gorm:"type:varchar(50);column:numero_os"`
	NumeroDesenho   string `gorm:"type:varchar(50);column:numero_desenho"`
	NumeroNFRemessa string `gorm:"type:varchar(50);column:numero_nf_remessa"`

	Observacoes string `gorm:"type:text"`

	// Resposta do cliente
	AprovadoPor   string     `gorm:"type:varchar(200);column:aprovado_por"`
	DataAprovacao *time.Time `gorm:"column:data_aprovacao"`

	Status StatusFicha `gorm:"type:varchar(50);not null;default:'rascunho';index"`

	// Version guards concurrent saves: updates are conditional on the stored
	// value matching and increment it in the same statement.
	Version int `gorm:"not null;default:1"`

	CriadoPorID   string `gorm:"type:varchar(100);column:criado_por_id"`
	CriadoPorNome string `gorm:"type:varchar(200);column:criado_por_nome"`

	Materiais []Material `gorm:"foreignKey:FichaID;constraint:OnDelete:CASCADE"`
	Fotos     []Foto     `gorm:"foreignKey:FichaID;constraint:OnDelete:CASCADE"`
}

// Material represents one raw-material line item of a ficha
type Material struct {
	BaseModel
	FichaID       uuid.UUID `gorm:"type:uuid;not null;index;column:ficha_id"`
	Ficha         *Ficha    `gorm:"foreignKey:FichaID"`
	Descricao     string    `gorm:"type:varchar(500)"`
	Quantidade    float64   `gorm:"type:decimal(10,2);not null;default:0"`
	Unidade       string    `gorm:"type:varchar(20)"`
	PrecoUnitario float64   `gorm:"type:decimal(15,2);not null;default:0;column:preco_unitario"`
	Fornecedor    string    `gorm:"type:varchar(200)"`
	Total         float64   `gorm:"type:decimal(15,2);not null;default:0"`
	Ordem         int       `gorm:"not null;default:0"`
}

// TableName keeps the Portuguese plural instead of gorm's inflection
func (Material) TableName() string {
	return "materiais"
}

// RecalculateTotal recomputes the line total from quantity and unit price.
// The total is never stored independently of this formula.
func (m *Material) RecalculateTotal() {
	m.Total = m.Quantidade * m.PrecoUnitario
}

// IsFilled reports whether the row is a real material entry, as opposed to
// the blank rows the drafting form always carries.
func (m *Material) IsFilled() bool {
	return strings.TrimSpace(m.Descricao) != "" && m.Quantidade > 0
}

// IsPriced reports whether purchasing has finished quoting this row.
func (m *Material) IsPriced() bool {
	return m.PrecoUnitario > 0 && m.Total > 0
}

// FichaStatusHistory tracks status transitions and reversals for audit purposes
type FichaStatusHistory struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key"`
	FichaID       uuid.UUID    `gorm:"type:uuid;not null;index;column:ficha_id"`
	Ficha         *Ficha       `gorm:"foreignKey:FichaID"`
	FromStatus    *StatusFicha `gorm:"type:varchar(50);column:from_status"`
	ToStatus      StatusFicha  `gorm:"type:varchar(50);not null;column:to_status"`
	ChangedByID   string       `gorm:"type:varchar(100);not null;column:changed_by_id"`
	ChangedByName string       `gorm:"type:varchar(200);column:changed_by_name"`
	Justificativa string       `gorm:"type:text"`
	ChangedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;column:changed_at"`
}

// TableName overrides the default table name to match the migration
func (FichaStatusHistory) TableName() string {
	return "ficha_status_history"
}

// BeforeCreate assigns the primary key
func (h *FichaStatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// Foto represents an uploaded photo of the part being quoted
type Foto struct {
	BaseModel
	FichaID     uuid.UUID `gorm:"type:uuid;not null;index;column:ficha_id"`
	Ficha       *Ficha    `gorm:"foreignKey:FichaID"`
	Filename    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100);not null;column:content_type"`
	Size        int64     `gorm:"not null"`
	StoragePath string    `gorm:"type:varchar(500);not null;unique;column:storage_path"`
}

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeFichaParaCompras   NotificationType = "ficha_para_compras"
	NotificationTypeFichaParaComercial NotificationType = "ficha_para_comercial"
	NotificationTypeFichaRevertida     NotificationType = "ficha_revertida"
	NotificationTypeOrcamentoAprovado  NotificationType = "orcamento_aprovado"
	NotificationTypeOrcamentoRejeitado NotificationType = "orcamento_rejeitado"
	NotificationTypeOrcamentoExpirando NotificationType = "orcamento_expirando"
)

// Notification represents a user notification
type Notification struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;index;column:user_id"`
	Type       string    `gorm:"type:varchar(50);not null"`
	Title      string    `gorm:"type:varchar(200);not null"`
	Message    string    `gorm:"type:varchar(500);not null"`
	Read       bool      `gorm:"column:read;not null;default:false;index"`
	ReadAt     *time.Time
	EntityID   *uuid.UUID `gorm:"type:uuid;column:entity_id"`
	EntityType string     `gorm:"type:varchar(50);column:entity_type"`
}

// Funcionario represents a shop-floor worker who can be allocated to a process
type Funcionario struct {
	BaseModel
	Nome         string       `gorm:"type:varchar(200);not null"`
	Departamento Departamento `gorm:"type:varchar(50);not null;index"`
	// Processos is a comma-separated list of process names the worker is
	// qualified for (e.g. "torno_cnc,fresa"). Kept flat so the same schema
	// runs on Postgres and SQLite.
	Processos    string `gorm:"type:varchar(500)"`
	OrdensAtivas int    `gorm:"not null;default:0;column:ordens_ativas"`
	Ativo        bool   `gorm:"not null;default:true"`
}

// DominaProcesso reports whether the worker is qualified for a process
func (f *Funcionario) DominaProcesso(processo string) bool {
	for _, p := range strings.Split(f.Processos, ",") {
		if strings.EqualFold(strings.TrimSpace(p), processo) {
			return true
		}
	}
	return false
}

// User represents an operator of the system
type User struct {
	BaseModel
	Email        string       `gorm:"type:varchar(255);not null;unique"`
	Nome         string       `gorm:"type:varchar(200);not null"`
	Departamento Departamento `gorm:"type:varchar(50);not null;default:'tecnico';index"`
	Telefone     string       `gorm:"type:varchar(50)"`
	IsAdmin      bool         `gorm:"not null;default:false;column:is_admin"`
	IsActive     bool         `gorm:"not null;default:true;column:is_active"`
	LastLoginAt  *time.Time   `gorm:"column:last_login_at"`
}

// NumberSequence holds the per-year counter used to generate quote numbers
type NumberSequence struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Year      int       `gorm:"not null;uniqueIndex"`
	LastValue int       `gorm:"not null;default:0;column:last_value"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the primary key
func (n *NumberSequence) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
