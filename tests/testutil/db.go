package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hmc-usinagem/ftc-api/internal/auth"
	"github.com/hmc-usinagem/ftc-api/internal/database"
	"github.com/hmc-usinagem/ftc-api/internal/domain"
)

// SetupTestDB opens a throwaway SQLite database for one test and migrates the
// full schema into it. Each test gets its own file under t.TempDir so tests
// never see each other's rows and cleanup is automatic.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ftc_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	require.NoError(t, database.AutoMigrate(db), "failed to migrate test database")

	return db
}

// CreateTestFicha persists a ficha that passes the draft-stage validation,
// then forces it into the given status. Callers that need the full
// post-rascunho profile should use CreateCompleteFicha instead.
func CreateTestFicha(t *testing.T, db *gorm.DB, status domain.StatusFicha) *domain.Ficha {
	t.Helper()

	ficha := &domain.Ficha{
		Cliente:     "Mineradora Vale Verde",
		Solicitante: "Carlos Pereira",
		Telefone:    "(31) 99876-5432",
		Email:       "carlos.pereira@valeverde.com.br",
		NomePeca:    "Eixo de transmissão",
		Quantidade:  2,
		Servico:     "Usinagem completa do eixo conforme desenho",

		LocalExecucao: domain.LocalExecucaoHMC,
		VisitaTecnica: domain.Nao,
		PecaAmostra:   domain.Sim,
		OrigemDesenho: domain.OrigemDesenhoCliente,
		DesenhoPeca:   domain.Sim,

		Pintura:           domain.Nao,
		Galvanizacao:      domain.Nao,
		TratamentoTermico: domain.Nao,
		Balanceamento:     domain.Nao,

		HorasTornoCNC: 8,
		HorasFresa:    4,

		Status:  status,
		Version: 1,

		CriadoPorID:   "test-user",
		CriadoPorNome: "Usuário de Teste",
	}

	require.NoError(t, db.Create(ficha).Error, "failed to create test ficha")
	return ficha
}

// CreateCompleteFicha persists a ficha carrying every field the
// post-rascunho validation profile requires, including a priced material.
func CreateCompleteFicha(t *testing.T, db *gorm.DB, status domain.StatusFicha) *domain.Ficha {
	t.Helper()

	ficha := CreateTestFicha(t, db, status)

	entrega := NewDate(2026, 10, 15)
	ficha.DataEntrega = &entrega
	ficha.Observacoes = "Prazo confirmado com o cliente"
	ficha.NumeroOrcamento = "FTC-2026-042"
	ficha.NumeroOS = "OS-1234"
	ficha.NumeroDesenho = "DES-5678"
	ficha.NumeroNFRemessa = "NF-91011"
	require.NoError(t, db.Save(ficha).Error, "failed to complete test ficha")

	AddMaterial(t, db, ficha, "Aço SAE 1045 Ø 120mm", 2, 350, "Aços Brasil")

	reloaded := ReloadFicha(t, db, ficha)
	return reloaded
}

// AddMaterial appends one priced material row to the ficha.
func AddMaterial(t *testing.T, db *gorm.DB, ficha *domain.Ficha, descricao string, quantidade, precoUnitario float64, fornecedor string) *domain.Material {
	t.Helper()

	material := &domain.Material{
		FichaID:       ficha.ID,
		Descricao:     descricao,
		Quantidade:    quantidade,
		Unidade:       "kg",
		PrecoUnitario: precoUnitario,
		Fornecedor:    fornecedor,
		Ordem:         len(ficha.Materiais),
	}
	material.RecalculateTotal()

	require.NoError(t, db.Create(material).Error, "failed to create test material")
	ficha.Materiais = append(ficha.Materiais, *material)
	return material
}

// ReloadFicha fetches the ficha again with its materials preloaded.
func ReloadFicha(t *testing.T, db *gorm.DB, ficha *domain.Ficha) *domain.Ficha {
	t.Helper()

	var out domain.Ficha
	err := db.Preload("Materiais").Preload("Fotos").First(&out, "id = ?", ficha.ID).Error
	require.NoError(t, err, "failed to reload test ficha")
	return &out
}

// CreateTestUser persists an active user in the given department.
func CreateTestUser(t *testing.T, db *gorm.DB, nome string, departamento domain.Departamento) *domain.User {
	t.Helper()

	user := &domain.User{
		Email:        nome + "@hmcusinagem.com.br",
		Nome:         nome,
		Departamento: departamento,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error, "failed to create test user")
	return user
}

// CreateTestFuncionario persists an active shop-floor worker.
func CreateTestFuncionario(t *testing.T, db *gorm.DB, nome, processos string, ordensAtivas int) *domain.Funcionario {
	t.Helper()

	funcionario := &domain.Funcionario{
		Nome:         nome,
		Departamento: domain.DepartamentoProducao,
		Processos:    processos,
		OrdensAtivas: ordensAtivas,
		Ativo:        true,
	}
	require.NoError(t, db.Create(funcionario).Error, "failed to create test funcionario")
	return funcionario
}

// AuthContext returns a context carrying the user, the way the auth
// middleware populates requests.
func AuthContext(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:       user.ID,
		Nome:         user.Nome,
		Email:        user.Email,
		Departamento: user.Departamento,
		IsAdmin:      user.Departamento == domain.DepartamentoAdmin,
	})
}
