package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
	"github.com/hmc-usinagem/ftc-api/internal/repository"
	"github.com/hmc-usinagem/ftc-api/internal/service"
	"github.com/hmc-usinagem/ftc-api/tests/testutil"
)

func newFichaService(t *testing.T) (*service.FichaService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := service.NewFichaService(
		repository.NewFichaRepository(db),
		repository.NewMaterialRepository(db),
		repository.NewStatusHistoryRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func createRequest() *domain.CreateFichaRequest {
	return &domain.CreateFichaRequest{
		Cliente:     "Siderúrgica Aurora",
		Solicitante: "Marina Souza",
		Telefone:    "(31) 98765-4321",
		Email:       "marina@aurora.com.br",
		NomePeca:    "Engrenagem cônica",
		Quantidade:  4,
		Servico:     "Fabricação completa conforme amostra",
		Horas:       map[string]float64{"torno_cnc": 6, "fresa": 2},
		Materiais: []domain.UpsertMaterialRequest{
			{Descricao: "Aço 4340", Quantidade: 10, PrecoUnitario: 42.5, Fornecedor: "Metalúrgica Sul"},
		},
	}
}

func TestFichaService_Create(t *testing.T) {
	svc, db := newFichaService(t)
	user := testutil.CreateTestUser(t, db, "tecnico", domain.DepartamentoTecnico)
	ctx := testutil.AuthContext(user)

	dto, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRascunho, dto.Status)
	assert.Equal(t, 1, dto.Version)
	assert.Equal(t, user.Nome, dto.CriadoPorNome)
	assert.Equal(t, map[string]float64{"torno_cnc": 6, "fresa": 2}, dto.Horas)

	require.Len(t, dto.Materiais, 1)
	assert.InDelta(t, 425, dto.Materiais[0].Total, 0.001)
	assert.InDelta(t, 425, dto.TotalMateriais, 0.001)

	// The opening history entry has no from-status.
	history, err := svc.GetHistory(ctx, dto.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].FromStatus)
	assert.Equal(t, domain.StatusRascunho, history[0].ToStatus)
}

func TestFichaService_Create_UnknownProcessRejected(t *testing.T) {
	svc, db := newFichaService(t)
	ctx := testutil.AuthContext(testutil.CreateTestUser(t, db, "tecnico", domain.DepartamentoTecnico))

	req := createRequest()
	req.Horas = map[string]float64{"impressao_3d": 2}

	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, service.ErrValidationFailed)
}

func TestFichaService_GetByID_NotFound(t *testing.T) {
	svc, _ := newFichaService(t)

	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrFichaNotFound)
}

func TestFichaService_Update_ReplacesMaterialGrid(t *testing.T) {
	svc, db := newFichaService(t)
	ctx := testutil.AuthContext(testutil.CreateTestUser(t, db, "tecnico", domain.DepartamentoTecnico))

	created, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	update := &domain.UpdateFichaRequest{
		CreateFichaRequest: *createRequest(),
		Version:            created.Version,
	}
	update.Cliente = "Siderúrgica Aurora LTDA"
	update.Materiais = []domain.UpsertMaterialRequest{
		{Descricao: "Aço 1020", Quantidade: 5, PrecoUnitario: 30, Fornecedor: "Aços Brasil"},
		{Descricao: "Chapa 3/8\"", Quantidade: 2, PrecoUnitario: 75, Fornecedor: "Aços Brasil", Ordem: 1},
	}

	dto, err := svc.Update(ctx, created.ID, update)
	require.NoError(t, err)

	assert.Equal(t, "Siderúrgica Aurora LTDA", dto.Cliente)
	assert.Equal(t, 2, dto.Version)
	require.Len(t, dto.Materiais, 2)
	assert.InDelta(t, 300, dto.TotalMateriais, 0.001)
}

func TestFichaService_Update_VersionConflict(t *testing.T) {
	svc, db := newFichaService(t)
	ctx := testutil.AuthContext(testutil.CreateTestUser(t, db, "tecnico", domain.DepartamentoTecnico))

	created, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	update := &domain.UpdateFichaRequest{
		CreateFichaRequest: *createRequest(),
		Version:            42,
	}

	_, err = svc.Update(ctx, created.ID, update)
	assert.ErrorIs(t, err, service.ErrVersionConflict)
}

func TestFichaService_Delete(t *testing.T) {
	svc, db := newFichaService(t)
	ctx := testutil.AuthContext(testutil.CreateTestUser(t, db, "tecnico", domain.DepartamentoTecnico))

	created, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrFichaNotFound)

	// Deleting again reports not found.
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), service.ErrFichaNotFound)
}

func TestFichaService_Validate(t *testing.T) {
	svc, db := newFichaService(t)
	ctx := context.Background()

	// A complete draft validates clean against rascunho.
	draft := testutil.CreateTestFicha(t, db, domain.StatusRascunho)
	resp, err := svc.Validate(ctx, draft.ID)
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Errors)
	assert.NotNil(t, resp.Errors)

	// The same profile is incomplete for the commercial stage.
	pending := testutil.CreateTestFicha(t, db, domain.StatusAguardandoOrcamentoComercial)
	resp, err = svc.Validate(ctx, pending.ID)
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Errors)
	assert.NotEmpty(t, resp.Sections[domain.SecaoControle])
}

func TestFichaService_List_Pagination(t *testing.T) {
	svc, db := newFichaService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		testutil.CreateTestFicha(t, db, domain.StatusRascunho)
	}

	page, err := svc.List(ctx, 1, 2, nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items.([]domain.FichaDTO), 2)
}

func TestFichaService_CountByStatus(t *testing.T) {
	svc, db := newFichaService(t)
	ctx := context.Background()

	testutil.CreateTestFicha(t, db, domain.StatusRascunho)
	testutil.CreateTestFicha(t, db, domain.StatusEmProducao)

	counts, err := svc.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[domain.StatusRascunho])
	assert.Equal(t, int64(1), counts[domain.StatusEmProducao])
}

func TestFichaService_WhatsAppLink(t *testing.T) {
	svc, db := newFichaService(t)
	ctx := context.Background()

	ficha := testutil.CreateTestFicha(t, db, domain.StatusOrcamentoEnviadoCliente)

	link, err := svc.WhatsAppLink(ctx, ficha.ID)
	require.NoError(t, err)
	assert.Contains(t, link, "https://wa.me/55")

	_, err = svc.WhatsAppLink(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrFichaNotFound)
}
