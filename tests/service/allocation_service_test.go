package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hmc-usinagem/ftc-api/internal/repository"
	"github.com/hmc-usinagem/ftc-api/internal/service"
	"github.com/hmc-usinagem/ftc-api/tests/testutil"
)

func newAllocationService(t *testing.T) (*service.AllocationService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := service.NewAllocationService(repository.NewFuncionarioRepository(db), zap.NewNop())
	return svc, db
}

func TestSuggest_PicksLeastLoadedQualifiedWorker(t *testing.T) {
	svc, db := newAllocationService(t)

	testutil.CreateTestFuncionario(t, db, "João", "torno_cnc,fresa", 5)
	testutil.CreateTestFuncionario(t, db, "Maria", "torno_cnc", 1)
	testutil.CreateTestFuncionario(t, db, "Pedro", "solda", 0)

	resp, err := svc.Suggest(context.Background(), "torno_cnc")
	require.NoError(t, err)

	require.NotNil(t, resp.Sugerido)
	assert.Equal(t, "Maria", resp.Sugerido.Nome)
	assert.Equal(t, 1, resp.Sugerido.OrdensAtivas)

	require.Len(t, resp.Alternativos, 1)
	assert.Equal(t, "João", resp.Alternativos[0].Nome)
}

func TestSuggest_LoadTieBreaksByName(t *testing.T) {
	svc, db := newAllocationService(t)

	testutil.CreateTestFuncionario(t, db, "Bruno", "fresa", 2)
	testutil.CreateTestFuncionario(t, db, "Ana", "fresa", 2)

	resp, err := svc.Suggest(context.Background(), "fresa")
	require.NoError(t, err)

	require.NotNil(t, resp.Sugerido)
	assert.Equal(t, "Ana", resp.Sugerido.Nome)
}

func TestSuggest_NobodyQualified(t *testing.T) {
	svc, db := newAllocationService(t)

	testutil.CreateTestFuncionario(t, db, "João", "torno_cnc", 0)

	// No qualified worker is a valid empty answer, not an error.
	resp, err := svc.Suggest(context.Background(), "calandra")
	require.NoError(t, err)

	assert.Equal(t, "calandra", resp.Processo)
	assert.Nil(t, resp.Sugerido)
	assert.Empty(t, resp.Alternativos)
}

func TestSuggest_IgnoresInactiveWorkers(t *testing.T) {
	svc, db := newAllocationService(t)

	inactive := testutil.CreateTestFuncionario(t, db, "Afastado", "solda", 0)
	require.NoError(t, db.Model(inactive).Update("ativo", false).Error)
	testutil.CreateTestFuncionario(t, db, "Presente", "solda", 3)

	resp, err := svc.Suggest(context.Background(), "solda")
	require.NoError(t, err)

	require.NotNil(t, resp.Sugerido)
	assert.Equal(t, "Presente", resp.Sugerido.Nome)
	assert.Empty(t, resp.Alternativos)
}

func TestListFuncionarios(t *testing.T) {
	svc, db := newAllocationService(t)

	testutil.CreateTestFuncionario(t, db, "João", "torno_cnc,fresa", 2)
	testutil.CreateTestFuncionario(t, db, "Maria", "solda", 0)

	funcionarios, err := svc.ListFuncionarios(context.Background())
	require.NoError(t, err)

	require.Len(t, funcionarios, 2)
	// Ordered by load, then name.
	assert.Equal(t, "Maria", funcionarios[0].Nome)
	assert.Equal(t, "João", funcionarios[1].Nome)
	assert.Equal(t, []string{"torno_cnc", "fresa"}, funcionarios[1].Processos)
	assert.True(t, funcionarios[0].Ativo)
}

func TestListFuncionarios_Empty(t *testing.T) {
	svc, _ := newAllocationService(t)

	funcionarios, err := svc.ListFuncionarios(context.Background())
	require.NoError(t, err)
	assert.Empty(t, funcionarios)
}
