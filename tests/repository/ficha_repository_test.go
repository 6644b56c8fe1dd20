package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
	"github.com/hmc-usinagem/ftc-api/internal/repository"
	"github.com/hmc-usinagem/ftc-api/tests/testutil"
)

func TestFichaRepository_GetByID_PreloadsMaterialsInOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFichaRepository(db)
	ctx := context.Background()

	ficha := testutil.CreateTestFicha(t, db, domain.StatusRascunho)
	second := testutil.AddMaterial(t, db, ficha, "Chapa 1/2\"", 1, 90, "Aços Brasil")
	require.NoError(t, db.Model(second).Update("ordem", 2).Error)
	first := testutil.AddMaterial(t, db, ficha, "Aço 1045", 2, 120, "Metalúrgica Sul")
	require.NoError(t, db.Model(first).Update("ordem", 1).Error)

	loaded, err := repo.GetByID(ctx, ficha.ID)
	require.NoError(t, err)

	require.Len(t, loaded.Materiais, 2)
	assert.Equal(t, "Aço 1045", loaded.Materiais[0].Descricao)
	assert.Equal(t, "Chapa 1/2\"", loaded.Materiais[1].Descricao)
}

func TestFichaRepository_UpdateWithVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFichaRepository(db)
	ctx := context.Background()

	ficha := testutil.CreateTestFicha(t, db, domain.StatusRascunho)
	ficha.Cliente = "Cliente Renomeado"

	require.NoError(t, repo.UpdateWithVersion(ctx, ficha, 1))

	stored := testutil.ReloadFicha(t, db, ficha)
	assert.Equal(t, "Cliente Renomeado", stored.Cliente)
	assert.Equal(t, 2, stored.Version)
}

func TestFichaRepository_UpdateWithVersion_Stale(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFichaRepository(db)
	ctx := context.Background()

	ficha := testutil.CreateTestFicha(t, db, domain.StatusRascunho)
	ficha.Cliente = "Cliente Renomeado"

	err := repo.UpdateWithVersion(ctx, ficha, 99)
	assert.ErrorIs(t, err, repository.ErrStaleVersion)

	// The stored row is untouched by the lost race.
	stored := testutil.ReloadFicha(t, db, ficha)
	assert.Equal(t, "Mineradora Vale Verde", stored.Cliente)
	assert.Equal(t, 1, stored.Version)
}

func TestFichaRepository_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFichaRepository(db)
	ctx := context.Background()

	ficha := testutil.CreateTestFicha(t, db, domain.StatusEmCompras)

	require.NoError(t, repo.UpdateStatus(ctx, ficha.ID, domain.StatusEmProducao, 1))

	stored := testutil.ReloadFicha(t, db, ficha)
	assert.Equal(t, domain.StatusEmProducao, stored.Status)
	assert.Equal(t, 2, stored.Version)

	// Repeating with the consumed version fails.
	err := repo.UpdateStatus(ctx, ficha.ID, domain.StatusFinalizada, 1)
	assert.ErrorIs(t, err, repository.ErrStaleVersion)
}

func TestFichaRepository_List_FiltersByStatusAndCliente(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFichaRepository(db)
	ctx := context.Background()

	draft := testutil.CreateTestFicha(t, db, domain.StatusRascunho)
	testutil.CreateTestFicha(t, db, domain.StatusEmProducao)

	status := domain.StatusRascunho
	fichas, total, err := repo.List(ctx, 1, 10, &status, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, fichas, 1)
	assert.Equal(t, draft.ID, fichas[0].ID)

	// Client filter is case-insensitive substring match.
	fichas, total, err = repo.List(ctx, 1, 10, nil, "vale verde")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, fichas, 2)

	_, total, err = repo.List(ctx, 1, 10, nil, "inexistente")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestFichaRepository_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFichaRepository(db)
	ctx := context.Background()

	ficha := testutil.CreateTestFicha(t, db, domain.StatusAguardandoOrcamentoComercial)
	require.NoError(t, db.Model(ficha).Update("numero_orcamento", "FTC-2026-055").Error)

	// By quote number.
	results, err := repo.Search(ctx, "2026-055", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, ficha.ID, results[0].ID)

	// By part name, case-insensitive.
	results, err = repo.Search(ctx, "EIXO", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = repo.Search(ctx, "polia", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFichaRepository_ListStaleSentQuotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFichaRepository(db)
	ctx := context.Background()

	stale := testutil.CreateTestFicha(t, db, domain.StatusOrcamentoEnviadoCliente)
	old := time.Now().UTC().AddDate(0, 0, -10)
	require.NoError(t, db.Model(stale).UpdateColumn("updated_at", old).Error)

	// Recently sent and not-sent fichas stay out.
	testutil.CreateTestFicha(t, db, domain.StatusOrcamentoEnviadoCliente)
	testutil.CreateTestFicha(t, db, domain.StatusRascunho)

	cutoff := time.Now().UTC().AddDate(0, 0, -7)
	fichas, err := repo.ListStaleSentQuotes(ctx, cutoff)
	require.NoError(t, err)

	require.Len(t, fichas, 1)
	assert.Equal(t, stale.ID, fichas[0].ID)
}

func TestFichaRepository_CountByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFichaRepository(db)
	ctx := context.Background()

	testutil.CreateTestFicha(t, db, domain.StatusRascunho)
	testutil.CreateTestFicha(t, db, domain.StatusRascunho)
	testutil.CreateTestFicha(t, db, domain.StatusEmProducao)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), counts[domain.StatusRascunho])
	assert.Equal(t, int64(1), counts[domain.StatusEmProducao])
	assert.Zero(t, counts[domain.StatusFinalizada])
}

func TestFichaRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFichaRepository(db)
	ctx := context.Background()

	ficha := testutil.CreateTestFicha(t, db, domain.StatusRascunho)

	require.NoError(t, repo.Delete(ctx, ficha.ID))

	_, err := repo.GetByID(ctx, ficha.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
