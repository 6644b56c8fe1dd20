package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hmc-usinagem/ftc-api/internal/auth"
	"github.com/hmc-usinagem/ftc-api/internal/domain"
	"github.com/hmc-usinagem/ftc-api/internal/http/handler"
	"github.com/hmc-usinagem/ftc-api/internal/repository"
	"github.com/hmc-usinagem/ftc-api/internal/service"
	"github.com/hmc-usinagem/ftc-api/tests/testutil"
)

// newTestRouter wires the ficha handlers onto a chi router backed by a real
// database, with a fixed user injected the way the auth middleware does it.
func newTestRouter(t *testing.T) (*chi.Mux, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	fichaRepo := repository.NewFichaRepository(db)
	historyRepo := repository.NewStatusHistoryRepository(db)
	fichaService := service.NewFichaService(fichaRepo, repository.NewMaterialRepository(db), historyRepo, logger)
	lifecycleService := service.NewFichaLifecycleService(
		fichaRepo,
		historyRepo,
		service.NewNotificationService(repository.NewNotificationRepository(db), repository.NewUserRepository(db), logger),
		service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), logger),
		logger,
	)

	fichaHandler := handler.NewFichaHandler(fichaService, logger)
	lifecycleHandler := handler.NewFichaLifecycleHandler(lifecycleService, logger)

	user := testutil.CreateTestUser(t, db, "tecnico", domain.DepartamentoTecnico)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.WithUserContext(req.Context(), &auth.UserContext{
				UserID:       user.ID,
				Nome:         user.Nome,
				Email:        user.Email,
				Departamento: user.Departamento,
			})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	r.Route("/fichas", func(r chi.Router) {
		r.Get("/{id}", fichaHandler.Get)
		r.Post("/{id}/advance", lifecycleHandler.Advance)
		r.Post("/{id}/revert", lifecycleHandler.Revert)
	})

	return r, db
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestFichaHandler_Get(t *testing.T) {
	r, db := newTestRouter(t)
	ficha := testutil.CreateTestFicha(t, db, domain.StatusRascunho)

	rec := doJSON(t, r, http.MethodGet, "/fichas/"+ficha.ID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var dto domain.FichaDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, ficha.ID, dto.ID)
	assert.Equal(t, domain.StatusRascunho, dto.Status)
}

func TestFichaHandler_Get_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/fichas/3f9d1c2a-0000-4000-8000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFichaHandler_Get_InvalidID(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/fichas/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvanceHandler_HappyPath(t *testing.T) {
	r, db := newTestRouter(t)
	ficha := testutil.CreateTestFicha(t, db, domain.StatusRascunho)

	rec := doJSON(t, r, http.MethodPost, "/fichas/"+ficha.ID.String()+"/advance",
		domain.AdvanceFichaRequest{Choice: domain.TransitionFinished, Version: 1})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.AdvanceFichaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Decision.Advanced)
	assert.Equal(t, domain.StatusAguardandoCotacaoCompras, resp.Ficha.Status)
}

func TestAdvanceHandler_VersionConflictIs409(t *testing.T) {
	r, db := newTestRouter(t)
	ficha := testutil.CreateTestFicha(t, db, domain.StatusRascunho)

	rec := doJSON(t, r, http.MethodPost, "/fichas/"+ficha.ID.String()+"/advance",
		domain.AdvanceFichaRequest{Choice: domain.TransitionFinished, Version: 9})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "alterada por outro usuário")
}

func TestAdvanceHandler_ValidationFailureIs422(t *testing.T) {
	r, db := newTestRouter(t)
	ficha := testutil.CreateTestFicha(t, db, domain.StatusRascunho)
	require.NoError(t, db.Model(ficha).Update("servico", "").Error)

	rec := doJSON(t, r, http.MethodPost, "/fichas/"+ficha.ID.String()+"/advance",
		domain.AdvanceFichaRequest{Choice: domain.TransitionFinished, Version: 1})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Title  string                   `json:"title"`
		Errors []domain.ValidationError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Ficha incompleta", body.Title)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "servico", body.Errors[0].Field)
}

func TestAdvanceHandler_GuardRefusalIs200(t *testing.T) {
	r, db := newTestRouter(t)
	ficha := testutil.CreateTestFicha(t, db, domain.StatusAguardandoCotacaoCompras)
	testutil.AddMaterial(t, db, ficha, "Aço 1020", 5, 0, "")

	rec := doJSON(t, r, http.MethodPost, "/fichas/"+ficha.ID.String()+"/advance",
		domain.AdvanceFichaRequest{Choice: domain.TransitionFinished, Version: 1})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.AdvanceFichaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Decision.Advanced)
	assert.NotEmpty(t, resp.Decision.Reason)
}

func TestAdvanceHandler_InvalidChoiceIs400(t *testing.T) {
	r, db := newTestRouter(t)
	ficha := testutil.CreateTestFicha(t, db, domain.StatusRascunho)

	rec := doJSON(t, r, http.MethodPost, "/fichas/"+ficha.ID.String()+"/advance",
		map[string]interface{}{"choice": "maybe", "version": 1})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRevertHandler_ShortJustificationIs400(t *testing.T) {
	r, db := newTestRouter(t)
	ficha := testutil.CreateTestFicha(t, db, domain.StatusAguardandoOrcamentoComercial)

	rec := doJSON(t, r, http.MethodPost, "/fichas/"+ficha.ID.String()+"/revert",
		map[string]interface{}{"justificativa": "curta", "version": 1})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRevertHandler_HappyPath(t *testing.T) {
	r, db := newTestRouter(t)
	ficha := testutil.CreateTestFicha(t, db, domain.StatusAguardandoOrcamentoComercial)

	rec := doJSON(t, r, http.MethodPost, "/fichas/"+ficha.ID.String()+"/revert",
		domain.RevertFichaRequest{Justificativa: "Cotação precisa ser refeita", Version: 1})

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var resp domain.RevertFichaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.StatusAguardandoCotacaoCompras, resp.Ficha.Status)
	assert.NotEmpty(t, resp.Impact)
}
