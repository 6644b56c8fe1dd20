package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/hmc-usinagem/ftc-api/internal/config"
	"github.com/hmc-usinagem/ftc-api/internal/http/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestModuleGate_EnabledModulePassesThrough(t *testing.T) {
	cfg := &config.ModulesConfig{Compras: true}
	gate := middleware.ModuleGate(cfg, "compras", zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/materiais/fornecedores", nil)

	gate(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestModuleGate_DisabledModuleReturns404(t *testing.T) {
	cfg := &config.ModulesConfig{Compras: false, Comercial: true}
	gate := middleware.ModuleGate(cfg, "compras", zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/materiais/fornecedores", nil)

	gate(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "módulo desabilitado")
}

func TestModuleGate_ModuleNameIsCaseInsensitive(t *testing.T) {
	cfg := &config.ModulesConfig{Producao: true}
	gate := middleware.ModuleGate(cfg, "Producao", zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/fichas/x/finish", nil)

	gate(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestModuleGate_UnknownModuleIsAlwaysDisabled(t *testing.T) {
	cfg := &config.ModulesConfig{Compras: true, Comercial: true, PCP: true, Producao: true}
	gate := middleware.ModuleGate(cfg, "faturamento", zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/faturamento", nil)

	gate(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
