package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/hmc-usinagem/ftc-api/internal/config"
)

// ModuleGate returns a middleware that rejects requests to a route group
// whose department module is switched off. The workflow itself never looks
// at these flags; disabling a module hides its screens without changing
// what transitions are legal.
func ModuleGate(cfg *config.ModulesConfig, module string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled(module) {
				logger.Warn("request to disabled module",
					zap.String("module", module),
					zap.String("path", r.URL.Path),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"módulo desabilitado","message":"Este módulo não está habilitado nesta instalação."}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
