package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hmc-usinagem/ftc-api/internal/auth"
	"github.com/hmc-usinagem/ftc-api/internal/config"
	"github.com/hmc-usinagem/ftc-api/internal/database"
	"github.com/hmc-usinagem/ftc-api/internal/domain"
	"github.com/hmc-usinagem/ftc-api/internal/http/handler"
	"github.com/hmc-usinagem/ftc-api/internal/http/middleware"

	_ "github.com/hmc-usinagem/ftc-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	fichaHandler        *handler.FichaHandler
	lifecycleHandler    *handler.FichaLifecycleHandler
	materialHandler     *handler.MaterialHandler
	fotoHandler         *handler.FotoHandler
	notificationHandler *handler.NotificationHandler
	allocationHandler   *handler.AllocationHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	fichaHandler *handler.FichaHandler,
	lifecycleHandler *handler.FichaLifecycleHandler,
	materialHandler *handler.MaterialHandler,
	fotoHandler *handler.FotoHandler,
	notificationHandler *handler.NotificationHandler,
	allocationHandler *handler.AllocationHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		fichaHandler:        fichaHandler,
		lifecycleHandler:    lifecycleHandler,
		materialHandler:     materialHandler,
		fotoHandler:         fotoHandler,
		notificationHandler: notificationHandler,
		allocationHandler:   allocationHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		code := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	comprasGate := middleware.ModuleGate(&rt.cfg.Modules, "compras", rt.logger)
	comercialGate := middleware.ModuleGate(&rt.cfg.Modules, "comercial", rt.logger)
	pcpGate := middleware.ModuleGate(&rt.cfg.Modules, "pcp", rt.logger)
	producaoGate := middleware.ModuleGate(&rt.cfg.Modules, "producao", rt.logger)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Fichas técnicas
			r.Route("/fichas", func(r chi.Router) {
				r.Get("/", rt.fichaHandler.List)
				r.Post("/", rt.fichaHandler.Create)
				r.Get("/search", rt.fichaHandler.Search)
				r.Get("/stats/status", rt.fichaHandler.CountByStatus)
				r.Get("/{id}", rt.fichaHandler.Get)
				r.Put("/{id}", rt.fichaHandler.Update)
				r.Delete("/{id}", rt.fichaHandler.Delete)
				r.Get("/{id}/validate", rt.fichaHandler.Validate)
				r.Get("/{id}/history", rt.fichaHandler.GetHistory)
				r.Get("/{id}/whatsapp-link", rt.fichaHandler.WhatsAppLink)

				// Workflow transitions
				r.Post("/{id}/advance", rt.lifecycleHandler.Advance)
				r.Post("/{id}/revert", rt.lifecycleHandler.Revert)
				r.With(comercialGate).Post("/{id}/client-response", rt.lifecycleHandler.ClientResponse)
				r.With(comprasGate).Post("/{id}/start-purchasing", rt.lifecycleHandler.StartPurchasing)
				r.With(producaoGate).Post("/{id}/start-production", rt.lifecycleHandler.StartProduction)
				r.With(producaoGate).Post("/{id}/finish", rt.lifecycleHandler.Finish)

				// Part photos
				r.Get("/{id}/fotos", rt.fotoHandler.List)
				r.Post("/{id}/fotos", rt.fotoHandler.Upload)
			})

			// Photo content
			r.Route("/fotos", func(r chi.Router) {
				r.Get("/{fotoId}", rt.fotoHandler.Download)
				r.Delete("/{fotoId}", rt.fotoHandler.Delete)
			})

			// Purchasing lookups against the legacy ERP
			r.Route("/materiais", func(r chi.Router) {
				r.Use(comprasGate)
				r.Use(rt.authMiddleware.RequireDepartamento(domain.DepartamentoCompras))
				r.Get("/fornecedores", rt.materialHandler.SearchFornecedores)
				r.Get("/precos", rt.materialHandler.PrecoHistorico)
			})

			// PCP worker allocation
			r.Route("/alocacao", func(r chi.Router) {
				r.Use(pcpGate)
				r.Use(rt.authMiddleware.RequireDepartamento(domain.DepartamentoPCP))
				r.Post("/sugerir", rt.allocationHandler.Suggest)
				r.Get("/funcionarios", rt.allocationHandler.ListFuncionarios)
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Get("/unread-count", rt.notificationHandler.CountUnread)
				r.Post("/read-all", rt.notificationHandler.MarkAllAsRead)
				r.Post("/{id}/read", rt.notificationHandler.MarkAsRead)
			})
		})
	})

	return r
}
