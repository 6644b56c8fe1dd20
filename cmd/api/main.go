package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hmc-usinagem/ftc-api/docs"
	"github.com/hmc-usinagem/ftc-api/internal/auth"
	"github.com/hmc-usinagem/ftc-api/internal/config"
	"github.com/hmc-usinagem/ftc-api/internal/database"
	"github.com/hmc-usinagem/ftc-api/internal/erp"
	"github.com/hmc-usinagem/ftc-api/internal/http/handler"
	"github.com/hmc-usinagem/ftc-api/internal/http/middleware"
	"github.com/hmc-usinagem/ftc-api/internal/http/router"
	"github.com/hmc-usinagem/ftc-api/internal/jobs"
	"github.com/hmc-usinagem/ftc-api/internal/logger"
	"github.com/hmc-usinagem/ftc-api/internal/repository"
	"github.com/hmc-usinagem/ftc-api/internal/service"
	"github.com/hmc-usinagem/ftc-api/internal/storage"
)

// @title FTC API
// @version 1.0
// @description API de Ficha Técnica de Cotação da HMC Usinagem

// @contact.name Suporte
// @contact.email ti@hmcusinagem.com.br

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize photo storage
	fotoStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Legacy ERP connection (optional, read-only, serves the purchasing lookups)
	var erpClient *erp.Client
	if cfg.Erp.Enabled {
		erpClient, err = erp.NewClient(&cfg.Erp, log)
		if err != nil {
			// The workflow works without it, purchasing just loses the lookups
			log.Warn("ERP connection failed, continuing without it", zap.Error(err))
		}
	} else {
		log.Info("ERP not configured, skipping")
	}

	// Initialize repositories
	fichaRepo := repository.NewFichaRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	historyRepo := repository.NewStatusHistoryRepository(db)
	fotoRepo := repository.NewFotoRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	funcionarioRepo := repository.NewFuncionarioRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)

	// Initialize services
	numberSequenceService := service.NewNumberSequenceService(numberSequenceRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, log)
	fichaService := service.NewFichaService(fichaRepo, materialRepo, historyRepo, log)
	lifecycleService := service.NewFichaLifecycleService(fichaRepo, historyRepo, notificationService, numberSequenceService, log)
	allocationService := service.NewAllocationService(funcionarioRepo, log)
	fotoService := service.NewFotoService(fotoRepo, fichaRepo, fotoStorage, cfg.Storage.MaxUploadSizeMB, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	fichaHandler := handler.NewFichaHandler(fichaService, log)
	lifecycleHandler := handler.NewFichaLifecycleHandler(lifecycleService, log)
	materialHandler := handler.NewMaterialHandler(erpClient, log)
	fotoHandler := handler.NewFotoHandler(fotoService, cfg.Storage.MaxUploadSizeMB, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	allocationHandler := handler.NewAllocationHandler(allocationService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		fichaHandler,
		lifecycleHandler,
		materialHandler,
		fotoHandler,
		notificationHandler,
		allocationHandler,
	)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		quoteExpiryJob := jobs.NewQuoteExpiryJob(fichaRepo, notificationService, cfg.Jobs.QuoteExpiryDays, log)
		if err := scheduler.AddJob("quote-expiry", cfg.Jobs.QuoteExpirySchedule, quoteExpiryJob.Run); err != nil {
			log.Error("Failed to register quote expiry job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started",
				zap.String("quote_expiry_schedule", cfg.Jobs.QuoteExpirySchedule),
				zap.Int("quote_expiry_days", cfg.Jobs.QuoteExpiryDays),
			)
		}
	} else {
		log.Info("Background jobs disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if erpClient != nil {
			if err := erpClient.Close(); err != nil {
				log.Warn("Error closing ERP connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
