package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/openinvoice/backend/internal/application/catalog"
	ledgerapp "github.com/openinvoice/backend/internal/application/ledger"
	reportapp "github.com/openinvoice/backend/internal/application/report"
	settingsapp "github.com/openinvoice/backend/internal/application/settings"
	"github.com/openinvoice/backend/internal/infrastructure/config"
	"github.com/openinvoice/backend/internal/infrastructure/logger"
	"github.com/openinvoice/backend/internal/infrastructure/persistence"
	"github.com/openinvoice/backend/internal/interfaces/http/handler"
	"github.com/openinvoice/backend/internal/interfaces/http/middleware"
	"github.com/openinvoice/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting OpenInvoice",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("driver", cfg.Database.Driver),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a zap-backed GORM logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database ready")

	// Repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	salesReportRepo := persistence.NewGormSalesReportRepository(db.DB)

	// Application services
	settingsService := settingsapp.NewService(settingsRepo, auditRepo, log)
	if err := settingsService.EnsureDefaults(context.Background(), settingsapp.Defaults{
		StoreName:      cfg.Store.Name,
		SellerID:       cfg.Store.SellerID,
		CurrencySymbol: cfg.Store.CurrencySymbol,
		DefaultVATRate: cfg.Store.DefaultVATRate,
	}); err != nil {
		log.Fatal("Failed to seed store settings", zap.Error(err))
	}

	defaultVATRate, err := decimal.NewFromString(cfg.Store.DefaultVATRate)
	if err != nil {
		log.Fatal("Invalid default VAT rate", zap.String("value", cfg.Store.DefaultVATRate), zap.Error(err))
	}

	invoiceService := ledgerapp.NewInvoiceService(invoiceRepo, productRepo, settingsService, auditRepo, log)
	returnService := ledgerapp.NewReturnService(invoiceRepo, productRepo, auditRepo, log)
	verificationService := ledgerapp.NewVerificationService(invoiceRepo, auditRepo, log)
	productService := catalogapp.NewProductService(productRepo, log)
	importService := catalogapp.NewProductImportService(productRepo, auditRepo, defaultVATRate, log)
	reportService := reportapp.NewService(salesReportRepo, log)

	// HTTP engine and middleware stack
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).Register(
		handler.NewInvoiceHandler(invoiceService, returnService),
		handler.NewVerificationHandler(verificationService),
		handler.NewProductHandler(productService, importService),
		handler.NewReportHandler(reportService),
		handler.NewSettingsHandler(settingsService),
		handler.NewAuditHandler(auditRepo),
		handler.NewSystemHandler(db, version),
	).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
