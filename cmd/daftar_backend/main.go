package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/daftarhq/daftar/internal/adapters/database/sqlite"
	"github.com/daftarhq/daftar/internal/core/domain"
	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/core/services"
	"github.com/daftarhq/daftar/internal/handlers"
	"github.com/daftarhq/daftar/internal/middleware"
	"github.com/daftarhq/daftar/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Open the embedded document store; migrations run inside Open.
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open document store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("Error closing document store", slog.String("error", cerr.Error()))
		}
	}()
	logger.Info("Document store opened", slog.String("path", cfg.DBPath))

	productService := services.NewProductService(store)
	chartService := services.NewChartService(store)
	stockService := services.NewStockService(store)
	serviceContainer := &portssvc.ServiceContainer{
		Posting:  services.NewPostingService(store, productService, chartService),
		Stock:    stockService,
		Ledger:   services.NewLedgerService(store, chartService),
		Sync:     services.NewSyncService(store),
		Product:  productService,
		Customer: services.NewCustomerService(store),
		Chart:    chartService,
		User:     services.NewUserService(store),
		Document: services.NewDocumentService(store),
		Report:   services.NewReportService(store, stockService, productService),
	}

	// Bootstrap runs as the system actor before the server accepts traffic.
	bootCtx := middleware.WithLogger(context.Background(), logger)
	systemActor := domain.Actor{UserID: "system", Role: domain.RoleAdmin}

	if err := serviceContainer.Chart.EnsureChart(bootCtx, systemActor); err != nil {
		logger.Error("Failed to bootstrap chart of accounts", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := serviceContainer.User.EnsureDefaultAdmin(bootCtx, cfg.AdminPassword); err != nil {
		logger.Error("Failed to ensure default admin", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Repair whatever a previous crash left half-written before serving.
	repaired, err := serviceContainer.Posting.Reconcile(bootCtx, systemActor)
	if err != nil {
		logger.Error("Startup reconciliation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(repaired) > 0 {
		logger.Info("Startup reconciliation repaired headers", slog.Int("count", len(repaired)))
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (CORS, logging, recovery)
	r.Use(cors.Default(), middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
