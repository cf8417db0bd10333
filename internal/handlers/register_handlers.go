package handlers

import (
	"github.com/daftarhq/daftar/internal/core/domain"
	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/middleware"
	"github.com/daftarhq/daftar/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Register public authentication routes
	registerAuthRoutes(r, cfg, services.User)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerPostingRoutes(v1, services.Posting)
	registerStockRoutes(v1, services.Stock)
	registerLedgerRoutes(v1, services.Ledger)
	registerAccountRoutes(v1, services.Chart)
	registerProductRoutes(v1, services.Product)
	registerCustomerRoutes(v1, services.Customer)
	registerUserRoutes(v1, services.User)
	registerSyncRoutes(v1, services.Sync)
	registerReportRoutes(v1, services.Report)
	registerAdminRoutes(v1, services.Posting, services.Document)
}

// registerCustomValidators wires domain enum checks into gin's binding layer.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("accountclass", func(fl validator.FieldLevel) bool {
		return domain.AccountClass(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		role := domain.Role(fl.Field().String())
		return role == domain.RoleAdmin || role == domain.RoleCashier
	})
}
