package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/sproutworks/nursery_erp_backend/internal/core/ports/services"
	"github.com/sproutworks/nursery_erp_backend/internal/core/services"
	"github.com/sproutworks/nursery_erp_backend/internal/middleware"
	"github.com/sproutworks/nursery_erp_backend/internal/platform/config"
	"github.com/sproutworks/nursery_erp_backend/internal/repositories/database/pgsql"
)

// RegisterHandlers wires repositories, services and routes onto the engine.
func RegisterHandlers(r *gin.Engine, cfg *config.Config, dbPool *pgxpool.Pool) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	registerAuthRoutes(r, cfg, dbPool)

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	registerPayrollRoutes(v1, cfg, dbPool)
}

// registerAuthRoutes sets up the login route with an IP rate limit.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, dbPool *pgxpool.Pool) {
	userRepo := pgsql.NewUserRepository(dbPool, cfg.DBQueryTimeout)
	userService := services.NewUserService(userRepo)
	authHandler := NewAuthHandler(userService, cfg)

	// 5 login attempts per minute per IP
	rate, _ := limiter.NewRateFromFormatted("5-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)

	auth := r.Group("/api/v1/auth")
	auth.POST("/login", middleware.RateLimit(ipLimiter), authHandler.Login)
}

// registerPayrollRoutes sets up the payroll subsystem routes.
func registerPayrollRoutes(group *gin.RouterGroup, cfg *config.Config, dbPool *pgxpool.Pool) {
	payrollRepo := pgsql.NewPayrollRepository(dbPool, cfg.DBQueryTimeout)
	voucherRepo := pgsql.NewVoucherRepository(dbPool, cfg.DBQueryTimeout)
	employeeRepo := pgsql.NewEmployeeRepository(dbPool, cfg.DBQueryTimeout)
	attendanceRepo := pgsql.NewAttendanceRepository(dbPool, cfg.DBQueryTimeout)
	structureRepo := pgsql.NewSalaryStructureRepository(dbPool, cfg.DBQueryTimeout)

	payrollService := services.NewPayrollService(payrollRepo, voucherRepo, employeeRepo, attendanceRepo, structureRepo)
	RegisterPayrollRoutes(group, payrollService)
}

// RegisterPayrollRoutes attaches the payroll routes to an already-authenticated
// group. Exported so tests can mount them over a mocked service.
func RegisterPayrollRoutes(group *gin.RouterGroup, payrollService portssvc.PayrollSvcFacade) {
	handler := newPayrollHandler(payrollService)

	payrolls := group.Group("/payrolls")
	{
		payrolls.POST("/generate", handler.generatePayroll)
		payrolls.GET("", handler.listPayrolls)
		payrolls.GET("/:payrollID", handler.getPayrollDetails)
		payrolls.PUT("/:payrollID/approve", handler.approvePayroll)
		payrolls.PUT("/:payrollID/pay", handler.payPayroll)
		payrolls.PUT("/:payrollID/hold", handler.holdPayroll)
		payrolls.PUT("/:payrollID/reactivate", handler.reactivatePayroll)
	}

	vouchers := group.Group("/vouchers")
	// voucher numbers contain slashes (JV/2025/000042), so a wildcard is needed
	vouchers.GET("/*voucherNo", handler.getVoucher)
}
