package router

import (
	"time"

	"ebucks/internal/config"
	"ebucks/internal/handler"
	"ebucks/internal/infra"
	"ebucks/internal/middleware"
	"ebucks/internal/model"
	"ebucks/internal/repository"
	"ebucks/internal/service"
	"ebucks/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.NewRateLimiter(1000, time.Minute).Handler("Too many requests. Try again shortly."))

	// ── Infrastructure ───────────────────────────────────────────────────────
	printer := infra.NewHTMLPrinter(cfg.StoreName)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	voucherRepo := repository.NewVoucherRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	salesRepo := repository.NewSalesRepository(db)
	timesheetRepo := repository.NewTimesheetRepository(db)
	printerRepo := repository.NewPrinterRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	ledgerSvc := service.NewLedgerService(voucherRepo, userRepo, printer)
	purchaseSvc := service.NewPurchaseService(ledgerSvc, voucherRepo, inventoryRepo, salesRepo, userRepo, printer, dispatcher)
	transferSvc := service.NewTransferService(ledgerSvc, voucherRepo, userRepo, printer, dispatcher, cfg.Fee())
	payrollSvc := service.NewPayrollService(ledgerSvc, voucherRepo, userRepo, timesheetRepo, printer, dispatcher, cfg.StoreName)
	inventorySvc := service.NewInventoryService(inventoryRepo)
	printerSvc := service.NewPrinterService(printerRepo, printer, dispatcher)
	reportSvc := service.NewReportService(voucherRepo, userRepo, salesRepo, timesheetRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc, reportSvc)
	ledgerH := handler.NewLedgerHandler(ledgerSvc, purchaseSvc, transferSvc)
	payrollH := handler.NewPayrollHandler(payrollSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc, rdb)
	printersH := handler.NewPrintersHandler(printerSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailer))

	// PIN endpoints (public, rate limited)
	pinLimit := middleware.PINRateLimiter()
	r.POST("/v1/auth/login", pinLimit, authH.Login)
	r.POST("/v1/clock", pinLimit, payrollH.Clock)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Any signed-in user: kiosk operations
		v1.POST("/purchase", ledgerH.Purchase)
		v1.POST("/transfer", ledgerH.Transfer)
		v1.GET("/vouchers/:id", ledgerH.GetVoucher)
		v1.GET("/vouchers/:id/print", ledgerH.Reprint)
		v1.GET("/inventory", inventoryH.List)
		v1.GET("/inventory/barcode/:barcode", inventoryH.ByBarcode)

		admin := v1.Group("", middleware.RequireRole(model.RoleAdmin))
		{
			admin.POST("/mint", payrollH.Mint)
			admin.POST("/payroll/process", payrollH.Process)
			admin.GET("/payroll/unpaid", payrollH.ListUnpaid)

			admin.GET("/users", usersH.List)
			admin.POST("/users", usersH.Create)
			admin.DELETE("/users/:id", usersH.Delete)
			admin.GET("/users/:id/details", usersH.Details)

			admin.POST("/inventory", inventoryH.Create)
			admin.DELETE("/inventory/:id", inventoryH.Delete)

			admin.GET("/printers", printersH.List)
			admin.POST("/printers", printersH.Create)
			admin.DELETE("/printers/:id", printersH.Delete)
			admin.POST("/printers/test", printersH.Test)

			admin.GET("/financials", reportsH.Financials)
			admin.GET("/financials/export", reportsH.ExportFinancials)
			admin.GET("/stats", reportsH.Stats)

			admin.POST("/jobs/replay", handler.ReplayDeadLetters(rdb))
		}
	}

	// Swagger UI: only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
