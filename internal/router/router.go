package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/zayar/cashflow-pwa-sub000/internal/config"
	"github.com/zayar/cashflow-pwa-sub000/internal/draft"
	"github.com/zayar/cashflow-pwa-sub000/internal/handler"
	"github.com/zayar/cashflow-pwa-sub000/internal/middleware"
	"github.com/zayar/cashflow-pwa-sub000/internal/model"
	"github.com/zayar/cashflow-pwa-sub000/internal/repository"
	"github.com/zayar/cashflow-pwa-sub000/internal/service"
	"github.com/zayar/cashflow-pwa-sub000/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, sessions *draft.Sessions, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	itemRepo := repository.NewItemRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	customerSvc := service.NewCustomerService(customerRepo)
	itemSvc := service.NewItemService(itemRepo, rdb)
	draftSvc := service.NewDraftService(sessions)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, customerRepo, sessions, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	itemsH := handler.NewItemsHandler(itemSvc)
	draftsH := handler.NewDraftsHandler(draftSvc, itemSvc)
	invoicesH := handler.NewInvoicesHandler(invoiceSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleClerk, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Draft editor — one session per authenticated user
		d := v1.Group("/draft", anyRole)
		{
			d.POST("", draftsH.Start)
			d.GET("", draftsH.Get)
			d.POST("/actions", draftsH.Apply)
			d.DELETE("", draftsH.Discard)
		}

		// Invoices
		v1.POST("/invoices", anyRole, invoicesH.Submit)
		v1.GET("/invoices", anyRole, invoicesH.List)
		v1.GET("/invoices/:id", anyRole, invoicesH.Get)
		v1.GET("/invoices/:id/pdf", anyRole, invoicesH.PDF)
		v1.DELETE("/invoices/:id", adminOnly, invoicesH.Void)

		// Customers — clerks read (picker), admins write
		v1.GET("/customers", anyRole, customersH.List)
		v1.GET("/customers/:id", anyRole, customersH.Get)
		customers := v1.Group("/customers", adminOnly)
		{
			customers.POST("", customersH.Create)
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", customersH.Deactivate)
		}

		// Items — clerks read (picker + recent), admins write
		v1.GET("/items", anyRole, itemsH.List)
		v1.GET("/items/recent", anyRole, itemsH.Recent)
		v1.GET("/items/:id", anyRole, itemsH.Get)
		items := v1.Group("/items", adminOnly)
		{
			items.POST("", itemsH.Create)
			items.PUT("/:id", itemsH.Update)
			items.DELETE("/:id", itemsH.Deactivate)
		}

		// Users — admin only
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
