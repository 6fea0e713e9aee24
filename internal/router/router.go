package router

import (
	"time"

	"github.com/altyebv/restaurant-pos-system/internal/config"
	"github.com/altyebv/restaurant-pos-system/internal/handler"
	"github.com/altyebv/restaurant-pos-system/internal/middleware"
	"github.com/altyebv/restaurant-pos-system/internal/receipt"
	"github.com/altyebv/restaurant-pos-system/internal/repository"
	"github.com/altyebv/restaurant-pos-system/internal/service"
	"github.com/altyebv/restaurant-pos-system/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, locker service.SessionLocker) *gin.Engine {
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
	sessionRepo := repository.NewSessionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	menuRepo := repository.NewMenuRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	sessionSvc := service.NewSessionService(sessionRepo, orderRepo)
	authSvc := service.NewAuthService(
		userRepo, sessionSvc, cfg.JWTSecret,
		time.Duration(cfg.JWTExpirationHours)*time.Hour,
		time.Duration(cfg.JWTRefreshHours)*time.Hour,
	)
	sequencer := service.NewOrderSequencer(sessionRepo, orderRepo, locker)
	renderer := receipt.New(cfg.CafeName)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	orderSvc := service.NewOrderService(orderRepo, sessionRepo, sequencer, renderer, dispatcher)
	menuSvc := service.NewMenuService(menuRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	sessionsH := handler.NewSessionHandler(sessionSvc)
	ordersH := handler.NewOrderHandler(orderSvc)
	menuH := handler.NewMenuHandler(menuSvc)

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
	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/auth/logout", authH.Logout)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", sessionsH.Open)
			sessions.GET("/current", sessionsH.Current)
			sessions.POST("/close", sessionsH.Close)
			sessions.GET("", sessionsH.List)
			sessions.GET("/:id", sessionsH.GetByID)
			sessions.POST("/:id/expenses", sessionsH.AddExpense)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", ordersH.Add)
			orders.GET("/recent", ordersH.Recent)
			orders.GET("/search", ordersH.Search)
			orders.GET("/session/:sessionId", ordersH.BySession)
			orders.GET("/:id", ordersH.GetByID)
			orders.PUT("/:id", ordersH.Edit)
			orders.POST("/:id/refund", ordersH.Refund)
		}

		// Menu — managers can write, all authenticated can read
		v1.GET("/menu", menuH.ListCategories)
		menu := v1.Group("/menu", middleware.RequireRole("manager", "admin"))
		{
			menu.POST("/categories", menuH.CreateCategory)
			menu.DELETE("/categories/:id", menuH.DeleteCategory)
			menu.POST("/items", menuH.CreateItem)
			menu.PUT("/items/:id", menuH.UpdateItem)
			menu.DELETE("/items/:id", menuH.DeleteItem)
		}

		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
		}
	}

	return r
}
