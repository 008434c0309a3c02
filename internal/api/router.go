package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/tradeyard/marketplace-api/docs"
	"github.com/tradeyard/marketplace-api/internal/api/handler"
	"github.com/tradeyard/marketplace-api/internal/api/middleware"
	"github.com/tradeyard/marketplace-api/internal/core/domain"
	"github.com/tradeyard/marketplace-api/internal/core/service"
	mongorepo "github.com/tradeyard/marketplace-api/internal/infrastructure/db/mongo"
	redisstore "github.com/tradeyard/marketplace-api/internal/infrastructure/db/redis"
	"github.com/tradeyard/marketplace-api/internal/infrastructure/notify"
)

// RouterConfig carries everything NewRouter needs to assemble the API.
type RouterConfig struct {
	JWTSecret     string
	NotifyWorkers int
	Logger        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// ctx bounds the lifetime of the notification dispatcher workers.
func NewRouter(ctx context.Context, db *mongo.Database, rdb *redis.Client, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	orderRepo := mongorepo.NewOrderRepository(db)
	productRepo := mongorepo.NewProductRepository(db)
	cartStore := redisstore.NewCartStore(rdb)

	dispatcher := notify.NewDispatcher(cfg.NotifyWorkers, notify.NewLogSender(cfg.Logger), cfg.Logger)
	dispatcher.Start(ctx)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)
	accountService := service.NewAccountService(userRepo, orderRepo, productRepo, dispatcher, cfg.Logger)
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo, cartStore, cfg.Logger)
	productService := service.NewProductService(productRepo, userRepo, cfg.Logger)

	authHandler := handler.NewAuthHandler(authService, accountService)
	userHandler := handler.NewUserHandler(accountService)
	orderHandler := handler.NewOrderHandler(orderService)
	productHandler := handler.NewProductHandler(productService)

	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Orders ---
	orders := e.Group("/v1/orders", authMiddleware)
	orders.POST("", orderHandler.Place, middleware.RBAC(domain.RoleBuyer))
	orders.GET("/my", orderHandler.ListMine)
	orders.GET("", orderHandler.ListAll, middleware.RBAC(domain.RoleAdmin))
	orders.PATCH("/:id/status", orderHandler.UpdateStatus, middleware.RBAC(domain.RoleAdmin))
	orders.POST("/:id/cancel", orderHandler.Cancel)

	// --- Users ---
	users := e.Group("/v1/users", authMiddleware)
	users.GET("", userHandler.List, middleware.RBAC(domain.RoleAdmin))
	users.GET("/:id", userHandler.Get)
	users.GET("/:id/details", userHandler.Details)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Seller approval workflow ---
	sellers := e.Group("/v1/sellers", authMiddleware)
	sellers.POST("/request-approval", userHandler.RequestApproval, middleware.RBAC(domain.RoleSeller))
	sellers.GET("/pending", userHandler.ListPendingSellers, middleware.RBAC(domain.RoleAdmin))
	sellers.POST("/:id/approve", userHandler.ApproveSeller, middleware.RBAC(domain.RoleAdmin))
	sellers.POST("/:id/reject", userHandler.RejectSeller, middleware.RBAC(domain.RoleAdmin))

	// --- Products ---
	products := e.Group("/v1/products", authMiddleware)
	products.POST("", productHandler.Create, middleware.RBAC(domain.RoleSeller))
	products.GET("/mine", productHandler.ListMine, middleware.RBAC(domain.RoleSeller))

	return e
}
