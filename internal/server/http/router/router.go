package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/quickmart/internal/config"
	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/metrics"
	"github.com/polkiloo/quickmart/internal/server/http/handlers"
	"github.com/polkiloo/quickmart/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(m.Middleware())
	engine.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithDecompressFn(gzip.DefaultDecompressHandle),
		gzip.WithExcludedPaths([]string{"/metrics"}),
	))

	engine.GET("/metrics", gin.WrapH(m.Handler()))
	engine.GET("/healthz", handlers.Health(facade))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	authHandler := handlers.NewAuthHandler(facade)
	productHandler := handlers.NewProductHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade, facade)
	reportHandler := handlers.NewReportHandler(facade)

	api := engine.Group("/api")

	public := api.Group("")
	public.Use(limiter.Middleware())
	public.POST("/user/register", authHandler.Register)
	public.POST("/user/login", authHandler.Login)
	public.GET("/products", productHandler.List)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade), limiter.Middleware())
	authed.POST("/cart/quote", cartHandler.Quote)
	authed.POST("/orders", orderHandler.Checkout)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.POST("/orders/:id/cancel", orderHandler.Cancel)
	authed.POST("/orders/:id/review", orderHandler.Review)

	staff := authed.Group("")
	staff.Use(middleware.RequireRole(model.RoleSupplier, model.RoleAdmin))
	staff.POST("/orders/:id/status", orderHandler.UpdateStatus)
	staff.POST("/supplier/products", productHandler.Create)

	supplier := authed.Group("/supplier")
	supplier.Use(middleware.RequireRole(model.RoleSupplier))
	supplier.GET("/orders", orderHandler.SupplierList)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.GET("/reports/:kind", reportHandler.Export)

	return engine
}
