package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/config"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/metrics"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/ratelimit"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/handlers"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/middleware"
)

const metricsPath = "/metrics"

// Params collects router dependencies.
type Params struct {
	fx.In

	Facade   handlers.StorefrontFacade
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Limiters ratelimit.Limiters
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	_ = engine.SetTrustedProxies(nil)

	production := p.Config.Production()
	logger := p.Logger.Named("http")

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics(p.Metrics))
	engine.Use(cors.New(corsConfig(p.Config.CORSAllowedOrigins)))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{metricsPath})))
	engine.Use(middleware.ErrorHandler(production, logger))
	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.DecompressRequest())
	engine.NoRoute(middleware.NotFound)

	authHandler := handlers.NewAuthHandler(p.Facade, production)
	profileHandler := handlers.NewProfileHandler(p.Facade)
	orderHandler := handlers.NewOrderHandler(p.Facade)
	couponHandler := handlers.NewCouponHandler(p.Facade)
	reviewHandler := handlers.NewReviewHandler(p.Facade)
	healthHandler := handlers.NewHealthHandler(p.Facade)

	engine.GET(metricsPath, gin.WrapH(p.Metrics.Handler()))
	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api")

	authLimit := middleware.RateLimit(p.Limiters.Auth, p.Metrics)
	resetLimit := middleware.RateLimit(p.Limiters.Reset, p.Metrics)
	auth := api.Group("/auth", authLimit)
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", resetLimit, authHandler.ForgotPassword)
	auth.POST("/reset-password/:token", resetLimit, authHandler.ResetPassword)

	api.GET("/products/:id/reviews", reviewHandler.List)

	user := api.Group("", middleware.AuthRequired(p.Facade))
	user.GET("/users/me", profileHandler.Me)
	user.PUT("/users/me/address", profileHandler.UpdateAddress)
	user.POST("/coupons/apply", couponHandler.Apply)
	user.POST("/orders", orderHandler.Place)
	user.GET("/orders/mine", orderHandler.Mine)
	user.GET("/orders/:id", orderHandler.Get)
	user.POST("/orders/:id/confirm-delivery", orderHandler.ConfirmDelivery)
	user.POST("/products/:id/reviews", reviewHandler.Submit)

	staff := user.Group("", middleware.RequireRole(model.RoleVendor, model.RoleAdmin))
	staff.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	staff.GET("/vendor/orders", orderHandler.List)

	admin := user.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", profileHandler.List)
	admin.GET("/orders", orderHandler.List)
	admin.POST("/coupons", couponHandler.Create)

	return engine
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Encoding", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	wildcard := len(origins) == 0
	for _, origin := range origins {
		if origin == "*" {
			wildcard = true
		}
	}
	if wildcard {
		// browsers refuse credentialed responses to a wildcard origin
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
