package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fedauth/internal/config"
	"fedauth/internal/handler"
	"fedauth/internal/middleware"
	"fedauth/internal/service"

	_ "fedauth/docs"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	userH *handler.UserHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Operational
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Server.IsDevelopment() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	// Public sign-in routes
	user := r.Group("/user")
	user.POST("/google_auth/", limiter.Middleware(), authH.GoogleAuth)
	user.POST("/apple_auth/", limiter.Middleware(), authH.AppleAuth)

	// Session routes
	token := r.Group("/token")
	token.Use(limiter.Middleware())
	token.POST("/refresh/", authH.RefreshToken)
	token.POST("/logout/", authH.Logout)

	// Protected routes - require valid access token
	user.GET("/", middleware.AuthMiddleware(authSvc), userH.Me)

	return r
}
