package router

import (
	"net/http"

	"go-gin-ecommerce/config"
	"go-gin-ecommerce/internal/handler"
	"go-gin-ecommerce/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// RouteRegistrar 各 handler 在 /api/v1 下註冊自己的路由
type RouteRegistrar interface {
	RegisterRoutes(r *gin.RouterGroup)
}

// New 建立 gin engine：recovery、access log、限流、認證，最後掛上 /api/v1
func New(cfg *config.Config, handlers ...RouteRegistrar) *gin.Engine {
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst).Limit(),
		middleware.Auth(cfg.Auth.JWTSecret),
	)

	api := engine.Group("/api/v1")
	api.GET("/ping", handler.Ping)
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}

	return engine
}

// Handler 在 engine 外層加上 CORS；token 放在 cookie，所以需要 AllowCredentials
func Handler(cfg *config.Config, engine *gin.Engine) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(engine)
}
