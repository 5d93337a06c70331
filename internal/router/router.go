package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pitchwise/internal/handler"
	"pitchwise/internal/logger"
	"pitchwise/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	log logger.Logger,
	allowedOrigins []string,
	wsH *handler.WSHandler,
	chatH *handler.ChatHandler,
	optionsH *handler.OptionsHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks and metrics
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Realtime channel
	r.GET("/ws", wsH.Connect)

	v1 := r.Group("/api/v1")
	v1.POST("/chat", chatH.Create)
	v1.POST("/options/extract", optionsH.Extract)

	return r
}
