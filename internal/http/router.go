package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	chatH *ChatHandler,
	domainH *DomainHandler,
	healthH *HealthHandler,
	leadH *LeadHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.POST("/chat", chatH.Chat)
	r.POST("/reset", chatH.Reset)

	r.GET("/domaincheck", domainH.Check)
	r.POST("/domaincheck", domainH.Check)

	r.GET("/health", healthH.Health)

	auth := r.Group("/auth")
	auth.POST("/token", leadH.IssueToken)

	admin := r.Group("/leads")
	admin.Use(JWTAuthMiddleware(leadH.jwtSvc))
	admin.GET("", leadH.ListLeads)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
