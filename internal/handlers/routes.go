package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prospect-analyzer/data-validation/internal/auth"
	"github.com/prospect-analyzer/data-validation/internal/config"
	"github.com/prospect-analyzer/data-validation/internal/realtime"
)

// SetupRouter wires the HTTP surface of the validation service.
func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	handler *Handler,
	authService *auth.Service,
	hub *realtime.Hub,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(logger))

	// Health check
	healthPath := cfg.Monitoring.HealthCheckPath
	if healthPath == "" {
		healthPath = "/health"
	}
	router.GET(healthPath, handler.Health)

	if hub != nil {
		router.GET("/ws", hub.HandleWebSocket)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.Auth.Enabled && authService != nil {
		v1.Use(AuthMiddleware(authService))
	}
	{
		v1.POST("/validate", handler.Validate)
		v1.POST("/validate/batch", handler.ValidateBatch)
		v1.POST("/compare", handler.Compare)

		reports := v1.Group("/reports")
		{
			reports.POST("", handler.GenerateReport)
			reports.GET("/:id", handler.GetReport)
		}

		history := v1.Group("/history")
		{
			history.GET("", handler.GetHistory)
			history.GET("/batch/:batch_id", handler.GetBatchHistory)
		}

		v1.POST("/prospect-confidence", handler.ProspectConfidence)
	}

	return router
}

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// AuthMiddleware validates bearer tokens on protected routes
func AuthMiddleware(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("client_id", claims.ClientID)
		c.Set("scopes", claims.Scopes)
		c.Next()
	}
}
