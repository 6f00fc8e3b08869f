package api

import (
	"token-service/internal/api/handlers"
	"token-service/internal/api/interfaces"
	"token-service/internal/api/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes and middleware
func SetupRoutes(router *gin.Engine, services interfaces.Services) {
	cfg := services.GetConfig()
	log := services.GetLogger()

	// Global middleware
	router.Use(middlewares.Recovery())
	router.Use(middlewares.CORS(&cfg.API.CORS))
	router.Use(middlewares.Security())
	router.Use(middlewares.HostValidation(cfg))
	router.Use(middlewares.RequestLogging(log))
	router.Use(middlewares.RateLimit(cfg.API.RateLimit))

	// Public endpoints
	router.GET("/health", handlers.HealthCheck(services))
	router.GET("/ping", handlers.Ping)
	router.GET("/info", handlers.GetInfo(services))
	router.POST("/token", handlers.Login(services))
	router.GET("/external-data", handlers.GetExternalData(services))
	router.GET("/cpu-task", handlers.RunCPUTask(services))

	// Token-protected endpoints
	authenticated := router.Group("/")
	authenticated.Use(middlewares.AuthRequired(services))
	{
		authenticated.GET("/protected", handlers.Protected(services))
	}

	// Admin endpoints
	admin := router.Group("/admin")
	admin.Use(middlewares.AuthRequired(services))
	admin.Use(middlewares.AdminRequired(services))
	{
		admin.GET("/audit", handlers.GetAuditLogs(services))
	}

	// Websocket endpoints authenticate via query token since browsers
	// cannot set headers on websocket upgrades
	ws := router.Group("/ws")
	ws.Use(middlewares.WSAuthRequired(services))
	{
		ws.GET("/events", handlers.StreamEvents(services))
	}
}
