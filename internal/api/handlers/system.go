package handlers

import (
	"net/http"
	"time"

	"token-service/internal/api/interfaces"
	"token-service/internal/api/models"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether the database and worker pool are usable.
func HealthCheck(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if !services.IsHealthy() {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, models.HealthCheckResponse{
			Status:    status,
			Timestamp: time.Now().Unix(),
			Version:   "1.0.0",
		})
	}
}

// Ping is a minimal liveness probe.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// GetInfo exposes the non-sensitive application settings.
func GetInfo(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := services.GetConfig()
		c.JSON(http.StatusOK, models.InfoResponse{
			AppName:    cfg.App.Name,
			AdminEmail: cfg.App.AdminEmail,
			DebugMode:  cfg.App.Debug,
		})
	}
}
