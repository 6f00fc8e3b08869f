package handlers

import (
	"time"

	"token-service/internal/api/interfaces"
	"token-service/internal/database"

	"github.com/gin-gonic/gin"
)

func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}

// createAuditLog persists an audit trail entry. Failures are logged but
// never surfaced to the request.
func createAuditLog(services interfaces.Services, action, username, details, clientIP string) {
	auditLog := &database.AuditLog{
		Action:    action,
		Username:  username,
		Details:   details,
		IPAddress: clientIP,
		CreatedAt: time.Now(),
	}

	if err := services.AuditLogRepository().InsertAuditLog(auditLog); err != nil {
		services.GetLogger().Error("Failed to create audit log: %v", err)
		return
	}
	services.GetLogger().AuditLogger(action, username, details)
}

// publishEvent pushes a security event to connected websocket clients.
func publishEvent(services interfaces.Services, eventType string, data map[string]interface{}) {
	services.EventHub().Publish(eventType, data)
}
