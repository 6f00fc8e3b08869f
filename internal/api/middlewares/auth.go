package middlewares

import (
	"net/http"
	"strings"
	"time"

	"token-service/internal/api/interfaces"
	"token-service/internal/api/models"
	"token-service/internal/database"

	"github.com/gin-gonic/gin"
)

// AuthRequired middleware validates bearer tokens. Missing headers, bad
// schemes and failed verifications all produce the same 401 with a
// WWW-Authenticate challenge; the cause is only logged.
func AuthRequired(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			unauthorized(c)
			return
		}

		claims, err := services.TokenService().Verify(raw)
		if err != nil {
			services.GetLogger().SecurityLogger("token_verification_failed", "", err.Error())
			services.EventHub().Publish("token_verification_failed", map[string]interface{}{
				"client_ip": c.ClientIP(),
				"path":      c.Request.URL.Path,
			})
			auditVerificationFailure(services, c)
			unauthorized(c)
			return
		}

		// Set user context from validated claims
		c.Set("sub", claims.Subject())
		c.Set("role", claims.Role())

		c.Next()
	}
}

// AdminRequired middleware ensures the subject has the admin role
func AdminRequired(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != "admin" {
			c.JSON(http.StatusForbidden, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeForbidden,
					Message: "Admin access required",
				},
				Timestamp: time.Now().Unix(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// WSAuthRequired middleware validates tokens for websocket upgrades, which
// carry the token as a query parameter instead of a header.
func WSAuthRequired(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("token")
		if raw == "" {
			unauthorized(c)
			return
		}

		claims, err := services.TokenService().Verify(raw)
		if err != nil {
			services.GetLogger().SecurityLogger("token_verification_failed", "", err.Error())
			unauthorized(c)
			return
		}

		c.Set("sub", claims.Subject())
		c.Set("role", claims.Role())
		c.Next()
	}
}

// auditVerificationFailure records a failed verification in the audit
// trail. Failures to persist are logged, never surfaced.
func auditVerificationFailure(services interfaces.Services, c *gin.Context) {
	entry := &database.AuditLog{
		Action:    "token_verification_failed",
		Details:   c.Request.URL.Path,
		IPAddress: c.ClientIP(),
	}
	if err := services.AuditLogRepository().InsertAuditLog(entry); err != nil {
		services.GetLogger().Error("Failed to audit verification failure: %v", err)
	}
}

// unauthorized writes the fixed 401 response. The body never distinguishes
// between a missing header, a malformed token, a bad signature or expiry.
func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, models.BaseResponse{
		Success: false,
		Error: &models.ErrorInfo{
			Code:    models.ErrCodeInvalidCredentials,
			Message: "Could not validate credentials",
		},
		Timestamp: time.Now().Unix(),
	})
	c.Abort()
}

// extractToken extracts the bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
