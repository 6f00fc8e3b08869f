package handlers

import (
	"errors"
	"net/http"
	"time"

	"token-service/internal/api/interfaces"
	"token-service/internal/api/models"
	"token-service/internal/auth"
	"token-service/internal/token"

	"github.com/gin-gonic/gin"
)

// LoginRequest carries the form-encoded credentials for the token endpoint.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Login authenticates form credentials and returns a signed bearer token.
func Login(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeInvalidRequest,
					Message: "Username and password are required",
				},
				Timestamp: time.Now().Unix(),
			})
			return
		}

		clientIP := getClientIP(c)

		user, err := services.Authenticator().Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrAccountLocked) {
				createAuditLog(services, "login_locked", req.Username, "Account temporarily locked", clientIP)
				publishEvent(services, "account_locked", map[string]interface{}{
					"username": req.Username,
					"ip":       clientIP,
				})
				c.JSON(http.StatusTooManyRequests, models.BaseResponse{
					Success: false,
					Error: &models.ErrorInfo{
						Code:    models.ErrCodeAccountLocked,
						Message: "Too many failed login attempts, try again later",
					},
					Timestamp: time.Now().Unix(),
				})
				return
			}

			createAuditLog(services, "login_failed", req.Username, "Invalid credentials", clientIP)
			publishEvent(services, "login_failed", map[string]interface{}{
				"username": req.Username,
				"ip":       clientIP,
			})
			c.JSON(http.StatusBadRequest, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeInvalidCredentials,
					Message: "Incorrect username or password",
				},
				Timestamp: time.Now().Unix(),
			})
			return
		}

		signed, err := services.TokenService().IssueDefault(token.ClaimsSet{
			"sub":  user.Username,
			"role": user.Role,
		})
		if err != nil {
			services.GetLogger().Error("Failed to issue token for %s: %v", user.Username, err)
			c.JSON(http.StatusInternalServerError, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeInternalError,
					Message: "Failed to issue token",
				},
				Timestamp: time.Now().Unix(),
			})
			return
		}

		services.GetLogger().TokenLogger("token_issued", user.Username, "role "+user.Role)
		createAuditLog(services, "login_success", user.Username, "Token issued", clientIP)
		publishEvent(services, "login_success", map[string]interface{}{
			"username": user.Username,
			"ip":       clientIP,
		})

		c.JSON(http.StatusOK, models.TokenResponse{
			AccessToken: signed,
			TokenType:   "bearer",
		})
	}
}

// Protected greets the authenticated subject. Requires AuthRequired upstream.
func Protected(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub := c.GetString("sub")
		c.JSON(http.StatusOK, models.MessageResponse{
			Message: "Hello, " + sub,
		})
	}
}
