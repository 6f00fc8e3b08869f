package middlewares

import (
	"net"
	"net/http"
	"strings"
	"time"

	"token-service/internal/api/models"
	"token-service/pkg/config"

	"github.com/gin-gonic/gin"
)

// HostValidation rejects requests whose Host header is not in the
// allowed-hosts list. Debug mode disables the check entirely.
func HostValidation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.App.Debug {
			c.Next()
			return
		}

		host := c.Request.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		host = strings.ToLower(host)

		if !cfg.HostAllowed(host) {
			c.JSON(http.StatusBadRequest, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeInvalidHost,
					Message: "Invalid host header",
				},
				Timestamp: time.Now().Unix(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
