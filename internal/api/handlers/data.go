package handlers

import (
	"io"
	"net/http"
	"time"

	"token-service/internal/api/interfaces"
	"token-service/internal/api/models"

	"github.com/gin-gonic/gin"
)

// GetExternalData proxies a read from the configured upstream API. The
// upstream call inherits the request context so client disconnects cancel it.
func GetExternalData(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := services.GetConfig()
		client := &http.Client{Timeout: cfg.Upstream.Timeout}

		req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, cfg.Upstream.DataURL, nil)
		if err != nil {
			services.GetLogger().Error("Failed to build upstream request: %v", err)
			upstreamError(c)
			return
		}

		resp, err := client.Do(req)
		if err != nil {
			services.GetLogger().Warning("Upstream request failed: %v", err)
			upstreamError(c)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			services.GetLogger().Warning("Upstream returned status %d", resp.StatusCode)
			upstreamError(c)
			return
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			services.GetLogger().Warning("Failed to read upstream response: %v", err)
			upstreamError(c)
			return
		}

		c.Data(http.StatusOK, "application/json", body)
	}
}

func upstreamError(c *gin.Context) {
	c.JSON(http.StatusBadGateway, models.BaseResponse{
		Success: false,
		Error: &models.ErrorInfo{
			Code:    models.ErrCodeUpstreamError,
			Message: "Upstream data source is unavailable",
		},
		Timestamp: time.Now().Unix(),
	})
}
