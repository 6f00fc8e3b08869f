package handlers

import (
	"net/http"
	"strconv"
	"time"

	"token-service/internal/api/interfaces"
	"token-service/internal/api/models"

	"github.com/gin-gonic/gin"
)

// GetAuditLogs returns a filtered page of audit entries. Admin only.
func GetAuditLogs(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				badQueryParam(c, "limit must be a positive integer")
				return
			}
			if parsed > 1000 {
				parsed = 1000
			}
			limit = parsed
		}

		offset := 0
		if raw := c.Query("offset"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				badQueryParam(c, "offset must be a non-negative integer")
				return
			}
			offset = parsed
		}

		var startTime, endTime *time.Time
		if raw := c.Query("start_time"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				badQueryParam(c, "start_time must be RFC3339")
				return
			}
			startTime = &parsed
		}
		if raw := c.Query("end_time"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				badQueryParam(c, "end_time must be RFC3339")
				return
			}
			endTime = &parsed
		}

		logs, err := services.AuditLogRepository().GetAuditLogs(
			limit, offset, c.Query("action"), c.Query("username"), startTime, endTime)
		if err != nil {
			services.GetLogger().Error("Failed to fetch audit logs: %v", err)
			c.JSON(http.StatusInternalServerError, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeInternalError,
					Message: "Failed to fetch audit logs",
				},
				Timestamp: time.Now().Unix(),
			})
			return
		}

		c.JSON(http.StatusOK, models.AuditLogListResponse{
			Logs:   logs,
			Limit:  limit,
			Offset: offset,
			Total:  len(logs),
		})
	}
}

func badQueryParam(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, models.BaseResponse{
		Success: false,
		Error: &models.ErrorInfo{
			Code:    models.ErrCodeInvalidRequest,
			Message: "Invalid query parameter",
			Details: detail,
		},
		Timestamp: time.Now().Unix(),
	})
}
