package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"token-service/internal/api/interfaces"
	"token-service/internal/api/models"
	"token-service/internal/worker"

	"github.com/gin-gonic/gin"
)

// RunCPUTask offloads a CPU-heavy digest computation to the worker pool so
// the request goroutine never runs it inline.
func RunCPUTask(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := services.GetConfig()

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Worker.TaskTimeout)
		defer cancel()

		started := time.Now()
		result, err := services.WorkerPool().Do(ctx, computeDigest)
		if err != nil {
			switch {
			case errors.Is(err, worker.ErrQueueFull), errors.Is(err, worker.ErrNotRunning):
				c.JSON(http.StatusServiceUnavailable, models.BaseResponse{
					Success: false,
					Error: &models.ErrorInfo{
						Code:    models.ErrCodeQueueFull,
						Message: "Server is busy, try again later",
					},
					Timestamp: time.Now().Unix(),
				})
			case errors.Is(err, context.DeadlineExceeded):
				c.JSON(http.StatusGatewayTimeout, models.BaseResponse{
					Success: false,
					Error: &models.ErrorInfo{
						Code:    models.ErrCodeTaskTimeout,
						Message: "Task did not complete in time",
					},
					Timestamp: time.Now().Unix(),
				})
			default:
				services.GetLogger().Error("CPU task failed: %v", err)
				c.JSON(http.StatusInternalServerError, models.BaseResponse{
					Success: false,
					Error: &models.ErrorInfo{
						Code:    models.ErrCodeInternalError,
						Message: "Task execution failed",
					},
					Timestamp: time.Now().Unix(),
				})
			}
			return
		}

		elapsed := time.Since(started)
		services.GetLogger().TaskLogger("cpu_task_completed", "digest computed", elapsed)
		createAuditLog(services, "task_completed", c.GetString("sub"), "CPU task finished", getClientIP(c))
		publishEvent(services, "task_completed", map[string]interface{}{
			"duration_ms": elapsed.Milliseconds(),
		})

		c.JSON(http.StatusOK, models.TaskResponse{Result: result})
	}
}

// computeDigest hashes a few MiB of deterministic data. Stands in for any
// blocking computation that must not run on the request goroutine.
func computeDigest() (interface{}, error) {
	block := make([]byte, 1<<20)
	hasher := sha256.New()
	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint64(block, uint64(i))
		if _, err := hasher.Write(block); err != nil {
			return nil, err
		}
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
