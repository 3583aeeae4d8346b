package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/fecwatch/contribution-monitor/internal/errors"
	"github.com/fecwatch/contribution-monitor/internal/monitor"
	"github.com/fecwatch/contribution-monitor/internal/storage"
)

// Handler handles API requests
type Handler struct {
	runner monitor.Runner
	store  storage.Storage
}

// NewHandler creates a new API handler
func NewHandler(runner monitor.Runner, store storage.Storage) *Handler {
	return &Handler{
		runner: runner,
		store:  store,
	}
}

// TriggerMonitor runs one monitoring pass and reports the outcome as plain
// text. This is the scheduler-facing entry point; the request body is ignored.
// GET|POST /monitor
func (h *Handler) TriggerMonitor(c *gin.Context) {
	outcome, err := h.runner.Run(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "Error: %s", err.Error())
		return
	}
	c.String(http.StatusOK, "%s", outcome.Message)
}

// ListRuns returns recent run history
// GET /api/v1/runs
func (h *Handler) ListRuns(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 20)

	runs, err := h.store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": runs,
	})
}

// HealthCheck returns the health status of the API
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// parseIntQuery parses an integer query parameter with a default value
func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// respondError sends an error response
func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		status := http.StatusInternalServerError
		switch appErr.Code {
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeBadRequest:
			status = http.StatusBadRequest
		case apperrors.ErrCodeRateLimited:
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": err.Error(),
		},
	})
}
