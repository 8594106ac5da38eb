package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"github.com/garyjia/erp-gateway/internal/domain/entity"
)

// Version is reported by the health check
var Version = "1.0.0"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func HealthCheck(c *gin.Context) {
	respondOK(c, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	}, "")
}

// AdminHandlers serves the request audit trail
type AdminHandlers struct {
	logs port.RequestLogRepository
}

// NewAdminHandlers creates a new AdminHandlers instance
func NewAdminHandlers(logs port.RequestLogRepository) *AdminHandlers {
	return &AdminHandlers{logs: logs}
}

// ListRequestLogs handles GET /api/admin/request-logs
func (h *AdminHandlers) ListRequestLogs(c *gin.Context) {
	filter := port.RequestLogFilter{
		Method: c.Query("method"),
		Path:   c.Query("path"),
	}

	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		respondError(c, err)
		return
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		respondError(c, err)
		return
	}
	if raw := c.Query("since"); raw != "" {
		since, err := parseSince(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		filter.Since = &since
	}

	logs, err := h.logs.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, logs, "")
}

// parseSince accepts an RFC3339 timestamp or a plain date
func parseSince(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(entity.DateLayout, raw)
	if err != nil {
		return time.Time{}, entity.NewValidationError("since", "must be RFC3339 or %s", entity.DateLayout)
	}
	return t, nil
}
