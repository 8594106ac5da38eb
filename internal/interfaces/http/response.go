package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"github.com/garyjia/erp-gateway/internal/domain/entity"
)

// errorKey stores the failure message for the audit middleware
const errorKey = "gateway.error"

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details string      `json:"details,omitempty"`
}

func respondOK(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// respondError writes the failure envelope for err
func respondError(c *gin.Context, err error) {
	status, message := classifyError(err)
	c.Set(errorKey, err.Error())

	resp := Response{Success: false, Error: message}
	if status != http.StatusInternalServerError && message != err.Error() {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(status, resp)
}

// classifyError maps an error to its HTTP status and public message
func classifyError(err error) (int, string) {
	var validationErr *entity.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.Is(err, port.ErrDocumentNotFound):
		return http.StatusNotFound, "document not found"
	case errors.Is(err, port.ErrDocumentModified):
		return http.StatusConflict, "document has been modified, reload and try again"
	case errors.Is(err, port.ErrRemoteValidation):
		return http.StatusUnprocessableEntity, "ERP server rejected the request"
	case errors.Is(err, port.ErrRemoteUnavailable):
		return http.StatusBadGateway, "ERP server unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
