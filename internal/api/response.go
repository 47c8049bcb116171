package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reprasp/internal/logger"
	"reprasp/internal/models"
)

// Error codes returned in the "code" field.
const (
	CodeInvalidFormat = "INVALID_FORMAT"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternal      = "INTERNAL"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Code: code, Error: message})
}

// handleWorkflowError maps workflow errors onto HTTP statuses.
func handleWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidFormat):
		abortWithError(c, http.StatusBadRequest, CodeInvalidFormat, err.Error())
	case errors.Is(err, models.ErrForbidden):
		abortWithError(c, http.StatusForbidden, CodeForbidden, "admin rights required")
	case errors.Is(err, models.ErrNotFound):
		abortWithError(c, http.StatusNotFound, CodeNotFound, "request not found or already processed")
	default:
		_ = c.Error(err)
		logger.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
		abortWithError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}
