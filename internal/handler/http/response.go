package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the uniform success body for operations that return no
// resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError maps a domain error onto an HTTP status and writes the
// uniform error body. Unclassified errors become 500 with a generic message
// so internals never leak to clients.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var dup *domainErrors.DuplicateKeyError

	switch {
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, ErrorResponse{Error: dup.Error()})
	case domainErrors.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case domainErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case domainErrors.IsUnauthorized(err):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case domainErrors.IsForbidden(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case domainErrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// respondBindError writes a 400 for a failed request binding.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
}
