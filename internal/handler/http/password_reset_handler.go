package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/service"
)

// PasswordResetHandler serves the forgot-password flow.
type PasswordResetHandler struct {
	reset  *service.PasswordResetService
	logger *zap.Logger
}

// NewPasswordResetHandler creates a new PasswordResetHandler.
func NewPasswordResetHandler(reset *service.PasswordResetService, logger *zap.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{reset: reset, logger: logger.Named("password_reset_handler")}
}

// Request handles POST /auth/password-reset/request. The response is the
// same whether or not the email is registered.
func (h *PasswordResetHandler) Request(c *gin.Context) {
	var req models.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	message, err := h.reset.RequestReset(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// ValidateToken handles POST /auth/password-reset/validate-token. Unknown
// and expired tokens are a 200 with valid=false, not an error.
func (h *PasswordResetHandler) ValidateToken(c *gin.Context) {
	var req models.ValidateResetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.reset.ValidateToken(c.Request.Context(), req.Token); err != nil {
		if domainErrors.IsNotFound(err) || domainErrors.IsUnauthorized(err) {
			c.JSON(http.StatusOK, models.ValidateResetTokenResponse{Valid: false})
			return
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.ValidateResetTokenResponse{Valid: true})
}

// Reset handles POST /auth/password-reset/reset.
func (h *PasswordResetHandler) Reset(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.reset.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "password has been reset"})
}
