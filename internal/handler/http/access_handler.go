package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/service"
)

// AccessHandler answers authorization questions against the role store, for
// other services that need a decision about a subject they did not
// authenticate themselves.
type AccessHandler struct {
	rbac   *service.RBACService
	logger *zap.Logger
}

// NewAccessHandler creates a new AccessHandler.
func NewAccessHandler(rbac *service.RBACService, logger *zap.Logger) *AccessHandler {
	return &AccessHandler{rbac: rbac, logger: logger.Named("access_handler")}
}

// Check handles POST /access/check. The subject must satisfy every
// requirement in the body: at least one of the roles when roles are given,
// and the permission when one is given.
func (h *AccessHandler) Check(c *gin.Context) {
	var req models.AccessCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	allowed, err := h.rbac.CheckAccess(c.Request.Context(), req.UserID, req.Roles...)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if allowed && req.Permission != "" {
		allowed, err = h.rbac.HasPermission(c.Request.Context(), req.UserID, req.Permission)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	c.JSON(http.StatusOK, models.AccessCheckResponse{Allowed: allowed})
}
