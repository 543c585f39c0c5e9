package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/service"
)

// RoleHandler serves administrative role and permission management.
type RoleHandler struct {
	roles  *service.RoleService
	logger *zap.Logger
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(roles *service.RoleService, logger *zap.Logger) *RoleHandler {
	return &RoleHandler{roles: roles, logger: logger.Named("role_handler")}
}

// Create handles POST /roles.
func (h *RoleHandler) Create(c *gin.Context) {
	var req models.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	role, err := h.roles.CreateRole(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

// List handles GET /roles.
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roles.ListRoles(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// Get handles GET /roles/:id.
func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	role, err := h.roles.GetRole(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// Update handles PUT /roles/:id.
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req models.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	role, err := h.roles.UpdateRole(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// Delete handles DELETE /roles/:id.
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.roles.DeleteRole(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "role deleted"})
}

// AssignToUser handles POST /roles/:id/users/:user_id.
func (h *RoleHandler) AssignToUser(c *gin.Context) {
	roleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}

	if err := h.roles.AssignRoleToUser(c.Request.Context(), userID, roleID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "role assigned"})
}

// RemoveFromUser handles DELETE /roles/:id/users/:user_id.
func (h *RoleHandler) RemoveFromUser(c *gin.Context) {
	roleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}

	if err := h.roles.RemoveRoleFromUser(c.Request.Context(), userID, roleID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "role removed"})
}

// RolesForUser handles GET /users/:user_id/roles.
func (h *RoleHandler) RolesForUser(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}

	roles, err := h.roles.RolesForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// ListPermissions handles GET /permissions.
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	permissions, err := h.roles.ListPermissions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, permissions)
}

// PermissionsForRole handles GET /roles/:id/permissions.
func (h *RoleHandler) PermissionsForRole(c *gin.Context) {
	roleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	permissions, err := h.roles.PermissionsForRole(c.Request.Context(), roleID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, permissions)
}

// AssignPermission handles POST /roles/:id/permissions/:permission_id.
func (h *RoleHandler) AssignPermission(c *gin.Context) {
	roleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	permissionID, ok := pathUUID(c, "permission_id")
	if !ok {
		return
	}

	if err := h.roles.AssignPermissionToRole(c.Request.Context(), roleID, permissionID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "permission assigned"})
}

// RemovePermission handles DELETE /roles/:id/permissions/:permission_id.
func (h *RoleHandler) RemovePermission(c *gin.Context) {
	roleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	permissionID, ok := pathUUID(c, "permission_id")
	if !ok {
		return
	}

	if err := h.roles.RemovePermissionFromRole(c.Request.Context(), roleID, permissionID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "permission removed"})
}

// pathUUID parses a UUID path parameter, writing a 400 on failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
