package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loreline/identity-service/internal/domain/repository"
)

// RBACService answers authorization questions about a subject's roles and
// permissions.
type RBACService struct {
	roleRepo repository.RoleRepository
	logger   *zap.Logger
}

// NewRBACService creates a new RBACService.
func NewRBACService(roleRepo repository.RoleRepository, logger *zap.Logger) *RBACService {
	return &RBACService{
		roleRepo: roleRepo,
		logger:   logger.Named("rbac_service"),
	}
}

// CheckAccess reports whether the user holds at least one of the required
// roles. An empty requirement set allows everyone; it expresses "any
// authenticated subject".
func (s *RBACService) CheckAccess(ctx context.Context, userID uuid.UUID, requiredRoles ...string) (bool, error) {
	if len(requiredRoles) == 0 {
		return true, nil
	}
	roles, err := s.roleRepo.GetRolesForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, role := range roles {
		for _, required := range requiredRoles {
			if role.Name == required {
				return true, nil
			}
		}
	}
	return false, nil
}

// HasPermission reports whether any of the user's roles grants the named
// permission.
func (s *RBACService) HasPermission(ctx context.Context, userID uuid.UUID, permission string) (bool, error) {
	permissions, err := s.roleRepo.GetPermissionsForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, p := range permissions {
		if p.Name == permission {
			return true, nil
		}
	}
	return false, nil
}

// RolesForUser returns the names of the user's roles.
func (s *RBACService) RolesForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	roles, err := s.roleRepo.GetRolesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names, nil
}
