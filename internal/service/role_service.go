package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/domain/repository"
)

// RoleService implements administrative role and permission management.
type RoleService struct {
	roleRepo repository.RoleRepository
	permRepo repository.PermissionRepository
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewRoleService creates a new RoleService.
func NewRoleService(
	roleRepo repository.RoleRepository,
	permRepo repository.PermissionRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		permRepo: permRepo,
		userRepo: userRepo,
		logger:   logger.Named("role_service"),
	}
}

// CreateRole creates a role with a unique name.
func (s *RoleService) CreateRole(ctx context.Context, req models.RoleRequest) (*models.Role, error) {
	now := time.Now()
	role := &models.Role{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// GetRole returns one role by id.
func (s *RoleService) GetRole(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	return s.roleRepo.FindByID(ctx, id)
}

// ListRoles returns all roles.
func (s *RoleService) ListRoles(ctx context.Context) ([]models.Role, error) {
	return s.roleRepo.List(ctx)
}

// UpdateRole renames or redescribes a role.
func (s *RoleService) UpdateRole(ctx context.Context, id uuid.UUID, req models.RoleRequest) (*models.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	role.Name = req.Name
	role.Description = req.Description
	role.UpdatedAt = time.Now()
	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// DeleteRole removes the role; join-table rows cascade in the store.
func (s *RoleService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	return s.roleRepo.Delete(ctx, id)
}

// AssignRoleToUser grants a role. Both sides must exist; re-assignment is
// a no-op.
func (s *RoleService) AssignRoleToUser(ctx context.Context, userID, roleID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.roleRepo.FindByID(ctx, roleID); err != nil {
		return err
	}
	return s.roleRepo.AssignToUser(ctx, userID, roleID)
}

// RemoveRoleFromUser revokes a role grant.
func (s *RoleService) RemoveRoleFromUser(ctx context.Context, userID, roleID uuid.UUID) error {
	if _, err := s.roleRepo.FindByID(ctx, roleID); err != nil {
		return err
	}
	return s.roleRepo.RemoveFromUser(ctx, userID, roleID)
}

// RolesForUser lists the user's roles.
func (s *RoleService) RolesForUser(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	return s.roleRepo.GetRolesForUser(ctx, userID)
}

// ListPermissions returns the permission catalog.
func (s *RoleService) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	return s.permRepo.List(ctx)
}

// AssignPermissionToRole links a permission to a role.
func (s *RoleService) AssignPermissionToRole(ctx context.Context, roleID, permissionID uuid.UUID) error {
	if _, err := s.roleRepo.FindByID(ctx, roleID); err != nil {
		return err
	}
	if _, err := s.permRepo.FindByID(ctx, permissionID); err != nil {
		return err
	}
	return s.roleRepo.AssignPermission(ctx, roleID, permissionID)
}

// RemovePermissionFromRole unlinks a permission from a role.
func (s *RoleService) RemovePermissionFromRole(ctx context.Context, roleID, permissionID uuid.UUID) error {
	if _, err := s.roleRepo.FindByID(ctx, roleID); err != nil {
		return err
	}
	return s.roleRepo.RemovePermission(ctx, roleID, permissionID)
}

// PermissionsForRole lists a role's permissions.
func (s *RoleService) PermissionsForRole(ctx context.Context, roleID uuid.UUID) ([]models.Permission, error) {
	if _, err := s.roleRepo.FindByID(ctx, roleID); err != nil {
		return nil, err
	}
	return s.roleRepo.GetPermissionsForRole(ctx, roleID)
}
