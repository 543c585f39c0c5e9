package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/loreline/identity-service/internal/domain/models"
)

// RoleRepository defines the interface for the role/permission store,
// including the user_roles and role_permissions join tables.
type RoleRepository interface {
	// Create returns *errors.DuplicateKeyError{Field: "name"} on a name clash.
	Create(ctx context.Context, role *models.Role) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AssignToUser inserts a (userID, roleID) pair; assigning an already
	// assigned role is not an error.
	AssignToUser(ctx context.Context, userID, roleID uuid.UUID) error
	RemoveFromUser(ctx context.Context, userID, roleID uuid.UUID) error
	GetRolesForUser(ctx context.Context, userID uuid.UUID) ([]models.Role, error)

	// AssignPermission inserts a (roleID, permissionID) pair; duplicates are
	// not an error.
	AssignPermission(ctx context.Context, roleID, permissionID uuid.UUID) error
	RemovePermission(ctx context.Context, roleID, permissionID uuid.UUID) error
	GetPermissionsForRole(ctx context.Context, roleID uuid.UUID) ([]models.Permission, error)

	// GetPermissionsForUser resolves permissions transitively through the
	// user's roles, de-duplicated.
	GetPermissionsForUser(ctx context.Context, userID uuid.UUID) ([]models.Permission, error)
}

// PermissionRepository defines the interface for the permission catalog.
type PermissionRepository interface {
	List(ctx context.Context) ([]models.Permission, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Permission, error)
	FindByName(ctx context.Context, name string) (*models.Permission, error)
}
