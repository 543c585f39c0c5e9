package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/domain/repository"
)

type roleRecord struct {
	role models.Role
}

type permissionRecord struct {
	permission models.Permission
}

type roleRepository struct {
	store *Store
}

// NewRoleRepository creates an in-memory role repository.
func NewRoleRepository(store *Store) repository.RoleRepository {
	return &roleRepository{store: store}
}

// SeedPermission inserts a permission into the catalog; the production
// catalog is seeded by migrations.
func (s *Store) SeedPermission(p models.Permission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permissions[p.ID.String()] = &permissionRecord{permission: p}
}

func (r *roleRepository) Create(ctx context.Context, role *models.Role) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.roles {
		if rec.role.Name == role.Name {
			return domainErrors.NewDuplicateKeyError("name")
		}
	}
	copied := *role
	r.store.roles[role.ID.String()] = &roleRecord{role: copied}
	return nil
}

func (r *roleRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.roles[id.String()]
	if !ok {
		return nil, domainErrors.ErrRoleNotFound
	}
	copied := rec.role
	return &copied, nil
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.roles {
		if rec.role.Name == name {
			copied := rec.role
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrRoleNotFound
}

func (r *roleRepository) List(ctx context.Context) ([]models.Role, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var roles []models.Role
	for _, rec := range r.store.roles {
		roles = append(roles, rec.role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

func (r *roleRepository) Update(ctx context.Context, role *models.Role) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.roles[role.ID.String()]
	if !ok {
		return domainErrors.ErrRoleNotFound
	}
	for id, other := range r.store.roles {
		if id != role.ID.String() && other.role.Name == role.Name {
			return domainErrors.NewDuplicateKeyError("name")
		}
	}
	rec.role.Name = role.Name
	rec.role.Description = role.Description
	rec.role.UpdatedAt = time.Now()
	return nil
}

func (r *roleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.roles[id.String()]; !ok {
		return domainErrors.ErrRoleNotFound
	}
	delete(r.store.roles, id.String())
	delete(r.store.rolePerms, id.String())
	for _, assigned := range r.store.userRoles {
		delete(assigned, id.String())
	}
	return nil
}

func (r *roleRepository) AssignToUser(ctx context.Context, userID, roleID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	assigned, ok := r.store.userRoles[userID.String()]
	if !ok {
		assigned = map[string]struct{}{}
		r.store.userRoles[userID.String()] = assigned
	}
	assigned[roleID.String()] = struct{}{}
	return nil
}

func (r *roleRepository) RemoveFromUser(ctx context.Context, userID, roleID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if assigned, ok := r.store.userRoles[userID.String()]; ok {
		delete(assigned, roleID.String())
	}
	return nil
}

func (r *roleRepository) GetRolesForUser(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var roles []models.Role
	for roleID := range r.store.userRoles[userID.String()] {
		if rec, ok := r.store.roles[roleID]; ok {
			roles = append(roles, rec.role)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

func (r *roleRepository) AssignPermission(ctx context.Context, roleID, permissionID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	linked, ok := r.store.rolePerms[roleID.String()]
	if !ok {
		linked = map[string]struct{}{}
		r.store.rolePerms[roleID.String()] = linked
	}
	linked[permissionID.String()] = struct{}{}
	return nil
}

func (r *roleRepository) RemovePermission(ctx context.Context, roleID, permissionID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if linked, ok := r.store.rolePerms[roleID.String()]; ok {
		delete(linked, permissionID.String())
	}
	return nil
}

func (r *roleRepository) GetPermissionsForRole(ctx context.Context, roleID uuid.UUID) ([]models.Permission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.permissionsLocked(map[string]struct{}{roleID.String(): {}}), nil
}

func (r *roleRepository) GetPermissionsForUser(ctx context.Context, userID uuid.UUID) ([]models.Permission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.permissionsLocked(r.store.userRoles[userID.String()]), nil
}

func (r *roleRepository) permissionsLocked(roleIDs map[string]struct{}) []models.Permission {
	seen := map[string]struct{}{}
	var perms []models.Permission
	for roleID := range roleIDs {
		for permID := range r.store.rolePerms[roleID] {
			if _, dup := seen[permID]; dup {
				continue
			}
			seen[permID] = struct{}{}
			if rec, ok := r.store.permissions[permID]; ok {
				perms = append(perms, rec.permission)
			}
		}
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].Name < perms[j].Name })
	return perms
}

var _ repository.RoleRepository = (*roleRepository)(nil)

type permissionRepository struct {
	store *Store
}

// NewPermissionRepository creates an in-memory permission catalog.
func NewPermissionRepository(store *Store) repository.PermissionRepository {
	return &permissionRepository{store: store}
}

func (r *permissionRepository) List(ctx context.Context) ([]models.Permission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var perms []models.Permission
	for _, rec := range r.store.permissions {
		perms = append(perms, rec.permission)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].Name < perms[j].Name })
	return perms, nil
}

func (r *permissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Permission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.permissions[id.String()]
	if !ok {
		return nil, domainErrors.ErrPermissionNotFound
	}
	copied := rec.permission
	return &copied, nil
}

func (r *permissionRepository) FindByName(ctx context.Context, name string) (*models.Permission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.permissions {
		if rec.permission.Name == name {
			copied := rec.permission
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrPermissionNotFound
}

var _ repository.PermissionRepository = (*permissionRepository)(nil)
