package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/models"
)

func TestRBACService_CheckAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	result := env.register(t, "harry")

	// Registration granted the "user" role.
	ok, err := env.rbac.CheckAccess(ctx, result.User.ID, "user")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.rbac.CheckAccess(ctx, result.User.ID, "admin")
	require.NoError(t, err)
	assert.False(t, ok)

	// Any of the listed roles suffices.
	ok, err = env.rbac.CheckAccess(ctx, result.User.ID, "admin", "user")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRBACService_EmptyRequirementAllowsAnyone(t *testing.T) {
	env := newTestEnv(t)

	ok, err := env.rbac.CheckAccess(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRBACService_HasPermission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	result := env.register(t, "harry")

	perm := models.Permission{
		ID:        uuid.New(),
		Name:      "users.read",
		CreatedAt: time.Now(),
	}
	env.store.SeedPermission(perm)

	role, err := env.roleRepo.FindByName(ctx, "user")
	require.NoError(t, err)
	require.NoError(t, env.roleRepo.AssignPermission(ctx, role.ID, perm.ID))

	ok, err := env.rbac.HasPermission(ctx, result.User.ID, "users.read")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.rbac.HasPermission(ctx, result.User.ID, "users.delete")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRoleService_CRUDAndAssignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	result := env.register(t, "harry")

	created, err := env.roles.CreateRole(ctx, models.RoleRequest{Name: "moderator"})
	require.NoError(t, err)

	_, err = env.roles.CreateRole(ctx, models.RoleRequest{Name: "moderator"})
	assert.True(t, domainErrors.IsConflict(err))

	require.NoError(t, env.roles.AssignRoleToUser(ctx, result.User.ID, created.ID))
	// Re-assignment is a no-op.
	require.NoError(t, env.roles.AssignRoleToUser(ctx, result.User.ID, created.ID))

	names, err := env.rbac.RolesForUser(ctx, result.User.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user", "moderator"}, names)

	require.NoError(t, env.roles.RemoveRoleFromUser(ctx, result.User.ID, created.ID))
	names, err = env.rbac.RolesForUser(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user"}, names)

	require.NoError(t, env.roles.DeleteRole(ctx, created.ID))
	_, err = env.roles.GetRole(ctx, created.ID)
	assert.True(t, domainErrors.IsNotFound(err))
}

func TestRoleService_AssignToMissingUserFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	role, err := env.roleRepo.FindByName(ctx, "user")
	require.NoError(t, err)

	err = env.roles.AssignRoleToUser(ctx, uuid.New(), role.ID)
	assert.True(t, domainErrors.IsNotFound(err))
}
