package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/models"
)

func TestAuthService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.auth.Register(ctx, models.RegisterRequest{
		Email:       "Harry@Example.com",
		Username:    "harry",
		Password:    "alohomora123",
		DisplayName: "Harry P",
	})
	require.NoError(t, err)

	assert.Equal(t, "harry@example.com", result.User.Email)
	assert.Equal(t, "harry", result.User.Username)
	assert.Equal(t, "Harry P", result.User.DisplayName)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	// The stored record never carries the plaintext.
	user, err := env.userRepo.FindByUsername(ctx, "harry")
	require.NoError(t, err)
	assert.NotEqual(t, "alohomora123", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestAuthService_RegisterAssignsDefaultRole(t *testing.T) {
	env := newTestEnv(t)
	result := env.register(t, "harry")

	names, err := env.rbac.RolesForUser(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user"}, names)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "harry")

	_, err := env.auth.Register(ctx, models.RegisterRequest{
		Email:    "harry@example.com",
		Username: "different",
		Password: "alohomora123",
	})

	var dup *domainErrors.DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "email", dup.Field)
	assert.True(t, domainErrors.IsConflict(err))
}

func TestAuthService_RegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "harry")

	_, err := env.auth.Register(ctx, models.RegisterRequest{
		Email:    "other@example.com",
		Username: "harry",
		Password: "alohomora123",
	})

	var dup *domainErrors.DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "username", dup.Field)
}

func TestAuthService_RegisterShortPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(context.Background(), models.RegisterRequest{
		Email:    "harry@example.com",
		Username: "harry",
		Password: "short",
	})
	assert.ErrorIs(t, err, domainErrors.ErrPasswordTooShort)
}

func TestAuthService_LoginByUsernameAndEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "harry")

	byUsername, err := env.auth.Login(ctx, models.LoginRequest{
		UsernameOrEmail: "harry",
		Password:        "initial-password",
	})
	require.NoError(t, err)

	byEmail, err := env.auth.Login(ctx, models.LoginRequest{
		UsernameOrEmail: "harry@example.com",
		Password:        "initial-password",
	})
	require.NoError(t, err)

	assert.Equal(t, byUsername.User.ID, byEmail.User.ID)
	assert.NotEqual(t, byUsername.RefreshToken, byEmail.RefreshToken)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "harry")

	_, wrongPassword := env.auth.Login(ctx, models.LoginRequest{
		UsernameOrEmail: "harry",
		Password:        "wrong-password",
	})
	_, unknownUser := env.auth.Login(ctx, models.LoginRequest{
		UsernameOrEmail: "nobody",
		Password:        "initial-password",
	})

	assert.ErrorIs(t, wrongPassword, domainErrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, domainErrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	result := env.register(t, "harry")

	pair, err := env.auth.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, result.RefreshToken, pair.RefreshToken)
	assert.NotEmpty(t, pair.AccessToken)

	// The new access token verifies and names the same subject.
	claims, err := env.tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	subject, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, subject)
}

func TestAuthService_RefreshWithGarbageToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidRefreshToken)
}

func TestAuthService_RefreshWithForeignSignedToken(t *testing.T) {
	env := newTestEnv(t)
	result := env.register(t, "harry")

	// A signed but never persisted token is rejected without revealing that
	// it was absent rather than malformed.
	user, err := env.userRepo.FindByID(context.Background(), result.User.ID)
	require.NoError(t, err)
	orphan, err := env.jwt.IssueRefresh(user.ID)
	require.NoError(t, err)

	_, err = env.auth.Refresh(context.Background(), orphan)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidRefreshToken)
}

func TestAuthService_ReplayedRefreshTokenRevokesAllSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	result := env.register(t, "harry")

	// Rotate once; the original token is now retired.
	pair, err := env.auth.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)

	// Replaying the retired token is reuse; it fails and takes the live
	// descendant down with it. The caller sees the same error as for any
	// other bad token.
	_, err = env.auth.Refresh(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidRefreshToken)

	_, err = env.auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidRefreshToken)
}

func TestAuthService_LogoutIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	result := env.register(t, "harry")

	require.NoError(t, env.auth.Logout(ctx, result.RefreshToken))
	require.NoError(t, env.auth.Logout(ctx, result.RefreshToken))
	require.NoError(t, env.auth.Logout(ctx, "never-issued"))

	// The revoked session cannot refresh.
	_, err := env.auth.Refresh(ctx, result.RefreshToken)
	assert.Error(t, err)
}

func TestAuthService_LogoutAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	result := env.register(t, "harry")

	second, err := env.auth.Login(ctx, models.LoginRequest{
		UsernameOrEmail: "harry",
		Password:        "initial-password",
	})
	require.NoError(t, err)

	require.NoError(t, env.auth.LogoutAll(ctx, result.User.ID))

	_, err = env.auth.Refresh(ctx, result.RefreshToken)
	assert.Error(t, err)
	_, err = env.auth.Refresh(ctx, second.RefreshToken)
	assert.Error(t, err)
}
