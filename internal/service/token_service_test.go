package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/models"
)

func TestTokenService_IssuePairPersistsRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	result := env.register(t, "harry")

	record, err := env.refreshRepo.Find(ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, record.UserID)
	assert.False(t, record.IsRevoked)
	assert.True(t, record.ExpiresAt.After(time.Now()))
}

func TestTokenService_ValidateRefreshUnknownToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tokens.ValidateRefresh(context.Background(), "never-issued")
	assert.True(t, domainErrors.IsNotFound(err))
}

func TestTokenService_ValidateRefreshExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	result := env.register(t, "harry")

	require.NoError(t, env.refreshRepo.Create(ctx, &models.RefreshToken{
		Token:     "stale-token",
		UserID:    result.User.ID,
		ExpiresAt: time.Now().Add(-time.Second),
		CreatedAt: time.Now().Add(-time.Hour),
	}))

	_, err := env.tokens.ValidateRefresh(ctx, "stale-token")
	assert.ErrorIs(t, err, domainErrors.ErrExpiredToken)
}

func TestTokenService_ValidateRefreshRevokedTokenKillsFamily(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	result := env.register(t, "harry")

	// Second session for the same user.
	login, err := env.auth.Login(ctx, models.LoginRequest{
		UsernameOrEmail: "harry",
		Password:        "initial-password",
	})
	require.NoError(t, err)

	require.NoError(t, env.refreshRepo.Revoke(ctx, result.RefreshToken))

	_, err = env.tokens.ValidateRefresh(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, domainErrors.ErrRevokedToken)

	// The unrelated session is revoked too.
	other, err := env.refreshRepo.Find(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.True(t, other.IsRevoked)
}

func TestTokenService_RotateRetiresOldToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	result := env.register(t, "harry")

	user, err := env.userRepo.FindByID(ctx, result.User.ID)
	require.NoError(t, err)

	pair, err := env.tokens.Rotate(ctx, result.RefreshToken, user, []string{"user"})
	require.NoError(t, err)
	assert.NotEqual(t, result.RefreshToken, pair.RefreshToken)

	old, err := env.refreshRepo.Find(ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.True(t, old.IsRevoked)

	fresh, err := env.refreshRepo.Find(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.False(t, fresh.IsRevoked)
}

func TestTokenService_RotateOfRevokedTokenFailsWithoutIssuing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	result := env.register(t, "harry")

	user, err := env.userRepo.FindByID(ctx, result.User.ID)
	require.NoError(t, err)

	require.NoError(t, env.refreshRepo.Revoke(ctx, result.RefreshToken))

	_, err = env.tokens.Rotate(ctx, result.RefreshToken, user, nil)
	assert.ErrorIs(t, err, domainErrors.ErrRevokedToken)
}
