package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loreline/identity-service/internal/config"
	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/domain/repository"
	"github.com/loreline/identity-service/internal/infrastructure/memory"
	"github.com/loreline/identity-service/internal/infrastructure/security"
)

// testEnv wires the services over the in-memory store.
type testEnv struct {
	store       *memory.Store
	userRepo    repository.UserRepository
	refreshRepo repository.RefreshTokenRepository
	resetRepo   repository.PasswordResetRepository
	roleRepo    repository.RoleRepository
	permRepo    repository.PermissionRepository
	jwt         *security.JWTService
	hasher      *security.PasswordHasher
	tokens      *TokenService
	auth        *AuthService
	reset       *PasswordResetService
	rbac        *RBACService
	roles       *RoleService
	sender      *recordingSender
}

// recordingSender captures reset tokens instead of delivering them.
type recordingSender struct {
	emails []string
	tokens []string
}

func (r *recordingSender) SendPasswordReset(_ context.Context, email, token string) error {
	r.emails = append(r.emails, email)
	r.tokens = append(r.tokens, token)
	return nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	logger := zap.NewNop()

	jwtService := security.NewJWTService(config.JWTConfig{
		AccessSecret:    "test-access-secret",
		RefreshSecret:   "test-refresh-secret",
		AccessTokenTTL:  "15m",
		RefreshTokenTTL: "7d",
		Issuer:          "identity-service-test",
	})
	hasher := security.NewPasswordHasher(4)

	env := &testEnv{
		store:       store,
		userRepo:    memory.NewUserRepository(store),
		refreshRepo: memory.NewRefreshTokenRepository(store),
		resetRepo:   memory.NewPasswordResetRepository(store),
		roleRepo:    memory.NewRoleRepository(store),
		permRepo:    memory.NewPermissionRepository(store),
		jwt:         jwtService,
		hasher:      hasher,
		sender:      &recordingSender{},
	}

	env.tokens = NewTokenService(jwtService, env.refreshRepo, logger)
	env.auth = NewAuthService(env.userRepo, env.roleRepo, env.tokens, hasher, nil, logger)
	env.reset = NewPasswordResetService(
		env.userRepo, env.resetRepo, env.refreshRepo, store, hasher,
		env.sender, nil, time.Hour, 32, logger,
	)
	env.rbac = NewRBACService(env.roleRepo, logger)
	env.roles = NewRoleService(env.roleRepo, env.permRepo, env.userRepo, logger)

	// Seed the roles the migrations create.
	for _, name := range []string{"user", "admin"} {
		now := time.Now()
		require.NoError(t, env.roleRepo.Create(context.Background(), &models.Role{
			ID:        uuid.New(),
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}))
	}

	return env
}

func (e *testEnv) register(t *testing.T, username string) *models.AuthResult {
	t.Helper()
	result, err := e.auth.Register(context.Background(), models.RegisterRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: "initial-password",
	})
	require.NoError(t, err)
	return result
}
