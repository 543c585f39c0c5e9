package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/interfaces"
	"github.com/loreline/identity-service/internal/domain/models"
)

// fakeProvider stands in for a real OAuth backend.
type fakeProvider struct {
	name        string
	profile     *models.ExternalProfile
	exchangeErr error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.example.com/authorize?state=" + state
}

func (f *fakeProvider) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &oauth2.Token{AccessToken: "provider-token-" + code}, nil
}

func (f *fakeProvider) FetchProfile(_ context.Context, _ *oauth2.Token) (*models.ExternalProfile, error) {
	return f.profile, nil
}

func newOAuthEnv(t *testing.T, providers ...interfaces.ExternalIdentityProvider) (*testEnv, *OAuthService) {
	t.Helper()
	env := newTestEnv(t)
	svc := NewOAuthService(providers, env.userRepo, env.roleRepo, env.tokens, env.hasher, nil, zap.NewNop())
	return env, svc
}

func TestOAuthService_CallbackCreatesAccount(t *testing.T) {
	provider := &fakeProvider{
		name: "google",
		profile: &models.ExternalProfile{
			Provider:    "google",
			ExternalID:  "google-123",
			Email:       "Hermione@Example.com",
			DisplayName: "Hermione Granger",
			AvatarURL:   "https://avatars.example.com/hermione.png",
		},
	}
	env, svc := newOAuthEnv(t, provider)
	ctx := context.Background()

	result, err := svc.HandleCallback(ctx, "google", "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "hermione@example.com", result.User.Email)
	assert.Equal(t, "hermione", result.User.Username)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	user, err := env.userRepo.FindByProvider(ctx, "google", "google-123")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)
	// Federated accounts still get a hash, but never an empty one.
	assert.NotEmpty(t, user.PasswordHash)

	// The default role applies to federated signups too.
	names, err := env.rbac.RolesForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user"}, names)
}

func TestOAuthService_CallbackIsStableAcrossLogins(t *testing.T) {
	provider := &fakeProvider{
		name: "github",
		profile: &models.ExternalProfile{
			Provider:   "github",
			ExternalID: "gh-42",
			Email:      "ron@example.com",
		},
	}
	_, svc := newOAuthEnv(t, provider)
	ctx := context.Background()

	first, err := svc.HandleCallback(ctx, "github", "code-1")
	require.NoError(t, err)
	second, err := svc.HandleCallback(ctx, "github", "code-2")
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestOAuthService_CallbackLinksExistingEmailAccount(t *testing.T) {
	provider := &fakeProvider{
		name: "google",
		profile: &models.ExternalProfile{
			Provider:   "google",
			ExternalID: "google-777",
			Email:      "harry@example.com",
		},
	}
	env, svc := newOAuthEnv(t, provider)
	ctx := context.Background()

	local := env.register(t, "harry")

	result, err := svc.HandleCallback(ctx, "google", "auth-code")
	require.NoError(t, err)
	assert.Equal(t, local.User.ID, result.User.ID)

	user, err := env.userRepo.FindByID(ctx, local.User.ID)
	require.NoError(t, err)
	require.NotNil(t, user.Provider)
	assert.Equal(t, "google", *user.Provider)

	// The original password still works after linking.
	_, err = env.auth.Login(ctx, models.LoginRequest{
		UsernameOrEmail: "harry",
		Password:        "initial-password",
	})
	assert.NoError(t, err)
}

func TestOAuthService_UsernameCollisionGetsSuffix(t *testing.T) {
	provider := &fakeProvider{
		name: "google",
		profile: &models.ExternalProfile{
			Provider:   "google",
			ExternalID: "google-999",
			Email:      "harry@elsewhere.example.com",
		},
	}
	env, svc := newOAuthEnv(t, provider)
	ctx := context.Background()

	env.register(t, "harry")

	result, err := svc.HandleCallback(ctx, "google", "auth-code")
	require.NoError(t, err)

	assert.NotEqual(t, "harry", result.User.Username)
	assert.Contains(t, result.User.Username, "harry-")
}

func TestOAuthService_UnknownProvider(t *testing.T) {
	_, svc := newOAuthEnv(t)

	_, err := svc.AuthCodeURL("gitlab", "state")
	assert.True(t, domainErrors.IsNotFound(err))

	_, err = svc.HandleCallback(context.Background(), "gitlab", "code")
	assert.True(t, domainErrors.IsNotFound(err))
}

func TestOAuthService_ExchangeFailureIsUnauthorized(t *testing.T) {
	provider := &fakeProvider{
		name:        "google",
		exchangeErr: errors.New("provider said no"),
	}
	_, svc := newOAuthEnv(t, provider)

	_, err := svc.HandleCallback(context.Background(), "google", "bad-code")
	assert.True(t, domainErrors.IsUnauthorized(err))
}
