package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/interfaces"
	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/domain/repository"
	"github.com/loreline/identity-service/internal/events/kafka"
	"github.com/loreline/identity-service/internal/infrastructure/security"
	"github.com/loreline/identity-service/internal/utils/random"
)

// usernameSuffixBytes sizes the random suffix appended on username collisions.
const usernameSuffixBytes = 3

// OAuthService implements federated login. Account linking is shared across
// providers: match on (provider, external id) first, then link by verified
// email, then create a fresh account with an unusable random password.
type OAuthService struct {
	providers map[string]interfaces.ExternalIdentityProvider
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	tokens    *TokenService
	hasher    *security.PasswordHasher
	publisher EventPublisher
	logger    *zap.Logger
}

// NewOAuthService creates a new OAuthService over the configured providers.
func NewOAuthService(
	providers []interfaces.ExternalIdentityProvider,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	tokens *TokenService,
	hasher *security.PasswordHasher,
	publisher EventPublisher,
	logger *zap.Logger,
) *OAuthService {
	byName := make(map[string]interfaces.ExternalIdentityProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &OAuthService{
		providers: byName,
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		tokens:    tokens,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger.Named("oauth_service"),
	}
}

// AuthCodeURL returns the consent-page URL for the named provider.
func (s *OAuthService) AuthCodeURL(provider, state string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", fmt.Errorf("%w: unknown oauth provider %q", domainErrors.ErrNotFound, provider)
	}
	return p.AuthCodeURL(state), nil
}

// HandleCallback completes the OAuth code flow: exchanges the code, fetches
// the profile, resolves it to a local account and signs a token pair.
func (s *OAuthService) HandleCallback(ctx context.Context, provider, code string) (*models.AuthResult, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: unknown oauth provider %q", domainErrors.ErrNotFound, provider)
	}

	token, err := p.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("oauth code exchange failed",
			zap.String("provider", provider), zap.Error(err))
		return nil, fmt.Errorf("%w: code exchange rejected", domainErrors.ErrUnauthorized)
	}

	profile, err := p.FetchProfile(ctx, token)
	if err != nil {
		s.logger.Warn("oauth profile fetch failed",
			zap.String("provider", provider), zap.Error(err))
		return nil, fmt.Errorf("%w: profile fetch failed", domainErrors.ErrUnauthorized)
	}

	user, created, err := s.resolveAccount(ctx, profile)
	if err != nil {
		return nil, err
	}

	roles := s.roleNamesFor(ctx, user.ID)

	pair, err := s.tokens.IssuePair(ctx, user, roles)
	if err != nil {
		return nil, err
	}

	eventType := kafka.UserLoginV1
	if created {
		eventType = kafka.UserRegisteredV1
	}
	if err := publish(ctx, s.publisher, eventType, user.ID.String(), kafka.UserEventPayload{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	}); err != nil {
		s.logger.Warn("failed to publish oauth event", zap.Error(err))
	}

	return &models.AuthResult{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// resolveAccount maps an external profile to a local user, creating or
// linking as needed. Reports whether a new account was created.
func (s *OAuthService) resolveAccount(ctx context.Context, profile *models.ExternalProfile) (*models.User, bool, error) {
	user, err := s.userRepo.FindByProvider(ctx, profile.Provider, profile.ExternalID)
	if err == nil {
		return user, false, nil
	}
	if !domainErrors.IsNotFound(err) {
		return nil, false, err
	}

	if profile.Email != "" {
		user, err = s.userRepo.FindByEmail(ctx, strings.ToLower(profile.Email))
		if err == nil {
			// Existing local account with the same email: link the provider
			// identity to it instead of creating a duplicate.
			if lerr := s.userRepo.LinkProvider(ctx, user.ID, profile.Provider, profile.ExternalID); lerr != nil {
				return nil, false, lerr
			}
			user.Provider = &profile.Provider
			user.ProviderID = &profile.ExternalID
			return user, false, nil
		}
		if !domainErrors.IsNotFound(err) {
			return nil, false, err
		}
	}

	user, err = s.createFromProfile(ctx, profile)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *OAuthService) createFromProfile(ctx context.Context, profile *models.ExternalProfile) (*models.User, error) {
	// Federated accounts never log in with a password, but the column is
	// non-null; a long random value keeps the credential path closed.
	password, err := random.Password(32)
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	username := usernameFromProfile(profile)
	displayName := profile.DisplayName
	if displayName == "" {
		displayName = username
	}

	var avatar *string
	if profile.AvatarURL != "" {
		avatar = &profile.AvatarURL
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(profile.Email),
		Username:     username,
		PasswordHash: hash,
		DisplayName:  displayName,
		Provider:     &profile.Provider,
		ProviderID:   &profile.ExternalID,
		ProfileImage: avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.userRepo.Create(ctx, user)
	var dup *domainErrors.DuplicateKeyError
	if errors.As(err, &dup) && dup.Field == "username" {
		// Username collision with an unrelated account; retry once with a
		// random suffix.
		suffix, serr := random.Hex(usernameSuffixBytes)
		if serr != nil {
			return nil, serr
		}
		user.Username = username + "-" + suffix
		if user.DisplayName == username {
			user.DisplayName = user.Username
		}
		err = s.userRepo.Create(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	if role, rerr := s.roleRepo.FindByName(ctx, DefaultUserRole); rerr == nil {
		if aerr := s.roleRepo.AssignToUser(ctx, user.ID, role.ID); aerr != nil {
			s.logger.Warn("failed to assign default role", zap.Error(aerr))
		}
	}

	return user, nil
}

func (s *OAuthService) roleNamesFor(ctx context.Context, userID uuid.UUID) []string {
	roles, err := s.roleRepo.GetRolesForUser(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load roles", zap.String("user_id", userID.String()), zap.Error(err))
		return nil
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}

// usernameFromProfile derives a local username from the external profile,
// preferring the email local part.
func usernameFromProfile(profile *models.ExternalProfile) string {
	if profile.Email != "" {
		if at := strings.IndexByte(profile.Email, '@'); at > 0 {
			return sanitizeUsername(profile.Email[:at])
		}
	}
	if profile.DisplayName != "" {
		return sanitizeUsername(profile.DisplayName)
	}
	return profile.Provider + "-" + profile.ExternalID
}

func sanitizeUsername(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
