package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/domain/repository"
	"github.com/loreline/identity-service/internal/events/kafka"
	"github.com/loreline/identity-service/internal/infrastructure/security"
	"github.com/loreline/identity-service/internal/utils/metrics"
)

// DefaultUserRole is assigned to every newly registered account.
const DefaultUserRole = "user"

// AuthService implements registration, credential login and the refresh
// token exchange.
type AuthService struct {
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	tokens    *TokenService
	hasher    *security.PasswordHasher
	publisher EventPublisher
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	tokens *TokenService,
	hasher *security.PasswordHasher,
	publisher EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		tokens:    tokens,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger.Named("auth_service"),
	}
}

// Register creates a new local account and signs the first token pair.
// Email and username conflicts surface as *errors.DuplicateKeyError naming
// the offending field.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	if len(req.Password) < 8 {
		return nil, domainErrors.ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		DisplayName:  displayName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		metrics.RegistrationAttemptsTotal.WithLabelValues("conflict").Inc()
		return nil, err
	}
	metrics.RegistrationAttemptsTotal.WithLabelValues("success").Inc()

	roles := s.assignDefaultRole(ctx, user.ID)

	pair, err := s.tokens.IssuePair(ctx, user, roles)
	if err != nil {
		return nil, err
	}

	if err := publish(ctx, s.publisher, kafka.UserRegisteredV1, user.ID.String(), kafka.UserEventPayload{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	}); err != nil {
		s.logger.Warn("failed to publish registration event", zap.Error(err))
	}

	return &models.AuthResult{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Login authenticates by username or email plus password. Unknown principal
// and wrong password both collapse to ErrInvalidCredentials; a constant-cost
// bcrypt comparison runs either way so the two cases take comparable time.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	user, err := s.findByPrincipal(ctx, req.UsernameOrEmail)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			s.hasher.CompareDummy(req.Password)
			metrics.LoginAttemptsTotal.WithLabelValues("unknown_user").Inc()
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == "" || !s.hasher.Verify(req.Password, user.PasswordHash) {
		metrics.LoginAttemptsTotal.WithLabelValues("bad_password").Inc()
		return nil, domainErrors.ErrInvalidCredentials
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	roles := s.roleNames(ctx, user.ID)

	pair, err := s.tokens.IssuePair(ctx, user, roles)
	if err != nil {
		return nil, err
	}

	if err := publish(ctx, s.publisher, kafka.UserLoginV1, user.ID.String(), kafka.UserEventPayload{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	}); err != nil {
		s.logger.Warn("failed to publish login event", zap.Error(err))
	}

	return &models.AuthResult{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Refresh exchanges a live refresh token for a new pair and retires the old
// one. Every failure mode collapses to ErrInvalidRefreshToken so callers
// cannot probe which check failed; reuse and expiry stay distinct only in
// metrics and logs.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshSignature(refreshToken)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("invalid").Inc()
		return nil, domainErrors.ErrInvalidRefreshToken
	}

	record, err := s.tokens.ValidateRefresh(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrRevokedToken):
			metrics.TokenRefreshTotal.WithLabelValues("reuse_detected").Inc()
			if perr := publish(ctx, s.publisher, kafka.TokenReuseDetectedV1, claims.Subject, kafka.TokenEventPayload{
				UserID:     claims.Subject,
				OccurredAt: time.Now(),
			}); perr != nil {
				s.logger.Warn("failed to publish reuse event", zap.Error(perr))
			}
			return nil, domainErrors.ErrInvalidRefreshToken
		case errors.Is(err, domainErrors.ErrExpiredToken):
			metrics.TokenRefreshTotal.WithLabelValues("expired").Inc()
			return nil, domainErrors.ErrInvalidRefreshToken
		case domainErrors.IsNotFound(err):
			metrics.TokenRefreshTotal.WithLabelValues("unknown").Inc()
			return nil, domainErrors.ErrInvalidRefreshToken
		default:
			return nil, err
		}
	}

	subject, err := claims.SubjectID()
	if err != nil || subject != record.UserID {
		// The signature verified but the stored owner disagrees with the
		// claims. Treat as invalid rather than trusting either side.
		metrics.TokenRefreshTotal.WithLabelValues("invalid").Inc()
		return nil, domainErrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, record.UserID)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			return nil, domainErrors.ErrInvalidRefreshToken
		}
		return nil, err
	}

	roles := s.roleNames(ctx, user.ID)

	pair, err := s.tokens.Rotate(ctx, refreshToken, user, roles)
	if err != nil {
		if errors.Is(err, domainErrors.ErrRevokedToken) {
			metrics.TokenRefreshTotal.WithLabelValues("reuse_detected").Inc()
		}
		return nil, err
	}
	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()

	if err := publish(ctx, s.publisher, kafka.TokenRefreshedV1, user.ID.String(), kafka.TokenEventPayload{
		UserID:     user.ID.String(),
		OccurredAt: time.Now(),
	}); err != nil {
		s.logger.Warn("failed to publish refresh event", zap.Error(err))
	}

	return &pair, nil
}

// Logout revokes the presented refresh token. Unknown or already revoked
// tokens are not errors; the caller's session is dead either way.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil && !domainErrors.IsNotFound(err) {
		s.logger.Warn("logout revoke failed", zap.Error(err))
	}
	return nil
}

// LogoutAll revokes every refresh token owned by the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.tokens.RevokeAll(ctx, userID)
}

// GetUser returns the user record for an authenticated subject.
func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthService) findByPrincipal(ctx context.Context, principal string) (*models.User, error) {
	principal = strings.TrimSpace(principal)
	if strings.Contains(principal, "@") {
		return s.userRepo.FindByEmail(ctx, strings.ToLower(principal))
	}
	return s.userRepo.FindByUsername(ctx, principal)
}

func (s *AuthService) assignDefaultRole(ctx context.Context, userID uuid.UUID) []string {
	role, err := s.roleRepo.FindByName(ctx, DefaultUserRole)
	if err != nil {
		s.logger.Warn("default role missing, user created without roles", zap.Error(err))
		return nil
	}
	if err := s.roleRepo.AssignToUser(ctx, userID, role.ID); err != nil {
		s.logger.Warn("failed to assign default role", zap.Error(err))
		return nil
	}
	return []string{role.Name}
}

func (s *AuthService) roleNames(ctx context.Context, userID uuid.UUID) []string {
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
