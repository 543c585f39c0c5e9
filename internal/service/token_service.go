package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/loreline/identity-service/internal/domain/errors"
	"github.com/loreline/identity-service/internal/domain/models"
	"github.com/loreline/identity-service/internal/domain/repository"
	"github.com/loreline/identity-service/internal/infrastructure/security"
	"github.com/loreline/identity-service/internal/utils/metrics"
)

// TokenService owns the refresh token lifecycle: issuing pairs, validating
// presented refresh tokens against the store, and rotating them.
type TokenService struct {
	jwt         *security.JWTService
	refreshRepo repository.RefreshTokenRepository
	logger      *zap.Logger
}

// NewTokenService creates a new TokenService.
func NewTokenService(jwt *security.JWTService, refreshRepo repository.RefreshTokenRepository, logger *zap.Logger) *TokenService {
	return &TokenService{
		jwt:         jwt,
		refreshRepo: refreshRepo,
		logger:      logger.Named("token_service"),
	}
}

// IssuePair signs a new access+refresh pair and persists the refresh token.
func (s *TokenService) IssuePair(ctx context.Context, user *models.User, roles []string) (models.TokenPair, error) {
	accessToken, err := s.jwt.IssueAccess(user.ID, user.Username, roles)
	if err != nil {
		return models.TokenPair{}, err
	}
	refreshToken, err := s.jwt.IssueRefresh(user.ID)
	if err != nil {
		return models.TokenPair{}, err
	}

	now := time.Now()
	record := &models.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.jwt.RefreshTTL()),
		CreatedAt: now,
	}
	if err := s.refreshRepo.Create(ctx, record); err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ValidateRefresh checks a presented refresh token against the store.
// Precedence: absent beats revoked beats expired. A revoked presentation is
// treated as token theft: every active token for the owner is revoked before
// the failure is reported, so a racing replay cannot land after the flag.
func (s *TokenService) ValidateRefresh(ctx context.Context, token string) (*models.RefreshToken, error) {
	record, err := s.refreshRepo.Find(ctx, token)
	if err != nil {
		return nil, err
	}

	if record.IsRevoked {
		metrics.TokenReuseDetectedTotal.Inc()
		s.logger.Warn("revoked refresh token presented, revoking session family",
			zap.String("user_id", record.UserID.String()))
		if err := s.refreshRepo.RevokeAllForUser(ctx, record.UserID); err != nil {
			return nil, err
		}
		return nil, domainErrors.ErrRevokedToken
	}

	if record.Expired(time.Now()) {
		return nil, domainErrors.ErrExpiredToken
	}

	return record, nil
}

// Rotate atomically replaces oldToken with a freshly issued pair. The store
// guarantees revoke+insert happen together; a lost race surfaces as
// ErrRevokedToken and no new tokens exist.
func (s *TokenService) Rotate(ctx context.Context, oldToken string, user *models.User, roles []string) (models.TokenPair, error) {
	accessToken, err := s.jwt.IssueAccess(user.ID, user.Username, roles)
	if err != nil {
		return models.TokenPair{}, err
	}
	refreshToken, err := s.jwt.IssueRefresh(user.ID)
	if err != nil {
		return models.TokenPair{}, err
	}

	now := time.Now()
	record := &models.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.jwt.RefreshTTL()),
		CreatedAt: now,
	}
	if err := s.refreshRepo.Rotate(ctx, oldToken, record); err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Revoke marks a single token revoked; never fails on unknown tokens.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	return s.refreshRepo.Revoke(ctx, token)
}

// RevokeAll revokes every refresh token owned by the user.
func (s *TokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return s.refreshRepo.RevokeAllForUser(ctx, userID)
}

// VerifyAccess parses an access token and returns its claims.
func (s *TokenService) VerifyAccess(token string) (*security.Claims, error) {
	return s.jwt.Verify(token, security.AccessToken)
}

// VerifyRefreshSignature checks only the JWT layer of a refresh token.
func (s *TokenService) VerifyRefreshSignature(token string) (*security.Claims, error) {
	return s.jwt.Verify(token, security.RefreshToken)
}
